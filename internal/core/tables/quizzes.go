package tables

import (
	"math/rand/v2"

	"github.com/JonMunkholm/admindash/internal/core"
)

func init() {
	registerQuizzes()
}

var (
	quizNames = []string{
		"Math Fundamentals",
		"English Grammar Test",
		"Science Challenge",
		"History Quiz",
		"Programming Basics",
		"Geography Trivia",
		"Physics Concepts",
		"Biology Lab Quiz",
		"Current Affairs",
		"AI & ML Knowledge",
	}
	quizAuthors = []string{"John Doe", "Mary Smith", "James Parker", "Sarah Lee"}
	quizEmails  = []string{"john@school.com", "mary@school.com", "james@school.com", "sarah@school.com"}
)

func registerQuizzes() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "quizzes",
			Group:       "Learning",
			Label:       "Quizzes",
			Description: "Quizzes with attempt counts and average scores",
			EmptyText:   "No quizzes found.",
			TextFilter:  true,
			DateFilter:  true,
			Draggable:   true,
		},
		Schema: core.Schema{
			Columns: []core.Column{
				{Key: "name", Label: "Quiz Name", Kind: core.KindText, Sortable: true},
				{Key: "created_at", Label: "Created At", Kind: core.KindDate, Sortable: true},
				{Key: "total_attempts", Label: "Total Attempts", Kind: core.KindNumber, Sortable: true},
				{Key: "avg_score", Label: "Average Score", Kind: core.KindNumber, Sortable: true},
				{Key: "creator_name", Label: "Created By", Kind: core.KindText},
				{Key: "creator_email", Label: "Email", Kind: core.KindText},
			},
			DisplayField: "name",
			DateField:    "created_at",
			TitleField:   "name",
		},
		PageSize: 10,
		Generate: func(rng *rand.Rand) []core.Record {
			return generateQuizzes(rng, 25)
		},
	})
}

func generateQuizzes(rng *rand.Rand, count int) []core.Record {
	out := make([]core.Record, count)
	for i := range out {
		// Author and email are drawn independently.
		out[i] = core.NewRecord(i+1, map[string]core.Value{
			"name":           core.Text(pick(rng, quizNames)),
			"created_at":     core.Date(octoberDate(rng, 25)),
			"total_attempts": core.Number(float64(rng.IntN(200))),
			"avg_score":      core.Number(round(rng.Float64()*100, 1)),
			"creator_name":   core.Text(pick(rng, quizAuthors)),
			"creator_email":  core.Text(pick(rng, quizEmails)),
		})
	}
	return out
}
