package tables

import (
	"math/rand/v2"

	"github.com/JonMunkholm/admindash/internal/core"
)

func init() {
	registerGroups()
}

var (
	groupNames = []string{
		"Math Enthusiasts",
		"Science Club",
		"Art League",
		"History Circle",
		"Code Masters",
		"Language Learners",
		"Debate Society",
		"AI Researchers",
		"Music Makers",
		"Writers Hub",
	}
	groupCreators = []person{
		{"Alice Johnson", "alice.johnson@gmail.com"},
		{"Mark Daniels", "mark.daniels@gmail.com"},
		{"Sophia Lee", "sophia.lee@gmail.com"},
		{"James Smith", "james.smith@gmail.com"},
	}
)

type person struct {
	name  string
	email string
}

func registerGroups() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "groups",
			Group:       "Learning",
			Label:       "Groups",
			Description: "Study groups and their creators",
			EmptyText:   "No groups found.",
			TextFilter:  true,
			Draggable:   true,
		},
		Schema: core.Schema{
			Columns: []core.Column{
				{Key: "name", Label: "Name", Kind: core.KindText, Sortable: true},
				{Key: "created_date", Label: "Created Date", Kind: core.KindDate, Sortable: true},
				{Key: "total_members", Label: "Total Members", Kind: core.KindNumber, Sortable: true},
				{Key: "creator_name", Label: "Creator", Kind: core.KindText, Sortable: true},
				{Key: "creator_email", Label: "Creator Email", Kind: core.KindText},
			},
			DisplayField: "name",
			DateField:    "created_date",
			TitleField:   "name",
		},
		PageSize: 8,
		Generate: func(rng *rand.Rand) []core.Record {
			return generateGroups(rng, 15)
		},
	})
}

func generateGroups(rng *rand.Rand, count int) []core.Record {
	out := make([]core.Record, count)
	for i := range out {
		creator := pick(rng, groupCreators)
		out[i] = core.NewRecord(i+1, map[string]core.Value{
			"name":          core.Text(pick(rng, groupNames)),
			"created_date":  core.Date(octoberDate(rng, 30)),
			"total_members": core.Number(float64(rng.IntN(60) + 5)),
			"creator_name":  core.Text(creator.name),
			"creator_email": core.Text(creator.email),
		})
	}
	return out
}
