package tables

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JonMunkholm/admindash/internal/core"
)

// StatCard is one tile on the analytics page.
type StatCard struct {
	Title string
	Value string
	Hint  string
}

// AnalyticsKeys lists the tables the analytics page reads.
func AnalyticsKeys() []string {
	keys := make([]string, 0, len(Roles)+3)
	for _, r := range Roles {
		keys = append(keys, r.Key)
	}
	return append(keys, "groups", "quizzes", "transactions")
}

// Analytics computes the overview cards from loaded rows keyed by table.
// Missing tables count as empty.
func Analytics(rows map[string][]core.Record) []StatCard {
	p := message.NewPrinter(language.English)

	users := 0
	for _, r := range Roles {
		users += len(rows[r.Key])
	}

	activeGroups := 0
	for _, g := range rows["groups"] {
		if g.Get("total_members").Num > 0 {
			activeGroups++
		}
	}

	attempts, scoreSum := 0.0, 0.0
	quizzes := rows["quizzes"]
	for _, q := range quizzes {
		attempts += q.Get("total_attempts").Num
		scoreSum += q.Get("avg_score").Num
	}
	avgScore := 0.0
	if len(quizzes) > 0 {
		avgScore = scoreSum / float64(len(quizzes))
	}

	volume := map[string]float64{}
	for _, tx := range rows["transactions"] {
		volume[tx.Get("status").Str] += tx.Get("amount").Num
	}

	return []StatCard{
		{Title: "Total Users", Value: p.Sprintf("%d", users), Hint: "All roles"},
		{Title: "Total Students", Value: p.Sprintf("%d", len(rows["students"]))},
		{Title: "Total Teachers", Value: p.Sprintf("%d", len(rows["teachers"]))},
		{Title: "Admins", Value: p.Sprintf("%d", len(rows["admins"]))},
		{Title: "Teacher Admins", Value: p.Sprintf("%d", len(rows["admin_teachers"]))},
		{Title: "Total Groups", Value: p.Sprintf("%d", len(rows["groups"]))},
		{Title: "Active Groups", Value: p.Sprintf("%d", activeGroups), Hint: "At least one member"},
		{Title: "Total Quiz", Value: p.Sprintf("%d", len(quizzes))},
		{Title: "Quiz Attempts", Value: p.Sprintf("%.0f", attempts)},
		{Title: "Average Score", Value: p.Sprintf("%.1f%%", avgScore)},
		{Title: "Completed Volume", Value: p.Sprintf("$%.2f", volume[StatusCompleted])},
		{Title: "Pending Volume", Value: p.Sprintf("$%.2f", volume[StatusPending])},
		{Title: "Failed Volume", Value: p.Sprintf("$%.2f", volume[StatusFailed])},
	}
}
