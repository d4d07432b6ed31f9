package tables

import (
	"testing"

	"github.com/JonMunkholm/admindash/internal/core"
)

func TestRegistrations(t *testing.T) {
	tests := []struct {
		key       string
		pageSize  int
		count     int
		draggable bool
		emptyText string
	}{
		{"groups", 8, 15, true, "No groups found."},
		{"transactions", 10, 20, true, "No transactions found."},
		{"quizzes", 10, 25, true, "No quizzes found."},
		{"students", 10, 4, false, "No students found."},
		{"admin_teachers", 10, 2, false, "No admin teachers found."},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			def, ok := core.Get(tt.key)
			if !ok {
				t.Fatalf("table %q not registered", tt.key)
			}
			if got := def.DefaultPageSize(); got != tt.pageSize {
				t.Errorf("DefaultPageSize() = %d, want %d", got, tt.pageSize)
			}
			if def.Info.Draggable != tt.draggable {
				t.Errorf("Draggable = %v, want %v", def.Info.Draggable, tt.draggable)
			}
			if def.Info.EmptyText != tt.emptyText {
				t.Errorf("EmptyText = %q, want %q", def.Info.EmptyText, tt.emptyText)
			}

			records := def.Generate(NewRand(1))
			if len(records) != tt.count {
				t.Fatalf("generated %d records, want %d", len(records), tt.count)
			}
			seen := map[int]bool{}
			for _, r := range records {
				if seen[r.ID] {
					t.Errorf("duplicate id %d", r.ID)
				}
				seen[r.ID] = true
				for _, c := range def.Schema.Columns {
					if r.Get(c.Key).IsZero() && c.Kind != core.KindNumber {
						t.Errorf("record %d missing %s", r.ID, c.Key)
					}
				}
			}
		})
	}
}

func TestGeneratorsAreDeterministic(t *testing.T) {
	def, _ := core.Get("quizzes")

	a := def.Generate(NewRand(42))
	b := def.Generate(NewRand(42))
	for i := range a {
		if a[i].Get("name") != b[i].Get("name") || a[i].Get("created_at") != b[i].Get("created_at") {
			t.Fatalf("record %d differs between runs with the same seed", i)
		}
	}
}

func TestGeneratedValuesInRange(t *testing.T) {
	rng := NewRand(7)
	for _, g := range generateGroups(rng, 200) {
		if m := g.Get("total_members").Num; m < 5 || m > 64 {
			t.Fatalf("total_members = %v, want 5..64", m)
		}
	}
	for _, tx := range generateTransactions(rng, 200) {
		if a := tx.Get("amount").Num; a < 50 || a > 2050 {
			t.Fatalf("amount = %v, want 50..2050", a)
		}
	}
	for _, q := range generateQuizzes(rng, 200) {
		d := q.Get("created_at").Str
		if d < "2025-10-01" || d > "2025-10-25" {
			t.Fatalf("created_at = %q, want within 2025-10-01..25", d)
		}
	}
}

func TestRoleByKey(t *testing.T) {
	if got := RoleByKey("teachers").Title; got != "Teacher" {
		t.Errorf("RoleByKey(teachers).Title = %q, want Teacher", got)
	}
	if got := RoleByKey("nope").Key; got != "students" {
		t.Errorf("RoleByKey(nope).Key = %q, want students", got)
	}
}

func TestAnalytics(t *testing.T) {
	rows := map[string][]core.Record{
		"students": Roles[0].records(),
		"teachers": Roles[1].records(),
		"groups": {
			core.NewRecord(1, map[string]core.Value{"total_members": core.Number(3)}),
			core.NewRecord(2, map[string]core.Value{"total_members": core.Number(0)}),
		},
		"quizzes": {
			core.NewRecord(1, map[string]core.Value{"total_attempts": core.Number(1200), "avg_score": core.Number(80)}),
			core.NewRecord(2, map[string]core.Value{"total_attempts": core.Number(300), "avg_score": core.Number(70)}),
		},
		"transactions": {
			core.NewRecord(1, map[string]core.Value{"status": core.Tag(StatusCompleted), "amount": core.Number(1000)}),
			core.NewRecord(2, map[string]core.Value{"status": core.Tag(StatusCompleted), "amount": core.Number(500.5)}),
			core.NewRecord(3, map[string]core.Value{"status": core.Tag(StatusFailed), "amount": core.Number(20)}),
		},
	}

	cards := map[string]string{}
	for _, c := range Analytics(rows) {
		cards[c.Title] = c.Value
	}

	want := map[string]string{
		"Total Users":      "7",
		"Total Students":   "4",
		"Total Groups":     "2",
		"Active Groups":    "1",
		"Quiz Attempts":    "1,500",
		"Average Score":    "75.0%",
		"Completed Volume": "$1,500.50",
		"Pending Volume":   "$0.00",
	}
	for title, v := range want {
		if cards[title] != v {
			t.Errorf("%s = %q, want %q", title, cards[title], v)
		}
	}
}
