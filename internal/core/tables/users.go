package tables

import (
	"math/rand/v2"
	"strings"

	"github.com/JonMunkholm/admindash/internal/core"
)

func init() {
	for _, r := range Roles {
		registerUsers(r)
	}
}

// Role is one tab of the users page.
type Role struct {
	Key   string // Table key and ?role= value
	Title string // Singular: "Student"
	users []user
}

type user struct {
	name, email, status, joined string
}

// Roles lists the user tabs in display order.
var Roles = []Role{
	{
		Key:   "students",
		Title: "Student",
		users: []user{
			{"John Doe", "john@student.edu", "Active", "2024-05-12"},
			{"Jane Smith", "jane@student.edu", "Inactive", "2024-07-01"},
			{"Michael Brown", "michael@student.edu", "Active", "2024-06-20"},
			{"Linda Johnson", "linda@student.edu", "Active", "2024-03-15"},
		},
	},
	{
		Key:   "teachers",
		Title: "Teacher",
		users: []user{
			{"Mary Smith", "mary@school.com", "Active", "2023-09-01"},
			{"James Parker", "james@school.com", "Active", "2023-11-14"},
			{"Sarah Lee", "sarah@school.com", "Inactive", "2024-01-08"},
		},
	},
	{
		Key:   "admins",
		Title: "Admin",
		users: []user{
			{"Alice Johnson", "alice.johnson@gmail.com", "Active", "2023-02-20"},
			{"Mark Daniels", "mark.daniels@gmail.com", "Active", "2023-06-30"},
		},
	},
	{
		Key:   "admin_teachers",
		Title: "Admin Teacher",
		users: []user{
			{"Sophia Lee", "sophia.lee@gmail.com", "Active", "2023-04-11"},
			{"James Smith", "james.smith@gmail.com", "Inactive", "2024-02-02"},
		},
	},
}

// RoleByKey returns the role for a ?role= value, defaulting to students.
func RoleByKey(key string) Role {
	for _, r := range Roles {
		if r.Key == key {
			return r
		}
	}
	return Roles[0]
}

func registerUsers(role Role) {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         role.Key,
			Group:       "Users",
			Label:       role.Title + "s",
			Description: role.Title + " Management",
			EmptyText:   "No " + strings.ToLower(role.Title) + "s found.",
			TextFilter:  true,
		},
		Schema: core.Schema{
			Columns: []core.Column{
				{Key: "name", Label: "Name", Kind: core.KindText, Sortable: true},
				{Key: "email", Label: "Email", Kind: core.KindText, Sortable: true},
				{Key: "status", Label: "Status", Kind: core.KindTag, Sortable: true},
				{Key: "joined", Label: "Joined", Kind: core.KindDate, Sortable: true},
			},
			DisplayField: "name",
			DateField:    "joined",
			TitleField:   "name",
		},
		PageSize: 10,
		Generate: func(*rand.Rand) []core.Record {
			return role.records()
		},
	})
}

func (r Role) records() []core.Record {
	out := make([]core.Record, len(r.users))
	for i, u := range r.users {
		out[i] = core.NewRecord(i+1, map[string]core.Value{
			"name":   core.Text(u.name),
			"email":  core.Text(u.email),
			"status": core.Tag(u.status),
			"joined": core.Date(u.joined),
		})
	}
	return out
}
