package core

import (
	"errors"
	"testing"
)

func TestRegistry(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	Register(groupsDefinition())
	Register(TableDefinition{
		Info:   TableInfo{Key: "students", Group: "Users", Label: "Students"},
		Schema: Schema{Columns: []Column{{Key: "name", Label: "Name"}}, DisplayField: "name"},
	})

	if got := TableCount(); got != 2 {
		t.Errorf("TableCount() = %d, want 2", got)
	}

	def, ok := Get("students")
	if !ok {
		t.Fatal("Get(students) not found")
	}
	if def.Info.Dataset != "students" {
		t.Errorf("Dataset = %q, want defaulted to key", def.Info.Dataset)
	}
	if def.DefaultPageSize() != DefaultPageSize {
		t.Errorf("DefaultPageSize() = %d, want %d", def.DefaultPageSize(), DefaultPageSize)
	}

	all := All()
	if all[0].Info.Key != "groups" || all[1].Info.Key != "students" {
		t.Errorf("All() order = %s, %s; want groups, students", all[0].Info.Key, all[1].Info.Key)
	}
	if got := Groups(); len(got) != 2 || got[0] != "Learning" || got[1] != "Users" {
		t.Errorf("Groups() = %v, want [Learning Users]", got)
	}
	if got := ByGroup("Users"); len(got) != 1 {
		t.Errorf("ByGroup(Users) = %d tables, want 1", len(got))
	}

	if _, err := Lookup("widgets"); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("Lookup(widgets) error = %v, want ErrUnknownTable", err)
	}
}

func TestRegister_Panics(t *testing.T) {
	tests := []struct {
		name string
		def  TableDefinition
	}{
		{
			name: "duplicate key",
			def:  groupsDefinition(),
		},
		{
			name: "display field not a column",
			def: TableDefinition{
				Info:   TableInfo{Key: "broken"},
				Schema: Schema{Columns: []Column{{Key: "name"}}, DisplayField: "title"},
			},
		},
		{
			name: "no columns",
			def:  TableDefinition{Info: TableInfo{Key: "empty"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Clear()
			t.Cleanup(Clear)
			Register(groupsDefinition())

			defer func() {
				if recover() == nil {
					t.Error("Register() did not panic")
				}
			}()
			Register(tt.def)
		})
	}
}
