package application

import "github.com/JonMunkholm/admindash/internal/core"

// DoneMsg reports a finished background action.
type DoneMsg string

// ErrMsg reports a failed background action.
type ErrMsg struct {
	Err error
}

func (e ErrMsg) Error() string { return e.Err.Error() }

// tableLoadedMsg carries a freshly mounted table.
type tableLoadedMsg struct {
	table *core.Table
}
