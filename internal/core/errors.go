package core

import "errors"

// Table view failures. None of these stop rendering: an empty input renders
// the empty-state row, a bad reorder target is a no-op and an out of range
// page is clamped.
var (
	ErrEmptyInput           = errors.New("empty input: no records to display")
	ErrInvalidReorderTarget = errors.New("invalid reorder target")
	ErrOutOfRangePage       = errors.New("page out of range")
)

// Drag gesture failures.
var (
	ErrDragInProgress = errors.New("drag already in progress")
	ErrNoActiveDrag   = errors.New("no active drag")
	ErrRowNotVisible  = errors.New("row not visible on current page")
)

var (
	ErrUnknownTable       = errors.New("unknown table")
	ErrNotMounted         = errors.New("table not mounted")
	ErrSourceUnavailable  = errors.New("source unavailable")
	ErrInvalidRecord      = errors.New("invalid record")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
)
