// Package core provides the table engine for the admin dashboard.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Unknown table: The requested table is not configured
//	         Action: Check the address or pick a table from the dashboard
//	         Patterns: "unknown table"
//
//	TBL002 - Not mounted: The table was closed before the request finished
//	         Action: Reload the page
//	         Patterns: "table not mounted"
//
//	TBL003 - Page out of range: The requested page does not exist
//	         Action: Showing the nearest page instead
//	         Patterns: "page out of range"
//
//	TBL004 - Empty input: Nothing matches the current filters
//	         Action: Clear the search or date filter
//	         Patterns: "empty input"
//
// # Drag Errors (DRG001-DRG099)
//
//	DRG001 - Invalid target: The row could not be moved there
//	         Action: Drop the row onto another visible row
//	         Patterns: "invalid reorder target"
//
//	DRG002 - Drag in progress: Another row is already being moved
//	         Action: Drop or cancel the current move first
//	         Patterns: "drag already in progress"
//
//	DRG003 - No active drag: There is no row being moved
//	         Action: Pick up a row by its handle first
//	         Patterns: "no active drag"
//
//	DRG004 - Row not visible: Only rows on the current page can be moved
//	         Action: Go to the page that shows the row
//	         Patterns: "row not visible"
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Connection refused: Unable to reach the data source
//	         Action: Please try again in a few moments
//	         Patterns: "connection refused"
//
//	SRC002 - Missing data: The dataset could not be found
//	         Action: Check the configured source path or bucket
//	         Patterns: "no such file", "nosuchkey", "no such table"
//
//	SRC003 - Invalid record: The dataset contains a malformed row
//	         Action: Fix the dataset and reload
//	         Patterns: "invalid record"
//
//	SRC004 - Source unavailable: Data could not be loaded
//	         Action: Please try again or contact support
//	         Patterns: "source unavailable"
//
//	SRC005 - Source busy: Too many tables are loading at once
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent loads"
//
// # Session and Auth Errors (AUTH001-AUTH099)
//
//	AUTH001 - Invalid credentials: Email or password is missing
//	          Action: Enter both your email and password
//	          Patterns: "invalid credentials"
//
//	AUTH002 - Session expired: Your session is no longer active
//	          Action: Reload the page to start a new session
//	          Patterns: "session not found"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: Request was cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout: Request timed out
//	         Patterns: "context deadline exceeded", "timeout"
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches.
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are listed
// before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Table Errors (TBL001-TBL004)
	// =========================================================================
	{
		pattern: "unknown table",
		msg: UserMessage{
			Message: "Unknown table",
			Action:  "Check the address or pick a table from the dashboard",
			Code:    "TBL001",
		},
	},
	{
		pattern: "table not mounted",
		msg: UserMessage{
			Message: "This table is no longer open",
			Action:  "Reload the page",
			Code:    "TBL002",
		},
	},
	{
		pattern: "page out of range",
		msg: UserMessage{
			Message: "That page does not exist",
			Action:  "Showing the nearest page instead",
			Code:    "TBL003",
		},
	},
	{
		pattern: "empty input",
		msg: UserMessage{
			Message: "No rows match",
			Action:  "Clear the search or date filter",
			Code:    "TBL004",
		},
	},

	// =========================================================================
	// Drag Errors (DRG001-DRG004)
	// =========================================================================
	{
		pattern: "invalid reorder target",
		msg: UserMessage{
			Message: "The row could not be moved there",
			Action:  "Drop the row onto another visible row",
			Code:    "DRG001",
		},
	},
	{
		pattern: "drag already in progress",
		msg: UserMessage{
			Message: "Another row is already being moved",
			Action:  "Drop or cancel the current move first",
			Code:    "DRG002",
		},
	},
	{
		pattern: "no active drag",
		msg: UserMessage{
			Message: "There is no row being moved",
			Action:  "Pick up a row by its handle first",
			Code:    "DRG003",
		},
	},
	{
		pattern: "row not visible",
		msg: UserMessage{
			Message: "Only rows on the current page can be moved",
			Action:  "Go to the page that shows the row",
			Code:    "DRG004",
		},
	},

	// =========================================================================
	// Source Errors (SRC001-SRC004)
	// Specific causes first, the generic wrapper last.
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the data source",
			Action:  "Please try again in a few moments",
			Code:    "SRC001",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The dataset could not be found",
			Action:  "Check the configured source path or bucket",
			Code:    "SRC002",
		},
	},
	{
		pattern: "nosuchkey",
		msg: UserMessage{
			Message: "The dataset could not be found",
			Action:  "Check the configured source path or bucket",
			Code:    "SRC002",
		},
	},
	{
		pattern: "no such table",
		msg: UserMessage{
			Message: "The dataset could not be found",
			Action:  "Check the configured source path or bucket",
			Code:    "SRC002",
		},
	},
	{
		pattern: "invalid record",
		msg: UserMessage{
			Message: "The dataset contains a malformed row",
			Action:  "Fix the dataset and reload",
			Code:    "SRC003",
		},
	},
	{
		pattern: "too many concurrent loads",
		msg: UserMessage{
			Message: "The data source is busy",
			Action:  "Please wait a moment and try again",
			Code:    "SRC005",
		},
	},
	{
		pattern: "source unavailable",
		msg: UserMessage{
			Message: "Data could not be loaded",
			Action:  "Please try again or contact support",
			Code:    "SRC004",
		},
	},

	// =========================================================================
	// Session and Auth Errors (AUTH001-AUTH002)
	// =========================================================================
	{
		pattern: "invalid credentials",
		msg: UserMessage{
			Message: "Email or password is missing",
			Action:  "Enter both your email and password",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Your session is no longer active",
			Action:  "Reload the page to start a new session",
			Code:    "AUTH002",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ002, RATE001)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Reload the page and try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first pattern match, or ERR000 when nothing matches.
//
// Example:
//
//	msg := MapError(fmt.Errorf("load groups: %w", ErrSourceUnavailable))
//	// msg.Code == "SRC004"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
