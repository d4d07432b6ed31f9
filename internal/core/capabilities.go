package core

import (
	"context"
	"strings"
)

// Navigator moves the user to another page.
type Navigator interface {
	NavigateTo(path string)
}

// Credentials is a submitted login form.
type Credentials struct {
	Email    string
	Password string
}

// Authenticator checks credentials. The dashboard ships only a stub.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) error
}

// NoticeKind is the severity of a user notification.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string, kind NoticeKind)
}

// StubAuthenticator accepts any credentials with a non-empty email and
// password.
type StubAuthenticator struct{}

// Login returns ErrInvalidCredentials when either field is blank.
func (StubAuthenticator) Login(_ context.Context, creds Credentials) error {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return ErrInvalidCredentials
	}
	return nil
}
