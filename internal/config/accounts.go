package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/teemow/multical/internal/calendar"
	"github.com/teemow/multical/internal/google"
)

var (
	// ErrNoAccounts is returned when no account has credentials yet.
	ErrNoAccounts = errors.New("no accounts configured, run 'mcal account add <name>'")
	// ErrNoWriteAccount is returned when a write names no account and no default is set.
	ErrNoWriteAccount = errors.New("specify an account or set a default account")
)

// UnknownAccountError reports a requested account without credentials.
type UnknownAccountError struct {
	Account string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("account %q not found", e.Account)
}

// ResolveAccounts picks the accounts a read operation spans. No request
// means every available account; otherwise each requested name must be
// valid and available.
func ResolveAccounts(requested, available []string) ([]string, error) {
	if len(requested) == 0 {
		if len(available) == 0 {
			return nil, ErrNoAccounts
		}
		return available, nil
	}
	for _, name := range requested {
		if err := google.ValidateAccountName(name); err != nil {
			return nil, calendar.NewValidationError("resolve accounts", err)
		}
		if !slices.Contains(available, name) {
			return nil, &UnknownAccountError{Account: name}
		}
	}
	return requested, nil
}

// WriteAccount picks the single account a write goes to: the requested one,
// else the configured default.
func (s *Settings) WriteAccount(requested string) (string, error) {
	if requested != "" {
		if err := google.ValidateAccountName(requested); err != nil {
			return "", calendar.NewValidationError("resolve accounts", err)
		}
		return requested, nil
	}
	if s.DefaultAccount != "" {
		return s.DefaultAccount, nil
	}
	return "", ErrNoWriteAccount
}
