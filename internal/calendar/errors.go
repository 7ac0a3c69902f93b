package calendar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/teemow/multical/internal/google"
)

// Kind classifies failures so callers can decide whether to isolate or propagate them
type Kind int

const (
	KindUnknown Kind = iota
	KindCredentialMissing
	KindTransport
	KindBackend
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindCredentialMissing:
		return "credential_missing"
	case KindTransport:
		return "transport"
	case KindBackend:
		return "backend"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a classified failure of a calendar operation
type Error struct {
	Kind    Kind
	Op      string // e.g. "list calendars", "list events"
	Account string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Account != "" {
		return fmt.Sprintf("%s (account %s): %v", e.Op, e.Account, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// NewValidationError returns a KindValidation error for invalid local input.
func NewValidationError(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// classify wraps err into an *Error with a kind derived from its chain.
// Errors that are already classified keep their kind.
func classify(op, account string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Kind: kindFromCause(err), Op: op, Account: account, Err: err}
}

func kindFromCause(err error) Kind {
	if errors.Is(err, google.ErrNoToken) {
		return KindCredentialMissing
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return KindBackend
	}

	// oauth2 refresh failures surface wrapped in *url.Error by the HTTP client,
	// so they are checked before the transport case.
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return KindBackend
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindTransport
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindTransport
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransport
	}

	return KindUnknown
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 404
}
