package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

// Attribute keys shared by every log line in the module.
const (
	KeyOperation = "operation"
	KeyAccount   = "account"
	KeyCalendar  = "calendar"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyTool      = "tool"
	KeyEvents    = "events"
	KeyUserHash  = "user_hash"
)

// Status values.
// Duplicated from instrumentation so that package can log without an import cycle.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithAccount returns a logger with the account attribute set.
func WithAccount(logger *slog.Logger, account string) *slog.Logger {
	return logger.With(slog.String(KeyAccount, account))
}

func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

func Account(account string) slog.Attr {
	return slog.String(KeyAccount, account)
}

func Calendar(id string) slog.Attr {
	return slog.String(KeyCalendar, id)
}

func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

func Events(n int) slog.Attr {
	return slog.Int(KeyEvents, n)
}

// Duration returns the elapsed time rounded to milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d.Round(time.Millisecond))
}

// Err returns a slog attribute for an error.
// A nil err yields an empty group, which slog drops from the output.
//
// Usage:
//
//	logger.Info("fetch finished", logging.Err(err)) // safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail returns a stable hash of an email address so log lines can
// be correlated without recording the address itself.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(hash[:8])
}

// UserHash returns the anonymized email as a slog attribute.
func UserHash(email string) slog.Attr {
	return slog.String(KeyUserHash, AnonymizeEmail(email))
}
