package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrs(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want string
	}{
		{"operation", Operation("aggregate.fetch"), KeyOperation, "aggregate.fetch"},
		{"account", Account("work"), KeyAccount, "work"},
		{"calendar", Calendar("primary"), KeyCalendar, "primary"},
		{"tool", Tool("calendar_agenda"), KeyTool, "calendar_agenda"},
		{"status", Status(StatusError), KeyStatus, "error"},
		{"events", Events(3), KeyEvents, "3"},
		{"duration", Duration(1500 * time.Microsecond), KeyDuration, "2ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.String())
		})
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, "boom", attr.Value.String())

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("done", Err(nil))
	assert.NotContains(t, buf.String(), KeyError+"=")
}

func TestAnonymizeEmail(t *testing.T) {
	assert.Equal(t, "", AnonymizeEmail(""))

	a := AnonymizeEmail("alice@example.com")
	assert.True(t, strings.HasPrefix(a, "user:"))
	assert.Len(t, a, len("user:")+16)
	assert.Equal(t, a, AnonymizeEmail("alice@example.com"))
	assert.NotEqual(t, a, AnonymizeEmail("bob@example.com"))
	assert.NotContains(t, a, "alice")

	attr := UserHash("alice@example.com")
	assert.Equal(t, KeyUserHash, attr.Key)
	assert.Equal(t, a, attr.Value.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", Account("work"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"))
	assert.Contains(t, out, "account=work")

	_, err = New(&buf, "loud")
	assert.Error(t, err)
}

func TestSlogAdapter(t *testing.T) {
	var _ Logger = (*SlogAdapter)(nil)

	assert.NotNil(t, NewSlogAdapter(nil).Logger())
	assert.NotNil(t, DefaultLogger().Logger())

	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	adapter.Debug("d", "k", "v")
	adapter.Info("i")
	adapter.Warn("w")
	adapter.Error("e")
	assert.Equal(t, 4, strings.Count(buf.String(), "\n"))

	// Should not panic
	Discard().Error("dropped")
}
