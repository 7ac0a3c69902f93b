package display

import (
	"sync"

	"github.com/fatih/color"
)

// Palette holds the account color tokens in assignment order.
var Palette = []string{
	"cyan", "magenta", "green", "yellow", "blue",
	"red", "hicyan", "himagenta", "higreen", "hiyellow",
}

var attributes = map[string]color.Attribute{
	"cyan":      color.FgCyan,
	"magenta":   color.FgMagenta,
	"green":     color.FgGreen,
	"yellow":    color.FgYellow,
	"blue":      color.FgBlue,
	"red":       color.FgRed,
	"hicyan":    color.FgHiCyan,
	"himagenta": color.FgHiMagenta,
	"higreen":   color.FgHiGreen,
	"hiyellow":  color.FgHiYellow,
}

// ColorAssigner hands out palette tokens to accounts in order of first
// appearance. It is safe for concurrent use.
type ColorAssigner struct {
	mu       sync.Mutex
	assigned map[string]string
}

// NewColorAssigner returns an assigner with no accounts seen yet.
func NewColorAssigner() *ColorAssigner {
	return &ColorAssigner{assigned: make(map[string]string)}
}

// ColorFor returns the token of account, assigning the next palette entry
// on first sight. The palette wraps after ten accounts.
func (a *ColorAssigner) ColorFor(account string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if c, ok := a.assigned[account]; ok {
		return c
	}
	c := Palette[len(a.assigned)%len(Palette)]
	a.assigned[account] = c
	return c
}

// Color returns the terminal color for account.
func (a *ColorAssigner) Color(account string, extra ...color.Attribute) *color.Color {
	attr, ok := attributes[a.ColorFor(account)]
	if !ok {
		attr = color.Reset
	}
	return color.New(append([]color.Attribute{attr}, extra...)...)
}
