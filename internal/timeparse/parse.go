// Package timeparse reads the date and time expressions accepted on the
// command line and by the MCP tools.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var offsetPattern = regexp.MustCompile(`^([+-])(\d+)([mhdw])$`)

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Parse interprets s relative to now. Expressions without an offset are read
// in now's location. dateOnly is set for expressions that name a day rather
// than an instant; t is then midnight of that day.
//
// Accepted: RFC 3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02",
// "15:04" (today), now, today, tomorrow, yesterday, a day word followed by
// a time ("tomorrow 10:00") and offsets such as +3d, -2h, +1w or +30m.
func Parse(s string, now time.Time) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	loc := now.Location()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if day, clock, ok := strings.Cut(s, " "); ok {
		if base, dateOnly, err := Parse(day, now); err == nil && dateOnly {
			if c, err := time.ParseInLocation("15:04", strings.TrimSpace(clock), loc); err == nil {
				return time.Date(base.Year(), base.Month(), base.Day(), c.Hour(), c.Minute(), 0, 0, loc), false, nil
			}
		}
	}

	switch strings.ToLower(s) {
	case "":
		return time.Time{}, false, fmt.Errorf("empty time expression")
	case "now":
		return now, false, nil
	case "today":
		return midnight, true, nil
	case "tomorrow":
		return midnight.AddDate(0, 0, 1), true, nil
	case "yesterday":
		return midnight.AddDate(0, 0, -1), true, nil
	}

	if m := offsetPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid offset %q: %w", s, err)
		}
		if m[1] == "-" {
			n = -n
		}
		switch m[3] {
		case "m":
			return now.Add(time.Duration(n) * time.Minute), false, nil
		case "h":
			return now.Add(time.Duration(n) * time.Hour), false, nil
		case "d":
			return now.AddDate(0, 0, n), false, nil
		default:
			return now.AddDate(0, 0, 7*n), false, nil
		}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), false, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, false, nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true, nil
	}
	if t, err := time.ParseInLocation("15:04", s, loc); err == nil {
		return midnight.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), false, nil
	}

	return time.Time{}, false, fmt.Errorf("unrecognized time %q (use e.g. 2024-03-01, 2024-03-01T14:00, 14:00, tomorrow or +2d)", s)
}

// Range resolves an optional start and end expression into [start, end).
// A missing start means now and a missing end means start+def. An end that
// names a day includes that whole day.
func Range(startExpr, endExpr string, now time.Time, def time.Duration) (start, end time.Time, err error) {
	start = now
	if strings.TrimSpace(startExpr) != "" {
		if start, _, err = Parse(startExpr, now); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start: %w", err)
		}
	}

	if strings.TrimSpace(endExpr) == "" {
		return start, start.Add(def), nil
	}
	end, dateOnly, err := Parse(endExpr, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end: %w", err)
	}
	if dateOnly {
		end = end.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s is not after start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return start, end, nil
}
