package google

import (
	calendar "google.golang.org/api/calendar/v3"
)

// DefaultOAuthScopes are requested when an account is authorized.
// Read and write access is needed for quick add, create and delete.
var DefaultOAuthScopes = []string{
	calendar.CalendarScope,
}
