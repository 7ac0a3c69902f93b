package calendar

import (
	"slices"
	"strings"
)

// DefaultAccessRoles are the roles whose calendars take part in aggregate views.
var DefaultAccessRoles = []AccessRole{AccessOwner, AccessWriter, AccessReader}

// IsEligible reports whether cal should be queried for an aggregate view.
// An empty roles set means DefaultAccessRoles.
func IsEligible(cal Calendar, roles []AccessRole, nameSubstrings []string) bool {
	if len(roles) == 0 {
		roles = DefaultAccessRoles
	}
	if !slices.Contains(roles, cal.AccessRole) {
		return false
	}
	return MatchesName(cal, nameSubstrings)
}

// MatchesName reports whether the display name contains any of the given
// substrings, ignoring case. An empty set matches every calendar.
func MatchesName(cal Calendar, nameSubstrings []string) bool {
	if len(nameSubstrings) == 0 {
		return true
	}
	name := strings.ToLower(cal.DisplayName)
	for _, s := range nameSubstrings {
		if strings.Contains(name, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
