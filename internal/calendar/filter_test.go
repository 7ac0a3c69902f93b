package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEligible(t *testing.T) {
	tests := []struct {
		name  string
		cal   Calendar
		roles []AccessRole
		names []string
		want  bool
	}{
		{
			name: "owner with default roles",
			cal:  Calendar{DisplayName: "Personal", AccessRole: AccessOwner},
			want: true,
		},
		{
			name: "reader with default roles",
			cal:  Calendar{DisplayName: "Holidays", AccessRole: AccessReader},
			want: true,
		},
		{
			name: "free/busy reader excluded by default",
			cal:  Calendar{DisplayName: "Boss", AccessRole: AccessFreeBusyReader},
			want: false,
		},
		{
			name:  "none is never eligible",
			cal:   Calendar{DisplayName: "Hidden", AccessRole: AccessNone},
			roles: []AccessRole{AccessOwner, AccessWriter, AccessReader, AccessFreeBusyReader},
			want:  false,
		},
		{
			name:  "explicit roles narrow the set",
			cal:   Calendar{DisplayName: "Holidays", AccessRole: AccessReader},
			roles: []AccessRole{AccessOwner},
			want:  false,
		},
		{
			name:  "name filter is a case-insensitive substring",
			cal:   Calendar{DisplayName: "Work Team", AccessRole: AccessWriter},
			names: []string{"team"},
			want:  true,
		},
		{
			name:  "any substring matches",
			cal:   Calendar{DisplayName: "Work Team", AccessRole: AccessWriter},
			names: []string{"family", "WORK"},
			want:  true,
		},
		{
			name:  "no substring matches",
			cal:   Calendar{DisplayName: "Work Team", AccessRole: AccessWriter},
			names: []string{"family"},
			want:  false,
		},
		{
			name:  "name match does not override role",
			cal:   Calendar{DisplayName: "Work Team", AccessRole: AccessNone},
			names: []string{"team"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEligible(tt.cal, tt.roles, tt.names))
		})
	}
}

func TestMatchesName(t *testing.T) {
	cal := Calendar{DisplayName: "Work Team", AccessRole: AccessNone}
	assert.True(t, MatchesName(cal, nil))
	assert.True(t, MatchesName(cal, []string{"k t"}))
	assert.False(t, MatchesName(cal, []string{"teams"}))
}
