package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAccountFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
	}{
		{name: "no account specified", args: map[string]interface{}{}, expected: ""},
		{name: "account specified", args: map[string]interface{}{"account": "work"}, expected: "work"},
		{name: "whitespace trimmed", args: map[string]interface{}{"account": " work "}, expected: "work"},
		{name: "nil args", args: nil, expected: ""},
		{name: "non-string account type", args: map[string]interface{}{"account": 123}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetAccountFromArgs(tt.args))
		})
	}
}

func TestGetAccountsFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		expected []string
	}{
		{name: "nothing means all", args: map[string]interface{}{}, expected: nil},
		{name: "json array", args: map[string]interface{}{"accounts": []interface{}{"work", "home"}}, expected: []string{"work", "home"}},
		{name: "string slice", args: map[string]interface{}{"accounts": []string{"work"}}, expected: []string{"work"}},
		{name: "comma separated", args: map[string]interface{}{"accounts": "work, home,"}, expected: []string{"work", "home"}},
		{name: "non-string items skipped", args: map[string]interface{}{"accounts": []interface{}{"work", 7, ""}}, expected: []string{"work"}},
		{name: "single account fallback", args: map[string]interface{}{"account": "home"}, expected: []string{"home"}},
		{name: "accounts win over account", args: map[string]interface{}{"accounts": []interface{}{"work"}, "account": "home"}, expected: []string{"work"}},
		{name: "empty array falls back", args: map[string]interface{}{"accounts": []interface{}{}, "account": "home"}, expected: []string{"home"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetAccountsFromArgs(tt.args))
		})
	}
}
