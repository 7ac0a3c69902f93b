package common

import "strings"

// GetAccountsFromArgs returns the accounts a read tool should span. It
// accepts "accounts" as an array of names or as a comma separated string,
// and falls back to a single "account". An empty result means every
// configured account.
func GetAccountsFromArgs(args map[string]interface{}) []string {
	var accounts []string
	switch v := args["accounts"].(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				accounts = appendName(accounts, s)
			}
		}
	case []string:
		for _, s := range v {
			accounts = appendName(accounts, s)
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			accounts = appendName(accounts, s)
		}
	}
	if len(accounts) > 0 {
		return accounts
	}
	if account := GetAccountFromArgs(args); account != "" {
		return []string{account}
	}
	return nil
}

// GetAccountFromArgs returns the explicit "account" argument, or "" when
// the tool should use the default account.
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok {
		return strings.TrimSpace(accountVal)
	}
	return ""
}

func appendName(names []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		return append(names, s)
	}
	return names
}
