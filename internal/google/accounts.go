package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"golang.org/x/oauth2"
)

const (
	accountsDirName = "accounts"
	tokenFileName   = "token.json"
)

// ErrNoToken is returned when an account has no stored credentials.
var ErrNoToken = errors.New("no stored token")

var accountNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)

// ValidateAccountName rejects names that are unsafe as a directory name.
func ValidateAccountName(name string) error {
	if name == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(name) {
		return fmt.Errorf("invalid account name %q: only letters, digits, '-' and '_' are allowed", name)
	}
	return nil
}

// Store is the on-disk account registry rooted at a config directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. Nothing is created until a token is saved.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the config directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

// AccountDir returns the directory holding the account's credentials.
func (s *Store) AccountDir(account string) string {
	return filepath.Join(s.dir, accountsDirName, account)
}

func (s *Store) tokenPath(account string) string {
	return filepath.Join(s.AccountDir(account), tokenFileName)
}

// HasToken reports whether a token file exists for account.
func (s *Store) HasToken(account string) bool {
	if ValidateAccountName(account) != nil {
		return false
	}
	_, err := os.Stat(s.tokenPath(account))
	return err == nil
}

// LoadToken reads the stored token. A missing file yields ErrNoToken.
func (s *Store) LoadToken(account string) (*oauth2.Token, error) {
	if err := ValidateAccountName(account); err != nil {
		return nil, err
	}

	f, err := os.Open(s.tokenPath(account))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("account %q: %w; run 'mcal account add %s'", account, ErrNoToken, account)
		}
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token for account %q: %w", account, err)
	}
	return tok, nil
}

// SaveToken writes the token with owner-only permissions.
func (s *Store) SaveToken(account string, tok *oauth2.Token) error {
	if err := ValidateAccountName(account); err != nil {
		return err
	}
	if err := os.MkdirAll(s.AccountDir(account), 0700); err != nil {
		return fmt.Errorf("failed to create account directory: %w", err)
	}

	// Written to a sibling temp file and renamed into place.
	path := s.tokenPath(account)
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}

// ListAccounts returns the names of accounts with a stored token, sorted.
func (s *Store) ListAccounts() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, accountsDirName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read accounts directory: %w", err)
	}

	var accounts []string
	for _, e := range entries {
		if !e.IsDir() || ValidateAccountName(e.Name()) != nil {
			continue
		}
		if s.HasToken(e.Name()) {
			accounts = append(accounts, e.Name())
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}

// RemoveAccount deletes the account directory and everything in it.
func (s *Store) RemoveAccount(account string) error {
	if err := ValidateAccountName(account); err != nil {
		return err
	}
	dir := s.AccountDir(account)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("account %q not found", account)
		}
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove account %q: %w", account, err)
	}
	return nil
}
