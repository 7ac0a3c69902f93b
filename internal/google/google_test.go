package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/teemow/multical/internal/logging"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"valid simple", "work", false},
		{"valid with hyphen", "work-email", false},
		{"valid with underscore", "personal_email", false},
		{"valid alphanumeric", "account123", false},
		{"empty", "", true},
		{"with spaces", "my account", true},
		{"with special chars", "account@work", true},
		{"with slash", "work/personal", true},
		{"with dot", "work.email", true},
		{"parent dir", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccountName(tt.account)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAccountName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStore_TokenLifecycle(t *testing.T) {
	store := NewStore(t.TempDir())

	assert.False(t, store.HasToken("work"))
	_, err := store.LoadToken("work")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoToken))

	tok := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}
	require.NoError(t, store.SaveToken("work", tok))
	require.NoError(t, store.SaveToken("home", tok))
	assert.True(t, store.HasToken("work"))

	info, err := os.Stat(filepath.Join(store.AccountDir("work"), tokenFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := store.LoadToken("work")
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	// Directories without a token and invalid names are not accounts.
	require.NoError(t, os.MkdirAll(store.AccountDir("empty"), 0700))
	require.NoError(t, os.MkdirAll(filepath.Join(store.Dir(), accountsDirName, "bad.name"), 0700))

	accounts, err := store.ListAccounts()
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "work"}, accounts)

	require.NoError(t, store.RemoveAccount("work"))
	assert.False(t, store.HasToken("work"))
	assert.Error(t, store.RemoveAccount("work"))
	assert.Error(t, store.SaveToken("../escape", tok))
}

func TestStore_ListAccounts_NoDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"))
	accounts, err := store.ListAccounts()
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func writeClientSecret(t *testing.T, path, clientID, tokenURL string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	secret := map[string]any{
		"installed": map[string]any{
			"client_id":     clientID,
			"client_secret": "secret",
			"auth_uri":      "https://accounts.example.com/auth",
			"token_uri":     tokenURL,
			"redirect_uris": []string{"http://localhost"},
		},
	}
	b, err := json.Marshal(secret)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0600))
}

func TestStore_OAuthConfig(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	store := NewStore(t.TempDir())

	_, err := store.OAuthConfig("work")
	assert.True(t, errors.Is(err, ErrNoClientSecret))

	writeClientSecret(t, filepath.Join(store.Dir(), clientSecretFileName), "global-id", "https://oauth.example.com/token")
	conf, err := store.OAuthConfig("work")
	require.NoError(t, err)
	assert.Equal(t, "global-id", conf.ClientID)
	assert.Equal(t, DefaultOAuthScopes, conf.Scopes)

	writeClientSecret(t, filepath.Join(store.AccountDir("work"), clientSecretFileName), "work-id", "https://oauth.example.com/token")
	conf, err = store.OAuthConfig("work")
	require.NoError(t, err)
	assert.Equal(t, "work-id", conf.ClientID)

	conf, err = store.OAuthConfig("home")
	require.NoError(t, err)
	assert.Equal(t, "global-id", conf.ClientID)
}

func TestStore_OAuthConfig_FromEnv(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "env-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "env-secret")

	conf, err := NewStore(t.TempDir()).OAuthConfig("work")
	require.NoError(t, err)
	assert.Equal(t, "env-id", conf.ClientID)
	assert.Equal(t, "env-secret", conf.ClientSecret)
}

func newTokenServer(t *testing.T, accessToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":%q,"refresh_token":"refresh","token_type":"Bearer","expires_in":3600}`, accessToken)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFileTokenProvider_RefreshPersists(t *testing.T) {
	srv := newTokenServer(t, "fresh")
	store := NewStore(t.TempDir())
	writeClientSecret(t, filepath.Join(store.Dir(), clientSecretFileName), "id", srv.URL)

	expired := &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.SaveToken("work", expired))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	provider := NewFileTokenProvider(store, nil, logger)
	assert.True(t, provider.HasTokenForAccount("work"))

	ts, err := provider.TokenSource(context.Background(), "work")
	require.NoError(t, err)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)

	saved, err := store.LoadToken("work")
	require.NoError(t, err)
	assert.Equal(t, "fresh", saved.AccessToken)

	assert.Contains(t, logs.String(), "persisted refreshed token")
	assert.Contains(t, logs.String(), logging.KeyUserHash+"="+logging.AnonymizeEmail("work"))
	assert.NotContains(t, logs.String(), "account=work")
}

func TestFileTokenProvider_ValidTokenNotRefreshed(t *testing.T) {
	store := NewStore(t.TempDir())
	writeClientSecret(t, filepath.Join(store.Dir(), clientSecretFileName), "id", "http://127.0.0.1:1/token")

	valid := &oauth2.Token{AccessToken: "current", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
	require.NoError(t, store.SaveToken("work", valid))

	ts, err := NewFileTokenProvider(store, nil, nil).TokenSource(context.Background(), "work")
	require.NoError(t, err)
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "current", tok.AccessToken)
}

func TestFileTokenProvider_MissingToken(t *testing.T) {
	provider := NewFileTokenProvider(NewStore(t.TempDir()), nil, nil)
	assert.False(t, provider.HasTokenForAccount("work"))

	_, err := provider.TokenSource(context.Background(), "work")
	assert.True(t, errors.Is(err, ErrNoToken))
}

func TestAuthorize_LoopbackFlow(t *testing.T) {
	srv := newTokenServer(t, "granted")
	conf := &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/auth",
			TokenURL: srv.URL,
		},
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var out bytes.Buffer
	open := func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		cb := q.Get("redirect_uri") + "?code=abc&state=" + url.QueryEscape(q.Get("state"))
		resp, err := http.Get(cb)
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tok, err := authorizeWithListener(ctx, conf, ln, &out, open)
	require.NoError(t, err)
	assert.Equal(t, "granted", tok.AccessToken)
	assert.Contains(t, out.String(), "https://accounts.example.com/auth")
	assert.Empty(t, conf.RedirectURL)
}

func TestAuthorize_StateMismatch(t *testing.T) {
	conf := &oauth2.Config{ClientID: "id", Endpoint: oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth"}}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	open := func(authURL string) error {
		u, _ := url.Parse(authURL)
		resp, err := http.Get(u.Query().Get("redirect_uri") + "?code=abc&state=forged")
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = authorizeWithListener(ctx, conf, ln, &bytes.Buffer{}, open)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}
