package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const clientSecretFileName = "client_secret.json"

// ErrNoClientSecret is returned when no OAuth client is configured at all.
var ErrNoClientSecret = errors.New("no OAuth client configured")

// ClientSecretPath returns the client_secret.json used for account: the
// account's own file when present, otherwise the shared one in the config dir.
// The returned path may not exist.
func (s *Store) ClientSecretPath(account string) string {
	if account != "" {
		p := filepath.Join(s.AccountDir(account), clientSecretFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(s.dir, clientSecretFileName)
}

// OAuthConfig builds the OAuth client configuration for account.
func (s *Store) OAuthConfig(account string) (*oauth2.Config, error) {
	path := s.ClientSecretPath(account)
	b, err := os.ReadFile(path)
	if err == nil {
		conf, err := google.ConfigFromJSON(b, DefaultOAuthScopes...)
		if err != nil {
			return nil, fmt.Errorf("unable to parse client secret file %s: %w", path, err)
		}
		return conf, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	clientID, clientSecret := os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       DefaultOAuthScopes,
		}, nil
	}

	return nil, fmt.Errorf("%w: place %s in %s or set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET",
		ErrNoClientSecret, clientSecretFileName, s.dir)
}

// Authorize runs the installed-app flow with a loopback redirect. The consent
// URL is written to out and passed to open when open is non-nil.
func Authorize(ctx context.Context, conf *oauth2.Config, out io.Writer, open func(url string) error) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}
	return authorizeWithListener(ctx, conf, ln, out, open)
}

type callbackResult struct {
	code string
	err  error
}

func authorizeWithListener(ctx context.Context, conf *oauth2.Config, ln net.Listener, out io.Writer, open func(url string) error) (*oauth2.Token, error) {
	// Copy so the caller's config keeps its redirect URL.
	c := *conf
	c.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())
	state := uuid.NewString()

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			var res callbackResult
			switch {
			case q.Get("state") != state:
				res.err = fmt.Errorf("state mismatch in OAuth callback")
			case q.Get("error") != "":
				res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
			case q.Get("code") == "":
				res.err = fmt.Errorf("OAuth callback carried no code")
			default:
				res.code = q.Get("code")
			}
			if res.err != nil {
				http.Error(w, res.err.Error(), http.StatusBadRequest)
			} else {
				fmt.Fprintln(w, "Authorization complete. You can close this window.")
			}
			select {
			case results <- res:
			default:
			}
		}),
	}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := c.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(out, "Open the following URL in your browser to authorize access:\n\n%s\n\n", authURL)
	if open != nil {
		if err := open(authURL); err != nil {
			fmt.Fprintf(out, "Could not open a browser automatically: %v\n", err)
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := c.Exchange(ctx, res.code)
		if err != nil {
			return nil, fmt.Errorf("failed to exchange auth code: %w", err)
		}
		return tok, nil
	}
}
