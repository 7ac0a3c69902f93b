package google

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/multical/internal/instrumentation"
	"github.com/teemow/multical/internal/logging"
)

// TokenProvider hands out OAuth token sources per account.
type TokenProvider interface {
	// TokenSource returns a refreshing token source for account.
	TokenSource(ctx context.Context, account string) (oauth2.TokenSource, error)

	// HasTokenForAccount checks if credentials exist for account.
	HasTokenForAccount(account string) bool
}

// FileTokenProvider serves tokens from a Store and writes refreshed tokens
// back to disk.
type FileTokenProvider struct {
	store   *Store
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewFileTokenProvider creates a file-backed token provider. metrics may be nil.
func NewFileTokenProvider(store *Store, metrics *instrumentation.Metrics, logger *slog.Logger) *FileTokenProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileTokenProvider{store: store, metrics: metrics, logger: logger}
}

// TokenSource loads the account's token and OAuth client. The result
// refreshes on expiry and persists every new token.
func (p *FileTokenProvider) TokenSource(ctx context.Context, account string) (oauth2.TokenSource, error) {
	tok, err := p.store.LoadToken(account)
	if err != nil {
		return nil, err
	}
	conf, err := p.store.OAuthConfig(account)
	if err != nil {
		return nil, err
	}

	ps := &persistingSource{
		base:    conf.TokenSource(ctx, tok),
		last:    tok.AccessToken,
		account: account,
		save:    p.store.SaveToken,
		metrics: p.metrics,
		logger:  p.logger.With(logging.UserHash(account)),
	}
	return oauth2.ReuseTokenSource(tok, ps), nil
}

// HasTokenForAccount checks if a token file exists for the account.
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return p.store.HasToken(account)
}

type persistingSource struct {
	base    oauth2.TokenSource
	account string
	save    func(account string, tok *oauth2.Token) error
	metrics *instrumentation.Metrics
	logger  *slog.Logger

	mu   sync.Mutex
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		s.metrics.RecordOAuthTokenRefresh(context.Background(), instrumentation.OAuthResultFailure)
		return nil, fmt.Errorf("failed to refresh token for account %q: %w", s.account, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken == s.last {
		return tok, nil
	}
	s.last = tok.AccessToken
	s.metrics.RecordOAuthTokenRefresh(context.Background(), instrumentation.OAuthResultSuccess)

	// A failed write only costs another refresh next run.
	if err := s.save(s.account, tok); err != nil {
		s.logger.Warn("failed to persist refreshed token", logging.Err(err))
	} else {
		s.logger.Debug("persisted refreshed token")
	}
	return tok, nil
}
