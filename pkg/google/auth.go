package google

import (
	"context"
	"errors"
	"net/http"

	"github.com/inkfeed/inkfeed/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// ErrNotConfigured is returned when the Google OAuth credentials are missing
// from the configuration.
var ErrNotConfigured = errors.New("google oauth credentials are not configured")

// Auth turns a long-lived refresh token from the configuration into
// short-lived HTTP clients for the Calendar API. Refreshed access tokens are
// persisted through the token repository so a restart does not force an
// immediate re-refresh.
type Auth struct {
	oauthConfig  *oauth2.Config
	refreshToken string
	tokens       TokenRepository
}

func NewAuth(cfg config.Google, tokens TokenRepository) *Auth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientId,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		Scopes:       []string{gcal.CalendarReadonlyScope},
	}
	return &Auth{
		oauthConfig:  oauthConfig,
		refreshToken: cfg.RefreshToken,
		tokens:       tokens,
	}
}

// Client returns an HTTP client that authenticates requests with a valid
// access token, refreshing it when needed.
func (a *Auth) Client(ctx context.Context) (*http.Client, error) {
	if a.oauthConfig.ClientID == "" || a.oauthConfig.ClientSecret == "" || a.refreshToken == "" {
		return nil, ErrNotConfigured
	}

	token := &oauth2.Token{RefreshToken: a.refreshToken}
	if a.tokens != nil {
		stored, err := a.tokens.Load(ctx)
		if err != nil {
			log.Warnf("could not load stored access token, refreshing instead: %v", err)
		} else if stored != nil && stored.RefreshToken == a.refreshToken {
			token = stored
		}
	}

	source := oauth2.ReuseTokenSource(token, &persistingTokenSource{
		source: a.oauthConfig.TokenSource(ctx, token),
		tokens: a.tokens,
	})
	return oauth2.NewClient(ctx, source), nil
}

// persistingTokenSource stores every freshly obtained token. It sits behind a
// ReuseTokenSource, so it is only consulted when the cached token expired.
type persistingTokenSource struct {
	source oauth2.TokenSource
	tokens TokenRepository
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.source.Token()
	if err != nil {
		return nil, err
	}
	if p.tokens != nil {
		if err := p.tokens.Store(context.Background(), token); err != nil {
			log.Warnf("could not persist refreshed access token: %v", err)
		}
	}
	return token, nil
}
