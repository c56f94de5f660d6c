package google

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// TokenRepository persists the most recently refreshed OAuth token.
type TokenRepository interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Store(ctx context.Context, token *oauth2.Token) error
}

type TokenRepositoryImpl struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepositoryImpl {
	return &TokenRepositoryImpl{db: db}
}

// Load returns the stored token, or nil when nothing has been stored yet.
func (r *TokenRepositoryImpl) Load(ctx context.Context) (*oauth2.Token, error) {
	query := `SELECT access_token, refresh_token, token_type, expiry FROM google_oauth_token WHERE id = 1`

	var accessToken, refreshToken, tokenType string
	var expiryMillis int64
	err := r.db.QueryRowContext(ctx, query).Scan(&accessToken, &refreshToken, &tokenType, &expiryMillis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		err := fmt.Errorf("could not load oauth token: %w", err)
		log.Error(err)
		return nil, err
	}

	return &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenType,
		Expiry:       time.UnixMilli(expiryMillis),
	}, nil
}

func (r *TokenRepositoryImpl) Store(ctx context.Context, token *oauth2.Token) error {
	query := `INSERT INTO google_oauth_token (id, access_token, refresh_token, token_type, expiry)
			  VALUES (1, ?, ?, ?, ?)
			  ON CONFLICT (id) DO UPDATE SET
			      access_token = excluded.access_token,
			      refresh_token = excluded.refresh_token,
			      token_type = excluded.token_type,
			      expiry = excluded.expiry`

	_, err := r.db.ExecContext(ctx, query, token.AccessToken, token.RefreshToken, token.TokenType, token.Expiry.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store oauth token: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
