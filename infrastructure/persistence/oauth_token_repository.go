package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hootsuite-publisher/domain/model"
)

const ProviderHootsuite = "hootsuite"

// OAuthTokenRepository keeps one token pair per provider in PostgreSQL.
type OAuthTokenRepository struct {
	db       *sql.DB
	provider string
}

func NewOAuthTokenRepository(db *sql.DB, provider string) *OAuthTokenRepository {
	return &OAuthTokenRepository{db: db, provider: provider}
}

// Load returns an empty pair when nothing has been stored yet.
func (r *OAuthTokenRepository) Load(ctx context.Context) (model.TokenPair, error) {
	tok, err := r.GetToken(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TokenPair{}, nil
	}
	if err != nil {
		return model.TokenPair{}, err
	}
	return tok.Pair(), nil
}

// Save writes both tokens in a single statement.
func (r *OAuthTokenRepository) Save(ctx context.Context, pair model.TokenPair) error {
	return r.UpsertToken(ctx, &model.OAuthToken{Provider: r.provider, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (r *OAuthTokenRepository) UpsertToken(ctx context.Context, t *model.OAuthToken) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	q := `INSERT INTO oauth_tokens (provider, access_token, refresh_token, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5)
		  ON CONFLICT (provider) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, t.Provider, t.AccessToken, t.RefreshToken, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *OAuthTokenRepository) GetToken(ctx context.Context) (*model.OAuthToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, provider, access_token, refresh_token, created_at, updated_at FROM oauth_tokens WHERE provider=$1`, r.provider)
	tok := &model.OAuthToken{}
	var refresh sql.NullString
	if err := row.Scan(&tok.ID, &tok.Provider, &tok.AccessToken, &refresh, &tok.CreatedAt, &tok.UpdatedAt); err != nil {
		return nil, err
	}
	tok.RefreshToken = refresh.String
	return tok, nil
}
