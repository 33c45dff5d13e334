package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hootsuite-publisher/domain/model"
)

type OAuthTokenRepositoryMSSQL struct {
	db       *sql.DB
	provider string
}

func NewOAuthTokenRepositoryMSSQL(db *sql.DB, provider string) *OAuthTokenRepositoryMSSQL {
	return &OAuthTokenRepositoryMSSQL{db: db, provider: provider}
}

func (r *OAuthTokenRepositoryMSSQL) Load(ctx context.Context) (model.TokenPair, error) {
	tok, err := r.GetToken(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TokenPair{}, nil
	}
	if err != nil {
		return model.TokenPair{}, err
	}
	return tok.Pair(), nil
}

func (r *OAuthTokenRepositoryMSSQL) Save(ctx context.Context, pair model.TokenPair) error {
	return r.UpsertToken(ctx, &model.OAuthToken{Provider: r.provider, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (r *OAuthTokenRepositoryMSSQL) UpsertToken(ctx context.Context, t *model.OAuthToken) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	// MERGE upsert by provider
	q := `MERGE dbo.[oauth_tokens] AS target
USING (VALUES (@p1)) AS src(provider)
ON target.provider = src.provider
WHEN MATCHED THEN UPDATE SET
    access_token=@p2,
    refresh_token=@p3,
    updated_at=@p5
WHEN NOT MATCHED THEN
    INSERT (provider, access_token, refresh_token, created_at, updated_at)
    VALUES (@p1,@p2,@p3,@p4,@p5);`
	_, err := r.db.ExecContext(ctx, q, t.Provider, t.AccessToken, t.RefreshToken, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *OAuthTokenRepositoryMSSQL) GetToken(ctx context.Context) (*model.OAuthToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, provider, access_token, refresh_token, created_at, updated_at FROM dbo.[oauth_tokens] WHERE provider=@p1`, r.provider)
	tok := &model.OAuthToken{}
	var refresh sql.NullString
	if err := row.Scan(&tok.ID, &tok.Provider, &tok.AccessToken, &refresh, &tok.CreatedAt, &tok.UpdatedAt); err != nil {
		return nil, err
	}
	tok.RefreshToken = refresh.String
	return tok, nil
}
