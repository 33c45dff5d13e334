package repository

import (
	"context"

	"hootsuite-publisher/domain/model"
)

// ITokenStore persists the installation's token pair. Load returns an empty
// pair (and no error) when nothing has been stored yet.
type ITokenStore interface {
	Load(ctx context.Context) (model.TokenPair, error)
	Save(ctx context.Context, pair model.TokenPair) error
}
