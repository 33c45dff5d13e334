package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"hootsuite-publisher/domain/dto"
	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
)

type IProfileUsecase interface {
	ListProfiles(ctx context.Context) ([]model.SocialProfile, error)
}

type profileUsecase struct {
	transport repository.IHootsuiteTransport
	endpoint  string
}

func NewProfileUsecase(transport repository.IHootsuiteTransport, endpoint string) IProfileUsecase {
	return &profileUsecase{transport: transport, endpoint: endpoint}
}

// ListProfiles fetches the social profiles connected to the Hootsuite account.
func (u *profileUsecase) ListProfiles(ctx context.Context) ([]model.SocialProfile, error) {
	raw, err := u.transport.Call(ctx, http.MethodGet, u.endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	var resp dto.SocialProfilesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode social profiles: %w", err)
	}
	if resp.Data == nil {
		return []model.SocialProfile{}, nil
	}
	return resp.Data, nil
}
