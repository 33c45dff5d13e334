package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"hootsuite-publisher/domain/dto"
	"hootsuite-publisher/domain/repository"
	"hootsuite-publisher/infrastructure/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingCode  = errors.New("authorization code is required")
	ErrInvalidState = errors.New("authorization state is unknown or expired")
)

const authStateTTL = 10 * time.Minute

type IAuthUsecase interface {
	AuthorizationURL() string
	Callback(ctx context.Context, code, state string) error
	Status(ctx context.Context) (*dto.AuthStatusResponse, error)
}

type authUsecase struct {
	auth   repository.IHootsuiteAuth
	store  repository.ITokenStore
	states *authStates
	log    logrus.FieldLogger
}

func NewAuthUsecase(auth repository.IHootsuiteAuth, store repository.ITokenStore, log logrus.FieldLogger) IAuthUsecase {
	return &authUsecase{
		auth:   auth,
		store:  store,
		states: newAuthStates(utils.GetCurrentTime),
		log:    log,
	}
}

// AuthorizationURL returns a consent URL carrying a fresh one-time state.
func (u *authUsecase) AuthorizationURL() string {
	return u.auth.AuthorizationURLWithState(u.states.issue())
}

// Callback completes the authorization code flow. The state must be one
// issued by AuthorizationURL and is consumed by the attempt.
func (u *authUsecase) Callback(ctx context.Context, code, state string) error {
	if code == "" {
		return ErrMissingCode
	}
	if !u.states.consume(state) {
		u.log.Warn("hootsuite callback with unknown state rejected")
		return ErrInvalidState
	}
	if _, err := u.auth.ExchangeCode(ctx, code); err != nil {
		u.log.WithField("error", err).Error("failed to get access token")
		return err
	}
	return nil
}

func (u *authUsecase) Status(ctx context.Context) (*dto.AuthStatusResponse, error) {
	pair, err := u.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return &dto.AuthStatusResponse{
			Connected:        false,
			AuthorizationURL: u.AuthorizationURL(),
			Message:          "Access and Refresh Tokens are not set",
		}, nil
	}
	return &dto.AuthStatusResponse{Connected: true}, nil
}

// authStates holds the state values of connect flows still in progress.
type authStates struct {
	mu     sync.Mutex
	issued map[string]time.Time
	now    func() time.Time
}

func newAuthStates(now func() time.Time) *authStates {
	return &authStates{issued: make(map[string]time.Time), now: now}
}

func (s *authStates) issue() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for state, expires := range s.issued {
		if !now.Before(expires) {
			delete(s.issued, state)
		}
	}
	state := uuid.New().String()
	s.issued[state] = now.Add(authStateTTL)
	return state
}

func (s *authStates) consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expires, ok := s.issued[state]
	if !ok {
		return false
	}
	delete(s.issued, state)
	return s.now().Before(expires)
}
