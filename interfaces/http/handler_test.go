package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hootsuite-publisher/domain/dto"
	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
	"hootsuite-publisher/infrastructure/clients/hootsuite"
	"hootsuite-publisher/usecase"
)

type MockAuthUsecase struct{ mock.Mock }

func (m *MockAuthUsecase) AuthorizationURL() string {
	return m.Called().String(0)
}

func (m *MockAuthUsecase) Callback(ctx context.Context, code, state string) error {
	return m.Called(ctx, code, state).Error(0)
}

func (m *MockAuthUsecase) Status(ctx context.Context) (*dto.AuthStatusResponse, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*dto.AuthStatusResponse)
	return res, args.Error(1)
}

type MockProfileUsecase struct{ mock.Mock }

func (m *MockProfileUsecase) ListProfiles(ctx context.Context) ([]model.SocialProfile, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]model.SocialProfile)
	return res, args.Error(1)
}

type MockPublishUsecase struct{ mock.Mock }

func (m *MockPublishUsecase) HandleContent(ctx context.Context, contentID int64) (*dto.PublishResponse, error) {
	args := m.Called(ctx, contentID)
	res, _ := args.Get(0).(*dto.PublishResponse)
	return res, args.Error(1)
}

func (m *MockPublishUsecase) HandleEvent(ctx context.Context, event model.ContentEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockPublishUsecase) DeletePost(ctx context.Context, postID int64) error {
	return m.Called(ctx, postID).Error(0)
}

func setupRouter(authUsecase usecase.IAuthUsecase, profiles usecase.IProfileUsecase, publish usecase.IPublishUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()
	auth := NewHootsuiteAuthHandler(authUsecase)
	h := NewHootsuiteHandler(profiles, publish, log)

	r := gin.New()
	r.GET("/healthz", NewHealthHandler().Healthz)
	r.GET("/auth/hootsuite", auth.GetAuthURL)
	r.GET("/auth/hootsuite/callback", auth.Callback)
	r.GET("/api/hootsuite/status", auth.Status)
	r.GET("/api/hootsuite/profiles", h.ListProfiles)
	r.POST("/api/contents/:contentId/publish", h.PublishContent)
	r.DELETE("/api/posts/:postId", h.DeletePost)
	return r
}

func serve(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	w := serve(setupRouter(nil, nil, nil), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestHootsuiteAuthHandler_GetAuthURL(t *testing.T) {
	authUsecase := new(MockAuthUsecase)
	authUsecase.On("AuthorizationURL").Return("https://platform.hootsuite.com/oauth2/auth?client_id=c")

	w := serve(setupRouter(authUsecase, nil, nil), http.MethodGet, "/auth/hootsuite")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://platform.hootsuite.com/oauth2/auth?client_id=c", decode(t, w)["auth_url"])
}

func TestHootsuiteAuthHandler_Callback(t *testing.T) {
	cases := []struct {
		name    string
		target  string
		err     error
		status  int
		message string
	}{
		{"saved", "/auth/hootsuite/callback?code=abc", nil, http.StatusOK, MessageTokensSaved},
		{"exchange failed", "/auth/hootsuite/callback?code=abc", hootsuite.ErrAuthFailure, http.StatusBadGateway, MessageTokenFailure},
		{"missing code", "/auth/hootsuite/callback", usecase.ErrMissingCode, http.StatusBadRequest, "Authorization code not found"},
		{"unknown state", "/auth/hootsuite/callback?code=abc&state=forged", usecase.ErrInvalidState, http.StatusBadRequest, MessageInvalidState},
		{"provider error", "/auth/hootsuite/callback?error=access_denied", nil, http.StatusBadRequest, "OAuth error: access_denied"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			authUsecase := new(MockAuthUsecase)
			authUsecase.On("Callback", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(tc.err)

			w := serve(setupRouter(authUsecase, nil, nil), http.MethodGet, tc.target)
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
		})
	}
}

func TestHootsuiteAuthHandler_Status(t *testing.T) {
	authUsecase := new(MockAuthUsecase)
	authUsecase.On("Status", mock.Anything).Return(&dto.AuthStatusResponse{Connected: false, Message: "Access and Refresh Tokens are not set"}, nil).Once()
	authUsecase.On("Status", mock.Anything).Return(nil, errors.New("db down")).Once()
	r := setupRouter(authUsecase, nil, nil)

	w := serve(r, http.MethodGet, "/api/hootsuite/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["connected"])

	w = serve(r, http.MethodGet, "/api/hootsuite/status")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHootsuiteHandler_ListProfiles(t *testing.T) {
	profiles := new(MockProfileUsecase)
	profiles.On("ListProfiles", mock.Anything).Return([]model.SocialProfile{{ID: "p1", NetworkType: "TWITTER", Username: "acme"}}, nil).Once()
	profiles.On("ListProfiles", mock.Anything).Return(nil, fmt.Errorf("%w: 401", hootsuite.ErrAuthExpired)).Once()
	r := setupRouter(nil, profiles, nil)

	w := serve(r, http.MethodGet, "/api/hootsuite/profiles")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"id":"p1","type":"TWITTER","socialNetworkUsername":"acme"}]}`, w.Body.String())

	w = serve(r, http.MethodGet, "/api/hootsuite/profiles")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHootsuiteHandler_PublishContent(t *testing.T) {
	remote := "post1"
	publish := new(MockPublishUsecase)
	publish.On("HandleContent", mock.Anything, int64(3)).Return(&dto.PublishResponse{
		ContentID: 3,
		Results:   []*model.PublishResult{{PostID: 7, ProfileID: "p1", Outcome: model.OutcomeScheduled, RemotePostID: &remote}},
	}, nil)
	publish.On("HandleContent", mock.Anything, int64(4)).Return(nil, repository.ErrContentNotFound)
	publish.On("HandleContent", mock.Anything, int64(5)).Return(nil, errors.New("db down"))
	r := setupRouter(nil, nil, publish)

	w := serve(r, http.MethodPost, "/api/contents/3/publish")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"content_id":3,"results":[{"post_id":7,"profile_id":"p1","outcome":"SCHEDULED","remote_post_id":"post1"}]}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodPost, "/api/contents/4/publish").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodPost, "/api/contents/5/publish").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/api/contents/abc/publish").Code)
	publish.AssertNumberOfCalls(t, "HandleContent", 3)
}

func TestHootsuiteHandler_DeletePost(t *testing.T) {
	publish := new(MockPublishUsecase)
	publish.On("DeletePost", mock.Anything, int64(1)).Return(nil)
	publish.On("DeletePost", mock.Anything, int64(2)).Return(repository.ErrPostNotFound)
	publish.On("DeletePost", mock.Anything, int64(3)).Return(usecase.ErrPostDelivered)
	publish.On("DeletePost", mock.Anything, int64(4)).Return(&hootsuite.TransportError{Method: "DELETE", StatusCode: 500})
	r := setupRouter(nil, nil, publish)

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/api/posts/1").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodDelete, "/api/posts/2").Code)
	assert.Equal(t, http.StatusConflict, serve(r, http.MethodDelete, "/api/posts/3").Code)
	assert.Equal(t, http.StatusBadGateway, serve(r, http.MethodDelete, "/api/posts/4").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodDelete, "/api/posts/0").Code)
}

func TestHootsuiteAuthHandler_CallbackPassesState(t *testing.T) {
	authUsecase := new(MockAuthUsecase)
	authUsecase.On("Callback", mock.Anything, "abc", "s-1").Return(nil)

	w := serve(setupRouter(authUsecase, nil, nil), http.MethodGet, "/auth/hootsuite/callback?code=abc&state=s-1")
	assert.Equal(t, http.StatusOK, w.Code)
	authUsecase.AssertExpectations(t)
}
