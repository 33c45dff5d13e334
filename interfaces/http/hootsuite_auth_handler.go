package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"hootsuite-publisher/usecase"
)

const (
	MessageTokensSaved      = "Access tokens saved"
	MessageTokenFailure     = "Failed to get access token. Check log messages."
	MessageInvalidState     = "Authorization state is invalid or expired"
	MessageTokensNotChecked = "Unable to read stored tokens"
)

// IHootsuiteAuthHandler serves the OAuth2 connect flow.
type IHootsuiteAuthHandler interface {
	GetAuthURL(ctx *gin.Context)
	Callback(ctx *gin.Context)
	Status(ctx *gin.Context)
}

type HootsuiteAuthHandler struct {
	authUsecase usecase.IAuthUsecase
}

func NewHootsuiteAuthHandler(authUsecase usecase.IAuthUsecase) IHootsuiteAuthHandler {
	return &HootsuiteAuthHandler{authUsecase: authUsecase}
}

// GetAuthURL handles GET /auth/hootsuite
func (h *HootsuiteAuthHandler) GetAuthURL(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"auth_url": h.authUsecase.AuthorizationURL(),
	})
}

// Callback handles GET /auth/hootsuite/callback
func (h *HootsuiteAuthHandler) Callback(ctx *gin.Context) {
	if errorParam := ctx.Query("error"); errorParam != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":       fmt.Sprintf("OAuth error: %s", errorParam),
			"description": ctx.Query("error_description"),
		})
		return
	}

	err := h.authUsecase.Callback(ctx.Request.Context(), ctx.Query("code"), ctx.Query("state"))
	if errors.Is(err, usecase.ErrMissingCode) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":  "Authorization code not found",
			"action": "Visit /auth/hootsuite to start over",
		})
		return
	}
	if errors.Is(err, usecase.ErrInvalidState) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":  MessageInvalidState,
			"action": "Visit /auth/hootsuite to start over",
		})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": MessageTokenFailure})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": MessageTokensSaved})
}

// Status handles GET /api/hootsuite/status
func (h *HootsuiteAuthHandler) Status(ctx *gin.Context) {
	status, err := h.authUsecase.Status(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": MessageTokensNotChecked})
		return
	}
	ctx.JSON(http.StatusOK, status)
}
