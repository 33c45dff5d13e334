package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hootsuite-publisher/domain/repository"
	"hootsuite-publisher/infrastructure/clients/hootsuite"
	"hootsuite-publisher/usecase"
)

// IHootsuiteHandler exposes publishing operations to the editorial UI.
type IHootsuiteHandler interface {
	ListProfiles(ctx *gin.Context)
	PublishContent(ctx *gin.Context)
	DeletePost(ctx *gin.Context)
}

type HootsuiteHandler struct {
	profileUsecase usecase.IProfileUsecase
	publishUsecase usecase.IPublishUsecase
	log            logrus.FieldLogger
}

func NewHootsuiteHandler(profileUsecase usecase.IProfileUsecase, publishUsecase usecase.IPublishUsecase, log logrus.FieldLogger) IHootsuiteHandler {
	return &HootsuiteHandler{profileUsecase: profileUsecase, publishUsecase: publishUsecase, log: log}
}

// ListProfiles handles GET /api/hootsuite/profiles
func (h *HootsuiteHandler) ListProfiles(ctx *gin.Context) {
	profiles, err := h.profileUsecase.ListProfiles(ctx.Request.Context())
	if err != nil {
		h.log.WithField("error", err).Error("Error while listing social profiles")
		ctx.JSON(providerStatus(err), gin.H{"error": "Unable to load social profiles", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": profiles})
}

// PublishContent handles POST /api/contents/:contentId/publish
func (h *HootsuiteHandler) PublishContent(ctx *gin.Context) {
	contentID, ok := pathID(ctx, "contentId")
	if !ok {
		return
	}

	res, err := h.publishUsecase.HandleContent(ctx.Request.Context(), contentID)
	if errors.Is(err, repository.ErrContentNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.WithField("content_id", contentID).WithField("error", err).Error("Error while publishing content")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to publish content"})
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// DeletePost handles DELETE /api/posts/:postId
func (h *HootsuiteHandler) DeletePost(ctx *gin.Context) {
	postID, ok := pathID(ctx, "postId")
	if !ok {
		return
	}

	err := h.publishUsecase.DeletePost(ctx.Request.Context(), postID)
	switch {
	case err == nil:
		ctx.Status(http.StatusNoContent)
	case errors.Is(err, repository.ErrPostNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrPostDelivered):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Post has already been sent and can no longer be deleted"})
	default:
		h.log.WithField("post_id", postID).WithField("error", err).Error("Error while deleting post")
		ctx.JSON(providerStatus(err), gin.H{"error": "Unable to delete post", "message": err.Error()})
	}
}

func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// providerStatus maps Hootsuite client failures to a gateway status.
func providerStatus(err error) int {
	if errors.Is(err, hootsuite.ErrAuthExpired) || errors.Is(err, hootsuite.ErrAuthFailure) || errors.Is(err, hootsuite.ErrNoRefreshToken) {
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}
