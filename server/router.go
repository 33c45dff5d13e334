package server

import (
	"net/http"
	"time"

	"hootsuite-publisher/infrastructure/realtime"
	httpHandler "hootsuite-publisher/interfaces/http"
	"hootsuite-publisher/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var allowedOrigins = []string{"http://localhost:4200", "http://localhost:4201", "https://localhost:4200", "https://localhost:4201"}

func InitiateRouter(
	secretKey string,
	healthHandler httpHandler.IHealthHandler,
	authHandler httpHandler.IHootsuiteAuthHandler,
	hootsuiteHandler httpHandler.IHootsuiteHandler,
	hub *realtime.NotificationHub,
	log logrus.FieldLogger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler.Healthz)

	requireToken := middleware.Auth(secretKey, log)

	// OAuth connect flow; the callback is hit by the browser after consent
	// and only accepts a state issued by /auth/hootsuite
	router.GET("/auth/hootsuite", requireToken, authHandler.GetAuthURL)
	router.GET("/auth/hootsuite/callback", authHandler.Callback)

	api := router.Group("api")
	api.Use(requireToken)

	api.GET("/hootsuite/status", authHandler.Status)
	api.GET("/hootsuite/profiles", hootsuiteHandler.ListProfiles)
	api.POST("/contents/:contentId/publish", hootsuiteHandler.PublishContent)
	api.DELETE("/posts/:postId", hootsuiteHandler.DeletePost)

	if hub != nil {
		api.GET("/notices", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"data": hub.Recent()})
		})
		api.GET("/notices/stream", hub.Serve)
	}

	return router
}
