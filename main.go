package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hootsuite-publisher/domain/repository"
	"hootsuite-publisher/infrastructure/cache"
	"hootsuite-publisher/infrastructure/clients/hootsuite"
	"hootsuite-publisher/infrastructure/configuration"
	"hootsuite-publisher/infrastructure/filestore"
	"hootsuite-publisher/infrastructure/logger"
	"hootsuite-publisher/infrastructure/persistence"
	"hootsuite-publisher/infrastructure/pubsub"
	"hootsuite-publisher/infrastructure/realtime"
	"hootsuite-publisher/infrastructure/servicebus"
	"hootsuite-publisher/infrastructure/utils"
	httpHandler "hootsuite-publisher/interfaces/http"
	"hootsuite-publisher/server"
	"hootsuite-publisher/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

// stores groups the relational repositories for the selected vendor.
type stores struct {
	db       *sql.DB
	tokens   repository.ITokenStore
	posts    repository.IScheduledPost
	contents repository.IContent
}

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	issueToken := flag.String("issue-token", "", "print an API bearer token for the given user and exit")
	flag.Parse()

	if *issueToken != "" {
		token, err := utils.IssueUserToken(*issueToken, utils.GetCurrentTime(), utils.DefaultTokenTTL, configuration.C.App.SecretKey)
		if err != nil {
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)
	log := logger.GetLogger()
	app := configuration.C.App

	st, err := InitiateDatabase()
	if err != nil {
		log.WithField("error", err).Error("Database initialization failed")
		os.Exit(2)
	}
	defer st.db.Close()

	tokenStore := newTokenStore(ctx, st.tokens)

	hsConfig, err := configuration.GetHootsuiteConfig()
	if err != nil {
		log.WithField("error", err).Warn("Hootsuite credentials not configured - connect flow will fail until they are set")
	}
	clientConfig := &hootsuite.Config{
		ClientID:               hsConfig.ClientID,
		ClientSecret:           hsConfig.ClientSecret,
		AuthEndpoint:           hsConfig.AuthEndpoint,
		TokenEndpoint:          hsConfig.TokenEndpoint,
		RedirectURI:            hsConfig.RedirectURI,
		BaseURL:                hsConfig.BaseURL,
		PostMessageEndpoint:    hsConfig.PostMessageEndpoint,
		MediaEndpoint:          hsConfig.MediaEndpoint,
		SocialProfilesEndpoint: hsConfig.SocialProfilesEndpoint,
		Timeout:                hsConfig.RequestTimeout,
	}
	httpClient := &http.Client{Timeout: hsConfig.RequestTimeout}
	authClient := hootsuite.NewAuthClient(clientConfig, tokenStore, httpClient, log.WithField("component", "hootsuite_auth"))
	apiClient := hootsuite.NewClient(clientConfig, authClient, httpClient, log.WithField("component", "hootsuite_api"))

	hub := realtime.NewNotificationHub()
	publisher := usecase.NewPostPublisher(usecase.PostPublisherConfig{
		Transport:           apiClient,
		Posts:               st.posts,
		Files:               newFileStore(ctx),
		Notices:             hub,
		PostMessageEndpoint: hsConfig.PostMessageEndpoint,
		MediaEndpoint:       hsConfig.MediaEndpoint,
		Polling: usecase.MediaPolling{
			Attempts: hsConfig.MediaPollAttempts,
			Interval: hsConfig.MediaPollInterval,
		},
		Log: log.WithField("component", "publisher"),
	})

	publishUsecase := usecase.NewPublishUsecase(st.contents, st.posts, newAudit(ctx), publisher, log.WithField("component", "publish"))
	authUsecase := usecase.NewAuthUsecase(authClient, tokenStore, log.WithField("component", "auth"))
	profileUsecase := usecase.NewProfileUsecase(apiClient, hsConfig.SocialProfilesEndpoint)

	router := server.InitiateRouter(
		app.SecretKey,
		httpHandler.NewHealthHandler(),
		httpHandler.NewHootsuiteAuthHandler(authUsecase),
		httpHandler.NewHootsuiteHandler(profileUsecase, publishUsecase, log),
		hub,
		log,
	)

	startEventConsumer(ctx, g, publishUsecase)

	log.WithFields(map[string]interface{}{"port": app.Port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", app.Port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				log.Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				log.WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		log.Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateDatabase opens MSSQL in production (or when DB_VENDOR=mssql) and
// PostgreSQL otherwise, then makes sure the publisher tables exist.
func InitiateDatabase() (*stores, error) {
	env := os.Getenv("ENV")
	if os.Getenv("DB_VENDOR") == "mssql" || env == "production" || env == "prod" {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL")
			return nil, err
		}
		if err := persistence.EnsureSchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring publisher schema (mssql)")
		}
		return &stores{
			db:       db,
			tokens:   persistence.NewOAuthTokenRepositoryMSSQL(db, persistence.ProviderHootsuite),
			posts:    persistence.NewScheduledPostRepositoryMSSQL(db),
			contents: persistence.NewContentRepositoryMSSQL(db),
		}, nil
	}

	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to the local database")
		return nil, err
	}
	if err := persistence.EnsureSchema(db); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring publisher schema")
	}
	return &stores{
		db:       db,
		tokens:   persistence.NewOAuthTokenRepository(db, persistence.ProviderHootsuite),
		posts:    persistence.NewScheduledPostRepository(db),
		contents: persistence.NewContentRepository(db),
	}, nil
}

func newTokenStore(ctx context.Context, sqlStore repository.ITokenStore) repository.ITokenStore {
	if configuration.C.TokenStore.Driver != "redis" {
		return sqlStore
	}
	rc := configuration.C.RedisClient
	redisClient, err := cache.NewCache(ctx, fmt.Sprintf("%s:%s", rc.Host, rc.Port), rc.Username, rc.Password)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - storing tokens in the database")
		return sqlStore
	}
	logger.GetLogger().Info("Redis client initialized successfully.")
	return cache.NewRedisTokenStore(redisClient, "")
}

func newAudit(ctx context.Context) repository.IPublishAudit {
	switch configuration.C.Audit.Driver {
	case "gorm":
		db, err := persistence.NewGormMySQL()
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("MySQL not available - continuing without publish audit")
			return nil
		}
		repo := persistence.NewPublishAuditRepositoryGorm(db)
		if err := repo.Migrate(); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed migrating publish audit table")
		}
		return repo
	case "mongo":
		m := configuration.C.Database.Mongo
		client, err := persistence.NewMongoDb(m.Host, m.Port, m.User, m.Password, m.Name)
		if err == nil {
			err = persistence.PingMongo(ctx, client)
		}
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("MongoDB not available - continuing without publish audit")
			return nil
		}
		logger.GetLogger().Info("MongoDB connected successfully")
		return persistence.NewPublishAuditRepositoryMongo(client, m.Name)
	default:
		return nil
	}
}

func newFileStore(ctx context.Context) repository.IFileStore {
	media := configuration.C.Media
	if media.S3.Bucket != "" {
		store, err := filestore.NewS3Store(ctx, filestore.S3Config{
			Bucket:          media.S3.Bucket,
			Region:          media.S3.Region,
			Endpoint:        media.S3.Endpoint,
			AccessKeyID:     media.S3.AccessKeyID,
			SecretAccessKey: media.S3.SecretAccessKey,
			Prefix:          media.S3.Prefix,
		})
		if err == nil {
			return store
		}
		logger.GetLogger().WithField("error", err).Warn("S3 media store not available - using local media root")
	}
	return filestore.NewLocalStore(media.Root)
}

func startEventConsumer(ctx context.Context, g *errgroup.Group, publishUsecase usecase.IPublishUsecase) {
	events := configuration.C.Events
	switch events.Driver {
	case "pubsub":
		client, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while instantiate PubSub")
			return
		}
		subscriber := pubsub.NewContentEventSubscriber(client, events.Subscription, publishUsecase.HandleEvent, logger.GetLogger())
		g.Go(func() error {
			defer client.Close()
			return subscriber.Run(ctx)
		})
	case "servicebus":
		client, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without Service Bus features")
			return
		}
		receiver := servicebus.NewContentEventReceiver(client, events.Queue, publishUsecase.HandleEvent, logger.GetLogger())
		g.Go(func() error {
			defer client.Close(context.Background())
			return receiver.Run(ctx)
		})
	}
}
