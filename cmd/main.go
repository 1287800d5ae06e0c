package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-backend/config"
	"social-backend/internal/api"
	"social-backend/internal/errors"
	"social-backend/internal/push"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/repository/memory"
	"social-backend/internal/repository/mongodb"
	"social-backend/internal/service"
	"social-backend/internal/storage"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type repositories struct {
	users         interfaces.UserRepository
	posts         interfaces.PostRepository
	comments      interfaces.CommentRepository
	messages      interfaces.MessageRepository
	notifications interfaces.NotificationRepository
	close         func(ctx context.Context) error
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("fatal error", zap.Any("error", r))
		}
	}()

	config.Init()

	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("application starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, err := openRepositories(ctx)
	if err != nil {
		util.Logger.Fatal("failed to open database", zap.Error(err))
	}

	publisher, hub := newPublisher()

	fileStorage, err := storage.New(ctx, config.AppConfig)
	if err != nil {
		util.Logger.Fatal("failed to initialise storage", zap.Error(err))
	}
	staticDir := ""
	if local, ok := fileStorage.(*storage.LocalStorage); ok {
		staticDir = local.BasePath()
	}

	opts := service.DefaultDispatcherOptions()
	opts.SweepInterval = config.AppConfig.OutboxInterval
	dispatcher := service.NewNotificationService(repos.notifications, repos.users, publisher, opts)
	dispatcher.Start(ctx)

	emailService := service.NewEmailService()
	if !emailService.Enabled() {
		util.Logger.Info("SMTP not configured, welcome emails disabled")
	}

	routerOpts := api.Options{
		AllowedOrigins: config.AppConfig.FrontendURLs,
		Debug:          config.AppConfig.Debug,
		StaticDir:      staticDir,
		Analytics:      errors.NewErrorAnalytics(),
	}
	if hub != nil {
		routerOpts.WebSocket = hub.ServeWS
	}

	r := api.NewRouter(api.Services{
		Users:         service.NewUserService(repos.users, emailService),
		Social:        service.NewSocialService(repos.users, dispatcher),
		Posts:         service.NewPostService(repos.posts, repos.users, dispatcher),
		Comments:      service.NewCommentService(repos.comments, repos.posts, repos.users, dispatcher),
		Messages:      service.NewMessageService(repos.messages, repos.users, dispatcher),
		Notifications: dispatcher,
		Storage:       fileStorage,
	}, routerOpts)

	if config.AppConfig.Debug {
		logRoutes(r)
	}

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.Port,
		Handler: r,
	}

	go func() {
		util.Logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		util.Logger.Error("server forced to shut down", zap.Error(err))
	}

	cancel()
	dispatcher.Stop()

	if err := repos.close(shutdownCtx); err != nil {
		util.Logger.Error("failed to close database", zap.Error(err))
	}

	util.Logger.Info("server exited")
}

// openRepositories connects the backend selected by DB_DRIVER
func openRepositories(ctx context.Context) (*repositories, error) {
	if config.AppConfig.DBDriver == "memory" {
		util.Logger.Warn("using in-memory storage, data is lost on restart")
		return &repositories{
			users:         memory.NewUserMemoryRepository(),
			posts:         memory.NewPostMemoryRepository(),
			comments:      memory.NewCommentMemoryRepository(),
			messages:      memory.NewMessageMemoryRepository(),
			notifications: memory.NewNotificationMemoryRepository(),
			close:         func(context.Context) error { return nil },
		}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := mongodb.Connect(connectCtx, config.AppConfig.MongoURI, config.AppConfig.MongoDatabase, config.AppConfig.MongoTransactions)
	if err != nil {
		return nil, err
	}
	util.Logger.Info("connected to MongoDB", zap.String("database", config.AppConfig.MongoDatabase))

	if err := db.EnsureIndexes(connectCtx); err != nil {
		return nil, err
	}

	return &repositories{
		users:         mongodb.NewUserRepository(db),
		posts:         mongodb.NewPostRepository(db),
		comments:      mongodb.NewCommentRepository(db),
		messages:      mongodb.NewMessageRepository(db),
		notifications: mongodb.NewNotificationRepository(db),
		close:         db.Disconnect,
	}, nil
}

// newPublisher builds the push driver selected by PUSH_DRIVER; the hub is non-nil for the websocket driver
func newPublisher() (push.Publisher, *push.Hub) {
	switch config.AppConfig.PushDriver {
	case "pusher":
		return push.NewPusherPublisher(
			config.AppConfig.PusherAppID,
			config.AppConfig.PusherKey,
			config.AppConfig.PusherSecret,
			config.AppConfig.PusherCluster,
		), nil
	case "websocket":
		hub := push.NewHub(config.AppConfig.FrontendURLs)
		return hub, hub
	default:
		util.Logger.Warn("real-time push disabled", zap.String("driver", config.AppConfig.PushDriver))
		return push.NoopPublisher{}, nil
	}
}

func logRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		util.Logger.Info("route",
			zap.String("method", route.Method),
			zap.String("path", route.Path),
			zap.String("handler", route.Handler))
	}
}
