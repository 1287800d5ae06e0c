// Package api wires the HTTP handlers onto a gin engine.
package api

import (
	"net/http"

	"social-backend/internal/api/community"
	"social-backend/internal/api/message"
	"social-backend/internal/api/notification"
	"social-backend/internal/api/system"
	"social-backend/internal/api/upload"
	"social-backend/internal/api/user"
	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/service"
	"social-backend/internal/storage"
	"social-backend/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services are the dependencies the handlers are built from
type Services struct {
	Users         service.UserServiceInterface
	Social        service.SocialServiceInterface
	Posts         service.PostServiceInterface
	Comments      service.CommentServiceInterface
	Messages      service.MessageServiceInterface
	Notifications service.NotificationServiceInterface
	Storage       storage.Storage
}

// Options configure the engine around the handlers
type Options struct {
	AllowedOrigins []string
	Debug          bool
	// StaticDir is served under /uploads when set
	StaticDir string
	Analytics *errors.ErrorAnalytics
	// WebSocket is mounted at GET /ws behind AuthMiddleware when set
	WebSocket gin.HandlerFunc
}

// NewRouter builds the engine with middleware and every route
func NewRouter(s Services, opts Options) *gin.Engine {
	util.RegisterValidators()

	if opts.Analytics == nil {
		opts.Analytics = errors.NewErrorAnalytics()
	}

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(opts.Analytics))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	if opts.StaticDir != "" {
		r.Static("/uploads", opts.StaticDir)
	}

	authHandler := user.NewAuthHandler(s.Users)
	profileHandler := user.NewProfileHandler(s.Users)
	userHandler := user.NewUserHandler(s.Social)
	postHandler := community.NewPostHandler(s.Posts)
	commentHandler := community.NewCommentHandler(s.Comments)
	messageHandler := message.NewMessageHandler(s.Messages)
	notificationHandler := notification.NewNotificationHandler(s.Notifications)
	systemHandler := system.NewSystemHandler(opts.Analytics)

	auth := middleware.AuthMiddleware()

	r.GET("/", systemHandler.Health)
	r.GET("/debug-env", systemHandler.DebugEnv)
	r.GET("/debug/errors", middleware.DebugOnly(opts.Debug), systemHandler.ErrorStats)

	users := r.Group("/users")
	{
		users.POST("/register", authHandler.Register)
		users.POST("/login", authHandler.Login)
		users.POST("/logout", authHandler.Logout)
		users.GET("/me/profile", authHandler.CurrentProfile)
		users.GET("/search/users", auth, userHandler.Search)
		users.GET("/suggestions/users", auth, userHandler.Suggestions)
		users.POST("/follow/:id", auth, userHandler.ToggleFollow)
		users.GET("/:id", profileHandler.GetUser)
		users.GET("/:id/followers", userHandler.Followers)
		users.GET("/:id/following", userHandler.Following)
		users.PUT("/:id/avatar", auth, profileHandler.UpdateAvatar)
	}

	r.GET("/posts/by-user/:id", postHandler.ListUserPosts)
	posts := r.Group("/posts", auth)
	{
		posts.POST("", postHandler.CreatePost)
		posts.GET("", postHandler.ListPosts)
		posts.GET("/:id", postHandler.GetPost)
		posts.PUT("/:id", postHandler.UpdatePost)
		posts.DELETE("/:id", postHandler.DeletePost)
		posts.POST("/like/:id", postHandler.ToggleLike)
	}

	comments := r.Group("/comments", auth)
	{
		comments.GET("/count/:id", commentHandler.CountComments)
		comments.POST("/reply/:id", commentHandler.Reply)
		comments.POST("/:id", commentHandler.AddComment)
		comments.GET("/:id", commentHandler.ListComments)
		comments.PUT("/:id", commentHandler.UpdateComment)
		comments.DELETE("/:id", commentHandler.DeleteComment)
	}

	messages := r.Group("/messages", auth)
	{
		messages.GET("/conversations", messageHandler.Conversations)
		messages.GET("/unread-count", messageHandler.UnreadCount)
		messages.PUT("/read/:id", messageHandler.MarkRead)
		messages.POST("/send/:id", messageHandler.Send)
		messages.GET("/:id", messageHandler.History)
	}

	notifications := r.Group("/notifications", auth)
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
	}

	if s.Storage != nil {
		r.POST("/uploads/image", auth, upload.NewUploadHandler(s.Storage).UploadImage)
	}

	if opts.WebSocket != nil {
		r.GET("/ws", auth, opts.WebSocket)
	}

	r.NoRoute(func(c *gin.Context) {
		errors.HandleError(c, errors.New(errors.ErrResourceNotFound, "Route not found"))
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodHead, http.MethodOptions,
	}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
		middleware.RequestIDHeader,
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		middleware.RequestIDHeader,
	}
	return corsConfig
}
