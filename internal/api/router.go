package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/steemit/yatube/internal/auth"
	"github.com/steemit/yatube/internal/cache"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/internal/storage"
	"github.com/steemit/yatube/pkg/config"
	"github.com/steemit/yatube/pkg/logging"
	"github.com/steemit/yatube/pkg/telemetry"
)

const serviceName = "yatube-api"

// Router sets up API routes
type Router struct {
	db     *db.DB
	cache  *cache.Cache
	store  storage.Store
	tokens *auth.TokenManager
	cfg    *config.Config
	logger *zap.Logger

	posts    *PostHandler
	comments *CommentHandler
	groups   *GroupHandler
	follows  *FollowHandler
	jwt      *TokenHandler
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, store storage.Store, cfg *config.Config) *Router {
	repo := db.NewRepository(database.DB)
	tokens := auth.NewTokenManager(&cfg.Auth)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}

	return &Router{
		db:     database,
		cache:  redisCache,
		store:  store,
		tokens: tokens,
		cfg:    cfg,
		logger: logging.GetLogger().With(zap.String("component", "api-router")),

		posts:    NewPostHandler(repo, store, cfg.Storage.MaxImageSize),
		comments: NewCommentHandler(repo),
		groups:   NewGroupHandler(repo, redisCache),
		follows:  NewFollowHandler(repo),
		jwt:      NewTokenHandler(repo, tokens),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		renderError(c, r.logger, ErrNotFound)
	})
	engine.NoMethod(func(c *gin.Context) {
		renderError(c, r.logger, methodNotAllowed(c.Request.Method))
	})

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	if r.cfg.Telemetry.PrometheusEnabled {
		engine.GET("/metrics", gin.WrapH(telemetry.MetricsHandler()))
	}
	if local, ok := r.store.(*storage.LocalStore); ok {
		engine.Static("/media", local.Root())
	}

	// token endpoints ignore any bearer header the client still sends
	jwtGroup := engine.Group("/v1/jwt")
	jwtGroup.POST("/create/", r.jwt.Create)
	jwtGroup.POST("/refresh/", r.jwt.Refresh)
	jwtGroup.POST("/verify/", r.jwt.Verify)

	v1 := engine.Group("/v1")
	v1.Use(auth.Middleware(r.tokens, db.NewUserRepository(db.NewRepository(r.db.DB))))

	readable(v1, "/posts/", r.posts.List)
	v1.POST("/posts/", r.posts.Create)
	readable(v1, "/posts/:id/", r.posts.Retrieve)
	v1.PUT("/posts/:id/", r.posts.Update)
	v1.PATCH("/posts/:id/", r.posts.Update)
	v1.DELETE("/posts/:id/", r.posts.Destroy)

	readable(v1, "/posts/:id/comments/", r.comments.List)
	v1.POST("/posts/:id/comments/", r.comments.Create)
	readable(v1, "/posts/:id/comments/:comment_id/", r.comments.Retrieve)
	v1.PUT("/posts/:id/comments/:comment_id/", r.comments.Update)
	v1.PATCH("/posts/:id/comments/:comment_id/", r.comments.Update)
	v1.DELETE("/posts/:id/comments/:comment_id/", r.comments.Destroy)

	readable(v1, "/groups/", r.groups.List)
	readable(v1, "/groups/:id/", r.groups.Retrieve)

	readable(v1, "/follow/", r.follows.List)
	v1.POST("/follow/", r.follows.Create)
}

// readable registers a read handler for both GET and HEAD
func readable(group *gin.RouterGroup, path string, handler gin.HandlerFunc) {
	group.GET(path, handler)
	group.HEAD(path, handler)
}

// healthHandler reports database and cache health
func (r *Router) healthHandler(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	body := gin.H{
		"status":   "OK",
		"service":  serviceName,
		"database": "ok",
		"cache":    "ok",
	}

	if err := r.db.Health(ctx); err != nil {
		r.logger.Error("Database health check failed", zap.Error(err))
		status = http.StatusServiceUnavailable
		body["status"] = "UNAVAILABLE"
		body["database"] = err.Error()
	}

	if err := r.cache.Health(ctx); err != nil {
		if errors.Is(err, cache.ErrCacheDisabled) {
			body["cache"] = "disabled"
		} else {
			r.logger.Warn("Cache health check failed", zap.Error(err))
			body["cache"] = err.Error()
		}
	}

	c.JSON(status, body)
}
