package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/yatube/internal/cache"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/internal/permissions"
	"github.com/steemit/yatube/internal/serializers"
	"github.com/steemit/yatube/pkg/logging"
	"github.com/steemit/yatube/pkg/telemetry"
)

// GroupHandler serves the read-only /v1/groups/ surface
type GroupHandler struct {
	groups *db.GroupRepository
	cache  *cache.Cache
	perms  []permissions.Permission
	logger *zap.Logger
}

// NewGroupHandler creates a group handler; redisCache may be nil
func NewGroupHandler(repo *db.Repository, redisCache *cache.Cache) *GroupHandler {
	return &GroupHandler{
		groups: db.NewGroupRepository(repo),
		cache:  redisCache,
		perms:  []permissions.Permission{permissions.AllowAny{}},
		logger: logging.WithComponent("api-groups"),
	}
}

// List handles GET /v1/groups/
func (h *GroupHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "groups.list")
	defer span.End()

	if err := checkPermissions(c, h.perms...); err != nil {
		renderError(c, h.logger, err)
		return
	}

	var results []serializers.Group
	if h.fromCache(ctx, cache.GroupListKey, &results) {
		c.JSON(http.StatusOK, results)
		return
	}

	groups, err := h.groups.List(ctx)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	results = serializers.RepresentGroups(groups)
	h.toCache(ctx, cache.GroupListKey, results)
	c.JSON(http.StatusOK, results)
}

// Retrieve handles GET /v1/groups/:id/
func (h *GroupHandler) Retrieve(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "groups.retrieve")
	defer span.End()

	if err := checkPermissions(c, h.perms...); err != nil {
		renderError(c, h.logger, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	key := cache.GroupKey(id)
	var result serializers.Group
	if h.fromCache(ctx, key, &result) {
		c.JSON(http.StatusOK, result)
		return
	}

	group, err := h.groups.GetByID(ctx, id)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	if group == nil {
		renderError(c, h.logger, ErrNotFound)
		return
	}
	result = serializers.RepresentGroup(group)
	h.toCache(ctx, key, result)
	c.JSON(http.StatusOK, result)
}

func (h *GroupHandler) fromCache(ctx context.Context, key string, dest interface{}) bool {
	err := h.cache.GetJSON(ctx, key, dest)
	switch {
	case err == nil:
		return true
	case errors.Is(err, cache.ErrCacheDisabled), errors.Is(err, cache.ErrCacheMiss):
	default:
		h.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (h *GroupHandler) toCache(ctx context.Context, key string, value interface{}) {
	err := h.cache.SetJSON(ctx, key, value, 0)
	if err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		h.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
