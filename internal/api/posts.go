package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/yatube/internal/auth"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/internal/models"
	"github.com/steemit/yatube/internal/permissions"
	"github.com/steemit/yatube/internal/serializers"
	"github.com/steemit/yatube/internal/storage"
	"github.com/steemit/yatube/pkg/logging"
	"github.com/steemit/yatube/pkg/telemetry"
)

// PostHandler serves /v1/posts/
type PostHandler struct {
	posts      *db.PostRepository
	serializer *serializers.PostSerializer
	store      storage.Store
	perms      []permissions.Permission
	logger     *zap.Logger
}

// NewPostHandler creates a post handler
func NewPostHandler(repo *db.Repository, store storage.Store, maxImageSize int64) *PostHandler {
	return &PostHandler{
		posts:      db.NewPostRepository(repo),
		serializer: serializers.NewPostSerializer(db.NewGroupRepository(repo), store, maxImageSize),
		store:      store,
		perms:      []permissions.Permission{permissions.IsAuthorOrReadOnly{}},
		logger:     logging.WithComponent("api-posts"),
	}
}

// List handles GET /v1/posts/
func (h *PostHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.list")
	defer span.End()

	if err := checkPermissions(c, h.perms...); err != nil {
		renderError(c, h.logger, err)
		return
	}

	page := parsePage(c)
	posts, err := h.posts.List(ctx, page)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	results := h.serializer.RepresentList(posts)
	if page == nil {
		c.JSON(http.StatusOK, results)
		return
	}

	count, err := h.posts.Count(ctx)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, page, count, results))
}

// Create handles POST /v1/posts/
func (h *PostHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.create")
	defer span.End()

	if err := checkPermissions(c, h.perms...); err != nil {
		renderError(c, h.logger, err)
		return
	}
	user := auth.CurrentUser(c)

	data, err := readData(c, serializers.PostNullableFields...)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	in, err := h.serializer.Validate(ctx, data, false)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	post := &models.Post{AuthorID: user.ID}
	stored, err := h.serializer.Apply(ctx, post, in)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	if err := h.posts.Create(ctx, post); err != nil {
		h.discardImage(ctx, stored)
		renderError(c, h.logger, err)
		return
	}
	post.Author = user

	h.logger.Info("Post created", zap.Int64("post_id", post.ID), zap.String("author", user.Username))
	c.JSON(http.StatusCreated, h.serializer.Represent(post))
}

// Retrieve handles GET /v1/posts/:id/
func (h *PostHandler) Retrieve(c *gin.Context) {
	post, ok := h.object(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.serializer.Represent(post))
}

// Update handles PUT and PATCH /v1/posts/:id/
func (h *PostHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.update")
	defer span.End()

	post, ok := h.object(c)
	if !ok {
		return
	}

	data, err := readData(c, serializers.PostNullableFields...)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	in, err := h.serializer.Validate(ctx, data, c.Request.Method == http.MethodPatch)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	stored, err := h.serializer.Apply(ctx, post, in)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	if err := h.posts.Update(ctx, post); err != nil {
		h.discardImage(ctx, stored)
		renderError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.serializer.Represent(post))
}

// Destroy handles DELETE /v1/posts/:id/
func (h *PostHandler) Destroy(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.destroy")
	defer span.End()

	post, ok := h.object(c)
	if !ok {
		return
	}
	if err := h.posts.Delete(ctx, post.ID); err != nil {
		renderError(c, h.logger, err)
		return
	}

	h.logger.Info("Post deleted", zap.Int64("post_id", post.ID))
	c.Status(http.StatusNoContent)
}

// object runs the permission checks around loading the post named in the path
func (h *PostHandler) object(c *gin.Context) (*models.Post, bool) {
	if err := checkPermissions(c, h.perms...); err != nil {
		renderError(c, h.logger, err)
		return nil, false
	}

	id, err := pathID(c, "id")
	if err != nil {
		renderError(c, h.logger, err)
		return nil, false
	}
	post, err := h.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, h.logger, err)
		return nil, false
	}
	if post == nil {
		renderError(c, h.logger, ErrNotFound)
		return nil, false
	}

	if err := checkObjectPermissions(c, post, h.perms...); err != nil {
		renderError(c, h.logger, err)
		return nil, false
	}
	return post, true
}

func (h *PostHandler) discardImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := h.store.Delete(ctx, path); err != nil {
		h.logger.Warn("Failed to remove orphaned image", zap.String("path", path), zap.Error(err))
	}
}

func checkPermissions(c *gin.Context, perms ...permissions.Permission) error {
	return permissions.Check(c.Request.Method, auth.CurrentUser(c), perms...)
}

func checkObjectPermissions(c *gin.Context, obj models.Authored, perms ...permissions.Permission) error {
	return permissions.CheckObject(c.Request.Method, auth.CurrentUser(c), obj, perms...)
}
