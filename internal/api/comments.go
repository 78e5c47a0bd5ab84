package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/yatube/internal/auth"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/internal/models"
	"github.com/steemit/yatube/internal/permissions"
	"github.com/steemit/yatube/internal/serializers"
	"github.com/steemit/yatube/pkg/logging"
	"github.com/steemit/yatube/pkg/telemetry"
)

// CommentHandler serves /v1/posts/:id/comments/
type CommentHandler struct {
	posts    *db.PostRepository
	comments *db.CommentRepository
	perms    []permissions.Permission
	logger   *zap.Logger
}

// NewCommentHandler creates a comment handler
func NewCommentHandler(repo *db.Repository) *CommentHandler {
	return &CommentHandler{
		posts:    db.NewPostRepository(repo),
		comments: db.NewCommentRepository(repo),
		perms:    []permissions.Permission{permissions.IsAuthorOrReadOnly{}},
		logger:   logging.WithComponent("api-comments"),
	}
}

// List handles GET /v1/posts/:id/comments/
func (h *CommentHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "comments.list")
	defer span.End()

	post, ok := h.parent(c)
	if !ok {
		return
	}
	comments, err := h.comments.ListByPost(ctx, post.ID)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, serializers.RepresentComments(comments))
}

// Create handles POST /v1/posts/:id/comments/
func (h *CommentHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "comments.create")
	defer span.End()

	post, ok := h.parent(c)
	if !ok {
		return
	}
	user := auth.CurrentUser(c)

	data, err := readData(c)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	in, err := serializers.ValidateComment(data, false)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	comment := &models.Comment{PostID: post.ID, AuthorID: user.ID}
	serializers.ApplyComment(comment, in)
	if err := h.comments.Create(ctx, comment); err != nil {
		renderError(c, h.logger, err)
		return
	}
	comment.Author = user

	h.logger.Info("Comment created",
		zap.Int64("comment_id", comment.ID),
		zap.Int64("post_id", post.ID),
		zap.String("author", user.Username))
	c.JSON(http.StatusCreated, serializers.RepresentComment(comment))
}

// Retrieve handles GET /v1/posts/:id/comments/:comment_id/
func (h *CommentHandler) Retrieve(c *gin.Context) {
	comment, ok := h.object(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, serializers.RepresentComment(comment))
}

// Update handles PUT and PATCH /v1/posts/:id/comments/:comment_id/
func (h *CommentHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "comments.update")
	defer span.End()

	comment, ok := h.object(c)
	if !ok {
		return
	}

	data, err := readData(c)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	in, err := serializers.ValidateComment(data, c.Request.Method == http.MethodPatch)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	serializers.ApplyComment(comment, in)
	if err := h.comments.Update(ctx, comment); err != nil {
		renderError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, serializers.RepresentComment(comment))
}

// Destroy handles DELETE /v1/posts/:id/comments/:comment_id/
func (h *CommentHandler) Destroy(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "comments.destroy")
	defer span.End()

	comment, ok := h.object(c)
	if !ok {
		return
	}
	if err := h.comments.Delete(ctx, comment.ID); err != nil {
		renderError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parent checks collection permissions and loads the post from the path
func (h *CommentHandler) parent(c *gin.Context) (*models.Post, bool) {
	if err := checkPermissions(c, h.perms...); err != nil {
		renderError(c, h.logger, err)
		return nil, false
	}

	postID, err := pathID(c, "id")
	if err != nil {
		renderError(c, h.logger, err)
		return nil, false
	}
	post, err := h.posts.GetByID(c.Request.Context(), postID)
	if err != nil {
		renderError(c, h.logger, err)
		return nil, false
	}
	if post == nil {
		renderError(c, h.logger, ErrNotFound)
		return nil, false
	}
	return post, true
}

func (h *CommentHandler) object(c *gin.Context) (*models.Comment, bool) {
	post, ok := h.parent(c)
	if !ok {
		return nil, false
	}

	id, err := pathID(c, "comment_id")
	if err != nil {
		renderError(c, h.logger, err)
		return nil, false
	}
	comment, err := h.comments.GetByPostAndID(c.Request.Context(), post.ID, id)
	if err != nil {
		renderError(c, h.logger, err)
		return nil, false
	}
	if comment == nil {
		renderError(c, h.logger, ErrNotFound)
		return nil, false
	}

	if err := checkObjectPermissions(c, comment, h.perms...); err != nil {
		renderError(c, h.logger, err)
		return nil, false
	}
	return comment, true
}
