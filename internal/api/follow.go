package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/yatube/internal/auth"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/internal/permissions"
	"github.com/steemit/yatube/internal/serializers"
	"github.com/steemit/yatube/pkg/logging"
	"github.com/steemit/yatube/pkg/telemetry"
)

const searchParam = "search"

// FollowHandler serves /v1/follow/
type FollowHandler struct {
	follows    *db.FollowRepository
	serializer *serializers.FollowSerializer
	perms      []permissions.Permission
	logger     *zap.Logger
}

// NewFollowHandler creates a follow handler
func NewFollowHandler(repo *db.Repository) *FollowHandler {
	follows := db.NewFollowRepository(repo)
	return &FollowHandler{
		follows:    follows,
		serializer: serializers.NewFollowSerializer(db.NewUserRepository(repo), follows),
		perms:      []permissions.Permission{permissions.IsAuthenticated{}},
		logger:     logging.WithComponent("api-follow"),
	}
}

// List handles GET /v1/follow/, returning only the caller's follows
func (h *FollowHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "follow.list")
	defer span.End()

	if err := checkPermissions(c, h.perms...); err != nil {
		renderError(c, h.logger, err)
		return
	}
	user := auth.CurrentUser(c)

	follows, err := h.follows.ListByUser(ctx, user.ID, searchTerms(c.Query(searchParam)))
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, serializers.RepresentFollows(follows))
}

// Create handles POST /v1/follow/
func (h *FollowHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "follow.create")
	defer span.End()

	if err := checkPermissions(c, h.perms...); err != nil {
		renderError(c, h.logger, err)
		return
	}
	user := auth.CurrentUser(c)

	data, err := readData(c)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	follow, err := h.serializer.Validate(ctx, data, user)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	// the model hook still guards the self-follow rule here
	if err := h.follows.Create(ctx, follow); err != nil {
		renderError(c, h.logger, uniqueViolation(err, serializers.NonFieldErrors, serializers.MsgFollowUnique))
		return
	}

	h.logger.Info("Follow created",
		zap.String("user", user.Username),
		zap.String("following", follow.Following.Username))
	c.JSON(http.StatusCreated, serializers.RepresentFollow(follow))
}

// searchTerms splits a search query on whitespace and commas
func searchTerms(query string) []string {
	query = strings.ReplaceAll(query, "\x00", "")
	return strings.FieldsFunc(query, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
