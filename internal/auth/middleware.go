package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/yatube/internal/models"
	"github.com/steemit/yatube/pkg/logging"
)

const (
	currentUserKey = "currentUser"
	headerType     = "Bearer"
)

// UserLookup loads users referenced by tokens
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Middleware authenticates requests that carry a bearer token. Requests
// without one continue anonymously; requests with a bad one are rejected.
func Middleware(tokens *TokenManager, users UserLookup) gin.HandlerFunc {
	logger := logging.WithComponent("auth")

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.Fields(header)
		if len(parts) == 0 || parts[0] != headerType {
			c.Next()
			return
		}
		if len(parts) != 2 {
			reject(c, "Invalid Authorization header. Credentials string should not contain spaces.", "bad_authorization_header")
			return
		}

		claims, err := tokens.Parse(parts[1], TokenTypeAccess)
		if err != nil {
			logger.Debug("Rejected bearer token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			reject(c, "Given token not valid for any token type", "token_not_valid")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to load token user", zap.Int64("user_id", claims.UserID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
			return
		}
		if user == nil {
			reject(c, "User not found", "user_not_found")
			return
		}
		if !user.IsActive {
			reject(c, "User is inactive", "user_inactive")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func reject(c *gin.Context, detail, code string) {
	c.Header("WWW-Authenticate", headerType+` realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail, "code": code})
}

// CurrentUser returns the authenticated user, or nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// WWWAuthenticate is the challenge sent with 401 responses
func WWWAuthenticate() string {
	return headerType + ` realm="api"`
}
