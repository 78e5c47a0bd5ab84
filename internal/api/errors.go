package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/yatube/internal/auth"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/internal/models"
	"github.com/steemit/yatube/internal/permissions"
	"github.com/steemit/yatube/internal/serializers"
)

// Error represents an API error rendered as {"detail": Message}
type Error struct {
	Code    int
	Message string
}

// NewError creates a new API error
func NewError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// Common API errors
var (
	ErrNotFound = NewError(http.StatusNotFound, "Not found.")
	ErrInternal = NewError(http.StatusInternalServerError, "Internal server error.")
)

func methodNotAllowed(method string) *Error {
	return NewError(http.StatusMethodNotAllowed, fmt.Sprintf("Method %q not allowed.", method))
}

// renderError writes err as a JSON response with the matching status
func renderError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		verr   serializers.ValidationError
		denied *permissions.DeniedError
		apiErr *Error
	)

	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, verr)
	case errors.As(err, &denied):
		if denied.NotAuthenticated {
			c.Header("WWW-Authenticate", auth.WWWAuthenticate())
		}
		c.AbortWithStatusJSON(denied.Status(), gin.H{"detail": denied.Message})
	case errors.As(err, &apiErr):
		c.AbortWithStatusJSON(apiErr.Code, gin.H{"detail": apiErr.Message})
	case errors.Is(err, models.ErrSelfFollow):
		c.AbortWithStatusJSON(http.StatusBadRequest, serializers.FieldError("following", serializers.MsgSelfFollow))
	default:
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		_ = c.Error(err)
		c.AbortWithStatusJSON(ErrInternal.Code, gin.H{"detail": ErrInternal.Message})
	}
}

// uniqueViolation converts a unique-constraint failure into a validation error
func uniqueViolation(err error, field, msg string) error {
	if db.IsUniqueViolation(err) {
		return serializers.FieldError(field, msg)
	}
	return err
}
