package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/steemit/yatube/internal/auth"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/pkg/logging"
)

const (
	msgNoActiveAccount = "No active account found with the given credentials"
	msgTokenNotValid   = "Token is invalid or expired"
	codeTokenNotValid  = "token_not_valid"
)

// TokenHandler serves the /v1/jwt/ endpoints
type TokenHandler struct {
	users  *db.UserRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewTokenHandler creates a token handler
func NewTokenHandler(repo *db.Repository, tokens *auth.TokenManager) *TokenHandler {
	return &TokenHandler{
		users:  db.NewUserRepository(repo),
		tokens: tokens,
		logger: logging.WithComponent("api-jwt"),
	}
}

type tokenObtainRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenRefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type tokenVerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// Create handles POST /v1/jwt/create/
func (h *TokenHandler) Create(c *gin.Context) {
	var req tokenObtainRequest
	if err := bindJSON(c, &req); err != nil {
		renderError(c, h.logger, err)
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	if user == nil || !user.IsActive || !auth.CheckPassword(user.Password, req.Password) {
		h.logger.Info("Rejected credentials", zap.String("username", req.Username))
		c.Header("WWW-Authenticate", auth.WWWAuthenticate())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgNoActiveAccount})
		return
	}

	pair, err := h.tokens.IssuePair(user)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh handles POST /v1/jwt/refresh/
func (h *TokenHandler) Refresh(c *gin.Context) {
	var req tokenRefreshRequest
	if err := bindJSON(c, &req); err != nil {
		renderError(c, h.logger, err)
		return
	}

	access, err := h.tokens.Refresh(req.Refresh)
	if err != nil {
		h.rejectToken(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// Verify handles POST /v1/jwt/verify/
func (h *TokenHandler) Verify(c *gin.Context) {
	var req tokenVerifyRequest
	if err := bindJSON(c, &req); err != nil {
		renderError(c, h.logger, err)
		return
	}

	if _, err := h.tokens.Parse(req.Token, ""); err != nil {
		h.rejectToken(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *TokenHandler) rejectToken(c *gin.Context) {
	c.Header("WWW-Authenticate", auth.WWWAuthenticate())
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"detail": msgTokenNotValid,
		"code":   codeTokenNotValid,
	})
}
