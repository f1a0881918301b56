package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	httperr "github.com/zmarties-lab/storefront-api/internal/core/errors"
)

// Service handles admin login and request authentication.
type Service struct {
	tokens *TokenManager

	// passwordHash is the bcrypt hash of the one admin password.
	passwordHash string
}

// NewService wires the token manager and the configured password hash.
func NewService(tokens *TokenManager, passwordHash string) *Service {
	if tokens == nil {
		panic("auth: token manager must not be nil")
	}
	return &Service{tokens: tokens, passwordHash: passwordHash}
}

// RegisterRoutes registers the login endpoint.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/admin/login", s.LoginHandler)
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginHandler exchanges the admin password for a JWT.
func (s *Service) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid login body",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		slog.Warn("Admin login rejected", "remote", c.ClientIP())
		c.JSON(http.StatusUnauthorized, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnauthorizedError,
			Message:   "Invalid credentials",
		})
		return
	}

	token, err := s.tokens.Generate()
	if err != nil {
		slog.Error("Failed to issue admin token", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to issue token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Required returns middleware rejecting requests without a valid admin
// token. The token is read from the Authorization header (with or without
// the Bearer prefix) or the jwt_token cookie.
func (s *Service) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			if cookie, err := c.Cookie("jwt_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.ErrorResponse{
				ErrorType: httperr.HttpUnauthorizedError,
				Message:   "No token provided",
			})
			return
		}

		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims, err := s.tokens.Validate(tokenString)
		if err != nil {
			slog.Warn("Rejected admin request", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.ErrorResponse{
				ErrorType: httperr.HttpUnauthorizedError,
				Message:   "Invalid or expired token",
			})
			return
		}

		c.Set("role", claims.Role)
		c.Next()
	}
}

// HashPassword produces a bcrypt hash for configuration bootstrapping.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
