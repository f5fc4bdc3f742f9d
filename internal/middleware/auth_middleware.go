package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkaraca/coursehub/internal/app/models"
	"github.com/dkaraca/coursehub/internal/app/models/dto"
	"github.com/dkaraca/coursehub/internal/app/services"
	"github.com/dkaraca/coursehub/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextEmail    = "email"
	ContextRoleType = "roleType"
)

// AuthMiddleware handles authentication and role checks
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth validates the bearer token and stores the caller's identity in
// the request context. The role comes from the claims; handlers never
// re-resolve it.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			detail := dto.NewErrorDetail(code, "Authentication failed").WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoleType, claims.RoleType)

		c.Next()
	}
}

// StaffRequired rejects callers whose role carries no staff rights.
// Superusers pass.
func (m *AuthMiddleware) StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, ok := CurrentViewer(c)
		if !ok || !viewer.Role.IsStaff() {
			detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Staff access required")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
			return
		}
		c.Next()
	}
}

// SuperuserRequired rejects everyone but superusers
func (m *AuthMiddleware) SuperuserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, ok := CurrentViewer(c)
		if !ok || viewer.Role != models.RoleSuperuser {
			detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Superuser access required")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
			return
		}
		c.Next()
	}
}

// CurrentViewer extracts the authenticated caller from the request
// context. ok is false on routes that skipped JWTAuth.
func CurrentViewer(c *gin.Context) (services.Viewer, bool) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return services.Viewer{}, false
	}
	roleType, exists := c.Get(ContextRoleType)
	if !exists {
		return services.Viewer{}, false
	}

	id, ok := userID.(int64)
	if !ok {
		return services.Viewer{}, false
	}
	role, ok := roleType.(models.RoleType)
	if !ok {
		return services.Viewer{}, false
	}

	return services.Viewer{UserID: id, Role: role}, true
}
