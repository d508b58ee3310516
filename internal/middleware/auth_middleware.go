package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/persondata/internal/app/models/dto"
	"github.com/yigit/persondata/internal/pkg/auth"
	"github.com/yigit/persondata/internal/pkg/logger"
)

// ContextKeySubject holds the authenticated client name.
const ContextKeySubject = "subject"

// AuthMiddleware for bearer token authentication
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing or not a bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			case errors.Is(err, auth.ErrInvalidFormat):
				errorDetails = "Invalid token format"
			}

			logger.Ctx(c.Request.Context()).Debug().Err(err).Msg("Rejected bearer token")
			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}
