package middleware

import (
	"strings"

	"campground-backend/internal/domains/campground/model"
	"campground-backend/internal/shared/response"
	"campground-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PrincipalKey - key trong gin.Context chứa model.Principal
const PrincipalKey = "principal"

// AuthMiddleware - xác thực JWT, set principal vào context
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "You must be signed in first")
			return
		}

		// 2. Extract token từ "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			return
		}

		// 3. Verify và parse JWT
		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("[Auth] token rejected")
			response.Unauthorized(c, "Invalid token")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil || userID == uuid.Nil {
			response.Unauthorized(c, "Invalid user ID in token")
			return
		}

		c.Set(PrincipalKey, model.Principal{
			ID:          userID,
			Username:    claims.Username,
			Description: claims.Description,
			IsAdmin:     claims.Role == "admin",
		})

		c.Next()
	}
}

// GetPrincipal đọc principal do AuthMiddleware set
func GetPrincipal(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}
