package middleware

import (
	"context"
	"net/http"
	"strings"

	"femida-backend/internal/pkg/jwt"
	"femida-backend/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// LastSeenToucher updates the user's activity timestamp. Kept as a narrow
// interface so the middleware does not pull in the whole user repository.
type LastSeenToucher interface {
	TouchLastSeen(ctx context.Context, id int64) error
}

// Auth validates the bearer token and stores user_id and role in the request
// context. Each authenticated request also refreshes last_seen, which backs
// the online indicator in the staff list.
func Auth(jwtService *jwt.Service, toucher LastSeenToucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header required")
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		if toucher != nil {
			_ = toucher.TouchLastSeen(c.Request.Context(), claims.UserID)
		}

		c.Next()
	}
}
