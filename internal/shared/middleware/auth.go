package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"freewriter/internal/shared/response"
	"freewriter/pkg/cache"
	"freewriter/pkg/jwt"
)

// Keys AuthMiddleware stores on the gin context.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUsername  = "username"
	ContextKeyIsStaff   = "is_staff"
	ContextKeyTokenID   = "token_id"
	ContextKeyTokenExp  = "token_expires_at"
	ContextKeyRequestID = "request_id"
)

// AuthMiddleware verifies the Bearer access token and rejects tokens revoked by logout.
// revoked may be nil (no revocation list).
func AuthMiddleware(jwtManager *jwt.Manager, revoked cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authentication required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		// 2. Verify signature, expiry and token type
		claims, err := jwtManager.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejected access token")
			unauthorized(c, "Invalid or expired token")
			return
		}

		// 3. Logout blacklist
		if revoked != nil && claims.ID != "" {
			isRevoked, err := revoked.Exists(c.Request.Context(), cache.KeyRevokedPrefix+claims.ID)
			if err != nil {
				// Redis down: the signature is still valid, let the request through.
				log.Warn().Err(err).Msg("token revocation check failed")
			} else if isRevoked {
				unauthorized(c, "Token has been revoked")
				return
			}
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyIsStaff, claims.IsStaff)
		c.Set(ContextKeyTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextKeyTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	response.Unauthorized(c, message)
	c.Abort()
}

// TokenExpiry returns the expiry of the authenticated token, zero when absent.
func TokenExpiry(c *gin.Context) time.Time {
	if v, ok := c.Get(ContextKeyTokenExp); ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// CurrentUserID returns the authenticated user's id.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(ContextKeyUserID)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
