package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"member-portal-api/internal/apperr"
	"member-portal-api/internal/application/ports"
	"member-portal-api/internal/domain/identity"
)

const (
	CtxUserRole  = "userRole"
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxToken     = "sessionToken"
)

// AuthMiddleware resolves the bearer token to an identity. Every failure is the same 401.
func AuthMiddleware(auth ports.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenStr == authHeader || tokenStr == "" {
			abortUnauthorized(c, "invalid token format")
			return
		}

		id, err := auth.CurrentIdentity(c.Request.Context(), tokenStr)
		if err != nil || id == nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(CtxUserRole, id.Role)
		c.Set(CtxUserID, id.UserID)
		c.Set(CtxUserEmail, id.Email)
		c.Set(CtxToken, tokenStr)

		c.Next()
	}
}

// IdentityFrom reads what AuthMiddleware stored.
func IdentityFrom(c *gin.Context) (identity.Identity, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return identity.Identity{}, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return identity.Identity{}, false
	}

	return identity.Identity{
		UserID: userID,
		Email:  c.GetString(CtxUserEmail),
		Role:   c.GetString(CtxUserRole),
	}, true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": msg,
		"kind":  apperr.KindUnauthorized,
	})
}
