package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/balance-ledger/internal/auth"
	"github.com/nurpe/balance-ledger/internal/model"
)

const principalKey = "principal"

type ProfileResolver interface {
	Resolve(ctx context.Context, creds auth.Credentials) (*model.Profile, error)
}

// Auth resolves the calling profile and stores it on the context.
func Auth(resolver ProfileResolver, profileHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := auth.Credentials{ProfileID: c.GetHeader(profileHeader)}
		if header := c.GetHeader("Authorization"); header != "" {
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				abortUnauthenticated(c)
				return
			}
			creds.BearerToken = token
		}

		profile, err := resolver.Resolve(c.Request.Context(), creds)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				abortUnauthenticated(c)
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(principalKey, profile)
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (*model.Profile, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	profile, ok := value.(*model.Profile)
	return profile, ok && profile != nil
}

// AdminKey guards admin routes with a shared key. An empty key leaves them open.
func AdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		given := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin key required", "code": "forbidden"})
			return
		}
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "code": "unauthenticated"})
}
