package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-realty-backend/internal/application"
	"github.com/oksasatya/go-realty-backend/internal/domain"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
	"github.com/oksasatya/go-realty-backend/pkg/response"
)

const (
	CtxSessionKey = "session"
	CtxUserIDKey  = "userID"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*application.Session, error)
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Auth verifies the bearer token and stores the caller's session in the Gin context.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing bearer token", domain.KindAuthentication.String())
			return
		}
		sess, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			switch domain.KindOf(err) {
			case domain.KindAuthorization:
				status = http.StatusForbidden
			case domain.KindInternal:
				status = http.StatusInternalServerError
				_ = c.Error(err)
			}
			response.Error(c, status, domain.PublicMessage(err), domain.KindOf(err).String())
			return
		}
		c.Set(CtxSessionKey, sess)
		c.Set(CtxUserIDKey, sess.Identity.UserID)
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IdentityFrom(c).IsAdmin() {
			response.Error(c, http.StatusForbidden, domain.ErrAdminOnly.Message, domain.KindAuthorization.String())
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session set by Auth, or nil on public routes.
func SessionFrom(c *gin.Context) *application.Session {
	if v, ok := c.Get(CtxSessionKey); ok {
		if s, ok := v.(*application.Session); ok {
			return s
		}
	}
	return nil
}

// IdentityFrom returns the caller identity; it is anonymous on public routes.
func IdentityFrom(c *gin.Context) scope.Identity {
	if s := SessionFrom(c); s != nil {
		return s.Identity
	}
	return scope.Identity{}
}
