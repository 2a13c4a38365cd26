package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/betacycle/internal/domain/errors"
	"github.com/polkiloo/betacycle/internal/domain/model"
	pkgAuth "github.com/polkiloo/betacycle/internal/pkg/auth"
)

const (
	// PrincipalContextKey is a gin context key for the authenticated principal.
	PrincipalContextKey = "principal"
	basicChallenge      = `Basic realm="betacycle"`
	bearerChallenge     = `Bearer realm="betacycle"`
)

// Authenticator resolves callers from bearer tokens or basic credentials.
type Authenticator interface {
	ParseToken(token string) (model.Principal, error)
	Authenticate(ctx context.Context, username, password string) (model.Principal, error)
}

// AuthRequired accepts either a Bearer token or Basic credentials.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		switch {
		case hasScheme(header, "bearer"):
			token := strings.TrimSpace(header[len("bearer "):])
			principal, err := auth.ParseToken(token)
			if err != nil {
				if errors.Is(err, pkgAuth.ErrInvalidToken) {
					unauthorized(c, bearerChallenge)
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Set(PrincipalContextKey, principal)

		case hasScheme(header, "basic"):
			username, password, ok := c.Request.BasicAuth()
			if !ok || username == "" || password == "" {
				unauthorized(c, basicChallenge)
				return
			}
			principal, err := auth.Authenticate(c.Request.Context(), username, password)
			if err != nil {
				switch {
				case errors.Is(err, domainErrors.ErrInvalidCredentials),
					errors.Is(err, domainErrors.ErrNotRegistered),
					errors.Is(err, domainErrors.ErrCredentialsNotProvided):
					unauthorized(c, basicChallenge)
				default:
					c.AbortWithStatus(http.StatusInternalServerError)
				}
				return
			}
			c.Set(PrincipalContextKey, principal)

		default:
			unauthorized(c, basicChallenge)
			return
		}
		c.Next()
	}
}

// RequireRole lets through principals holding one of roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get(PrincipalContextKey)
		principal, isPrincipal := val.(model.Principal)
		if !ok || !isPrincipal {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !slices.Contains(roles, principal.Role) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func hasScheme(header, scheme string) bool {
	return len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)+1], scheme+" ")
}

func unauthorized(c *gin.Context, challenge string) {
	c.Header("WWW-Authenticate", challenge)
	c.AbortWithStatus(http.StatusUnauthorized)
}
