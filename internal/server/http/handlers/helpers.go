package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/polkiloo/betacycle/internal/domain/model"
	"github.com/polkiloo/betacycle/internal/server/http/middleware"
)

// CurrentPrincipal extracts the authenticated principal from context.
func CurrentPrincipal(c *gin.Context) (model.Principal, bool) {
	val, ok := c.Get(middleware.PrincipalContextKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := val.(model.Principal)
	return principal, ok
}

// validationDetails maps binding failures to field -> rule.
func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[lowerFirst(fe.Field())] = fe.Tag()
	}
	return details
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
