package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/betacycle/internal/domain/errors"
	"github.com/polkiloo/betacycle/internal/server/http/dto"
)

const (
	msgCredentialsNotProvided = "Credentials Not Provided"
	msgInvalidCredentials     = "Invalid Credentials"
	msgMigrationProblem       = "Migration Problem"
	msgInternalError          = "Internal Error"
)

// AuthHandler processes logins.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Login handles POST /Login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgCredentialsNotProvided})
		return
	}

	token, err := h.facade.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrCredentialsNotProvided):
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgCredentialsNotProvided})
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgInvalidCredentials})
		case errors.Is(err, domainErrors.ErrNotRegistered):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrMigrationFailed):
			c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgMigrationProblem})
		default:
			c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
		}
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
