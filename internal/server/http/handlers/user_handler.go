package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/betacycle/internal/domain/errors"
	"github.com/polkiloo/betacycle/internal/domain/model"
	"github.com/polkiloo/betacycle/internal/server/http/dto"
)

// UserHandler serves registration and user lookups.
type UserHandler struct {
	facade AccountFacade
}

// NewUserHandler creates UserHandler instance.
func NewUserHandler(facade AccountFacade) *UserHandler {
	return &UserHandler{facade: facade}
}

// Register handles POST /api/Users/Registration.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "Invalid Registration", Details: validationDetails(err)})
		return
	}

	user, err := h.facade.Register(c.Request.Context(), req.User(), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "Invalid Registration"})
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.JSON(http.StatusConflict, dto.MessageResponse{Message: "User Already Exists"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Me handles GET /api/Users/me.
func (h *UserHandler) Me(c *gin.Context) {
	principal, ok := CurrentPrincipal(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}
	h.writeProfile(c, principal.Name)
}

// ByEmail handles GET /api/Users/email/:email.
func (h *UserHandler) ByEmail(c *gin.Context) {
	h.writeProfile(c, c.Param("email"))
}

// ByID handles GET /api/Users/:id.
func (h *UserHandler) ByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	user, err := h.facade.ProfileByID(c.Request.Context(), id)
	writeUser(c, user, err)
}

func (h *UserHandler) writeProfile(c *gin.Context, mail string) {
	user, err := h.facade.Profile(c.Request.Context(), mail)
	writeUser(c, user, err)
}

func writeUser(c *gin.Context, user *model.User, err error) {
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound), errors.Is(err, domainErrors.ErrInvalidInput):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}
