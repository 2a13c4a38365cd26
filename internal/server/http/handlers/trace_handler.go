package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/betacycle/internal/domain/errors"
	"github.com/polkiloo/betacycle/internal/server/http/dto"
)

// TraceHandler accepts frontend error reports.
type TraceHandler struct {
	facade TraceFacade
}

// NewTraceHandler creates TraceHandler instance.
func NewTraceHandler(facade TraceFacade) *TraceHandler {
	return &TraceHandler{facade: facade}
}

// Report handles POST /api/FrontendErrors.
func (h *TraceHandler) Report(c *gin.Context) {
	var req dto.FrontendErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "Invalid Trace", Details: validationDetails(err)})
		return
	}

	if err := h.facade.ReportFrontendError(c.Request.Context(), req.Trace()); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "Invalid Trace"})
		case errors.Is(err, domainErrors.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, dto.MessageResponse{Message: "Trace Queue Full"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusAccepted)
}

// HealthHandler reports readiness of the backing stores.
type HealthHandler struct {
	facade HealthFacade
}

// NewHealthHandler creates HealthHandler instance.
func NewHealthHandler(facade HealthFacade) *HealthHandler {
	return &HealthHandler{facade: facade}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.facade.Health(c.Request.Context()); err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusOK)
}
