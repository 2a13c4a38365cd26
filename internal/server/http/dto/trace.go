package dto

import (
	"time"

	"github.com/polkiloo/betacycle/internal/domain/model"
)

// FrontendErrorRequest is an error reported by a browser client.
type FrontendErrorRequest struct {
	MachineName string    `json:"machineName" binding:"required"`
	Logged      time.Time `json:"logged"`
	Level       string    `json:"level"`
	Message     string    `json:"message" binding:"required"`
}

func (r FrontendErrorRequest) Trace() model.LogTrace {
	return model.LogTrace{
		MachineName: r.MachineName,
		Logged:      r.Logged,
		Level:       model.TraceLevel(r.Level),
		Message:     r.Message,
	}
}
