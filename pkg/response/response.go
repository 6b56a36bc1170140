package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/pkg/apperrors"
)

// APIResponse is the JSON envelope shared by every endpoint.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

func Error[T any](ctx *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     details,
	})
}

// Abort writes an error envelope and stops the handler chain. Used by
// middleware.
func Abort(ctx *gin.Context, status int, message string, details interface{}) {
	Error[any](ctx, status, message, details)
	ctx.Abort()
}

// Err maps a service error onto the envelope. Domain errors keep their
// message; anything unrecognized is logged in full and reduced to a
// generic internal error so causes never leak to clients.
func Err(ctx *gin.Context, logger *logrus.Logger, err error) {
	var ae *apperrors.AppError
	if errors.As(err, &ae) && ae.Kind != apperrors.KindInternal {
		Error[any](ctx, ae.Status(), ae.Message, nil)
		return
	}
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"request_id": ctx.GetString("request_id"),
			"path":       ctx.FullPath(),
			"error":      err.Error(),
		}).Error("request failed")
	}
	Error[any](ctx, http.StatusInternalServerError, "internal server error", nil)
}
