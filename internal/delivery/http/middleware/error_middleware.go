package middleware

import (
	"errors"
	"net/http"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Kind != apperror.KindInternal {
			var body interface{}
			if appErr.Reason != "" || appErr.Details != nil {
				body = response.ErrorBody{Reason: appErr.Reason, Details: appErr.Details}
			}
			response.Error(c, appErr.Code, appErr.Message, body)
			return
		}

		// Never expose internal error details to clients
		log.Error("internal server error",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
