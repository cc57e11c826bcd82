package v1

import (
	"strconv"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"
	"go-interview-scheduler/pkg/validation"

	"github.com/gin-gonic/gin"
)

const (
	dateLayout             = "2006-01-02"
	defaultDurationMinutes = 60
)

// currentUserID is the authenticated caller's id set by AuthMiddleware
func currentUserID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}

// bindJSON binds the body and turns binding failures into a validation error.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.Validation(apperror.ReasonInvalidRequest, "Invalid request body", validation.FormatValidationErrors(err)))
		return false
	}
	return true
}

// pathID parses a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.InvalidInput(apperror.ReasonInvalidRequest, "Invalid "+name))
		return 0, false
	}
	return id, true
}

// queryDate parses a YYYY-MM-DD query parameter as midnight in loc.
// A missing optional parameter yields fallback.
func queryDate(c *gin.Context, name string, loc *time.Location, fallback *time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		if fallback != nil {
			return *fallback, true
		}
		c.Error(apperror.InvalidInput(apperror.ReasonInvalidRequest, name+" is required (YYYY-MM-DD)"))
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		c.Error(apperror.InvalidInput(apperror.ReasonInvalidRequest, "Invalid "+name+": expected YYYY-MM-DD"))
		return time.Time{}, false
	}
	return t, true
}

// queryDateTime parses an RFC 3339 query parameter.
func queryDateTime(c *gin.Context, name string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, c.Query(name))
	if err != nil {
		c.Error(apperror.InvalidInput(apperror.ReasonInvalidRequest, "Invalid "+name+": expected RFC 3339 date-time"))
		return time.Time{}, false
	}
	return t, true
}

// queryInt parses an optional integer query parameter.
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.Error(apperror.InvalidInput(apperror.ReasonInvalidRequest, "Invalid "+name+": expected an integer"))
		return 0, false
	}
	return v, true
}

// queryDuration reads the "duration" query parameter in minutes, defaulting to an hour.
func queryDuration(c *gin.Context) (int, bool) {
	return queryInt(c, "duration", defaultDurationMinutes)
}
