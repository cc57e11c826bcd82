package v1

import (
	"net/http"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/internal/domain"

	"github.com/gin-gonic/gin"
)

// NewHealthHandler registers the unauthenticated health check
func NewHealthHandler(r *gin.RouterGroup, healthUC domain.HealthUsecase) {
	r.GET("/health", func(c *gin.Context) {
		status, healthy := healthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})
}
