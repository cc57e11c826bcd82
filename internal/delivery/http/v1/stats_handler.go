package v1

import (
	"net/http"
	"time"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/internal/domain"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsUC domain.StatsUsecase
	loc     *time.Location
}

// NewStatsHandler registers scheduling analytics routes
func NewStatsHandler(r *gin.RouterGroup, statsUC domain.StatsUsecase, loc *time.Location) {
	handler := &StatsHandler{statsUC: statsUC, loc: loc}

	stats := r.Group("/recruiters/me/stats")
	{
		stats.GET("/scheduling", handler.GetSchedulingStats)
		stats.GET("/interviews", handler.GetInterviewStats)
	}
}

// GetSchedulingStats godoc
// @Summary      Scheduling statistics for a period
// @Description  Counts, hours, busiest weekday and utilization against an 8-hour working day
// @Tags         stats
// @Produce      json
// @Param        from  query     string  true  "First date (YYYY-MM-DD)"
// @Param        to    query     string  true  "Last date (YYYY-MM-DD)"
// @Success      200   {object}  response.Response{data=domain.SchedulingStats}
// @Failure      400   {object}  response.Response
// @Router       /recruiters/me/stats/scheduling [get]
// @Security     BearerAuth
func (h *StatsHandler) GetSchedulingStats(c *gin.Context) {
	from, ok := queryDate(c, "from", h.loc, nil)
	if !ok {
		return
	}
	to, ok := queryDate(c, "to", h.loc, nil)
	if !ok {
		return
	}

	stats, err := h.statsUC.GetSchedulingStats(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Scheduling statistics retrieved", stats)
}

// GetInterviewStats godoc
// @Summary      All-time interview statistics
// @Tags         stats
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.InterviewStats}
// @Router       /recruiters/me/stats/interviews [get]
// @Security     BearerAuth
func (h *StatsHandler) GetInterviewStats(c *gin.Context) {
	stats, err := h.statsUC.GetRecruiterInterviewStats(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview statistics retrieved", stats)
}
