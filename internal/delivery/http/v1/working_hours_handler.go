package v1

import (
	"net/http"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/internal/domain"

	"github.com/gin-gonic/gin"
)

type WorkingHoursHandler struct {
	workingHoursUC domain.WorkingHoursUsecase
}

// NewWorkingHoursHandler registers working hours routes
func NewWorkingHoursHandler(r *gin.RouterGroup, workingHoursUC domain.WorkingHoursUsecase) {
	handler := &WorkingHoursHandler{workingHoursUC: workingHoursUC}

	wh := r.Group("/recruiters/me/working-hours")
	{
		wh.GET("", handler.GetWorkingHours)
		wh.PUT("", handler.SetWorkingHours)
		wh.PUT("/batch", handler.SetWorkingHoursBatch)
	}
}

// GetWorkingHours godoc
// @Summary      Get my working hours
// @Description  Weekly availability pattern of the current recruiter, Monday first
// @Tags         working-hours
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.WorkingHours}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /recruiters/me/working-hours [get]
// @Security     BearerAuth
func (h *WorkingHoursHandler) GetWorkingHours(c *gin.Context) {
	days, err := h.workingHoursUC.GetWorkingHours(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Working hours retrieved", days)
}

// SetWorkingHours godoc
// @Summary      Configure one day
// @Description  Create or replace the working hours of one day of the week
// @Tags         working-hours
// @Accept       json
// @Produce      json
// @Param        body  body      domain.WorkingHoursRequest  true  "Day configuration"
// @Success      200   {object}  response.Response{data=domain.WorkingHours}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /recruiters/me/working-hours [put]
// @Security     BearerAuth
func (h *WorkingHoursHandler) SetWorkingHours(c *gin.Context) {
	var req domain.WorkingHoursRequest
	if !bindJSON(c, &req) {
		return
	}

	wh, err := h.workingHoursUC.SetWorkingHours(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Working hours saved", wh)
}

// SetWorkingHoursBatch godoc
// @Summary      Configure several days
// @Description  Saves each valid day and reports the rejected ones. With replace_all, unspecified days become non-working.
// @Tags         working-hours
// @Accept       json
// @Produce      json
// @Param        body  body      domain.BatchWorkingHoursRequest  true  "Days"
// @Success      200   {object}  response.Response{data=domain.BatchWorkingHoursResult}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /recruiters/me/working-hours/batch [put]
// @Security     BearerAuth
func (h *WorkingHoursHandler) SetWorkingHoursBatch(c *gin.Context) {
	var req domain.BatchWorkingHoursRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.workingHoursUC.SetWorkingHoursBatch(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}

	message := "Working hours saved"
	if len(result.Failures) > 0 {
		message = "Working hours partially saved"
	}
	response.Success(c, http.StatusOK, message, result)
}
