package v1

import (
	"net/http"
	"time"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/internal/domain"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	slotFinder domain.SlotFinder
	detector   domain.ConflictDetector
	loc        *time.Location
}

// SlotsResponse lists free start times of one day
type SlotsResponse struct {
	RecruiterID     string             `json:"recruiter_id"`
	Date            string             `json:"date"`
	DurationMinutes int                `json:"duration_minutes"`
	Slots           []domain.TimeOfDay `json:"slots"`
}

// AvailabilityResponse answers a single availability probe
type AvailabilityResponse struct {
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
	Available       bool      `json:"available"`
}

// NewAvailabilityHandler registers slot search and conflict routes
func NewAvailabilityHandler(r *gin.RouterGroup, slotFinder domain.SlotFinder, detector domain.ConflictDetector, loc *time.Location) {
	handler := &AvailabilityHandler{slotFinder: slotFinder, detector: detector, loc: loc}

	recruiters := r.Group("/recruiters")
	{
		recruiters.GET("/:recruiterId/slots", handler.GetAvailableSlots)
		recruiters.GET("/:recruiterId/available-dates", handler.GetAvailableDates)
		recruiters.GET("/:recruiterId/suggested-times", handler.SuggestOptimalTimes)

		recruiters.POST("/me/availability/check", handler.CheckConflict)
		recruiters.GET("/me/availability", handler.IsAvailable)
		recruiters.GET("/me/conflicts", handler.FindConflicts)
	}
}

// GetAvailableSlots godoc
// @Summary      Free start times on a date
// @Description  Start times on a 15-minute grid where an interview of the given duration fits
// @Tags         availability
// @Produce      json
// @Param        recruiterId  path      string  true   "Recruiter ID"
// @Param        date         query     string  true   "Date (YYYY-MM-DD)"
// @Param        duration     query     int     false  "Duration in minutes (default 60)"
// @Success      200          {object}  response.Response{data=SlotsResponse}
// @Failure      400          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Router       /recruiters/{recruiterId}/slots [get]
// @Security     BearerAuth
func (h *AvailabilityHandler) GetAvailableSlots(c *gin.Context) {
	date, ok := queryDate(c, "date", h.loc, nil)
	if !ok {
		return
	}
	duration, ok := queryDuration(c)
	if !ok {
		return
	}

	recruiterID := c.Param("recruiterId")
	slots, err := h.slotFinder.GetAvailableSlots(c.Request.Context(), recruiterID, date, duration)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Available slots retrieved", SlotsResponse{
		RecruiterID:     recruiterID,
		Date:            date.Format(dateLayout),
		DurationMinutes: duration,
		Slots:           slots,
	})
}

// GetAvailableDates godoc
// @Summary      Dates with at least one free slot
// @Tags         availability
// @Produce      json
// @Param        recruiterId  path      string  true   "Recruiter ID"
// @Param        start        query     string  true   "First date (YYYY-MM-DD)"
// @Param        end          query     string  true   "Last date (YYYY-MM-DD)"
// @Param        duration     query     int     false  "Duration in minutes (default 60)"
// @Success      200          {object}  response.Response{data=[]string}
// @Failure      400          {object}  response.Response
// @Router       /recruiters/{recruiterId}/available-dates [get]
// @Security     BearerAuth
func (h *AvailabilityHandler) GetAvailableDates(c *gin.Context) {
	start, ok := queryDate(c, "start", h.loc, nil)
	if !ok {
		return
	}
	end, ok := queryDate(c, "end", h.loc, nil)
	if !ok {
		return
	}
	duration, ok := queryDuration(c)
	if !ok {
		return
	}

	dates, err := h.slotFinder.GetAvailableDates(c.Request.Context(), c.Param("recruiterId"), start, end, duration)
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	response.Success(c, http.StatusOK, "Available dates retrieved", out)
}

// SuggestOptimalTimes godoc
// @Summary      Suggested interview times
// @Description  Up to three free start times, preferring 10:00, 11:00, 14:00 and 15:00
// @Tags         availability
// @Produce      json
// @Param        recruiterId  path      string  true   "Recruiter ID"
// @Param        date         query     string  true   "Date (YYYY-MM-DD)"
// @Param        duration     query     int     false  "Duration in minutes (default 60)"
// @Success      200          {object}  response.Response{data=SlotsResponse}
// @Failure      400          {object}  response.Response
// @Router       /recruiters/{recruiterId}/suggested-times [get]
// @Security     BearerAuth
func (h *AvailabilityHandler) SuggestOptimalTimes(c *gin.Context) {
	date, ok := queryDate(c, "date", h.loc, nil)
	if !ok {
		return
	}
	duration, ok := queryDuration(c)
	if !ok {
		return
	}

	recruiterID := c.Param("recruiterId")
	slots, err := h.slotFinder.SuggestOptimalTimes(c.Request.Context(), recruiterID, date, duration)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Suggested times retrieved", SlotsResponse{
		RecruiterID:     recruiterID,
		Date:            date.Format(dateLayout),
		DurationMinutes: duration,
		Slots:           slots,
	})
}

// CheckConflict godoc
// @Summary      Check a proposed interview time
// @Description  Lists every rule the proposed interval breaks for the current recruiter
// @Tags         availability
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ConflictCheck  true  "Proposed interval"
// @Success      200   {object}  response.Response{data=domain.ConflictReport}
// @Failure      400   {object}  response.Response
// @Router       /recruiters/me/availability/check [post]
// @Security     BearerAuth
func (h *AvailabilityHandler) CheckConflict(c *gin.Context) {
	var req domain.ConflictCheck
	if !bindJSON(c, &req) {
		return
	}
	req.RecruiterID = currentUserID(c)

	report, err := h.detector.CheckConflict(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Conflict check completed", report)
}

// IsAvailable godoc
// @Summary      Is the current recruiter free at a time
// @Tags         availability
// @Produce      json
// @Param        datetime  query     string  true   "Start (RFC 3339)"
// @Param        duration  query     int     false  "Duration in minutes (default 60)"
// @Success      200       {object}  response.Response{data=AvailabilityResponse}
// @Failure      400       {object}  response.Response
// @Router       /recruiters/me/availability [get]
// @Security     BearerAuth
func (h *AvailabilityHandler) IsAvailable(c *gin.Context) {
	start, ok := queryDateTime(c, "datetime")
	if !ok {
		return
	}
	duration, ok := queryDuration(c)
	if !ok {
		return
	}

	available, err := h.detector.IsAvailable(c.Request.Context(), currentUserID(c), start, duration)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Availability checked", AvailabilityResponse{
		Start:           start,
		DurationMinutes: duration,
		Available:       available,
	})
}

// FindConflicts godoc
// @Summary      Existing interviews that break the rules
// @Description  Re-checks every non-cancelled interview in the range against the current configuration
// @Tags         availability
// @Produce      json
// @Param        from  query     string  true  "First date (YYYY-MM-DD)"
// @Param        to    query     string  true  "Last date (YYYY-MM-DD)"
// @Success      200   {object}  response.Response{data=[]domain.InterviewConflict}
// @Failure      400   {object}  response.Response
// @Router       /recruiters/me/conflicts [get]
// @Security     BearerAuth
func (h *AvailabilityHandler) FindConflicts(c *gin.Context) {
	from, ok := queryDate(c, "from", h.loc, nil)
	if !ok {
		return
	}
	to, ok := queryDate(c, "to", h.loc, nil)
	if !ok {
		return
	}

	conflicts, err := h.detector.FindConflicts(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		c.Error(err)
		return
	}
	if conflicts == nil {
		conflicts = []domain.InterviewConflict{}
	}
	response.Success(c, http.StatusOK, "Conflicts retrieved", conflicts)
}
