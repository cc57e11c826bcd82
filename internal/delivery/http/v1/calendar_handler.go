package v1

import (
	"net/http"
	"time"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	calendarUC domain.CalendarUsecase
	loc        *time.Location
	now        func() time.Time
}

// NewCalendarHandler registers calendar routes. export may carry a stricter rate limit.
func NewCalendarHandler(r *gin.RouterGroup, calendarUC domain.CalendarUsecase, loc *time.Location, export ...gin.HandlerFunc) {
	handler := &CalendarHandler{calendarUC: calendarUC, loc: loc, now: time.Now}

	calendar := r.Group("/recruiters/me/calendar")
	{
		calendar.GET("/daily", handler.GetDailyCalendar)
		calendar.GET("/weekly", handler.GetWeeklyCalendar)
		calendar.GET("/monthly", handler.GetMonthlyCalendar)
		calendar.GET("/export", append(export, handler.ExportCalendar)...)
	}

	r.GET("/candidates/me/calendar", handler.GetCandidateCalendar)
}

func (h *CalendarHandler) today() time.Time {
	return domain.StartOfDay(h.now().In(h.loc))
}

// GetDailyCalendar godoc
// @Summary      Daily calendar
// @Tags         calendar
// @Produce      json
// @Param        date  query     string  false  "Date (YYYY-MM-DD), default today"
// @Param        slot  query     int     false  "Slot length in minutes (default 60)"
// @Success      200   {object}  response.Response{data=domain.DailyCalendar}
// @Failure      400   {object}  response.Response
// @Router       /recruiters/me/calendar/daily [get]
// @Security     BearerAuth
func (h *CalendarHandler) GetDailyCalendar(c *gin.Context) {
	today := h.today()
	date, ok := queryDate(c, "date", h.loc, &today)
	if !ok {
		return
	}
	slot, ok := queryInt(c, "slot", domain.DefaultCalendarSlotMinutes)
	if !ok {
		return
	}

	day, err := h.calendarUC.GetDailyCalendar(c.Request.Context(), currentUserID(c), date, slot)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Daily calendar retrieved", day)
}

// GetWeeklyCalendar godoc
// @Summary      Weekly calendar
// @Description  Monday to Sunday of the week containing date
// @Tags         calendar
// @Produce      json
// @Param        date  query     string  false  "Any date in the week (YYYY-MM-DD), default today"
// @Success      200   {object}  response.Response{data=domain.WeeklyCalendar}
// @Failure      400   {object}  response.Response
// @Router       /recruiters/me/calendar/weekly [get]
// @Security     BearerAuth
func (h *CalendarHandler) GetWeeklyCalendar(c *gin.Context) {
	today := h.today()
	date, ok := queryDate(c, "date", h.loc, &today)
	if !ok {
		return
	}

	week, err := h.calendarUC.GetWeeklyCalendar(c.Request.Context(), currentUserID(c), date)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Weekly calendar retrieved", week)
}

// GetMonthlyCalendar godoc
// @Summary      Monthly calendar
// @Tags         calendar
// @Produce      json
// @Param        year   query     int  false  "Year, default current"
// @Param        month  query     int  false  "Month 1-12, default current"
// @Success      200    {object}  response.Response{data=domain.MonthlyCalendar}
// @Failure      400    {object}  response.Response
// @Router       /recruiters/me/calendar/monthly [get]
// @Security     BearerAuth
func (h *CalendarHandler) GetMonthlyCalendar(c *gin.Context) {
	today := h.today()
	year, ok := queryInt(c, "year", today.Year())
	if !ok {
		return
	}
	month, ok := queryInt(c, "month", int(today.Month()))
	if !ok {
		return
	}
	if month < 1 || month > 12 {
		c.Error(apperror.InvalidInput(apperror.ReasonInvalidRequest, "month must be between 1 and 12"))
		return
	}

	cal, err := h.calendarUC.GetMonthlyCalendar(c.Request.Context(), currentUserID(c), year, time.Month(month))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Monthly calendar retrieved", cal)
}

// GetCandidateCalendar godoc
// @Summary      My interviews in a date range
// @Tags         calendar
// @Produce      json
// @Param        from  query     string  true  "First date (YYYY-MM-DD)"
// @Param        to    query     string  true  "Last date (YYYY-MM-DD)"
// @Success      200   {object}  response.Response{data=domain.CandidateCalendar}
// @Failure      400   {object}  response.Response
// @Router       /candidates/me/calendar [get]
// @Security     BearerAuth
func (h *CalendarHandler) GetCandidateCalendar(c *gin.Context) {
	from, ok := queryDate(c, "from", h.loc, nil)
	if !ok {
		return
	}
	to, ok := queryDate(c, "to", h.loc, nil)
	if !ok {
		return
	}

	cal, err := h.calendarUC.GetCandidateCalendar(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate calendar retrieved", cal)
}

// ExportCalendar godoc
// @Summary      Export interviews to Excel/CSV
// @Description  Downloads every interview in the range, cancelled ones included
// @Tags         calendar
// @Produce      application/octet-stream
// @Param        from    query     string  true   "First date (YYYY-MM-DD)"
// @Param        to      query     string  true   "Last date (YYYY-MM-DD)"
// @Param        format  query     string  false  "Export format (xlsx, csv). Default: xlsx"
// @Success      200     {file}    binary
// @Failure      400     {object}  response.Response
// @Router       /recruiters/me/calendar/export [get]
// @Security     BearerAuth
func (h *CalendarHandler) ExportCalendar(c *gin.Context) {
	from, ok := queryDate(c, "from", h.loc, nil)
	if !ok {
		return
	}
	to, ok := queryDate(c, "to", h.loc, nil)
	if !ok {
		return
	}
	format := c.DefaultQuery("format", domain.ExportFormatXLSX)

	data, filename, err := h.calendarUC.ExportRecruiterCalendar(c.Request.Context(), currentUserID(c), from, to, format)
	if err != nil {
		c.Error(err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == domain.ExportFormatCSV {
		contentType = "text/csv; charset=utf-8"
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
