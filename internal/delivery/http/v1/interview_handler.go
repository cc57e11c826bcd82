package v1

import (
	"context"
	"net/http"

	"go-interview-scheduler/internal/delivery/http/response"
	"go-interview-scheduler/internal/domain"

	"github.com/gin-gonic/gin"
)

type InterviewHandler struct {
	interviewUC domain.InterviewUsecase
}

// CompleteInterviewRequest records the result of an interview
type CompleteInterviewRequest struct {
	Notes   string                  `json:"notes"`
	Outcome domain.InterviewOutcome `json:"outcome" binding:"required"`
}

// NoShowRequest carries optional notes for a missed interview
type NoShowRequest struct {
	Notes string `json:"notes"`
}

// CancelInterviewRequest carries the cancellation reason
type CancelInterviewRequest struct {
	Reason string `json:"reason"`
}

// AdjustDurationRequest sets a new interview length
type AdjustDurationRequest struct {
	DurationMinutes int `json:"duration_minutes" binding:"required,min=15,max=1440"`
}

// NewInterviewHandler registers interview lifecycle and listing routes
func NewInterviewHandler(r *gin.RouterGroup, interviewUC domain.InterviewUsecase) {
	handler := &InterviewHandler{interviewUC: interviewUC}

	employers := r.Group("/employers/applications")
	{
		employers.POST("/:id/interview", handler.ScheduleInterview)
		employers.GET("/:id/interview", handler.GetInterviewByJobApplication)
	}

	interviews := r.Group("/interviews")
	{
		interviews.GET("/:id", handler.GetInterview)
		interviews.PATCH("/:id", handler.UpdateInterview)
		interviews.POST("/:id/confirm", handler.ConfirmInterview)
		interviews.POST("/:id/complete", handler.CompleteInterview)
		interviews.POST("/:id/complete-early", handler.CompleteEarly)
		interviews.POST("/:id/no-show", handler.MarkNoShow)
		interviews.POST("/:id/cancel", handler.CancelInterview)
		interviews.PATCH("/:id/duration", handler.AdjustDuration)
	}

	recruiter := r.Group("/recruiters/me/interviews")
	{
		recruiter.GET("/upcoming", handler.listForCurrentUser(interviewUC.GetRecruiterUpcomingInterviews))
		recruiter.GET("/scheduled", handler.listForCurrentUser(interviewUC.GetRecruiterScheduledInterviews))
		recruiter.GET("/pending", handler.listForCurrentUser(interviewUC.GetRecruiterPendingInterviews))
	}

	candidate := r.Group("/candidates/me/interviews")
	{
		candidate.GET("/upcoming", handler.listForCurrentUser(interviewUC.GetCandidateUpcomingInterviews))
		candidate.GET("/past", handler.listForCurrentUser(interviewUC.GetCandidatePastInterviews))
	}
}

// ScheduleInterview godoc
// @Summary      Schedule an interview
// @Description  Books an interview for a job application after checking working hours and conflicts (Employer only)
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                              true  "Job application ID"
// @Param        body  body      domain.ScheduleInterviewRequest  true  "Interview details"
// @Success      201   {object}  response.Response{data=domain.Interview}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /employers/applications/{id}/interview [post]
// @Security     BearerAuth
func (h *InterviewHandler) ScheduleInterview(c *gin.Context) {
	// 1. Parse application ID
	appID, ok := pathID(c, "id")
	if !ok {
		return
	}

	// 2. Bind request
	var req domain.ScheduleInterviewRequest
	if !bindJSON(c, &req) {
		return
	}

	// 3. Schedule
	iv, err := h.interviewUC.ScheduleInterview(c.Request.Context(), appID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Interview scheduled", iv)
}

// GetInterviewByJobApplication godoc
// @Summary      Active interview of an application
// @Tags         interviews
// @Produce      json
// @Param        id   path      int  true  "Job application ID"
// @Success      200  {object}  response.Response{data=domain.Interview}
// @Failure      404  {object}  response.Response
// @Router       /employers/applications/{id}/interview [get]
// @Security     BearerAuth
func (h *InterviewHandler) GetInterviewByJobApplication(c *gin.Context) {
	appID, ok := pathID(c, "id")
	if !ok {
		return
	}
	iv, err := h.interviewUC.GetInterviewByJobApplication(c.Request.Context(), appID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview retrieved", iv)
}

// GetInterview godoc
// @Summary      Get an interview
// @Tags         interviews
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response{data=domain.Interview}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /interviews/{id} [get]
// @Security     BearerAuth
func (h *InterviewHandler) GetInterview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	iv, err := h.interviewUC.GetInterviewByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview retrieved", iv)
}

// UpdateInterview godoc
// @Summary      Update or reschedule an interview
// @Description  Changing scheduled_date re-runs the conflict check and resets confirmation and reminders
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                            true  "Interview ID"
// @Param        body  body      domain.UpdateInterviewRequest  true  "Fields to change"
// @Success      200   {object}  response.Response{data=domain.Interview}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Failure      422   {object}  response.Response
// @Router       /interviews/{id} [patch]
// @Security     BearerAuth
func (h *InterviewHandler) UpdateInterview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateInterviewRequest
	if !bindJSON(c, &req) {
		return
	}
	iv, err := h.interviewUC.UpdateInterview(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview updated", iv)
}

// ConfirmInterview godoc
// @Summary      Confirm attendance
// @Description  The candidate confirms a scheduled interview
// @Tags         interviews
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response{data=domain.Interview}
// @Failure      403  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /interviews/{id}/confirm [post]
// @Security     BearerAuth
func (h *InterviewHandler) ConfirmInterview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	iv, err := h.interviewUC.ConfirmInterview(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview confirmed", iv)
}

// CompleteInterview godoc
// @Summary      Complete an interview
// @Description  Records notes and outcome once the scheduled end has passed
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "Interview ID"
// @Param        body  body      CompleteInterviewRequest  true  "Result"
// @Success      200   {object}  response.Response{data=domain.Interview}
// @Failure      422   {object}  response.Response
// @Router       /interviews/{id}/complete [post]
// @Security     BearerAuth
func (h *InterviewHandler) CompleteInterview(c *gin.Context) {
	h.complete(c, h.interviewUC.CompleteInterview, "Interview completed")
}

// CompleteEarly godoc
// @Summary      Complete an interview early
// @Description  Completes an interview that started and ran at least 15 minutes
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "Interview ID"
// @Param        body  body      CompleteInterviewRequest  true  "Result"
// @Success      200   {object}  response.Response{data=domain.Interview}
// @Failure      422   {object}  response.Response
// @Router       /interviews/{id}/complete-early [post]
// @Security     BearerAuth
func (h *InterviewHandler) CompleteEarly(c *gin.Context) {
	h.complete(c, h.interviewUC.CompleteEarly, "Interview completed early")
}

func (h *InterviewHandler) complete(c *gin.Context, fn func(context.Context, int64, string, domain.InterviewOutcome) (*domain.Interview, error), message string) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CompleteInterviewRequest
	if !bindJSON(c, &req) {
		return
	}
	iv, err := fn(c.Request.Context(), id, req.Notes, req.Outcome)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, message, iv)
}

// MarkNoShow godoc
// @Summary      Mark a no-show
// @Description  Allowed once the scheduled start has passed
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int            true   "Interview ID"
// @Param        body  body      NoShowRequest  false  "Notes"
// @Success      200   {object}  response.Response{data=domain.Interview}
// @Failure      422   {object}  response.Response
// @Router       /interviews/{id}/no-show [post]
// @Security     BearerAuth
func (h *InterviewHandler) MarkNoShow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req NoShowRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	iv, err := h.interviewUC.MarkNoShow(c.Request.Context(), id, req.Notes)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview marked as no-show", iv)
}

// CancelInterview godoc
// @Summary      Cancel an interview
// @Description  Either participant may cancel; the other side is notified
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true   "Interview ID"
// @Param        body  body      CancelInterviewRequest  false  "Reason"
// @Success      200   {object}  response.Response{data=domain.Interview}
// @Failure      403   {object}  response.Response
// @Failure      422   {object}  response.Response
// @Router       /interviews/{id}/cancel [post]
// @Security     BearerAuth
func (h *InterviewHandler) CancelInterview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CancelInterviewRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	iv, err := h.interviewUC.CancelInterview(c.Request.Context(), id, req.Reason)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview cancelled", iv)
}

// AdjustDuration godoc
// @Summary      Change the interview length
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "Interview ID"
// @Param        body  body      AdjustDurationRequest  true  "New duration"
// @Success      200   {object}  response.Response{data=domain.Interview}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /interviews/{id}/duration [patch]
// @Security     BearerAuth
func (h *InterviewHandler) AdjustDuration(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AdjustDurationRequest
	if !bindJSON(c, &req) {
		return
	}
	iv, err := h.interviewUC.AdjustDuration(c.Request.Context(), id, req.DurationMinutes)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview duration updated", iv)
}

// listForCurrentUser serves the recruiter and candidate listing routes, which all
// take the caller's own id.
//
// @Summary      List my interviews
// @Description  upcoming/scheduled/pending for recruiters, upcoming/past for candidates
// @Tags         interviews
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Interview}
// @Failure      403  {object}  response.Response
// @Router       /recruiters/me/interviews/upcoming [get]
// @Router       /recruiters/me/interviews/scheduled [get]
// @Router       /recruiters/me/interviews/pending [get]
// @Router       /candidates/me/interviews/upcoming [get]
// @Router       /candidates/me/interviews/past [get]
// @Security     BearerAuth
func (h *InterviewHandler) listForCurrentUser(list func(context.Context, string) ([]domain.Interview, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		interviews, err := list(c.Request.Context(), currentUserID(c))
		if err != nil {
			c.Error(err)
			return
		}
		if interviews == nil {
			interviews = []domain.Interview{}
		}
		response.Success(c, http.StatusOK, "Interviews retrieved", interviews)
	}
}
