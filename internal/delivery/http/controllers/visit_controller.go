package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sedesupport/internal/dates"
	"sedesupport/internal/delivery/http/helpers"
	"sedesupport/internal/domain"
)

type VisitController struct {
	Logger  *slog.Logger
	Service domain.VisitService
}

func NewVisitController(logger *slog.Logger, svc domain.VisitService) *VisitController {
	return &VisitController{
		Logger:  logger,
		Service: svc,
	}
}

// ScheduleVisitRequest is the request body for POST /visits.
// ScheduledDate is YYYY-MM-DD and must be at least tomorrow.
type ScheduleVisitRequest struct {
	SedeID        string `json:"sede_id"`
	TechnicianID  string `json:"technician_id"`
	ScheduledDate string `json:"scheduled_date"`
	Notes         string `json:"notes"`
	Recurrence    string `json:"recurrence"`
}

// Validate implements Validator.
func (s ScheduleVisitRequest) Validate() []string {
	var errs []string
	if s.SedeID == "" {
		errs = append(errs, "sede_id is required")
	}
	if s.TechnicianID == "" {
		errs = append(errs, "technician_id is required")
	}
	if s.ScheduledDate == "" {
		errs = append(errs, "scheduled_date is required")
	} else if _, err := dates.Parse(s.ScheduledDate); err != nil {
		errs = append(errs, "scheduled_date must be YYYY-MM-DD")
	}
	return errs
}

// ScheduleVisitSuccessResponse is the success response envelope for POST /visits (201).
type ScheduleVisitSuccessResponse struct {
	Data  *domain.Visit     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Schedule godoc
// @Summary Schedule a visit
// @Description Schedules a technical support visit. The date must be tomorrow or later. An optional RRULE string makes the visit recurring. Requires admin.
// @Tags visits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ScheduleVisitRequest true "Visit data"
// @Success 201 {object} controllers.ScheduleVisitSuccessResponse "data contains the created visit"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (date too early or invalid rrule)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (sede or technician missing)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /visits [post]
func (c *VisitController) Schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleVisitRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	scheduled, err := dates.Parse(req.ScheduledDate)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "scheduled_date must be YYYY-MM-DD")
		return
	}
	visit := &domain.Visit{
		SedeID:        req.SedeID,
		TechnicianID:  req.TechnicianID,
		ScheduledDate: scheduled,
		Notes:         req.Notes,
		Recurrence:    strings.TrimSpace(req.Recurrence),
	}
	if err := c.Service.Schedule(r.Context(), visit); err != nil {
		if errors.Is(err, domain.ErrDateTooEarly) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "sede or technician not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, visit)
}

// GetVisitSuccessResponse is the success response envelope for GET /visits/{visitID} (200).
type GetVisitSuccessResponse struct {
	Data  *domain.Visit     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetByID godoc
// @Summary Get a visit by ID
// @Tags visits
// @Produce json
// @Security BearerAuth
// @Param visitID path string true "Visit ID"
// @Success 200 {object} controllers.GetVisitSuccessResponse "data contains the visit"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /visits/{visitID} [get]
func (c *VisitController) GetByID(w http.ResponseWriter, r *http.Request) {
	visitID := r.PathValue("visitID")
	if visitID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing visitID")
		return
	}
	visit, err := c.Service.GetByID(r.Context(), visitID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "visit not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, visit)
}

// TransitionVisitSuccessResponse is the success response envelope for visit
// status transitions (200).
type TransitionVisitSuccessResponse struct {
	Data  *domain.Visit     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Complete godoc
// @Summary Mark a visit as completed
// @Description Only a scheduled visit may be completed; completed and cancelled are terminal. Requires admin.
// @Tags visits
// @Produce json
// @Security BearerAuth
// @Param visitID path string true "Visit ID"
// @Success 200 {object} controllers.TransitionVisitSuccessResponse "data contains the updated visit"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invalid transition)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /visits/{visitID}/complete [post]
func (c *VisitController) Complete(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.Complete)
}

// Cancel godoc
// @Summary Cancel a visit
// @Description Only a scheduled visit may be cancelled; completed and cancelled are terminal. Requires admin.
// @Tags visits
// @Produce json
// @Security BearerAuth
// @Param visitID path string true "Visit ID"
// @Success 200 {object} controllers.TransitionVisitSuccessResponse "data contains the updated visit"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invalid transition)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /visits/{visitID}/cancel [post]
func (c *VisitController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.Cancel)
}

func (c *VisitController) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*domain.Visit, error)) {
	visitID := r.PathValue("visitID")
	if visitID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing visitID")
		return
	}
	visit, err := op(r.Context(), visitID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "visit not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, visit)
}

// RescheduleVisitRequest is the request body for PATCH /visits/{visitID}/date.
type RescheduleVisitRequest struct {
	ScheduledDate string `json:"scheduled_date"`
}

// Validate implements Validator.
func (s RescheduleVisitRequest) Validate() []string {
	var errs []string
	if s.ScheduledDate == "" {
		errs = append(errs, "scheduled_date is required")
	} else if _, err := dates.Parse(s.ScheduledDate); err != nil {
		errs = append(errs, "scheduled_date must be YYYY-MM-DD")
	}
	return errs
}

// Reschedule godoc
// @Summary Move a visit to a new date
// @Description The new date must be tomorrow or later and the visit must still be scheduled. Requires admin.
// @Tags visits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param visitID path string true "Visit ID"
// @Param body body RescheduleVisitRequest true "New date"
// @Success 200 {object} controllers.TransitionVisitSuccessResponse "data contains the updated visit"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (date too early)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invalid transition)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /visits/{visitID}/date [patch]
func (c *VisitController) Reschedule(w http.ResponseWriter, r *http.Request) {
	visitID := r.PathValue("visitID")
	if visitID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing visitID")
		return
	}
	var req RescheduleVisitRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	d, err := dates.Parse(req.ScheduledDate)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "scheduled_date must be YYYY-MM-DD")
		return
	}
	visit, err := c.Service.Reschedule(r.Context(), visitID, d)
	if err != nil {
		if errors.Is(err, domain.ErrDateTooEarly) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "visit not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, visit)
}

// ListVisitsResponse is the data payload for GET /visits (200).
type ListVisitsResponse struct {
	Items      []*domain.Visit        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListVisitsSuccessResponse is the success response envelope for GET /visits (200).
type ListVisitsSuccessResponse struct {
	Data  ListVisitsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// List godoc
// @Summary List visits
// @Description Returns a paginated list of visits. Optional filters: sede_id, technician_id, status, from, to (YYYY-MM-DD).
// @Tags visits
// @Produce json
// @Security BearerAuth
// @Param sede_id query string false "Filter by sede"
// @Param technician_id query string false "Filter by technician"
// @Param status query string false "Filter by status (scheduled, completed, cancelled)"
// @Param from query string false "Earliest scheduled date (YYYY-MM-DD)"
// @Param to query string false "Latest scheduled date (YYYY-MM-DD)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 10, max 100)"
// @Success 200 {object} controllers.ListVisitsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed date)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /visits [get]
func (c *VisitController) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.VisitFilter{
		SedeID:       r.URL.Query().Get("sede_id"),
		TechnicianID: r.URL.Query().Get("technician_id"),
		Status:       domain.VisitStatus(r.URL.Query().Get("status")),
	}
	if s := r.URL.Query().Get("from"); s != "" {
		d, err := dates.Parse(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "from must be YYYY-MM-DD")
			return
		}
		filter.From = &d
	}
	if s := r.URL.Query().Get("to"); s != "" {
		d, err := dates.Parse(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "to must be YYYY-MM-DD")
			return
		}
		filter.To = &d
	}
	params := helpers.ParsePagination(r)
	visits, total, err := c.Service.List(r.Context(), filter, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if visits == nil {
		visits = []*domain.Visit{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListVisitsResponse{Items: visits, Pagination: meta})
}

// CalendarSuccessResponse is the success response envelope for GET /visits/calendar (200).
type CalendarSuccessResponse struct {
	Data  *domain.CalendarMonth `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// Calendar godoc
// @Summary Month calendar of visits
// @Description Returns the month grid (leading blanks plus one entry per day) with visit occurrences, recurring visits expanded.
// @Tags visits
// @Produce json
// @Security BearerAuth
// @Param year query int true "Year (e.g. 2026)"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} controllers.CalendarSuccessResponse "data contains the month calendar"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /visits/calendar [get]
func (c *VisitController) Calendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "year is required and must be a positive integer")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "month is required and must be 1-12")
		return
	}
	cal, err := c.Service.Calendar(r.Context(), year, time.Month(month))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, cal)
}
