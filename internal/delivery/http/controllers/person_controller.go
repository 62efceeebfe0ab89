package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sedesupport/internal/delivery/http/helpers"
	"sedesupport/internal/domain"
)

type PersonController struct {
	Logger  *slog.Logger
	Service domain.PersonService
}

func NewPersonController(logger *slog.Logger, svc domain.PersonService) *PersonController {
	return &PersonController{
		Logger:  logger,
		Service: svc,
	}
}

// CreatePersonRequest is the request body for POST /personnel.
type CreatePersonRequest struct {
	SedeID    string `json:"sede_id"`
	RoleID    string `json:"role_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Validate implements Validator.
func (c CreatePersonRequest) Validate() []string {
	var errs []string
	if c.SedeID == "" {
		errs = append(errs, "sede_id is required")
	}
	if c.RoleID == "" {
		errs = append(errs, "role_id is required")
	}
	if strings.TrimSpace(c.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if c.Email != "" && !emailRegex.MatchString(strings.TrimSpace(c.Email)) {
		errs = append(errs, "email must be a valid email address")
	}
	return errs
}

// CreatePersonSuccessResponse is the success response envelope for POST /personnel (201).
type CreatePersonSuccessResponse struct {
	Data  *domain.Person    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Create godoc
// @Summary Create a person
// @Description Creates a personnel record assigned to a sede and role. Requires admin.
// @Tags personnel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePersonRequest true "Person data"
// @Success 201 {object} controllers.CreatePersonSuccessResponse "data contains the created person"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (sede or role missing)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /personnel [post]
func (c *PersonController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	person := &domain.Person{
		SedeID:    req.SedeID,
		RoleID:    req.RoleID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := c.Service.Create(r.Context(), person); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "sede or role not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, person)
}

// GetPersonSuccessResponse is the success response envelope for GET /personnel/{personID} (200).
type GetPersonSuccessResponse struct {
	Data  *domain.Person    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetByID godoc
// @Summary Get a person by ID
// @Tags personnel
// @Produce json
// @Security BearerAuth
// @Param personID path string true "Person ID"
// @Success 200 {object} controllers.GetPersonSuccessResponse "data contains the person"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /personnel/{personID} [get]
func (c *PersonController) GetByID(w http.ResponseWriter, r *http.Request) {
	personID := r.PathValue("personID")
	if personID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing personID")
		return
	}
	person, err := c.Service.GetByID(r.Context(), personID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "person not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, person)
}

// UpdatePersonRequest is the request body for PATCH /personnel/{personID}.
// All fields optional; omitted fields are unchanged.
type UpdatePersonRequest struct {
	SedeID    *string `json:"sede_id"`
	RoleID    *string `json:"role_id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Active    *bool   `json:"active"`
}

// Validate implements Validator.
func (u UpdatePersonRequest) Validate() []string {
	var errs []string
	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) == "" {
		errs = append(errs, "first_name cannot be empty")
	}
	if u.Email != nil && *u.Email != "" && !emailRegex.MatchString(strings.TrimSpace(*u.Email)) {
		errs = append(errs, "email must be a valid email address")
	}
	return errs
}

// UpdatePersonSuccessResponse is the success response envelope for PATCH /personnel/{personID} (200).
type UpdatePersonSuccessResponse struct {
	Data  *domain.Person    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Update godoc
// @Summary Update a person
// @Description Updates person fields. Omitted fields are unchanged. Requires admin.
// @Tags personnel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param personID path string true "Person ID"
// @Param body body UpdatePersonRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdatePersonSuccessResponse "data contains the updated person"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /personnel/{personID} [patch]
func (c *PersonController) Update(w http.ResponseWriter, r *http.Request) {
	personID := r.PathValue("personID")
	if personID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing personID")
		return
	}
	var req UpdatePersonRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	person, err := c.Service.Update(r.Context(), personID, domain.PersonUpdate{
		SedeID:    req.SedeID,
		RoleID:    req.RoleID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Active:    req.Active,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "person, sede, or role not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, person)
}

// DeletePersonResponse is the data payload for DELETE /personnel/{personID} (200).
type DeletePersonResponse struct {
	Status string `json:"status"`
}

// DeletePersonSuccessResponse is the success response envelope for DELETE /personnel/{personID} (200).
type DeletePersonSuccessResponse struct {
	Data  DeletePersonResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Delete godoc
// @Summary Delete a person
// @Tags personnel
// @Produce json
// @Security BearerAuth
// @Param personID path string true "Person ID"
// @Success 200 {object} controllers.DeletePersonSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /personnel/{personID} [delete]
func (c *PersonController) Delete(w http.ResponseWriter, r *http.Request) {
	personID := r.PathValue("personID")
	if personID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing personID")
		return
	}
	if err := c.Service.Delete(r.Context(), personID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "person not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeletePersonResponse{Status: "deleted"})
}

// ListPersonnelResponse is the data payload for GET /personnel (200).
type ListPersonnelResponse struct {
	Items      []*domain.Person       `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListPersonnelSuccessResponse is the success response envelope for GET /personnel (200).
type ListPersonnelSuccessResponse struct {
	Data  ListPersonnelResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// List godoc
// @Summary List personnel
// @Description Returns a paginated list of personnel. Optional search filters by name or email substring; sede_id, role_id, and active narrow the result.
// @Tags personnel
// @Produce json
// @Security BearerAuth
// @Param search query string false "Filter by name or email substring"
// @Param sede_id query string false "Filter by sede"
// @Param role_id query string false "Filter by role"
// @Param active query bool false "Filter by active status"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 10, max 100)"
// @Success 200 {object} controllers.ListPersonnelSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /personnel [get]
func (c *PersonController) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.PersonFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		SedeID: r.URL.Query().Get("sede_id"),
		RoleID: r.URL.Query().Get("role_id"),
	}
	if s := r.URL.Query().Get("active"); s != "" {
		active := s == "true"
		filter.Active = &active
	}
	params := helpers.ParsePagination(r)
	people, total, err := c.Service.List(r.Context(), filter, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if people == nil {
		people = []*domain.Person{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListPersonnelResponse{Items: people, Pagination: meta})
}
