package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sedesupport/internal/delivery/http/helpers"
	"sedesupport/internal/domain"
)

type SedeController struct {
	Logger   *slog.Logger
	Service  domain.SedeService
	Importer domain.SedeImportService
}

func NewSedeController(logger *slog.Logger, svc domain.SedeService, importer domain.SedeImportService) *SedeController {
	return &SedeController{
		Logger:   logger,
		Service:  svc,
		Importer: importer,
	}
}

// CreateSedeRequest is the request body for POST /sedes.
type CreateSedeRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

// Validate implements Validator.
func (c CreateSedeRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.Code) == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

// CreateSedeSuccessResponse is the success response envelope for POST /sedes (201).
type CreateSedeSuccessResponse struct {
	Data  *domain.Sede      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Create godoc
// @Summary Create a sede
// @Description Creates a facility. Code is lowercased and must be unique. Requires admin.
// @Tags sedes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSedeRequest true "Sede data"
// @Success 201 {object} controllers.CreateSedeSuccessResponse "data contains the created sede"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate code)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sedes [post]
func (c *SedeController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSedeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sede := &domain.Sede{
		Name:    req.Name,
		Code:    req.Code,
		Address: req.Address,
		City:    req.City,
		Phone:   req.Phone,
	}
	if err := c.Service.Create(r.Context(), sede); err != nil {
		if errors.Is(err, domain.ErrDuplicateCode) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "sede code already in use")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sede)
}

// GetSedeSuccessResponse is the success response envelope for GET /sedes/{sedeID} (200).
type GetSedeSuccessResponse struct {
	Data  *domain.Sede      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetByID godoc
// @Summary Get a sede by ID
// @Tags sedes
// @Produce json
// @Security BearerAuth
// @Param sedeID path string true "Sede ID"
// @Success 200 {object} controllers.GetSedeSuccessResponse "data contains the sede"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sedes/{sedeID} [get]
func (c *SedeController) GetByID(w http.ResponseWriter, r *http.Request) {
	sedeID := r.PathValue("sedeID")
	if sedeID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sedeID")
		return
	}
	sede, err := c.Service.GetByID(r.Context(), sedeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "sede not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sede)
}

// UpdateSedeRequest is the request body for PATCH /sedes/{sedeID}.
// All fields optional; omitted fields are unchanged.
type UpdateSedeRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Phone   *string `json:"phone"`
	Active  *bool   `json:"active"`
}

// Validate implements Validator.
func (u UpdateSedeRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	return errs
}

// UpdateSedeSuccessResponse is the success response envelope for PATCH /sedes/{sedeID} (200).
type UpdateSedeSuccessResponse struct {
	Data  *domain.Sede      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Update godoc
// @Summary Update a sede
// @Description Updates sede fields. Omitted fields are unchanged. Requires admin.
// @Tags sedes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sedeID path string true "Sede ID"
// @Param body body UpdateSedeRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateSedeSuccessResponse "data contains the updated sede"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sedes/{sedeID} [patch]
func (c *SedeController) Update(w http.ResponseWriter, r *http.Request) {
	sedeID := r.PathValue("sedeID")
	if sedeID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sedeID")
		return
	}
	var req UpdateSedeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sede, err := c.Service.Update(r.Context(), sedeID, domain.SedeUpdate{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Phone:   req.Phone,
		Active:  req.Active,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "sede not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sede)
}

// DeleteSedeResponse is the data payload for DELETE /sedes/{sedeID} (200).
type DeleteSedeResponse struct {
	Status string `json:"status"`
}

// DeleteSedeSuccessResponse is the success response envelope for DELETE /sedes/{sedeID} (200).
type DeleteSedeSuccessResponse struct {
	Data  DeleteSedeResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// Delete godoc
// @Summary Delete a sede
// @Tags sedes
// @Produce json
// @Security BearerAuth
// @Param sedeID path string true "Sede ID"
// @Success 200 {object} controllers.DeleteSedeSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sedes/{sedeID} [delete]
func (c *SedeController) Delete(w http.ResponseWriter, r *http.Request) {
	sedeID := r.PathValue("sedeID")
	if sedeID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sedeID")
		return
	}
	if err := c.Service.Delete(r.Context(), sedeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "sede not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteSedeResponse{Status: "deleted"})
}

// ListSedesResponse is the data payload for GET /sedes (200).
type ListSedesResponse struct {
	Items      []*domain.Sede         `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListSedesSuccessResponse is the success response envelope for GET /sedes (200).
type ListSedesSuccessResponse struct {
	Data  ListSedesResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// List godoc
// @Summary List sedes
// @Description Returns a paginated list of sedes. Optional search filters by name or code substring; city filters by exact city; active filters by status.
// @Tags sedes
// @Produce json
// @Security BearerAuth
// @Param search query string false "Filter by name or code substring"
// @Param city query string false "Filter by city"
// @Param active query bool false "Filter by active status"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 10, max 100)"
// @Success 200 {object} controllers.ListSedesSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sedes [get]
func (c *SedeController) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.SedeFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		City:   strings.TrimSpace(r.URL.Query().Get("city")),
	}
	if s := r.URL.Query().Get("active"); s != "" {
		active := s == "true"
		filter.Active = &active
	}
	params := helpers.ParsePagination(r)
	sedes, total, err := c.Service.List(r.Context(), filter, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if sedes == nil {
		sedes = []*domain.Sede{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListSedesResponse{Items: sedes, Pagination: meta})
}

// ImportSedesSuccessResponse is the success response envelope for POST /sedes/import (200).
type ImportSedesSuccessResponse struct {
	Data  *domain.SedeImportSummary `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// Import godoc
// @Summary Import sedes from the legacy directory
// @Description Walks all pages of the external directory API and upserts each facility by code. Requires admin.
// @Tags sedes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ImportSedesSuccessResponse "data contains the import summary"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sedes/import [post]
func (c *SedeController) Import(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Importer.ImportAll(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
