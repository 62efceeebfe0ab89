package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sedesupport/internal/delivery/http/helpers"
	"sedesupport/internal/domain"
)

type RoleController struct {
	Logger  *slog.Logger
	Service domain.RoleService
}

func NewRoleController(logger *slog.Logger, svc domain.RoleService) *RoleController {
	return &RoleController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateRoleRequest is the request body for POST /roles. A nil parent_id
// creates a root role.
type CreateRoleRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// Validate implements Validator.
func (c CreateRoleRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.ParentID != nil && strings.TrimSpace(*c.ParentID) == "" {
		errs = append(errs, "parent_id cannot be empty")
	}
	return errs
}

// CreateRoleSuccessResponse is the success response envelope for POST /roles (201).
type CreateRoleSuccessResponse struct {
	Data  *domain.Role      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Create godoc
// @Summary Create a role
// @Description Creates an organizational role, optionally under a parent role. Requires admin.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRoleRequest true "Role data"
// @Success 201 {object} controllers.CreateRoleSuccessResponse "data contains the created role"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (parent missing)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles [post]
func (c *RoleController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	role := &domain.Role{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	if err := c.Service.Create(r.Context(), role); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "parent role not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, role)
}

// GetRoleSuccessResponse is the success response envelope for GET /roles/{roleID} (200).
type GetRoleSuccessResponse struct {
	Data  *domain.Role      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetByID godoc
// @Summary Get a role by ID
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param roleID path string true "Role ID"
// @Success 200 {object} controllers.GetRoleSuccessResponse "data contains the role"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles/{roleID} [get]
func (c *RoleController) GetByID(w http.ResponseWriter, r *http.Request) {
	roleID := r.PathValue("roleID")
	if roleID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing roleID")
		return
	}
	role, err := c.Service.GetByID(r.Context(), roleID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "role not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, role)
}

// UpdateRoleRequest is the request body for PATCH /roles/{roleID}.
// Set clear_parent to move the role to the root; otherwise a non-nil parent_id
// reparents the role and a nil parent_id leaves the parent unchanged.
type UpdateRoleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"`
	ClearParent bool    `json:"clear_parent"`
}

// Validate implements Validator.
func (u UpdateRoleRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.ClearParent && u.ParentID != nil {
		errs = append(errs, "parent_id and clear_parent are mutually exclusive")
	}
	return errs
}

// UpdateRoleSuccessResponse is the success response envelope for PATCH /roles/{roleID} (200).
type UpdateRoleSuccessResponse struct {
	Data  *domain.Role      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Update godoc
// @Summary Update a role
// @Description Updates role fields and optionally moves it in the hierarchy. Reparenting that would make a role its own ancestor is rejected. Requires admin.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roleID path string true "Role ID"
// @Param body body UpdateRoleRequest true "Fields to update"
// @Success 200 {object} controllers.UpdateRoleSuccessResponse "data contains the updated role"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (cycle)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles/{roleID} [patch]
func (c *RoleController) Update(w http.ResponseWriter, r *http.Request) {
	roleID := r.PathValue("roleID")
	if roleID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing roleID")
		return
	}
	var req UpdateRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	upd := domain.RoleUpdate{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.ClearParent {
		upd.SetParent = true
	} else if req.ParentID != nil {
		upd.SetParent = true
		upd.ParentID = req.ParentID
	}
	role, err := c.Service.Update(r.Context(), roleID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "role not found")
			return
		}
		if errors.Is(err, domain.ErrRoleCycle) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "parent change would create a cycle")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, role)
}

// DeleteRoleResponse is the data payload for DELETE /roles/{roleID} (200).
type DeleteRoleResponse struct {
	Status string `json:"status"`
}

// DeleteRoleSuccessResponse is the success response envelope for DELETE /roles/{roleID} (200).
type DeleteRoleSuccessResponse struct {
	Data  DeleteRoleResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// Delete godoc
// @Summary Delete a role
// @Description Deletes a role. A role that still has child roles cannot be deleted. Requires admin.
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param roleID path string true "Role ID"
// @Success 200 {object} controllers.DeleteRoleSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (has children)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles/{roleID} [delete]
func (c *RoleController) Delete(w http.ResponseWriter, r *http.Request) {
	roleID := r.PathValue("roleID")
	if roleID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing roleID")
		return
	}
	if err := c.Service.Delete(r.Context(), roleID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "role not found")
			return
		}
		if errors.Is(err, domain.ErrRoleHasChildren) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "role still has child roles")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteRoleResponse{Status: "deleted"})
}

// ListRolesSuccessResponse is the success response envelope for GET /roles (200).
type ListRolesSuccessResponse struct {
	Data  []*domain.Role    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// List godoc
// @Summary List all roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListRolesSuccessResponse "data is an array of roles"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles [get]
func (c *RoleController) List(w http.ResponseWriter, r *http.Request) {
	roles, err := c.Service.ListAll(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if roles == nil {
		roles = []*domain.Role{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, roles)
}

// TreeSuccessResponse is the success response envelope for GET /roles/tree (200).
type TreeSuccessResponse struct {
	Data  []*domain.RoleNode `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// Tree godoc
// @Summary Get the role hierarchy
// @Description Returns roles as a forest. Roles with broken or cyclic parent chains appear at the root.
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.TreeSuccessResponse "data is the role forest"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles/tree [get]
func (c *RoleController) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := c.Service.Tree(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if tree == nil {
		tree = []*domain.RoleNode{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tree)
}

// AssignableParentsSuccessResponse is the success response envelope for GET /roles/{roleID}/assignable-parents (200).
type AssignableParentsSuccessResponse struct {
	Data  []*domain.Role    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AssignableParents godoc
// @Summary List roles that may become this role's parent
// @Description Returns all roles except the role itself and its descendants.
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param roleID path string true "Role ID"
// @Success 200 {object} controllers.AssignableParentsSuccessResponse "data is an array of roles"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles/{roleID}/assignable-parents [get]
func (c *RoleController) AssignableParents(w http.ResponseWriter, r *http.Request) {
	roleID := r.PathValue("roleID")
	if roleID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing roleID")
		return
	}
	roles, err := c.Service.AssignableParents(r.Context(), roleID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "role not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if roles == nil {
		roles = []*domain.Role{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, roles)
}
