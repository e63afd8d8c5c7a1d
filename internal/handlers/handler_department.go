package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/internal/dto"
	"github.com/faithledger/church_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// departmentHandler handles HTTP requests related to departments and role grants.
type departmentHandler struct {
	departmentService portssvc.DepartmentSvcFacade
}

func newDepartmentHandler(ds portssvc.DepartmentSvcFacade) *departmentHandler {
	return &departmentHandler{departmentService: ds}
}

func registerDepartmentRoutes(rg *gin.RouterGroup, departmentService portssvc.DepartmentSvcFacade) {
	h := newDepartmentHandler(departmentService)

	departments := rg.Group("/departments")
	{
		departments.POST("", h.createDepartment)
		departments.GET("", h.listDepartments)
		departments.GET("/:department_id", h.getDepartmentByID)
		departments.PUT("/:department_id", h.updateDepartment)
		departments.DELETE("/:department_id", h.deleteDepartment)
	}

	// Role grants live under /roles since church-wide roles carry no department
	roles := rg.Group("/roles")
	{
		roles.POST("", h.assignRole)
		roles.DELETE("", h.removeRole)
	}
}

// createDepartment godoc
// @Summary Create a department
// @Description Creates a new department. Admin only.
// @Tags departments
// @Accept json
// @Produce json
// @Param department body dto.CreateDepartmentRequest true "Department details"
// @Success 201 {object} dto.DepartmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Name already in use"
// @Security BearerAuth
// @Router /departments [post]
func (h *departmentHandler) createDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	department, err := h.departmentService.CreateDepartment(c.Request.Context(), req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can create departments"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Department name already in use"})
		default:
			logger.Error("Failed to create department", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create department"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToDepartmentResponse(department))
}

// listDepartments godoc
// @Summary List departments
// @Description Retrieves all departments, optionally including inactive ones.
// @Tags departments
// @Produce json
// @Param includeInactive query bool false "Include inactive departments"
// @Success 200 {object} dto.ListDepartmentsResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /departments [get]
func (h *departmentHandler) listDepartments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))

	departments, err := h.departmentService.ListDepartments(c.Request.Context(), includeInactive)
	if err != nil {
		logger.Error("Failed to list departments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list departments"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListDepartmentsResponse(departments))
}

// getDepartmentByID godoc
// @Summary Get department by ID
// @Tags departments
// @Produce json
// @Param department_id path string true "Department ID"
// @Success 200 {object} dto.DepartmentResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /departments/{department_id} [get]
func (h *departmentHandler) getDepartmentByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	departmentID := c.Param("department_id")

	department, err := h.departmentService.GetDepartmentByID(c.Request.Context(), departmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Department not found"})
			return
		}
		logger.Error("Failed to get department", slog.String("department_id", departmentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get department"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDepartmentResponse(department))
}

// updateDepartment godoc
// @Summary Update department
// @Description Updates a department's details. Admin only.
// @Tags departments
// @Accept json
// @Produce json
// @Param department_id path string true "Department ID"
// @Param department body dto.UpdateDepartmentRequest true "Fields to update"
// @Success 200 {object} dto.DepartmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /departments/{department_id} [put]
func (h *departmentHandler) updateDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	departmentID := c.Param("department_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	department, err := h.departmentService.UpdateDepartment(c.Request.Context(), departmentID, req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Department not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can update departments"})
		default:
			logger.Error("Failed to update department", slog.String("department_id", departmentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update department"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDepartmentResponse(department))
}

// deleteDepartment godoc
// @Summary Delete department
// @Description Soft-deletes a department. Admin only.
// @Tags departments
// @Produce json
// @Param department_id path string true "Department ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /departments/{department_id} [delete]
func (h *departmentHandler) deleteDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	departmentID := c.Param("department_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.departmentService.DeleteDepartment(c.Request.Context(), departmentID, requestingUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Department not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can delete departments"})
		default:
			logger.Error("Failed to delete department", slog.String("department_id", departmentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete department"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// assignRole godoc
// @Summary Assign a role
// @Description Grants a role to a user. Department-scoped roles require a department ID. Admin only.
// @Tags roles
// @Accept json
// @Produce json
// @Param grant body dto.AssignRoleRequest true "Role grant"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Role already assigned"
// @Security BearerAuth
// @Router /roles [post]
func (h *departmentHandler) assignRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.departmentService.AssignRole(c.Request.Context(), req, requestingUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User or department not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can assign roles"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Role already assigned"})
		default:
			logger.Error("Failed to assign role", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to assign role"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// removeRole godoc
// @Summary Remove a role
// @Description Revokes a role assignment. Admin only.
// @Tags roles
// @Accept json
// @Produce json
// @Param grant body dto.AssignRoleRequest true "Role grant to revoke"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /roles [delete]
func (h *departmentHandler) removeRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.departmentService.RemoveRole(c.Request.Context(), req, requestingUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Role assignment not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can remove roles"})
		default:
			logger.Error("Failed to remove role", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to remove role"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
