package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/internal/dto"
	"github.com/faithledger/church_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// approvalTemplateHandler handles approval template configuration.
type approvalTemplateHandler struct {
	templateService portssvc.ApprovalTemplateSvcFacade
}

func newApprovalTemplateHandler(ts portssvc.ApprovalTemplateSvcFacade) *approvalTemplateHandler {
	return &approvalTemplateHandler{templateService: ts}
}

func registerApprovalTemplateRoutes(rg *gin.RouterGroup, templateService portssvc.ApprovalTemplateSvcFacade) {
	h := newApprovalTemplateHandler(templateService)

	templates := rg.Group("/approval-templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.GET("/:template_id", h.getTemplateByID)
		templates.PUT("/:template_id", h.updateTemplate)
		templates.POST("/:template_id/set-default", h.setDefaultTemplate)
		templates.POST("/:template_id/deactivate", h.deactivateTemplate)
	}
}

// createTemplate godoc
// @Summary Create an approval template
// @Description Creates a template defining the ordered sign-off sequence for a class of money requests. Admin only.
// @Tags approval-templates
// @Accept json
// @Produce json
// @Param template body dto.CreateApprovalTemplateRequest true "Template details"
// @Success 201 {object} dto.ApprovalTemplateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /approval-templates [post]
func (h *approvalTemplateHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateApprovalTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can manage approval templates"})
		default:
			logger.Error("Failed to create approval template", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create approval template"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToApprovalTemplateResponse(template))
}

// listTemplates godoc
// @Summary List approval templates
// @Tags approval-templates
// @Produce json
// @Success 200 {object} dto.ListApprovalTemplatesResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /approval-templates [get]
func (h *approvalTemplateHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	templates, err := h.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list approval templates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list approval templates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListApprovalTemplatesResponse(templates))
}

// getTemplateByID godoc
// @Summary Get approval template by ID
// @Tags approval-templates
// @Produce json
// @Param template_id path string true "Template ID"
// @Success 200 {object} dto.ApprovalTemplateResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /approval-templates/{template_id} [get]
func (h *approvalTemplateHandler) getTemplateByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")

	template, err := h.templateService.GetTemplateByID(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Approval template not found"})
			return
		}
		logger.Error("Failed to get approval template", slog.String("template_id", templateID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get approval template"})
		return
	}

	c.JSON(http.StatusOK, dto.ToApprovalTemplateResponse(template))
}

// updateTemplate godoc
// @Summary Update an approval template
// @Description Replaces a template's details and step definitions. Already-submitted requests keep the chain they copied. Admin only.
// @Tags approval-templates
// @Accept json
// @Produce json
// @Param template_id path string true "Template ID"
// @Param template body dto.UpdateApprovalTemplateRequest true "Template details"
// @Success 200 {object} dto.ApprovalTemplateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /approval-templates/{template_id} [put]
func (h *approvalTemplateHandler) updateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateApprovalTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Request.Context(), templateID, req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Approval template not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can manage approval templates"})
		default:
			logger.Error("Failed to update approval template", slog.String("template_id", templateID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update approval template"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToApprovalTemplateResponse(template))
}

// setDefaultTemplate godoc
// @Summary Set the default approval template
// @Description Flags the template as the fallback used when no scoped template matches. Clears the previous default. Admin only.
// @Tags approval-templates
// @Produce json
// @Param template_id path string true "Template ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Inactive template cannot be default"
// @Security BearerAuth
// @Router /approval-templates/{template_id}/set-default [post]
func (h *approvalTemplateHandler) setDefaultTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.templateService.SetDefaultTemplate(c.Request.Context(), templateID, requestingUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Approval template not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can manage approval templates"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Inactive template cannot be the default"})
		default:
			logger.Error("Failed to set default template", slog.String("template_id", templateID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to set default template"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// deactivateTemplate godoc
// @Summary Deactivate an approval template
// @Description Removes the template from resolution candidates. The default template cannot be deactivated. Admin only.
// @Tags approval-templates
// @Produce json
// @Param template_id path string true "Template ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Default template cannot be deactivated"
// @Security BearerAuth
// @Router /approval-templates/{template_id}/deactivate [post]
func (h *approvalTemplateHandler) deactivateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.templateService.DeactivateTemplate(c.Request.Context(), templateID, requestingUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Approval template not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can manage approval templates"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Default template cannot be deactivated"})
		default:
			logger.Error("Failed to deactivate template", slog.String("template_id", templateID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to deactivate template"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
