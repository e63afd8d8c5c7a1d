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

// contributorHandler handles HTTP requests related to contributors.
type contributorHandler struct {
	contributorService portssvc.ContributorSvcFacade
}

func newContributorHandler(cs portssvc.ContributorSvcFacade) *contributorHandler {
	return &contributorHandler{contributorService: cs}
}

func registerContributorRoutes(rg *gin.RouterGroup, contributorService portssvc.ContributorSvcFacade) {
	h := newContributorHandler(contributorService)

	contributors := rg.Group("/contributors")
	{
		contributors.POST("", h.createContributor)
		contributors.GET("", h.listContributors)
		contributors.GET("/:contributor_id", h.getContributorByID)
		contributors.PUT("/:contributor_id", h.updateContributor)
		contributors.DELETE("/:contributor_id", h.deleteContributor)
	}
}

// createContributor godoc
// @Summary Register a contributor
// @Tags contributors
// @Accept json
// @Produce json
// @Param contributor body dto.CreateContributorRequest true "Contributor details"
// @Success 201 {object} dto.ContributorResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Phone or email already registered"
// @Security BearerAuth
// @Router /contributors [post]
func (h *contributorHandler) createContributor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateContributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	contributor, err := h.contributorService.CreateContributor(c.Request.Context(), req, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Contributor already registered"})
			return
		}
		logger.Error("Failed to create contributor", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create contributor"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToContributorResponse(contributor))
}

// listContributors godoc
// @Summary List contributors
// @Tags contributors
// @Produce json
// @Param limit query int false "Max results" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListContributorsResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /contributors [get]
func (h *contributorHandler) listContributors(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	contributors, err := h.contributorService.ListContributors(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list contributors", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list contributors"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListContributorsResponse(contributors))
}

// getContributorByID godoc
// @Summary Get contributor by ID
// @Tags contributors
// @Produce json
// @Param contributor_id path string true "Contributor ID"
// @Success 200 {object} dto.ContributorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /contributors/{contributor_id} [get]
func (h *contributorHandler) getContributorByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contributorID := c.Param("contributor_id")

	contributor, err := h.contributorService.GetContributorByID(c.Request.Context(), contributorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Contributor not found"})
			return
		}
		logger.Error("Failed to get contributor", slog.String("contributor_id", contributorID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get contributor"})
		return
	}

	c.JSON(http.StatusOK, dto.ToContributorResponse(contributor))
}

// updateContributor godoc
// @Summary Update contributor
// @Tags contributors
// @Accept json
// @Produce json
// @Param contributor_id path string true "Contributor ID"
// @Param contributor body dto.UpdateContributorRequest true "Fields to update"
// @Success 200 {object} dto.ContributorResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /contributors/{contributor_id} [put]
func (h *contributorHandler) updateContributor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contributorID := c.Param("contributor_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateContributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	contributor, err := h.contributorService.UpdateContributor(c.Request.Context(), contributorID, req, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Contributor not found"})
			return
		}
		logger.Error("Failed to update contributor", slog.String("contributor_id", contributorID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update contributor"})
		return
	}

	c.JSON(http.StatusOK, dto.ToContributorResponse(contributor))
}

// deleteContributor godoc
// @Summary Delete contributor
// @Description Soft-deletes a contributor. Admin only.
// @Tags contributors
// @Produce json
// @Param contributor_id path string true "Contributor ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /contributors/{contributor_id} [delete]
func (h *contributorHandler) deleteContributor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contributorID := c.Param("contributor_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.contributorService.DeleteContributor(c.Request.Context(), contributorID, requestingUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Contributor not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can delete contributors"})
		default:
			logger.Error("Failed to delete contributor", slog.String("contributor_id", contributorID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete contributor"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
