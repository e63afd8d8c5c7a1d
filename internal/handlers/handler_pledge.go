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

// pledgeHandler handles HTTP requests related to pledges.
type pledgeHandler struct {
	pledgeService portssvc.PledgeSvcFacade
}

func newPledgeHandler(ps portssvc.PledgeSvcFacade) *pledgeHandler {
	return &pledgeHandler{pledgeService: ps}
}

func registerPledgeRoutes(rg *gin.RouterGroup, pledgeService portssvc.PledgeSvcFacade) {
	h := newPledgeHandler(pledgeService)

	pledges := rg.Group("/pledges")
	{
		pledges.POST("", h.createPledge)
		pledges.GET("/:pledge_id", h.getPledgeByID)
		pledges.POST("/:pledge_id/cancel", h.cancelPledge)
	}

	rg.GET("/contributors/:contributor_id/pledges", h.listPledgesByContributor)
}

// createPledge godoc
// @Summary Record a pledge
// @Description Records a contributor's pledge towards a fund.
// @Tags pledges
// @Accept json
// @Produce json
// @Param pledge body dto.CreatePledgeRequest true "Pledge details"
// @Success 201 {object} dto.PledgeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Contributor or fund not found"
// @Security BearerAuth
// @Router /pledges [post]
func (h *pledgeHandler) createPledge(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreatePledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	pledge, err := h.pledgeService.CreatePledge(c.Request.Context(), req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Contributor or fund not found"})
		default:
			logger.Error("Failed to create pledge", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create pledge"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToPledgeResponse(pledge))
}

// getPledgeByID godoc
// @Summary Get pledge by ID
// @Tags pledges
// @Produce json
// @Param pledge_id path string true "Pledge ID"
// @Success 200 {object} dto.PledgeResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /pledges/{pledge_id} [get]
func (h *pledgeHandler) getPledgeByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pledgeID := c.Param("pledge_id")

	pledge, err := h.pledgeService.GetPledgeByID(c.Request.Context(), pledgeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Pledge not found"})
			return
		}
		logger.Error("Failed to get pledge", slog.String("pledge_id", pledgeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get pledge"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPledgeResponse(pledge))
}

// listPledgesByContributor godoc
// @Summary List a contributor's pledges
// @Tags pledges
// @Produce json
// @Param contributor_id path string true "Contributor ID"
// @Success 200 {object} dto.ListPledgesResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /contributors/{contributor_id}/pledges [get]
func (h *pledgeHandler) listPledgesByContributor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contributorID := c.Param("contributor_id")

	pledges, err := h.pledgeService.ListPledgesByContributor(c.Request.Context(), contributorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Contributor not found"})
			return
		}
		logger.Error("Failed to list pledges", slog.String("contributor_id", contributorID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list pledges"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPledgesResponse(pledges))
}

// cancelPledge godoc
// @Summary Cancel a pledge
// @Description Cancels an active pledge. Applied amounts are not reversed.
// @Tags pledges
// @Produce json
// @Param pledge_id path string true "Pledge ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Pledge is not active"
// @Security BearerAuth
// @Router /pledges/{pledge_id}/cancel [post]
func (h *pledgeHandler) cancelPledge(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pledgeID := c.Param("pledge_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.pledgeService.CancelPledge(c.Request.Context(), pledgeID, requestingUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Pledge not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Pledge is not active"})
		default:
			logger.Error("Failed to cancel pledge", slog.String("pledge_id", pledgeID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to cancel pledge"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
