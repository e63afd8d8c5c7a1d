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

// fundHandler handles HTTP requests related to funds.
type fundHandler struct {
	fundService portssvc.FundSvcFacade
}

func newFundHandler(fs portssvc.FundSvcFacade) *fundHandler {
	return &fundHandler{fundService: fs}
}

func registerFundRoutes(rg *gin.RouterGroup, fundService portssvc.FundSvcFacade) {
	h := newFundHandler(fundService)

	funds := rg.Group("/funds")
	{
		funds.POST("", h.createFund)
		funds.GET("", h.listFunds)
		funds.GET("/:fund_id", h.getFundByID)
		funds.PUT("/:fund_id", h.updateFund)
	}
}

// createFund godoc
// @Summary Create a fund
// @Description Creates a new fund with a zero balance. Admin only.
// @Tags funds
// @Accept json
// @Produce json
// @Param fund body dto.CreateFundRequest true "Fund details"
// @Success 201 {object} dto.FundResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Name already in use"
// @Security BearerAuth
// @Router /funds [post]
func (h *fundHandler) createFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	fund, err := h.fundService.CreateFund(c.Request.Context(), req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can create funds"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Fund name already in use"})
		default:
			logger.Error("Failed to create fund", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create fund"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToFundResponse(fund))
}

// listFunds godoc
// @Summary List funds
// @Tags funds
// @Produce json
// @Param includeInactive query bool false "Include inactive funds"
// @Success 200 {object} dto.ListFundsResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds [get]
func (h *fundHandler) listFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))

	funds, err := h.fundService.ListFunds(c.Request.Context(), includeInactive)
	if err != nil {
		logger.Error("Failed to list funds", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list funds"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListFundsResponse(funds))
}

// getFundByID godoc
// @Summary Get fund by ID
// @Tags funds
// @Produce json
// @Param fund_id path string true "Fund ID"
// @Success 200 {object} dto.FundResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds/{fund_id} [get]
func (h *fundHandler) getFundByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fund_id")

	fund, err := h.fundService.GetFundByID(c.Request.Context(), fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fund not found"})
			return
		}
		logger.Error("Failed to get fund", slog.String("fund_id", fundID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get fund"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFundResponse(fund))
}

// updateFund godoc
// @Summary Update fund
// @Description Updates a fund's details. Balance is never updated directly. Admin only.
// @Tags funds
// @Accept json
// @Produce json
// @Param fund_id path string true "Fund ID"
// @Param fund body dto.UpdateFundRequest true "Fields to update"
// @Success 200 {object} dto.FundResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds/{fund_id} [put]
func (h *fundHandler) updateFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fund_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	fund, err := h.fundService.UpdateFund(c.Request.Context(), fundID, req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fund not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only admins can update funds"})
		default:
			logger.Error("Failed to update fund", slog.String("fund_id", fundID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update fund"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFundResponse(fund))
}
