package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/internal/core/services"
	"github.com/faithledger/church_admin_app/internal/dto"
	"github.com/faithledger/church_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// contributionHandler handles contribution capture, including the QR flow.
type contributionHandler struct {
	contributionService portssvc.ContributionSvcFacade
}

func newContributionHandler(cs portssvc.ContributionSvcFacade) *contributionHandler {
	return &contributionHandler{contributionService: cs}
}

func registerContributionRoutes(rg *gin.RouterGroup, contributionService portssvc.ContributionSvcFacade) {
	h := newContributionHandler(contributionService)

	contributions := rg.Group("/contributions")
	{
		contributions.POST("", h.recordContribution)
		contributions.GET("/:contribution_id", h.getContributionByID)
	}

	rg.GET("/funds/:fund_id/contributions", h.listContributionsByFund)

	qr := rg.Group("/qr-tokens")
	{
		qr.POST("", h.issueQRToken)
		qr.POST("/redeem", h.redeemQRToken)
	}
}

// recordContribution godoc
// @Summary Record a contribution
// @Description Records a gift, credits the fund balance, and applies the amount to the contributor's oldest active pledges first.
// @Tags contributions
// @Accept json
// @Produce json
// @Param contribution body dto.RecordContributionRequest true "Contribution details"
// @Success 201 {object} dto.ContributionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Fund or contributor not found"
// @Failure 409 {object} ErrorResponse "Concurrent pledge update, retry"
// @Security BearerAuth
// @Router /contributions [post]
func (h *contributionHandler) recordContribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.RecordContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	contribution, err := h.contributionService.RecordContribution(c.Request.Context(), req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fund or contributor not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "A pledge changed while recording, please retry"})
		default:
			logger.Error("Failed to record contribution", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record contribution"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToContributionResponse(contribution))
}

// getContributionByID godoc
// @Summary Get contribution by ID
// @Tags contributions
// @Produce json
// @Param contribution_id path string true "Contribution ID"
// @Success 200 {object} dto.ContributionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /contributions/{contribution_id} [get]
func (h *contributionHandler) getContributionByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contributionID := c.Param("contribution_id")

	contribution, err := h.contributionService.GetContributionByID(c.Request.Context(), contributionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Contribution not found"})
			return
		}
		logger.Error("Failed to get contribution", slog.String("contribution_id", contributionID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get contribution"})
		return
	}

	c.JSON(http.StatusOK, dto.ToContributionResponse(contribution))
}

// listContributionsByFund godoc
// @Summary List a fund's contributions
// @Description Retrieves a token-paginated list of contributions received into a fund, newest first.
// @Tags contributions
// @Produce json
// @Param fund_id path string true "Fund ID"
// @Param limit query int false "Max results" default(20)
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListContributionsResponse
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds/{fund_id}/contributions [get]
func (h *contributionHandler) listContributionsByFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("fund_id")

	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	contributions, nextToken, err := h.contributionService.ListContributionsByFund(c.Request.Context(), fundID, params.Limit, params.NextToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination token"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fund not found"})
		default:
			logger.Error("Failed to list contributions", slog.String("fund_id", fundID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list contributions"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListContributionsResponse(contributions, nextToken))
}

// issueQRToken godoc
// @Summary Issue a QR capture token
// @Description Creates a single-use token bound to a fund. The token string is the QR payload.
// @Tags contributions
// @Accept json
// @Produce json
// @Param token body dto.IssueQRTokenRequest true "Token details"
// @Success 201 {object} dto.QRTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Fund not found"
// @Security BearerAuth
// @Router /qr-tokens [post]
func (h *contributionHandler) issueQRToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.IssueQRTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	token, err := h.contributionService.IssueQRToken(c.Request.Context(), req, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fund not found"})
			return
		}
		logger.Error("Failed to issue QR token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to issue QR token"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToQRTokenResponse(token))
}

// redeemQRToken godoc
// @Summary Redeem a QR capture token
// @Description Records a contribution against a previously issued token. Each token redeems exactly once.
// @Tags contributions
// @Accept json
// @Produce json
// @Param redemption body dto.RedeemQRTokenRequest true "Token and amount"
// @Success 201 {object} dto.ContributionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown token"
// @Failure 409 {object} ErrorResponse "Token already redeemed"
// @Failure 410 {object} ErrorResponse "Token expired"
// @Security BearerAuth
// @Router /qr-tokens/redeem [post]
func (h *contributionHandler) redeemQRToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RedeemQRTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	contribution, err := h.contributionService.RedeemQRToken(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown token"})
		case errors.Is(err, services.ErrQRTokenRedeemed):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Token already redeemed"})
		case errors.Is(err, services.ErrQRTokenExpired):
			c.JSON(http.StatusGone, ErrorResponse{Error: "Token expired"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to redeem QR token", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to redeem QR token"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToContributionResponse(contribution))
}
