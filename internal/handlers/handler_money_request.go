package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/internal/core/services"
	"github.com/faithledger/church_admin_app/internal/dto"
	"github.com/faithledger/church_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// moneyRequestHandler handles the money request lifecycle and approval actions.
type moneyRequestHandler struct {
	requestService portssvc.MoneyRequestSvcFacade
}

func newMoneyRequestHandler(ms portssvc.MoneyRequestSvcFacade) *moneyRequestHandler {
	return &moneyRequestHandler{requestService: ms}
}

func registerMoneyRequestRoutes(rg *gin.RouterGroup, requestService portssvc.MoneyRequestSvcFacade) {
	h := newMoneyRequestHandler(requestService)

	requests := rg.Group("/money-requests")
	{
		requests.POST("", h.createDraft)
		requests.GET("/:request_id", h.getRequestByID)
		requests.PUT("/:request_id", h.updateDraft)
		requests.DELETE("/:request_id", h.withdraw)
		requests.POST("/:request_id/submit", h.submit)
		requests.POST("/:request_id/decision", h.decide)
		requests.POST("/:request_id/mark-paid", h.markPaid)
		requests.GET("/:request_id/approvals", h.getApprovals)
	}

	rg.GET("/departments/:department_id/money-requests", h.listByDepartment)
	rg.GET("/approvals/pending", h.pendingApprovals)
}

// createDraft godoc
// @Summary Draft a money request
// @Description Creates a money request in DRAFT. No approval chain exists until submit.
// @Tags money-requests
// @Accept json
// @Produce json
// @Param request body dto.CreateMoneyRequestRequest true "Request details"
// @Success 201 {object} dto.MoneyRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "No create capability for this department"
// @Failure 404 {object} ErrorResponse "Department or fund not found"
// @Security BearerAuth
// @Router /money-requests [post]
func (h *moneyRequestHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateMoneyRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	request, err := h.requestService.CreateDraft(c.Request.Context(), req, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed to create requests for this department"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Department or fund not found"})
		default:
			logger.Error("Failed to create money request", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create money request"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToMoneyRequestResponse(request))
}

// getRequestByID godoc
// @Summary Get money request by ID
// @Tags money-requests
// @Produce json
// @Param request_id path string true "Request ID"
// @Success 200 {object} dto.MoneyRequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /money-requests/{request_id} [get]
func (h *moneyRequestHandler) getRequestByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("request_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	request, err := h.requestService.GetRequestByID(c.Request.Context(), requestID, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Money request not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed to view this request"})
		default:
			logger.Error("Failed to get money request", slog.String("request_id", requestID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get money request"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMoneyRequestResponse(request))
}

// updateDraft godoc
// @Summary Update a draft request
// @Description Edits a money request. Valid only while the request is DRAFT.
// @Tags money-requests
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID"
// @Param request body dto.UpdateMoneyRequestRequest true "Fields to update"
// @Success 200 {object} dto.MoneyRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Request is no longer a draft"
// @Security BearerAuth
// @Router /money-requests/{request_id} [put]
func (h *moneyRequestHandler) updateDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("request_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateMoneyRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	request, err := h.requestService.UpdateDraft(c.Request.Context(), requestID, req, requestingUserID)
	if err != nil {
		h.respondLifecycleError(c, logger, requestID, err, "Failed to update money request")
		return
	}

	c.JSON(http.StatusOK, dto.ToMoneyRequestResponse(request))
}

// submit godoc
// @Summary Submit a request for approval
// @Description Resolves the approval template for the request's department and amount, materializes the chain, and moves the request to its first awaiting status.
// @Tags money-requests
// @Produce json
// @Param request_id path string true "Request ID"
// @Success 200 {object} dto.MoneyRequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not a draft, chain already exists, or no template configured"
// @Security BearerAuth
// @Router /money-requests/{request_id}/submit [post]
func (h *moneyRequestHandler) submit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("request_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	request, err := h.requestService.Submit(c.Request.Context(), requestID, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoTemplateConfigured):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "No approval template configured for this request"})
		case errors.Is(err, services.ErrAmbiguousTemplateMatch):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Approval template configuration is ambiguous for this request"})
		case errors.Is(err, services.ErrChainAlreadyExists):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Request was already submitted"})
		default:
			h.respondLifecycleError(c, logger, requestID, err, "Failed to submit money request")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMoneyRequestResponse(request))
}

// withdraw godoc
// @Summary Withdraw a draft request
// @Description Soft-deletes a money request. Valid only while the request is DRAFT.
// @Tags money-requests
// @Produce json
// @Param request_id path string true "Request ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /money-requests/{request_id} [delete]
func (h *moneyRequestHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("request_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.requestService.Withdraw(c.Request.Context(), requestID, requestingUserID); err != nil {
		h.respondLifecycleError(c, logger, requestID, err, "Failed to withdraw money request")
		return
	}

	c.Status(http.StatusNoContent)
}

// decide godoc
// @Summary Decide the current approval step
// @Description Records the acting user's decision on the request's current chain step. Approval moves the request to the next level or APPROVED; rejection requires a comment and ends the chain.
// @Tags money-requests
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID"
// @Param decision body dto.AdvanceChainRequest true "Decision"
// @Success 200 {object} dto.MoneyRequestResponse
// @Failure 400 {object} ErrorResponse "Rejection without a reason"
// @Failure 403 {object} ErrorResponse "Not authorized for the current step"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Step already decided or no pending step"
// @Security BearerAuth
// @Router /money-requests/{request_id}/decision [post]
func (h *moneyRequestHandler) decide(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("request_id")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.AdvanceChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	request, err := h.requestService.Advance(c.Request.Context(), requestID, actorID, domain.ApprovalDecision(req.Decision), req.Comments)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReasonRequired):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A reason is required when rejecting a request"})
		case errors.Is(err, services.ErrNoPendingStep):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Request has no pending approval step"})
		case errors.Is(err, services.ErrStepAlreadyDecided):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "This approval step has already been decided"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not authorized to decide the current step"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Money request not found"})
		default:
			logger.Error("Failed to decide approval step", slog.String("request_id", requestID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record decision"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMoneyRequestResponse(request))
}

// markPaid godoc
// @Summary Mark an approved request as paid
// @Description Moves an APPROVED request to PAID and deducts the amount from the fund. Admin only.
// @Tags money-requests
// @Produce json
// @Param request_id path string true "Request ID"
// @Success 200 {object} dto.MoneyRequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Request is not approved"
// @Security BearerAuth
// @Router /money-requests/{request_id}/mark-paid [post]
func (h *moneyRequestHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("request_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	request, err := h.requestService.MarkPaid(c.Request.Context(), requestID, requestingUserID)
	if err != nil {
		h.respondLifecycleError(c, logger, requestID, err, "Failed to mark money request paid")
		return
	}

	c.JSON(http.StatusOK, dto.ToMoneyRequestResponse(request))
}

// getApprovals godoc
// @Summary Get a request's approval chain
// @Description Retrieves every chain step for a request ordered by sequence.
// @Tags money-requests
// @Produce json
// @Param request_id path string true "Request ID"
// @Success 200 {array} dto.RequestApprovalResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /money-requests/{request_id}/approvals [get]
func (h *moneyRequestHandler) getApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("request_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	steps, err := h.requestService.GetRequestApprovals(c.Request.Context(), requestID, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Money request not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed to view this request"})
		default:
			logger.Error("Failed to get approvals", slog.String("request_id", requestID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get approvals"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestApprovalResponses(steps))
}

// listByDepartment godoc
// @Summary List a department's money requests
// @Tags money-requests
// @Produce json
// @Param department_id path string true "Department ID"
// @Param limit query int false "Max results" default(20)
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListRequestsResponse
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /departments/{department_id}/money-requests [get]
func (h *moneyRequestHandler) listByDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	departmentID := c.Param("department_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.requestService.ListRequestsByDepartment(c.Request.Context(), departmentID, requestingUserID, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination token"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed to view this department's requests"})
		default:
			logger.Error("Failed to list money requests", slog.String("department_id", departmentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list money requests"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// pendingApprovals godoc
// @Summary List pending approvals for the current user
// @Description Retrieves the approver's inbox: every request whose current chain step the user may act on.
// @Tags money-requests
// @Produce json
// @Success 200 {array} dto.PendingApprovalResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /approvals/pending [get]
func (h *moneyRequestHandler) pendingApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	items, err := h.requestService.GetPendingApprovalsFor(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list pending approvals", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list pending approvals"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPendingApprovalResponses(items))
}

// respondLifecycleError maps the shared lifecycle failure modes to HTTP codes.
func (h *moneyRequestHandler) respondLifecycleError(c *gin.Context, logger *slog.Logger, requestID string, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Money request not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed to perform this action"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Request status does not allow this operation"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, slog.String("request_id", requestID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}
