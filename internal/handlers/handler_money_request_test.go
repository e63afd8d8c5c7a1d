package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/internal/core/services"
	"github.com/faithledger/church_admin_app/internal/dto"
	"github.com/faithledger/church_admin_app/internal/handlers"
	"github.com/faithledger/church_admin_app/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock MoneyRequestService ---
type MockMoneyRequestService struct {
	mock.Mock
}

func (m *MockMoneyRequestService) GetRequestByID(ctx context.Context, requestID string, requestingUserID string) (*domain.MoneyRequest, error) {
	args := m.Called(ctx, requestID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyRequest), args.Error(1)
}

func (m *MockMoneyRequestService) ListRequestsByDepartment(ctx context.Context, departmentID string, requestingUserID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error) {
	args := m.Called(ctx, departmentID, requestingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListRequestsResponse), args.Error(1)
}

func (m *MockMoneyRequestService) GetRequestApprovals(ctx context.Context, requestID string, requestingUserID string) ([]domain.RequestApproval, error) {
	args := m.Called(ctx, requestID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RequestApproval), args.Error(1)
}

func (m *MockMoneyRequestService) GetPendingApprovalsFor(ctx context.Context, userID string) ([]domain.PendingApproval, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingApproval), args.Error(1)
}

func (m *MockMoneyRequestService) CreateDraft(ctx context.Context, req dto.CreateMoneyRequestRequest, requesterID string) (*domain.MoneyRequest, error) {
	args := m.Called(ctx, req, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyRequest), args.Error(1)
}

func (m *MockMoneyRequestService) UpdateDraft(ctx context.Context, requestID string, req dto.UpdateMoneyRequestRequest, requestingUserID string) (*domain.MoneyRequest, error) {
	args := m.Called(ctx, requestID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyRequest), args.Error(1)
}

func (m *MockMoneyRequestService) Submit(ctx context.Context, requestID string, requestingUserID string) (*domain.MoneyRequest, error) {
	args := m.Called(ctx, requestID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyRequest), args.Error(1)
}

func (m *MockMoneyRequestService) Withdraw(ctx context.Context, requestID string, requestingUserID string) error {
	args := m.Called(ctx, requestID, requestingUserID)
	return args.Error(0)
}

func (m *MockMoneyRequestService) Advance(ctx context.Context, requestID string, actorID string, decision domain.ApprovalDecision, comments string) (*domain.MoneyRequest, error) {
	args := m.Called(ctx, requestID, actorID, decision, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyRequest), args.Error(1)
}

func (m *MockMoneyRequestService) MarkPaid(ctx context.Context, requestID string, requestingUserID string) (*domain.MoneyRequest, error) {
	args := m.Called(ctx, requestID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyRequest), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.MoneyRequestSvcFacade = (*MockMoneyRequestService)(nil)

// --- Test Suite ---
type MoneyRequestHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockMoneyRequestService
	jwtSecret   string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *MoneyRequestHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "caa-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *MoneyRequestHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockService = new(MockMoneyRequestService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		MoneyRequest: suite.mockService,
	})
}

func (suite *MoneyRequestHandlerTestSuite) doJSON(method, url, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *MoneyRequestHandlerTestSuite) TestCreateDraft_Success() {
	requesterID := uuid.NewString()
	body := dto.CreateMoneyRequestRequest{
		DepartmentID: "dept-1",
		FundID:       "fund-1",
		Amount:       decimal.NewFromInt(500),
		Purpose:      "Sound equipment",
	}
	created := &domain.MoneyRequest{
		RequestID:    uuid.NewString(),
		DepartmentID: "dept-1",
		RequesterID:  requesterID,
		FundID:       "fund-1",
		Amount:       decimal.NewFromInt(500),
		Purpose:      "Sound equipment",
		Status:       domain.StatusDraft,
	}

	suite.mockService.On("CreateDraft",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(r dto.CreateMoneyRequestRequest) bool {
			return r.DepartmentID == "dept-1" && r.Amount.Equal(decimal.NewFromInt(500))
		}),
		requesterID,
	).Return(created, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/money-requests", requesterID, body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.MoneyRequestResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.RequestID, resp.RequestID)
	suite.Equal("DRAFT", resp.Status)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *MoneyRequestHandlerTestSuite) TestCreateDraft_MissingFields() {
	requesterID := uuid.NewString()

	w := suite.doJSON(http.MethodPost, "/api/v1/money-requests", requesterID, map[string]any{
		"departmentID": "dept-1",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateDraft", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MoneyRequestHandlerTestSuite) TestCreateDraft_Unauthenticated() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/money-requests", bytes.NewReader([]byte("{}")))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *MoneyRequestHandlerTestSuite) TestSubmit_NoTemplateConflict() {
	requesterID := uuid.NewString()
	requestID := uuid.NewString()

	suite.mockService.On("Submit", mock.AnythingOfType("*context.valueCtx"), requestID, requesterID).
		Return(nil, services.ErrNoTemplateConfigured).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/money-requests/%s/submit", requestID), requesterID, nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *MoneyRequestHandlerTestSuite) TestDecide_Approve() {
	actorID := uuid.NewString()
	requestID := uuid.NewString()
	updated := &domain.MoneyRequest{
		RequestID:    requestID,
		DepartmentID: "dept-1",
		RequesterID:  uuid.NewString(),
		FundID:       "fund-1",
		Amount:       decimal.NewFromInt(500),
		Purpose:      "Sound equipment",
		Status:       domain.StatusPendingHeadOfDepartment,
	}

	suite.mockService.On("Advance",
		mock.AnythingOfType("*context.valueCtx"),
		requestID,
		actorID,
		domain.DecisionApproved,
		"looks fine",
	).Return(updated, nil).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/money-requests/%s/decision", requestID), actorID, dto.AdvanceChainRequest{
		Decision: "APPROVED",
		Comments: "looks fine",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MoneyRequestResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("PENDING_HEAD_OF_DEPARTMENT", resp.Status)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *MoneyRequestHandlerTestSuite) TestDecide_InvalidDecisionRejectedAtBind() {
	actorID := uuid.NewString()
	requestID := uuid.NewString()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/money-requests/%s/decision", requestID), actorID, map[string]any{
		"decision": "MAYBE",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "Advance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MoneyRequestHandlerTestSuite) TestDecide_ReasonRequired() {
	actorID := uuid.NewString()
	requestID := uuid.NewString()

	suite.mockService.On("Advance",
		mock.AnythingOfType("*context.valueCtx"),
		requestID,
		actorID,
		domain.DecisionRejected,
		"",
	).Return(nil, services.ErrReasonRequired).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/money-requests/%s/decision", requestID), actorID, dto.AdvanceChainRequest{
		Decision: "REJECTED",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *MoneyRequestHandlerTestSuite) TestDecide_StepAlreadyDecidedConflict() {
	actorID := uuid.NewString()
	requestID := uuid.NewString()

	suite.mockService.On("Advance",
		mock.AnythingOfType("*context.valueCtx"),
		requestID,
		actorID,
		domain.DecisionApproved,
		"",
	).Return(nil, services.ErrStepAlreadyDecided).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/money-requests/%s/decision", requestID), actorID, dto.AdvanceChainRequest{
		Decision: "APPROVED",
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *MoneyRequestHandlerTestSuite) TestDecide_Forbidden() {
	actorID := uuid.NewString()
	requestID := uuid.NewString()

	suite.mockService.On("Advance",
		mock.AnythingOfType("*context.valueCtx"),
		requestID,
		actorID,
		domain.DecisionApproved,
		"",
	).Return(nil, fmt.Errorf("%w: user lacks the role", apperrors.ErrForbidden)).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/money-requests/%s/decision", requestID), actorID, dto.AdvanceChainRequest{
		Decision: "APPROVED",
	})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *MoneyRequestHandlerTestSuite) TestGetApprovals_Success() {
	userID := uuid.NewString()
	requestID := uuid.NewString()
	approver := uuid.NewString()
	decidedAt := time.Now().UTC()
	steps := []domain.RequestApproval{
		{ApprovalID: "ap-1", RequestID: requestID, Level: domain.LevelDepartmentTreasurer, Status: domain.ApprovalApproved, OrderSequence: 1, ApproverID: &approver, DecidedAt: &decidedAt},
		{ApprovalID: "ap-2", RequestID: requestID, Level: domain.LevelHeadOfDepartment, Status: domain.ApprovalPending, OrderSequence: 2},
	}

	suite.mockService.On("GetRequestApprovals", mock.AnythingOfType("*context.valueCtx"), requestID, userID).
		Return(steps, nil).Once()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/money-requests/%s/approvals", requestID), userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.RequestApprovalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 2)
	suite.Equal("ap-1", resp[0].ApprovalID)
	suite.Equal("PENDING", resp[1].Status)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *MoneyRequestHandlerTestSuite) TestPendingApprovals_Success() {
	userID := uuid.NewString()
	items := []domain.PendingApproval{
		{
			RequestID:      uuid.NewString(),
			ApprovalID:     "ap-1",
			Level:          domain.LevelFinanceElder,
			Amount:         decimal.NewFromInt(900),
			Purpose:        "Retreat venue",
			DepartmentName: "Youth",
			RequesterName:  "Jordan Mensah",
			CreatedAt:      time.Now().UTC(),
		},
	}

	suite.mockService.On("GetPendingApprovalsFor", mock.AnythingOfType("*context.valueCtx"), userID).
		Return(items, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/approvals/pending", userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.PendingApprovalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal("FINANCE_ELDER", resp[0].Level)
	suite.Equal("Youth", resp[0].DepartmentName)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *MoneyRequestHandlerTestSuite) TestMarkPaid_InvalidTransitionConflict() {
	adminID := uuid.NewString()
	requestID := uuid.NewString()

	suite.mockService.On("MarkPaid", mock.AnythingOfType("*context.valueCtx"), requestID, adminID).
		Return(nil, fmt.Errorf("%w: only approved requests can be marked paid (status DRAFT)", services.ErrInvalidTransition)).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/money-requests/%s/mark-paid", requestID), adminID, nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestMoneyRequestHandler(t *testing.T) {
	suite.Run(t, new(MoneyRequestHandlerTestSuite))
}
