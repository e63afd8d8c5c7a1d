package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/faithledger/church_admin_app/internal/core/services"
	"github.com/faithledger/church_admin_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockDepartmentRepository is a mock implementation of portsrepo.DepartmentRepositoryFacade
type MockDepartmentRepository struct {
	mock.Mock
}

func (m *MockDepartmentRepository) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Department), args.Error(1)
}

func (m *MockDepartmentRepository) ListDepartments(ctx context.Context, includeInactive bool) ([]domain.Department, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Department), args.Error(1)
}

func (m *MockDepartmentRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	args := m.Called(ctx, department)
	return args.Error(0)
}

func (m *MockDepartmentRepository) UpdateDepartment(ctx context.Context, department domain.Department) error {
	args := m.Called(ctx, department)
	return args.Error(0)
}

func (m *MockDepartmentRepository) MarkDepartmentDeleted(ctx context.Context, departmentID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, departmentID, deletedAt, deletedBy)
	return args.Error(0)
}

// MockFundRepository is a mock implementation of portsrepo.FundRepositoryFacade
type MockFundRepository struct {
	mock.Mock
}

func (m *MockFundRepository) FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockFundRepository) ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fund), args.Error(1)
}

func (m *MockFundRepository) SaveFund(ctx context.Context, fund domain.Fund) error {
	args := m.Called(ctx, fund)
	return args.Error(0)
}

func (m *MockFundRepository) UpdateFund(ctx context.Context, fund domain.Fund) error {
	args := m.Called(ctx, fund)
	return args.Error(0)
}

func (m *MockFundRepository) AdjustFundBalance(ctx context.Context, fundID string, delta decimal.Decimal) error {
	args := m.Called(ctx, fundID, delta)
	return args.Error(0)
}

// MockTemplateService is a mock implementation of portssvc.ApprovalTemplateSvcFacade
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) ResolveTemplate(ctx context.Context, departmentID string, amount decimal.Decimal) (*domain.ApprovalTemplate, error) {
	args := m.Called(ctx, departmentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalTemplate), args.Error(1)
}

func (m *MockTemplateService) CreateTemplate(ctx context.Context, req dto.CreateApprovalTemplateRequest, creatorUserID string) (*domain.ApprovalTemplate, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalTemplate), args.Error(1)
}

func (m *MockTemplateService) GetTemplateByID(ctx context.Context, templateID string) (*domain.ApprovalTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalTemplate), args.Error(1)
}

func (m *MockTemplateService) ListTemplates(ctx context.Context) ([]domain.ApprovalTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalTemplate), args.Error(1)
}

func (m *MockTemplateService) UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateApprovalTemplateRequest, requestingUserID string) (*domain.ApprovalTemplate, error) {
	args := m.Called(ctx, templateID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalTemplate), args.Error(1)
}

func (m *MockTemplateService) SetDefaultTemplate(ctx context.Context, templateID string, requestingUserID string) error {
	args := m.Called(ctx, templateID, requestingUserID)
	return args.Error(0)
}

func (m *MockTemplateService) DeactivateTemplate(ctx context.Context, templateID string, requestingUserID string) error {
	args := m.Called(ctx, templateID, requestingUserID)
	return args.Error(0)
}

// MockChainService is a mock implementation of portssvc.ApprovalChainSvcFacade
type MockChainService struct {
	mock.Mock
}

func (m *MockChainService) InitializeChain(ctx context.Context, request *domain.MoneyRequest, template *domain.ApprovalTemplate) ([]domain.RequestApproval, error) {
	args := m.Called(ctx, request, template)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RequestApproval), args.Error(1)
}

func (m *MockChainService) CurrentStep(ctx context.Context, requestID string) (*domain.RequestApproval, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequestApproval), args.Error(1)
}

func (m *MockChainService) CanAct(ctx context.Context, userID string, request *domain.MoneyRequest) (bool, error) {
	args := m.Called(ctx, userID, request)
	return args.Bool(0), args.Error(1)
}

func (m *MockChainService) Advance(ctx context.Context, requestID string, actorID string, decision domain.ApprovalDecision, comments string) (*domain.MoneyRequest, error) {
	args := m.Called(ctx, requestID, actorID, decision, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoneyRequest), args.Error(1)
}

type MoneyRequestServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockMoneyRequestRepository
	mockDeptRepo *MockDepartmentRepository
	mockFundRepo *MockFundRepository
	mockTemplate *MockTemplateService
	mockChain    *MockChainService
	mockPermSvc  *MockPermissionService
	service      *services.MoneyRequestService
}

func (suite *MoneyRequestServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockMoneyRequestRepository)
	suite.mockDeptRepo = new(MockDepartmentRepository)
	suite.mockFundRepo = new(MockFundRepository)
	suite.mockTemplate = new(MockTemplateService)
	suite.mockChain = new(MockChainService)
	suite.mockPermSvc = new(MockPermissionService)
	suite.service = services.NewMoneyRequestService(
		suite.mockRepo,
		suite.mockDeptRepo,
		suite.mockFundRepo,
		suite.mockTemplate,
		suite.mockChain,
		suite.mockPermSvc,
	)
}

func (suite *MoneyRequestServiceTestSuite) activeDepartment() *domain.Department {
	return &domain.Department{DepartmentID: "dept-1", Name: "Music", IsActive: true}
}

func (suite *MoneyRequestServiceTestSuite) activeFund() *domain.Fund {
	return &domain.Fund{FundID: "fund-1", Name: "General", IsActive: true}
}

func (suite *MoneyRequestServiceTestSuite) draftRequest() *domain.MoneyRequest {
	return &domain.MoneyRequest{
		RequestID:    "req-123",
		DepartmentID: "dept-1",
		RequesterID:  "user-1",
		FundID:       "fund-1",
		Amount:       decimal.NewFromInt(500),
		Purpose:      "Sound equipment",
		Status:       domain.StatusDraft,
	}
}

func (suite *MoneyRequestServiceTestSuite) TestCreateDraft_Success() {
	ctx := context.Background()
	req := dto.CreateMoneyRequestRequest{
		DepartmentID: "dept-1",
		FundID:       "fund-1",
		Amount:       decimal.NewFromInt(500),
		Purpose:      "Sound equipment",
	}

	suite.mockPermSvc.On("CanCreateRequestForDepartment", ctx, "user-1", "dept-1").Return(true, nil).Once()
	suite.mockDeptRepo.On("FindDepartmentByID", ctx, "dept-1").Return(suite.activeDepartment(), nil).Once()
	suite.mockFundRepo.On("FindFundByID", ctx, "fund-1").Return(suite.activeFund(), nil).Once()
	suite.mockRepo.On("SaveRequest", ctx, mock.MatchedBy(func(r domain.MoneyRequest) bool {
		return r.Status == domain.StatusDraft && r.RequesterID == "user-1" && r.Amount.Equal(decimal.NewFromInt(500))
	})).Return(nil).Once()

	request, err := suite.service.CreateDraft(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, request.Status)
	suite.NotEmpty(request.RequestID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MoneyRequestServiceTestSuite) TestCreateDraft_Forbidden() {
	ctx := context.Background()
	req := dto.CreateMoneyRequestRequest{DepartmentID: "dept-1", FundID: "fund-1", Amount: decimal.NewFromInt(500), Purpose: "x"}

	suite.mockPermSvc.On("CanCreateRequestForDepartment", ctx, "outsider", "dept-1").Return(false, nil).Once()

	request, err := suite.service.CreateDraft(ctx, req, "outsider")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrForbidden))
	suite.Nil(request)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveRequest", mock.Anything, mock.Anything)
}

func (suite *MoneyRequestServiceTestSuite) TestCreateDraft_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateMoneyRequestRequest{DepartmentID: "dept-1", FundID: "fund-1", Amount: decimal.Zero, Purpose: "x"}

	suite.mockPermSvc.On("CanCreateRequestForDepartment", ctx, "user-1", "dept-1").Return(true, nil).Once()

	request, err := suite.service.CreateDraft(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Nil(request)
}

func (suite *MoneyRequestServiceTestSuite) TestCreateDraft_InactiveDepartment() {
	ctx := context.Background()
	req := dto.CreateMoneyRequestRequest{DepartmentID: "dept-1", FundID: "fund-1", Amount: decimal.NewFromInt(10), Purpose: "x"}
	dept := suite.activeDepartment()
	dept.IsActive = false

	suite.mockPermSvc.On("CanCreateRequestForDepartment", ctx, "user-1", "dept-1").Return(true, nil).Once()
	suite.mockDeptRepo.On("FindDepartmentByID", ctx, "dept-1").Return(dept, nil).Once()

	request, err := suite.service.CreateDraft(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Nil(request)
}

func (suite *MoneyRequestServiceTestSuite) TestCreateDraft_UnknownFund() {
	ctx := context.Background()
	req := dto.CreateMoneyRequestRequest{DepartmentID: "dept-1", FundID: "fund-404", Amount: decimal.NewFromInt(10), Purpose: "x"}

	suite.mockPermSvc.On("CanCreateRequestForDepartment", ctx, "user-1", "dept-1").Return(true, nil).Once()
	suite.mockDeptRepo.On("FindDepartmentByID", ctx, "dept-1").Return(suite.activeDepartment(), nil).Once()
	suite.mockFundRepo.On("FindFundByID", ctx, "fund-404").Return(nil, apperrors.ErrNotFound).Once()

	request, err := suite.service.CreateDraft(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Nil(request)
}

func (suite *MoneyRequestServiceTestSuite) TestUpdateDraft_Success() {
	ctx := context.Background()
	request := suite.draftRequest()
	newAmount := decimal.NewFromInt(750)
	newPurpose := "Sound equipment and cabling"
	req := dto.UpdateMoneyRequestRequest{Amount: &newAmount, Purpose: &newPurpose}

	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()
	suite.mockRepo.On("UpdateRequest", ctx, mock.MatchedBy(func(r domain.MoneyRequest) bool {
		return r.Amount.Equal(newAmount) && r.Purpose == newPurpose
	})).Return(nil).Once()

	updated, err := suite.service.UpdateDraft(ctx, "req-123", req, "user-1")

	suite.Require().NoError(err)
	suite.True(updated.Amount.Equal(newAmount))
	suite.Equal(newPurpose, updated.Purpose)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MoneyRequestServiceTestSuite) TestUpdateDraft_NotDraft() {
	ctx := context.Background()
	request := suite.draftRequest()
	request.Status = domain.StatusPendingDepartmentTreasurer
	newPurpose := "too late"
	req := dto.UpdateMoneyRequestRequest{Purpose: &newPurpose}

	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()

	updated, err := suite.service.UpdateDraft(ctx, "req-123", req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidTransition)
	suite.Nil(updated)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateRequest", mock.Anything, mock.Anything)
}

func (suite *MoneyRequestServiceTestSuite) TestUpdateDraft_OtherUserForbidden() {
	ctx := context.Background()
	request := suite.draftRequest()
	newPurpose := "hijack"
	req := dto.UpdateMoneyRequestRequest{Purpose: &newPurpose}

	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()
	suite.mockPermSvc.On("IsAdmin", ctx, "other-user").Return(false, nil).Once()

	updated, err := suite.service.UpdateDraft(ctx, "req-123", req, "other-user")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrForbidden))
	suite.Nil(updated)
}

func (suite *MoneyRequestServiceTestSuite) TestSubmit_Success() {
	ctx := context.Background()
	request := suite.draftRequest()
	template := &domain.ApprovalTemplate{
		TemplateID: "tmpl-1",
		Steps:      []domain.ApprovalStepDef{{Level: domain.LevelDepartmentTreasurer, Required: true, StepOrder: 1}},
		IsActive:   true,
	}

	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()
	suite.mockTemplate.On("ResolveTemplate", ctx, "dept-1", request.Amount).Return(template, nil).Once()
	suite.mockChain.On("InitializeChain", ctx, request, template).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.MoneyRequest).Status = domain.StatusPendingDepartmentTreasurer
		}).
		Return([]domain.RequestApproval{{ApprovalID: "ap-1"}}, nil).Once()

	submitted, err := suite.service.Submit(ctx, "req-123", "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPendingDepartmentTreasurer, submitted.Status)
	suite.mockChain.AssertExpectations(suite.T())
}

func (suite *MoneyRequestServiceTestSuite) TestSubmit_NotDraft() {
	ctx := context.Background()
	request := suite.draftRequest()
	request.Status = domain.StatusApproved

	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()

	submitted, err := suite.service.Submit(ctx, "req-123", "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidTransition)
	suite.Nil(submitted)
	suite.mockTemplate.AssertNotCalled(suite.T(), "ResolveTemplate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MoneyRequestServiceTestSuite) TestSubmit_NoTemplateKeepsDraft() {
	ctx := context.Background()
	request := suite.draftRequest()

	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()
	suite.mockTemplate.On("ResolveTemplate", ctx, "dept-1", request.Amount).Return(nil, services.ErrNoTemplateConfigured).Once()

	submitted, err := suite.service.Submit(ctx, "req-123", "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoTemplateConfigured)
	suite.Nil(submitted)
	suite.Equal(domain.StatusDraft, request.Status)
	suite.mockChain.AssertNotCalled(suite.T(), "InitializeChain", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MoneyRequestServiceTestSuite) TestWithdraw_Success() {
	ctx := context.Background()
	request := suite.draftRequest()

	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()
	suite.mockRepo.On("MarkRequestDeleted", ctx, "req-123", mock.AnythingOfType("time.Time"), "user-1").Return(nil).Once()

	err := suite.service.Withdraw(ctx, "req-123", "user-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MoneyRequestServiceTestSuite) TestWithdraw_SubmittedRequestRejected() {
	ctx := context.Background()
	request := suite.draftRequest()
	request.Status = domain.StatusPendingFinanceElder

	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()

	err := suite.service.Withdraw(ctx, "req-123", "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidTransition)
	suite.mockRepo.AssertNotCalled(suite.T(), "MarkRequestDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MoneyRequestServiceTestSuite) TestMarkPaid_Success() {
	ctx := context.Background()
	request := suite.draftRequest()
	request.Status = domain.StatusApproved

	suite.mockPermSvc.On("IsAdmin", ctx, "admin-1").Return(true, nil).Once()
	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()
	suite.mockRepo.On("UpdateRequestStatus", ctx, "req-123", domain.StatusPaid, "admin-1", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockFundRepo.On("AdjustFundBalance", ctx, "fund-1", mock.MatchedBy(func(delta decimal.Decimal) bool {
		return delta.Equal(decimal.NewFromInt(-500))
	})).Return(nil).Once()

	paid, err := suite.service.MarkPaid(ctx, "req-123", "admin-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, paid.Status)
	suite.mockFundRepo.AssertExpectations(suite.T())
}

func (suite *MoneyRequestServiceTestSuite) TestMarkPaid_NonAdminForbidden() {
	ctx := context.Background()

	suite.mockPermSvc.On("IsAdmin", ctx, "user-1").Return(false, nil).Once()

	paid, err := suite.service.MarkPaid(ctx, "req-123", "user-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrForbidden))
	suite.Nil(paid)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateRequestStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MoneyRequestServiceTestSuite) TestMarkPaid_NotApproved() {
	ctx := context.Background()
	request := suite.draftRequest()
	request.Status = domain.StatusPendingPastor

	suite.mockPermSvc.On("IsAdmin", ctx, "admin-1").Return(true, nil).Once()
	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()

	paid, err := suite.service.MarkPaid(ctx, "req-123", "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidTransition)
	suite.Nil(paid)
	suite.mockFundRepo.AssertNotCalled(suite.T(), "AdjustFundBalance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MoneyRequestServiceTestSuite) TestGetRequestByID_RequesterSeesOwn() {
	ctx := context.Background()
	request := suite.draftRequest()

	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()

	found, err := suite.service.GetRequestByID(ctx, "req-123", "user-1")

	suite.Require().NoError(err)
	suite.Equal("req-123", found.RequestID)
	suite.mockPermSvc.AssertNotCalled(suite.T(), "CanCreateRequestForDepartment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MoneyRequestServiceTestSuite) TestGetRequestByID_OutsiderForbidden() {
	ctx := context.Background()
	request := suite.draftRequest()

	suite.mockRepo.On("FindRequestByID", ctx, "req-123").Return(request, nil).Once()
	suite.mockPermSvc.On("CanCreateRequestForDepartment", ctx, "outsider", "dept-1").Return(false, nil).Once()

	found, err := suite.service.GetRequestByID(ctx, "req-123", "outsider")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrForbidden))
	suite.Nil(found)
}

func (suite *MoneyRequestServiceTestSuite) TestGetPendingApprovalsFor_DepartmentScopedRole() {
	ctx := context.Background()
	deptID := "dept-1"
	roles := []domain.UserRole{
		{UserID: "treasurer-1", Role: domain.RoleDepartmentTreasurer, DepartmentID: &deptID},
	}
	inbox := []domain.PendingApproval{
		{RequestID: "req-123", ApprovalID: "ap-1", Level: domain.LevelDepartmentTreasurer, DepartmentID: deptID},
	}

	suite.mockPermSvc.On("RolesOf", ctx, "treasurer-1").Return(roles, nil).Once()
	suite.mockRepo.On("ListPendingByLevel", ctx, domain.LevelDepartmentTreasurer, &deptID).Return(inbox, nil).Once()

	items, err := suite.service.GetPendingApprovalsFor(ctx, "treasurer-1")

	suite.Require().NoError(err)
	suite.Require().Len(items, 1)
	suite.Equal("ap-1", items[0].ApprovalID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MoneyRequestServiceTestSuite) TestGetPendingApprovalsFor_AdminSeesEveryLevel() {
	ctx := context.Background()
	roles := []domain.UserRole{{UserID: "admin-1", Role: domain.RoleAdmin}}

	suite.mockPermSvc.On("RolesOf", ctx, "admin-1").Return(roles, nil).Once()
	for _, level := range domain.KnownApprovalLevels {
		suite.mockRepo.On("ListPendingByLevel", ctx, level, (*string)(nil)).Return([]domain.PendingApproval{}, nil).Once()
	}

	items, err := suite.service.GetPendingApprovalsFor(ctx, "admin-1")

	suite.Require().NoError(err)
	suite.Empty(items)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *MoneyRequestServiceTestSuite) TestGetPendingApprovalsFor_NoRolesEmptyInbox() {
	ctx := context.Background()

	suite.mockPermSvc.On("RolesOf", ctx, "member-1").Return([]domain.UserRole{}, nil).Once()

	items, err := suite.service.GetPendingApprovalsFor(ctx, "member-1")

	suite.Require().NoError(err)
	suite.Empty(items)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListPendingByLevel", mock.Anything, mock.Anything, mock.Anything)
}

func TestMoneyRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MoneyRequestServiceTestSuite))
}
