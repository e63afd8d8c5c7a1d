package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/faithledger/church_admin_app/internal/core/services"
	"github.com/faithledger/church_admin_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockApprovalTemplateRepository is a mock implementation of portsrepo.ApprovalTemplateRepositoryFacade
type MockApprovalTemplateRepository struct {
	mock.Mock
}

func (m *MockApprovalTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.ApprovalTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalTemplate), args.Error(1)
}

func (m *MockApprovalTemplateRepository) ListActiveTemplates(ctx context.Context) ([]domain.ApprovalTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalTemplate), args.Error(1)
}

func (m *MockApprovalTemplateRepository) ListTemplates(ctx context.Context) ([]domain.ApprovalTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalTemplate), args.Error(1)
}

func (m *MockApprovalTemplateRepository) FindDefaultTemplate(ctx context.Context) (*domain.ApprovalTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalTemplate), args.Error(1)
}

func (m *MockApprovalTemplateRepository) SaveTemplate(ctx context.Context, template domain.ApprovalTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockApprovalTemplateRepository) UpdateTemplate(ctx context.Context, template domain.ApprovalTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockApprovalTemplateRepository) SetDefaultTemplate(ctx context.Context, templateID string, updatedBy string) error {
	args := m.Called(ctx, templateID, updatedBy)
	return args.Error(0)
}

func (m *MockApprovalTemplateRepository) SetTemplateActive(ctx context.Context, templateID string, active bool, updatedBy string) error {
	args := m.Called(ctx, templateID, active, updatedBy)
	return args.Error(0)
}

type ApprovalTemplateServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockApprovalTemplateRepository
	mockPermSvc *MockPermissionService
	service     *services.ApprovalTemplateService
}

func (suite *ApprovalTemplateServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockApprovalTemplateRepository)
	suite.mockPermSvc = new(MockPermissionService)
	suite.service = services.NewApprovalTemplateService(suite.mockRepo, suite.mockPermSvc)
}

func stringPtr(s string) *string { return &s }

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func activeTemplate(id string, departmentID *string, minAmount, maxAmount *decimal.Decimal) domain.ApprovalTemplate {
	return domain.ApprovalTemplate{
		TemplateID:   id,
		Name:         id,
		DepartmentID: departmentID,
		MinAmount:    minAmount,
		MaxAmount:    maxAmount,
		Steps: []domain.ApprovalStepDef{
			{Level: domain.LevelDepartmentTreasurer, Required: true, StepOrder: 1},
		},
		IsActive: true,
	}
}

func (suite *ApprovalTemplateServiceTestSuite) TestResolveTemplate_DepartmentScopedBeatsChurchWide() {
	ctx := context.Background()
	templates := []domain.ApprovalTemplate{
		activeTemplate("church-wide", nil, nil, nil),
		activeTemplate("dept-scoped", stringPtr("dept-1"), nil, nil),
	}
	suite.mockRepo.On("ListActiveTemplates", ctx).Return(templates, nil).Once()

	resolved, err := suite.service.ResolveTemplate(ctx, "dept-1", decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.Equal("dept-scoped", resolved.TemplateID)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindDefaultTemplate", mock.Anything)
}

func (suite *ApprovalTemplateServiceTestSuite) TestResolveTemplate_TighterAmountBandWins() {
	ctx := context.Background()
	templates := []domain.ApprovalTemplate{
		activeTemplate("open-floor", nil, nil, nil),
		activeTemplate("large-amounts", nil, decimalPtr(decimal.NewFromInt(1000)), nil),
	}
	suite.mockRepo.On("ListActiveTemplates", ctx).Return(templates, nil).Once()

	resolved, err := suite.service.ResolveTemplate(ctx, "dept-1", decimal.NewFromInt(5000))

	suite.Require().NoError(err)
	suite.Equal("large-amounts", resolved.TemplateID)
}

func (suite *ApprovalTemplateServiceTestSuite) TestResolveTemplate_AmountOutsideBandNotMatched() {
	ctx := context.Background()
	templates := []domain.ApprovalTemplate{
		activeTemplate("large-amounts", nil, decimalPtr(decimal.NewFromInt(1000)), nil),
		activeTemplate("small-amounts", nil, nil, decimalPtr(decimal.NewFromInt(999))),
	}
	suite.mockRepo.On("ListActiveTemplates", ctx).Return(templates, nil).Once()

	resolved, err := suite.service.ResolveTemplate(ctx, "dept-1", decimal.NewFromInt(50))

	suite.Require().NoError(err)
	suite.Equal("small-amounts", resolved.TemplateID)
}

func (suite *ApprovalTemplateServiceTestSuite) TestResolveTemplate_EqualSpecificityIsAmbiguous() {
	ctx := context.Background()
	floor := decimalPtr(decimal.NewFromInt(100))
	templates := []domain.ApprovalTemplate{
		activeTemplate("tmpl-a", stringPtr("dept-1"), floor, nil),
		activeTemplate("tmpl-b", stringPtr("dept-1"), floor, nil),
	}
	suite.mockRepo.On("ListActiveTemplates", ctx).Return(templates, nil).Once()

	resolved, err := suite.service.ResolveTemplate(ctx, "dept-1", decimal.NewFromInt(500))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAmbiguousTemplateMatch)
	suite.Nil(resolved)
}

func (suite *ApprovalTemplateServiceTestSuite) TestResolveTemplate_FallsBackToDefault() {
	ctx := context.Background()
	templates := []domain.ApprovalTemplate{
		activeTemplate("other-dept", stringPtr("dept-2"), nil, nil),
	}
	def := activeTemplate("default-tmpl", nil, decimalPtr(decimal.NewFromInt(10000)), nil)
	def.IsDefault = true

	suite.mockRepo.On("ListActiveTemplates", ctx).Return(templates, nil).Once()
	suite.mockRepo.On("FindDefaultTemplate", ctx).Return(&def, nil).Once()

	resolved, err := suite.service.ResolveTemplate(ctx, "dept-1", decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.Equal("default-tmpl", resolved.TemplateID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalTemplateServiceTestSuite) TestResolveTemplate_NoMatchNoDefault() {
	ctx := context.Background()
	suite.mockRepo.On("ListActiveTemplates", ctx).Return([]domain.ApprovalTemplate{}, nil).Once()
	suite.mockRepo.On("FindDefaultTemplate", ctx).Return(nil, apperrors.ErrNotFound).Once()

	resolved, err := suite.service.ResolveTemplate(ctx, "dept-1", decimal.NewFromInt(100))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoTemplateConfigured)
	suite.Nil(resolved)
}

func (suite *ApprovalTemplateServiceTestSuite) TestResolveTemplate_InactiveDefaultNotUsed() {
	ctx := context.Background()
	def := activeTemplate("default-tmpl", nil, nil, nil)
	def.IsDefault = true
	def.IsActive = false

	suite.mockRepo.On("ListActiveTemplates", ctx).Return([]domain.ApprovalTemplate{}, nil).Once()
	suite.mockRepo.On("FindDefaultTemplate", ctx).Return(&def, nil).Once()

	resolved, err := suite.service.ResolveTemplate(ctx, "dept-1", decimal.NewFromInt(100))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoTemplateConfigured)
	suite.Nil(resolved)
}

func (suite *ApprovalTemplateServiceTestSuite) TestCreateTemplate_Success() {
	ctx := context.Background()
	req := dto.CreateApprovalTemplateRequest{
		Name:         "Standard chain",
		DepartmentID: stringPtr("dept-1"),
		Steps: []dto.ApprovalStepDefDTO{
			{Level: "DEPARTMENT_TREASURER", Required: true, StepOrder: 1},
			{Level: "HEAD_OF_DEPARTMENT", Required: true, StepOrder: 2},
		},
	}

	suite.mockPermSvc.On("IsAdmin", ctx, "admin-1").Return(true, nil).Once()
	suite.mockRepo.On("SaveTemplate", ctx, mock.MatchedBy(func(t domain.ApprovalTemplate) bool {
		return t.Name == "Standard chain" && t.IsActive && !t.IsDefault && len(t.Steps) == 2
	})).Return(nil).Once()

	template, err := suite.service.CreateTemplate(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.NotEmpty(template.TemplateID)
	suite.Equal("admin-1", template.CreatedBy)
	suite.mockRepo.AssertNotCalled(suite.T(), "SetDefaultTemplate", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalTemplateServiceTestSuite) TestCreateTemplate_AsDefaultSwapsAtomically() {
	ctx := context.Background()
	req := dto.CreateApprovalTemplateRequest{
		Name: "Fallback chain",
		Steps: []dto.ApprovalStepDefDTO{
			{Level: "PASTOR", Required: true, StepOrder: 1},
		},
		IsDefault: true,
	}

	suite.mockPermSvc.On("IsAdmin", ctx, "admin-1").Return(true, nil).Once()
	suite.mockRepo.On("SaveTemplate", ctx, mock.AnythingOfType("domain.ApprovalTemplate")).Return(nil).Once()
	suite.mockRepo.On("SetDefaultTemplate", ctx, mock.AnythingOfType("string"), "admin-1").Return(nil).Once()

	template, err := suite.service.CreateTemplate(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.True(template.IsDefault)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalTemplateServiceTestSuite) TestCreateTemplate_NonAdminForbidden() {
	ctx := context.Background()
	req := dto.CreateApprovalTemplateRequest{
		Name:  "Sneaky chain",
		Steps: []dto.ApprovalStepDefDTO{{Level: "PASTOR", Required: true, StepOrder: 1}},
	}

	suite.mockPermSvc.On("IsAdmin", ctx, "user-1").Return(false, nil).Once()

	template, err := suite.service.CreateTemplate(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrForbidden))
	suite.Nil(template)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTemplate", mock.Anything, mock.Anything)
}

func (suite *ApprovalTemplateServiceTestSuite) TestCreateTemplate_DuplicateStepOrder() {
	ctx := context.Background()
	req := dto.CreateApprovalTemplateRequest{
		Name: "Broken chain",
		Steps: []dto.ApprovalStepDefDTO{
			{Level: "DEPARTMENT_TREASURER", Required: true, StepOrder: 1},
			{Level: "PASTOR", Required: true, StepOrder: 1},
		},
	}

	suite.mockPermSvc.On("IsAdmin", ctx, "admin-1").Return(true, nil).Once()

	template, err := suite.service.CreateTemplate(ctx, req, "admin-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Nil(template)
}

func (suite *ApprovalTemplateServiceTestSuite) TestCreateTemplate_UnknownLevel() {
	ctx := context.Background()
	req := dto.CreateApprovalTemplateRequest{
		Name:  "Unknown level",
		Steps: []dto.ApprovalStepDefDTO{{Level: "GRAND_VIZIER", Required: true, StepOrder: 1}},
	}

	suite.mockPermSvc.On("IsAdmin", ctx, "admin-1").Return(true, nil).Once()

	template, err := suite.service.CreateTemplate(ctx, req, "admin-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Nil(template)
}

func (suite *ApprovalTemplateServiceTestSuite) TestCreateTemplate_InvertedAmountBand() {
	ctx := context.Background()
	req := dto.CreateApprovalTemplateRequest{
		Name:      "Inverted band",
		MinAmount: decimalPtr(decimal.NewFromInt(1000)),
		MaxAmount: decimalPtr(decimal.NewFromInt(10)),
		Steps:     []dto.ApprovalStepDefDTO{{Level: "PASTOR", Required: true, StepOrder: 1}},
	}

	suite.mockPermSvc.On("IsAdmin", ctx, "admin-1").Return(true, nil).Once()

	template, err := suite.service.CreateTemplate(ctx, req, "admin-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Nil(template)
}

func (suite *ApprovalTemplateServiceTestSuite) TestSetDefaultTemplate_InactiveRejected() {
	ctx := context.Background()
	template := activeTemplate("tmpl-1", nil, nil, nil)
	template.IsActive = false

	suite.mockPermSvc.On("IsAdmin", ctx, "admin-1").Return(true, nil).Once()
	suite.mockRepo.On("FindTemplateByID", ctx, "tmpl-1").Return(&template, nil).Once()

	err := suite.service.SetDefaultTemplate(ctx, "tmpl-1", "admin-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.mockRepo.AssertNotCalled(suite.T(), "SetDefaultTemplate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalTemplateServiceTestSuite) TestDeactivateTemplate_DefaultRejected() {
	ctx := context.Background()
	template := activeTemplate("tmpl-1", nil, nil, nil)
	template.IsDefault = true

	suite.mockPermSvc.On("IsAdmin", ctx, "admin-1").Return(true, nil).Once()
	suite.mockRepo.On("FindTemplateByID", ctx, "tmpl-1").Return(&template, nil).Once()

	err := suite.service.DeactivateTemplate(ctx, "tmpl-1", "admin-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.mockRepo.AssertNotCalled(suite.T(), "SetTemplateActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalTemplateServiceTestSuite) TestDeactivateTemplate_Success() {
	ctx := context.Background()
	template := activeTemplate("tmpl-1", nil, nil, nil)

	suite.mockPermSvc.On("IsAdmin", ctx, "admin-1").Return(true, nil).Once()
	suite.mockRepo.On("FindTemplateByID", ctx, "tmpl-1").Return(&template, nil).Once()
	suite.mockRepo.On("SetTemplateActive", ctx, "tmpl-1", false, "admin-1").Return(nil).Once()

	err := suite.service.DeactivateTemplate(ctx, "tmpl-1", "admin-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestApprovalTemplateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalTemplateServiceTestSuite))
}
