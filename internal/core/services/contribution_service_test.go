package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/faithledger/church_admin_app/internal/apperrors"
	"github.com/faithledger/church_admin_app/internal/core/domain"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	"github.com/faithledger/church_admin_app/internal/core/services"
	"github.com/faithledger/church_admin_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockContributionRepository is a mock implementation of portsrepo.ContributionRepositoryFacade
type MockContributionRepository struct {
	mock.Mock
}

func (m *MockContributionRepository) FindContributionByID(ctx context.Context, contributionID string) (*domain.Contribution, error) {
	args := m.Called(ctx, contributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contribution), args.Error(1)
}

func (m *MockContributionRepository) ListContributionsByFund(ctx context.Context, fundID string, limit int, nextToken *string) ([]domain.Contribution, *string, error) {
	args := m.Called(ctx, fundID, limit, nextToken)
	var contributions []domain.Contribution
	if args.Get(0) != nil {
		contributions = args.Get(0).([]domain.Contribution)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return contributions, token, args.Error(2)
}

func (m *MockContributionRepository) ListContributionsByContributor(ctx context.Context, contributorID string) ([]domain.Contribution, error) {
	args := m.Called(ctx, contributorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

func (m *MockContributionRepository) SaveContributionWithApplications(ctx context.Context, contribution domain.Contribution, applications []portsrepo.PledgeApplication) error {
	args := m.Called(ctx, contribution, applications)
	return args.Error(0)
}

func (m *MockContributionRepository) SaveQRToken(ctx context.Context, token domain.QRToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockContributionRepository) FindQRToken(ctx context.Context, token string) (*domain.QRToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QRToken), args.Error(1)
}

func (m *MockContributionRepository) RedeemQRToken(ctx context.Context, token string, redeemedAt time.Time) error {
	args := m.Called(ctx, token, redeemedAt)
	return args.Error(0)
}

// MockContributorRepository is a mock implementation of portsrepo.ContributorRepositoryFacade
type MockContributorRepository struct {
	mock.Mock
}

func (m *MockContributorRepository) FindContributorByID(ctx context.Context, contributorID string) (*domain.Contributor, error) {
	args := m.Called(ctx, contributorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contributor), args.Error(1)
}

func (m *MockContributorRepository) ListContributors(ctx context.Context, limit int, offset int) ([]domain.Contributor, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contributor), args.Error(1)
}

func (m *MockContributorRepository) SaveContributor(ctx context.Context, contributor domain.Contributor) error {
	args := m.Called(ctx, contributor)
	return args.Error(0)
}

func (m *MockContributorRepository) UpdateContributor(ctx context.Context, contributor domain.Contributor) error {
	args := m.Called(ctx, contributor)
	return args.Error(0)
}

func (m *MockContributorRepository) MarkContributorDeleted(ctx context.Context, contributorID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, contributorID, deletedAt, deletedBy)
	return args.Error(0)
}

// MockPledgeRepository is a mock implementation of portsrepo.PledgeRepositoryFacade
type MockPledgeRepository struct {
	mock.Mock
}

func (m *MockPledgeRepository) FindPledgeByID(ctx context.Context, pledgeID string) (*domain.Pledge, error) {
	args := m.Called(ctx, pledgeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) ListPledgesByContributor(ctx context.Context, contributorID string) ([]domain.Pledge, error) {
	args := m.Called(ctx, contributorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) ListActivePledgesByContributor(ctx context.Context, contributorID string) ([]domain.Pledge, error) {
	args := m.Called(ctx, contributorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) SavePledge(ctx context.Context, pledge domain.Pledge) error {
	args := m.Called(ctx, pledge)
	return args.Error(0)
}

func (m *MockPledgeRepository) UpdatePledgeStatus(ctx context.Context, pledgeID string, status domain.PledgeStatus, updatedBy string) error {
	args := m.Called(ctx, pledgeID, status, updatedBy)
	return args.Error(0)
}

type ContributionServiceTestSuite struct {
	suite.Suite
	mockRepo            *MockContributionRepository
	mockContributorRepo *MockContributorRepository
	mockFundRepo        *MockFundRepository
	mockPledgeRepo      *MockPledgeRepository
	service             *services.ContributionService
}

func (suite *ContributionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockContributionRepository)
	suite.mockContributorRepo = new(MockContributorRepository)
	suite.mockFundRepo = new(MockFundRepository)
	suite.mockPledgeRepo = new(MockPledgeRepository)
	suite.service = services.NewContributionService(
		suite.mockRepo,
		suite.mockContributorRepo,
		suite.mockFundRepo,
		suite.mockPledgeRepo,
	)
}

func (suite *ContributionServiceTestSuite) activeFund() *domain.Fund {
	return &domain.Fund{FundID: "fund-1", Name: "Building", IsActive: true}
}

func (suite *ContributionServiceTestSuite) TestRecordContribution_AppliesToPledgesOldestFirst() {
	ctx := context.Background()
	contributorID := "contrib-1"
	req := dto.RecordContributionRequest{
		FundID:        "fund-1",
		ContributorID: &contributorID,
		Amount:        decimal.NewFromInt(120),
		Method:        "CASH",
	}

	// Oldest-first order is the repository's contract; the split happens here.
	pledges := []domain.Pledge{
		{PledgeID: "pl-old", ContributorID: contributorID, TotalAmount: decimal.NewFromInt(100), AmountApplied: decimal.NewFromInt(50), Status: domain.PledgeActive},
		{PledgeID: "pl-new", ContributorID: contributorID, TotalAmount: decimal.NewFromInt(100), AmountApplied: decimal.Zero, Status: domain.PledgeActive},
	}

	suite.mockFundRepo.On("FindFundByID", ctx, "fund-1").Return(suite.activeFund(), nil).Once()
	suite.mockContributorRepo.On("FindContributorByID", ctx, contributorID).Return(&domain.Contributor{ContributorID: contributorID, IsActive: true}, nil).Once()
	suite.mockPledgeRepo.On("ListActivePledgesByContributor", ctx, contributorID).Return(pledges, nil).Once()
	suite.mockRepo.On("SaveContributionWithApplications", ctx, mock.AnythingOfType("domain.Contribution"), mock.MatchedBy(func(apps []portsrepo.PledgeApplication) bool {
		return len(apps) == 2 &&
			apps[0].PledgeID == "pl-old" && apps[0].Amount.Equal(decimal.NewFromInt(50)) && apps[0].NewStatus == domain.PledgeFulfilled &&
			apps[1].PledgeID == "pl-new" && apps[1].Amount.Equal(decimal.NewFromInt(70)) && apps[1].NewStatus == domain.PledgeActive
	})).Return(nil).Once()

	contribution, err := suite.service.RecordContribution(ctx, req, "recorder-1")

	suite.Require().NoError(err)
	suite.Equal(domain.ContributionMethod("CASH"), contribution.Method)
	suite.True(contribution.Amount.Equal(decimal.NewFromInt(120)))
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPledgeRepo.AssertExpectations(suite.T())
}

func (suite *ContributionServiceTestSuite) TestRecordContribution_SkipsExhaustedPledges() {
	ctx := context.Background()
	contributorID := "contrib-1"
	req := dto.RecordContributionRequest{
		FundID:        "fund-1",
		ContributorID: &contributorID,
		Amount:        decimal.NewFromInt(30),
		Method:        "TRANSFER",
	}

	pledges := []domain.Pledge{
		{PledgeID: "pl-done", ContributorID: contributorID, TotalAmount: decimal.NewFromInt(100), AmountApplied: decimal.NewFromInt(100), Status: domain.PledgeActive},
		{PledgeID: "pl-open", ContributorID: contributorID, TotalAmount: decimal.NewFromInt(200), AmountApplied: decimal.Zero, Status: domain.PledgeActive},
	}

	suite.mockFundRepo.On("FindFundByID", ctx, "fund-1").Return(suite.activeFund(), nil).Once()
	suite.mockContributorRepo.On("FindContributorByID", ctx, contributorID).Return(&domain.Contributor{ContributorID: contributorID, IsActive: true}, nil).Once()
	suite.mockPledgeRepo.On("ListActivePledgesByContributor", ctx, contributorID).Return(pledges, nil).Once()
	suite.mockRepo.On("SaveContributionWithApplications", ctx, mock.AnythingOfType("domain.Contribution"), mock.MatchedBy(func(apps []portsrepo.PledgeApplication) bool {
		return len(apps) == 1 && apps[0].PledgeID == "pl-open" && apps[0].Amount.Equal(decimal.NewFromInt(30)) && apps[0].NewStatus == domain.PledgeActive
	})).Return(nil).Once()

	_, err := suite.service.RecordContribution(ctx, req, "recorder-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ContributionServiceTestSuite) TestRecordContribution_AnonymousSkipsPledges() {
	ctx := context.Background()
	req := dto.RecordContributionRequest{
		FundID: "fund-1",
		Amount: decimal.NewFromInt(40),
		Method: "CASH",
	}

	suite.mockFundRepo.On("FindFundByID", ctx, "fund-1").Return(suite.activeFund(), nil).Once()
	suite.mockRepo.On("SaveContributionWithApplications", ctx, mock.AnythingOfType("domain.Contribution"), mock.MatchedBy(func(apps []portsrepo.PledgeApplication) bool {
		return len(apps) == 0
	})).Return(nil).Once()

	contribution, err := suite.service.RecordContribution(ctx, req, "recorder-1")

	suite.Require().NoError(err)
	suite.Nil(contribution.ContributorID)
	suite.mockPledgeRepo.AssertNotCalled(suite.T(), "ListActivePledgesByContributor", mock.Anything, mock.Anything)
}

func (suite *ContributionServiceTestSuite) TestRecordContribution_InactiveFund() {
	ctx := context.Background()
	fund := suite.activeFund()
	fund.IsActive = false
	req := dto.RecordContributionRequest{FundID: "fund-1", Amount: decimal.NewFromInt(40), Method: "CASH"}

	suite.mockFundRepo.On("FindFundByID", ctx, "fund-1").Return(fund, nil).Once()

	contribution, err := suite.service.RecordContribution(ctx, req, "recorder-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(contribution)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveContributionWithApplications", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ContributionServiceTestSuite) TestRecordContribution_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.RecordContributionRequest{FundID: "fund-1", Amount: decimal.NewFromInt(-5), Method: "CASH"}

	contribution, err := suite.service.RecordContribution(ctx, req, "recorder-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(contribution)
	suite.mockFundRepo.AssertNotCalled(suite.T(), "FindFundByID", mock.Anything, mock.Anything)
}

func (suite *ContributionServiceTestSuite) TestIssueQRToken_Success() {
	ctx := context.Background()
	req := dto.IssueQRTokenRequest{FundID: "fund-1", TTLMinutes: 10}

	var saved domain.QRToken
	suite.mockFundRepo.On("FindFundByID", ctx, "fund-1").Return(suite.activeFund(), nil).Once()
	suite.mockRepo.On("SaveQRToken", ctx, mock.AnythingOfType("domain.QRToken")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.QRToken)
		}).
		Return(nil).Once()

	token, err := suite.service.IssueQRToken(ctx, req, "issuer-1")

	suite.Require().NoError(err)
	suite.NotEmpty(token.Token)
	suite.Equal("fund-1", token.FundID)
	suite.Equal("issuer-1", token.CreatedBy)
	suite.WithinDuration(time.Now().UTC().Add(10*time.Minute), token.ExpiresAt, 5*time.Second)
	suite.Equal(saved.Token, token.Token)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ContributionServiceTestSuite) TestRedeemQRToken_Success() {
	ctx := context.Background()
	contributorID := "contrib-1"
	qr := &domain.QRToken{
		Token:         "tok-abc",
		FundID:        "fund-1",
		ContributorID: &contributorID,
		ExpiresAt:     time.Now().UTC().Add(10 * time.Minute),
		CreatedBy:     "issuer-1",
	}
	req := dto.RedeemQRTokenRequest{Token: "tok-abc", Amount: decimal.NewFromInt(25)}

	suite.mockRepo.On("FindQRToken", ctx, "tok-abc").Return(qr, nil).Once()
	suite.mockRepo.On("RedeemQRToken", ctx, "tok-abc", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPledgeRepo.On("ListActivePledgesByContributor", ctx, contributorID).Return([]domain.Pledge{}, nil).Once()
	suite.mockRepo.On("SaveContributionWithApplications", ctx, mock.MatchedBy(func(c domain.Contribution) bool {
		return c.Method == domain.MethodQR && c.Reference == "tok-abc" && c.FundID == "fund-1"
	}), mock.Anything).Return(nil).Once()

	contribution, err := suite.service.RedeemQRToken(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.MethodQR, contribution.Method)
	suite.Require().NotNil(contribution.ContributorID)
	suite.Equal(contributorID, *contribution.ContributorID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ContributionServiceTestSuite) TestRedeemQRToken_Expired() {
	ctx := context.Background()
	qr := &domain.QRToken{
		Token:     "tok-abc",
		FundID:    "fund-1",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	req := dto.RedeemQRTokenRequest{Token: "tok-abc", Amount: decimal.NewFromInt(25)}

	suite.mockRepo.On("FindQRToken", ctx, "tok-abc").Return(qr, nil).Once()

	contribution, err := suite.service.RedeemQRToken(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrQRTokenExpired)
	suite.Nil(contribution)
	suite.mockRepo.AssertNotCalled(suite.T(), "RedeemQRToken", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ContributionServiceTestSuite) TestRedeemQRToken_AlreadyRedeemed() {
	ctx := context.Background()
	redeemedAt := time.Now().UTC().Add(-time.Minute)
	qr := &domain.QRToken{
		Token:      "tok-abc",
		FundID:     "fund-1",
		ExpiresAt:  time.Now().UTC().Add(10 * time.Minute),
		RedeemedAt: &redeemedAt,
	}
	req := dto.RedeemQRTokenRequest{Token: "tok-abc", Amount: decimal.NewFromInt(25)}

	suite.mockRepo.On("FindQRToken", ctx, "tok-abc").Return(qr, nil).Once()

	contribution, err := suite.service.RedeemQRToken(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrQRTokenRedeemed)
	suite.Nil(contribution)
}

func (suite *ContributionServiceTestSuite) TestRedeemQRToken_ConcurrentScanLoses() {
	ctx := context.Background()
	qr := &domain.QRToken{
		Token:     "tok-abc",
		FundID:    "fund-1",
		ExpiresAt: time.Now().UTC().Add(10 * time.Minute),
	}
	req := dto.RedeemQRTokenRequest{Token: "tok-abc", Amount: decimal.NewFromInt(25)}

	suite.mockRepo.On("FindQRToken", ctx, "tok-abc").Return(qr, nil).Once()
	suite.mockRepo.On("RedeemQRToken", ctx, "tok-abc", mock.AnythingOfType("time.Time")).Return(apperrors.ErrConflict).Once()

	contribution, err := suite.service.RedeemQRToken(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrQRTokenRedeemed)
	suite.Nil(contribution)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveContributionWithApplications", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ContributionServiceTestSuite) TestRedeemQRToken_UnknownToken() {
	ctx := context.Background()
	req := dto.RedeemQRTokenRequest{Token: "tok-nope", Amount: decimal.NewFromInt(25)}

	suite.mockRepo.On("FindQRToken", ctx, "tok-nope").Return(nil, apperrors.ErrNotFound).Once()

	contribution, err := suite.service.RedeemQRToken(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(contribution)
}

func TestContributionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ContributionServiceTestSuite))
}
