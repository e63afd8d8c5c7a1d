package domain_test

import (
	"testing"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveRequestStatus(t *testing.T) {
	tests := []struct {
		name   string
		stored domain.RequestStatus
		steps  []domain.RequestApproval
		want   domain.RequestStatus
	}{
		{
			name:   "no chain keeps draft",
			stored: domain.StatusDraft,
			steps:  nil,
			want:   domain.StatusDraft,
		},
		{
			name:   "no chain keeps submitted",
			stored: domain.StatusSubmitted,
			steps:  nil,
			want:   domain.StatusSubmitted,
		},
		{
			name:   "lowest pending step names whose turn it is",
			stored: domain.StatusPendingDepartmentTreasurer,
			steps: []domain.RequestApproval{
				{Level: domain.LevelHeadOfDepartment, Status: domain.ApprovalPending, OrderSequence: 2},
				{Level: domain.LevelDepartmentTreasurer, Status: domain.ApprovalApproved, OrderSequence: 1},
			},
			want: domain.StatusPendingHeadOfDepartment,
		},
		{
			name:   "rejection dominates remaining pending steps",
			stored: domain.StatusPendingDepartmentTreasurer,
			steps: []domain.RequestApproval{
				{Level: domain.LevelDepartmentTreasurer, Status: domain.ApprovalRejected, OrderSequence: 1},
				{Level: domain.LevelHeadOfDepartment, Status: domain.ApprovalPending, OrderSequence: 2},
			},
			want: domain.StatusRejected,
		},
		{
			name:   "fully approved chain means approved",
			stored: domain.StatusPendingHeadOfDepartment,
			steps: []domain.RequestApproval{
				{Level: domain.LevelDepartmentTreasurer, Status: domain.ApprovalApproved, OrderSequence: 1},
				{Level: domain.LevelHeadOfDepartment, Status: domain.ApprovalApproved, OrderSequence: 2},
			},
			want: domain.StatusApproved,
		},
		{
			name:   "paid is sticky",
			stored: domain.StatusPaid,
			steps: []domain.RequestApproval{
				{Level: domain.LevelDepartmentTreasurer, Status: domain.ApprovalApproved, OrderSequence: 1},
			},
			want: domain.StatusPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.DeriveRequestStatus(tt.stored, tt.steps)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrentStep(t *testing.T) {
	t.Run("returns lowest pending regardless of slice order", func(t *testing.T) {
		steps := []domain.RequestApproval{
			{ApprovalID: "ap-3", Status: domain.ApprovalPending, OrderSequence: 3},
			{ApprovalID: "ap-1", Status: domain.ApprovalApproved, OrderSequence: 1},
			{ApprovalID: "ap-2", Status: domain.ApprovalPending, OrderSequence: 2},
		}
		current := domain.CurrentStep(steps)
		assert.NotNil(t, current)
		assert.Equal(t, "ap-2", current.ApprovalID)
	})

	t.Run("nil on empty chain", func(t *testing.T) {
		assert.Nil(t, domain.CurrentStep(nil))
	})

	t.Run("nil on fully decided chain", func(t *testing.T) {
		steps := []domain.RequestApproval{
			{ApprovalID: "ap-1", Status: domain.ApprovalApproved, OrderSequence: 1},
			{ApprovalID: "ap-2", Status: domain.ApprovalRejected, OrderSequence: 2},
		}
		assert.Nil(t, domain.CurrentStep(steps))
	})
}

func TestRequestStatus_Classification(t *testing.T) {
	for _, level := range domain.KnownApprovalLevels {
		status := domain.StatusForLevel(level)
		assert.True(t, status.IsAwaitingApproval(), "status %s", status)
		assert.False(t, status.IsTerminal(), "status %s", status)
	}

	assert.False(t, domain.StatusDraft.IsAwaitingApproval())
	assert.True(t, domain.StatusApproved.IsTerminal())
	assert.True(t, domain.StatusRejected.IsTerminal())
	assert.True(t, domain.StatusPaid.IsTerminal())
	assert.False(t, domain.StatusDraft.IsTerminal())
}

func TestApprovalTemplate_Matches(t *testing.T) {
	deptID := "dept-1"
	min := decimal.NewFromInt(100)
	max := decimal.NewFromInt(1000)

	tests := []struct {
		name         string
		template     domain.ApprovalTemplate
		departmentID string
		amount       decimal.Decimal
		want         bool
	}{
		{
			name:         "open scope matches anything",
			template:     domain.ApprovalTemplate{IsActive: true},
			departmentID: "dept-9",
			amount:       decimal.NewFromInt(5),
			want:         true,
		},
		{
			name:         "inactive never matches",
			template:     domain.ApprovalTemplate{IsActive: false},
			departmentID: "dept-1",
			amount:       decimal.NewFromInt(5),
			want:         false,
		},
		{
			name:         "department scope excludes other departments",
			template:     domain.ApprovalTemplate{IsActive: true, DepartmentID: &deptID},
			departmentID: "dept-2",
			amount:       decimal.NewFromInt(5),
			want:         false,
		},
		{
			name:         "amount band is inclusive at both ends",
			template:     domain.ApprovalTemplate{IsActive: true, MinAmount: &min, MaxAmount: &max},
			departmentID: "dept-1",
			amount:       decimal.NewFromInt(100),
			want:         true,
		},
		{
			name:         "amount below the floor misses",
			template:     domain.ApprovalTemplate{IsActive: true, MinAmount: &min},
			departmentID: "dept-1",
			amount:       decimal.NewFromInt(99),
			want:         false,
		},
		{
			name:         "amount above the ceiling misses",
			template:     domain.ApprovalTemplate{IsActive: true, MaxAmount: &max},
			departmentID: "dept-1",
			amount:       decimal.NewFromInt(1001),
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.template.Matches(tt.departmentID, tt.amount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPledge_Outstanding(t *testing.T) {
	pledge := domain.Pledge{
		TotalAmount:   decimal.NewFromInt(200),
		AmountApplied: decimal.NewFromInt(75),
	}
	assert.True(t, pledge.Outstanding().Equal(decimal.NewFromInt(125)))

	overApplied := domain.Pledge{
		TotalAmount:   decimal.NewFromInt(50),
		AmountApplied: decimal.NewFromInt(60),
	}
	assert.True(t, overApplied.Outstanding().IsZero())
}
