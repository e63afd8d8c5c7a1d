package dto

import (
	"time"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePledgeRequest defines data for recording a pledge.
type CreatePledgeRequest struct {
	ContributorID string          `json:"contributorID" binding:"required"`
	FundID        string          `json:"fundID" binding:"required"`
	TotalAmount   decimal.Decimal `json:"totalAmount" binding:"required"`
	DueBy         *time.Time      `json:"dueBy"`
}

// PledgeResponse defines data returned for a pledge.
type PledgeResponse struct {
	PledgeID      string          `json:"pledgeID"`
	ContributorID string          `json:"contributorID"`
	FundID        string          `json:"fundID"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AmountApplied decimal.Decimal `json:"amountApplied"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Status        string          `json:"status"`
	PledgedAt     time.Time       `json:"pledgedAt"`
	DueBy         *time.Time      `json:"dueBy,omitempty"`
}

// ToPledgeResponse converts domain.Pledge to DTO.
func ToPledgeResponse(p *domain.Pledge) PledgeResponse {
	return PledgeResponse{
		PledgeID:      p.PledgeID,
		ContributorID: p.ContributorID,
		FundID:        p.FundID,
		TotalAmount:   p.TotalAmount,
		AmountApplied: p.AmountApplied,
		Outstanding:   p.Outstanding(),
		Status:        string(p.Status),
		PledgedAt:     p.PledgedAt,
		DueBy:         p.DueBy,
	}
}

// ListPledgesResponse wraps a list of pledges.
type ListPledgesResponse struct {
	Pledges []PledgeResponse `json:"pledges"`
}

// ToListPledgesResponse converts a slice of domain.Pledge to DTO.
func ToListPledgesResponse(ps []domain.Pledge) ListPledgesResponse {
	list := make([]PledgeResponse, len(ps))
	for i, p := range ps {
		list[i] = ToPledgeResponse(&p)
	}
	return ListPledgesResponse{Pledges: list}
}
