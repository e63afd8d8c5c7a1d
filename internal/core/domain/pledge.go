package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PledgeStatus indicates how far a pledge has been fulfilled.
type PledgeStatus string

const (
	PledgeActive    PledgeStatus = "ACTIVE"
	PledgeFulfilled PledgeStatus = "FULFILLED"
	PledgeCancelled PledgeStatus = "CANCELLED"
)

// Pledge is a contributor's commitment to give a total amount towards a fund.
// Contributions are applied to a contributor's pledges oldest-first (FIFO),
// so at most the newest active pledge is ever partially filled.
type Pledge struct {
	PledgeID      string          `json:"pledgeID"` // Primary Key (UUID)
	ContributorID string          `json:"contributorID"`
	FundID        string          `json:"fundID"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AmountApplied decimal.Decimal `json:"amountApplied"`
	Status        PledgeStatus    `json:"status"`
	PledgedAt     time.Time       `json:"pledgedAt"`
	DueBy         *time.Time      `json:"dueBy,omitempty"`
	AuditFields
}

// Outstanding returns the unfulfilled remainder of the pledge.
func (p Pledge) Outstanding() decimal.Decimal {
	rem := p.TotalAmount.Sub(p.AmountApplied)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}
