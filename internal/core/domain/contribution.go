package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContributionMethod records how a contribution was captured.
type ContributionMethod string

const (
	MethodCash     ContributionMethod = "CASH"
	MethodTransfer ContributionMethod = "TRANSFER"
	MethodQR       ContributionMethod = "QR"
)

// Contribution is a single gift received into a fund, optionally tied to a
// contributor and (via FIFO application) to their pledges.
type Contribution struct {
	ContributionID string             `json:"contributionID"` // Primary Key (UUID)
	FundID         string             `json:"fundID"`
	ContributorID  *string            `json:"contributorID,omitempty"` // Nil for anonymous gifts
	Amount         decimal.Decimal    `json:"amount"`
	Method         ContributionMethod `json:"method"`
	Reference      string             `json:"reference"` // Bank reference, QR token, receipt no.
	ReceivedAt     time.Time          `json:"receivedAt"`
	AuditFields
}

// QRToken is a single-use capture token that binds a scan to a fund and
// optionally a contributor. Image rendering happens outside this service; the
// token string is the QR payload.
type QRToken struct {
	Token         string     `json:"token"` // Primary Key (random hex)
	FundID        string     `json:"fundID"`
	ContributorID *string    `json:"contributorID,omitempty"`
	ExpiresAt     time.Time  `json:"expiresAt"`
	RedeemedAt    *time.Time `json:"redeemedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedBy     string     `json:"createdBy"`
}
