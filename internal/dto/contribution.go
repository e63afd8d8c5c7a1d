package dto

import (
	"time"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordContributionRequest defines data for recording a gift.
type RecordContributionRequest struct {
	FundID        string          `json:"fundID" binding:"required"`
	ContributorID *string         `json:"contributorID"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"method" binding:"required,oneof=CASH TRANSFER QR"`
	Reference     string          `json:"reference"`
	ReceivedAt    *time.Time      `json:"receivedAt"`
}

// IssueQRTokenRequest defines data for issuing a QR capture token.
type IssueQRTokenRequest struct {
	FundID        string  `json:"fundID" binding:"required"`
	ContributorID *string `json:"contributorID"`
	// TTLMinutes bounds how long the token stays redeemable.
	TTLMinutes int `json:"ttlMinutes" binding:"omitempty,min=1,max=1440"`
}

// RedeemQRTokenRequest defines data for redeeming a QR capture token.
type RedeemQRTokenRequest struct {
	Token  string          `json:"token" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ContributionResponse defines data returned for a contribution.
type ContributionResponse struct {
	ContributionID string          `json:"contributionID"`
	FundID         string          `json:"fundID"`
	ContributorID  *string         `json:"contributorID,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	Reference      string          `json:"reference"`
	ReceivedAt     time.Time       `json:"receivedAt"`
}

// ToContributionResponse converts domain.Contribution to DTO.
func ToContributionResponse(c *domain.Contribution) ContributionResponse {
	return ContributionResponse{
		ContributionID: c.ContributionID,
		FundID:         c.FundID,
		ContributorID:  c.ContributorID,
		Amount:         c.Amount,
		Method:         string(c.Method),
		Reference:      c.Reference,
		ReceivedAt:     c.ReceivedAt,
	}
}

// QRTokenResponse defines data returned for an issued QR token.
type QRTokenResponse struct {
	Token     string    `json:"token"`
	FundID    string    `json:"fundID"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ToQRTokenResponse converts domain.QRToken to DTO.
func ToQRTokenResponse(t *domain.QRToken) QRTokenResponse {
	return QRTokenResponse{
		Token:     t.Token,
		FundID:    t.FundID,
		ExpiresAt: t.ExpiresAt,
	}
}

// ListContributionsResponse wraps a token-paginated list of contributions.
type ListContributionsResponse struct {
	Contributions []ContributionResponse `json:"contributions"`
	NextToken     *string                `json:"nextToken,omitempty"`
}

// ToListContributionsResponse converts domain contributions to DTO.
func ToListContributionsResponse(cs []domain.Contribution, nextToken *string) ListContributionsResponse {
	list := make([]ContributionResponse, len(cs))
	for i, c := range cs {
		list[i] = ToContributionResponse(&c)
	}
	return ListContributionsResponse{Contributions: list, NextToken: nextToken}
}
