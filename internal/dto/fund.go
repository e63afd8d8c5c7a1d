package dto

import (
	"time"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFundRequest defines data for creating a new fund.
type CreateFundRequest struct {
	Name        string `json:"name" binding:"required"`
	FundType    string `json:"fundType" binding:"required,oneof=GENERAL BUILDING MISSIONS WELFARE"`
	Description string `json:"description"`
}

// UpdateFundRequest defines updatable fund fields.
type UpdateFundRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// FundResponse defines data returned for a fund.
type FundResponse struct {
	FundID      string          `json:"fundID"`
	Name        string          `json:"name"`
	FundType    string          `json:"fundType"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToFundResponse converts domain.Fund to DTO.
func ToFundResponse(f *domain.Fund) FundResponse {
	return FundResponse{
		FundID:      f.FundID,
		Name:        f.Name,
		FundType:    string(f.FundType),
		Description: f.Description,
		Balance:     f.Balance,
		IsActive:    f.IsActive,
		CreatedAt:   f.CreatedAt,
	}
}

// ListFundsResponse wraps a list of funds.
type ListFundsResponse struct {
	Funds []FundResponse `json:"funds"`
}

// ToListFundsResponse converts a slice of domain.Fund to DTO.
func ToListFundsResponse(fs []domain.Fund) ListFundsResponse {
	list := make([]FundResponse, len(fs))
	for i, f := range fs {
		list[i] = ToFundResponse(&f)
	}
	return ListFundsResponse{Funds: list}
}
