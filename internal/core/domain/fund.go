package domain

import "github.com/shopspring/decimal"

// FundType classifies what a fund's money is earmarked for.
type FundType string

const (
	FundGeneral  FundType = "GENERAL"
	FundBuilding FundType = "BUILDING"
	FundMissions FundType = "MISSIONS"
	FundWelfare  FundType = "WELFARE"
)

// Fund is a pool of money contributions flow into and money requests draw from.
type Fund struct {
	FundID      string          `json:"fundID"` // Primary Key (UUID)
	Name        string          `json:"name"`
	FundType    FundType        `json:"fundType"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}
