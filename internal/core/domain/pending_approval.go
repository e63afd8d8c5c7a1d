package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingApproval is one actionable item in an approver's inbox: a request
// whose current chain step awaits the approver's level.
type PendingApproval struct {
	RequestID      string          `json:"requestID"`
	ApprovalID     string          `json:"approvalID"`
	Level          ApprovalLevel   `json:"level"`
	OrderSequence  int             `json:"orderSequence"`
	Amount         decimal.Decimal `json:"amount"`
	Purpose        string          `json:"purpose"`
	DepartmentID   string          `json:"departmentID"`
	DepartmentName string          `json:"departmentName"`
	RequesterID    string          `json:"requesterID"`
	RequesterName  string          `json:"requesterName"`
	CreatedAt      time.Time       `json:"createdAt"`
}
