package domain

import "github.com/shopspring/decimal"

// RequestStatusEvent is the notification intent the approval chain engine emits
// after a status change commits. Delivery is a collaborator concern; the engine
// only describes who should hear about what.
type RequestStatusEvent struct {
	RequestID    string
	DepartmentID string
	Purpose      string
	Amount       decimal.Decimal
	NewStatus    RequestStatus
	// RequesterID always receives the event.
	RequesterID string
	// NextLevel is set when the chain advanced to another step; holders of the
	// matching role are the next audience.
	NextLevel *ApprovalLevel
	// Reason carries the rejection reason on terminal rejections.
	Reason string
	// ActorID is the approver whose decision produced the event.
	ActorID string
}
