package domain

import "time"

// Contributor is a person or household whose giving is tracked.
type Contributor struct {
	ContributorID string `json:"contributorID"` // Primary Key (UUID)
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	IsActive      bool   `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
