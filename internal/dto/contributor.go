package dto

import (
	"time"

	"github.com/faithledger/church_admin_app/internal/core/domain"
)

// CreateContributorRequest defines data for registering a contributor.
type CreateContributorRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// UpdateContributorRequest defines updatable contributor fields.
type UpdateContributorRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" binding:"omitempty,email"`
	IsActive *bool   `json:"isActive"`
}

// ContributorResponse defines data returned for a contributor.
type ContributorResponse struct {
	ContributorID string    `json:"contributorID"`
	FullName      string    `json:"fullName"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToContributorResponse converts domain.Contributor to DTO.
func ToContributorResponse(c *domain.Contributor) ContributorResponse {
	return ContributorResponse{
		ContributorID: c.ContributorID,
		FullName:      c.FullName,
		Phone:         c.Phone,
		Email:         c.Email,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
	}
}

// ListContributorsResponse wraps a list of contributors.
type ListContributorsResponse struct {
	Contributors []ContributorResponse `json:"contributors"`
}

// ToListContributorsResponse converts a slice of domain.Contributor to DTO.
func ToListContributorsResponse(cs []domain.Contributor) ListContributorsResponse {
	list := make([]ContributorResponse, len(cs))
	for i, c := range cs {
		list[i] = ToContributorResponse(&c)
	}
	return ListContributorsResponse{Contributors: list}
}
