package repositories

import (
	"context"
	"time"

	"github.com/faithledger/church_admin_app/internal/core/domain"
)

// ContributorReader defines read operations for contributor data
type ContributorReader interface {
	// FindContributorByID retrieves a specific contributor by their ID.
	FindContributorByID(ctx context.Context, contributorID string) (*domain.Contributor, error)

	// ListContributors retrieves a paginated list of contributors.
	ListContributors(ctx context.Context, limit int, offset int) ([]domain.Contributor, error)
}

// ContributorWriter defines write operations for contributor data
type ContributorWriter interface {
	// SaveContributor persists a new contributor.
	SaveContributor(ctx context.Context, contributor domain.Contributor) error

	// UpdateContributor updates an existing contributor's details.
	UpdateContributor(ctx context.Context, contributor domain.Contributor) error

	// MarkContributorDeleted marks a contributor as deleted (soft delete).
	MarkContributorDeleted(ctx context.Context, contributorID string, deletedAt time.Time, deletedBy string) error
}

// ContributorRepositoryFacade combines all contributor-related repository interfaces
type ContributorRepositoryFacade interface {
	ContributorReader
	ContributorWriter
}
