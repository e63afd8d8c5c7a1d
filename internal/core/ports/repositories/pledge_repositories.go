package repositories

import (
	"context"

	"github.com/faithledger/church_admin_app/internal/core/domain"
)

// PledgeReader defines read operations for pledge data
type PledgeReader interface {
	// FindPledgeByID retrieves a specific pledge by its ID.
	FindPledgeByID(ctx context.Context, pledgeID string) (*domain.Pledge, error)

	// ListPledgesByContributor retrieves all pledges for a contributor.
	ListPledgesByContributor(ctx context.Context, contributorID string) ([]domain.Pledge, error)

	// ListActivePledgesByContributor retrieves active pledges oldest-first,
	// the order FIFO application consumes them in.
	ListActivePledgesByContributor(ctx context.Context, contributorID string) ([]domain.Pledge, error)
}

// PledgeWriter defines write operations for pledge data
type PledgeWriter interface {
	// SavePledge persists a new pledge.
	SavePledge(ctx context.Context, pledge domain.Pledge) error

	// UpdatePledgeStatus updates a pledge's status (e.g. cancellation).
	UpdatePledgeStatus(ctx context.Context, pledgeID string, status domain.PledgeStatus, updatedBy string) error
}

// PledgeRepositoryFacade combines all pledge-related repository interfaces
type PledgeRepositoryFacade interface {
	PledgeReader
	PledgeWriter
}
