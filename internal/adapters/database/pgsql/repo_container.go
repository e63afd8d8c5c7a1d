package pgsql

import (
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every PostgreSQL repository over a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		DepartmentRepo:   newPgxDepartmentRepository(dbPool),
		RoleRepo:         newPgxRoleRepository(dbPool),
		FundRepo:         newPgxFundRepository(dbPool),
		ContributorRepo:  newPgxContributorRepository(dbPool),
		ContributionRepo: newPgxContributionRepository(dbPool),
		PledgeRepo:       newPgxPledgeRepository(dbPool),
		MoneyRequestRepo: newPgxMoneyRequestRepository(dbPool),
		TemplateRepo:     newPgxApprovalTemplateRepository(dbPool),
	}
}
