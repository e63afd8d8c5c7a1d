package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	DepartmentRepo   DepartmentRepositoryFacade
	RoleRepo         RoleRepositoryFacade
	FundRepo         FundRepositoryFacade
	ContributorRepo  ContributorRepositoryFacade
	ContributionRepo ContributionRepositoryFacade
	PledgeRepo       PledgeRepositoryFacade
	MoneyRequestRepo MoneyRequestRepositoryFacade
	TemplateRepo     ApprovalTemplateRepositoryFacade
}
