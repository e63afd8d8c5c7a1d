package services

import (
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/pkg/config"
)

// NewServiceContainer wires up all application services with their
// dependencies. The permission service is constructed first because nearly
// every other service consults it; the chain engine sits between the template
// service and the lifecycle controller.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	permissionSvc := NewPermissionService(repos.RoleRepo)

	userSvc := NewUserService(repos.UserRepo)
	tokenSvc := NewTokenService(cfg, userSvc)
	googleOAuthSvc := NewGoogleOAuthHandlerService(cfg)

	departmentSvc := NewDepartmentService(repos.DepartmentRepo, repos.RoleRepo, repos.UserRepo, permissionSvc)
	fundSvc := NewFundService(repos.FundRepo, permissionSvc)
	contributorSvc := NewContributorService(repos.ContributorRepo)
	contributionSvc := NewContributionService(repos.ContributionRepo, repos.ContributorRepo, repos.FundRepo, repos.PledgeRepo)
	pledgeSvc := NewPledgeService(repos.PledgeRepo, repos.ContributorRepo, repos.FundRepo)

	templateSvc := NewApprovalTemplateService(repos.TemplateRepo, permissionSvc)
	chainSvc := NewApprovalChainService(repos.MoneyRequestRepo, permissionSvc, notifier)
	moneyRequestSvc := NewMoneyRequestService(repos.MoneyRequestRepo, repos.DepartmentRepo, repos.FundRepo, templateSvc, chainSvc, permissionSvc)

	return &portssvc.ServiceContainer{
		User:         userSvc,
		Token:        tokenSvc,
		GoogleOAuth:  googleOAuthSvc,
		Department:   departmentSvc,
		Fund:         fundSvc,
		Contributor:  contributorSvc,
		Contribution: contributionSvc,
		Pledge:       pledgeSvc,
		MoneyRequest: moneyRequestSvc,
		Template:     templateSvc,
		Permission:   permissionSvc,
	}
}
