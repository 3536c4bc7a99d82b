package manager

import (
	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/repo"
)

type Manager struct {
	Tenant *TenantManager
	Plans  *PlanManager
	Users  *UserManager
	SSO    *SSOManager
	Guard  *Guard
}

func New(
	repo repo.Repo,
	config *config.Config,
) *Manager {
	return &Manager{
		Tenant: NewTenantManager(repo, config),
		Plans:  NewPlanManager(repo),
		Users:  NewUserManager(repo),
		SSO:    NewSSOManager(repo, config),
		Guard:  NewGuard(),
	}
}
