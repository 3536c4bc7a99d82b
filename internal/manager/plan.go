package manager

import (
	"context"
	"errors"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
)

// PlanManager serves the plan catalog. Plans are reference data; nothing here
// writes.
type PlanManager struct {
	repo repo.Repo
}

func NewPlanManager(repo repo.Repo) *PlanManager {
	return &PlanManager{repo: repo}
}

// ListPlans returns the purchasable catalog in display order.
func (m *PlanManager) ListPlans(ctx context.Context) ([]*model.Plan, error) {
	var plans []*model.Plan

	query := repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.ActiveField, true))).
		Order(repo.OrderField{Field: repo.SortOrderField, Direction: repo.Asc})

	_, err := m.repo.List(ctx, model.Plan{}, &plans, *query)
	if err != nil {
		return nil, err
	}

	return plans, nil
}

// GetPlanBySlug returns an active plan by slug.
func (m *PlanManager) GetPlanBySlug(ctx context.Context, slug string) (*model.Plan, error) {
	plan, err := repo.GetPlanBySlug(ctx, m.repo, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errs.Wrapf(ErrPlanNotFound, "%q", slug)
		}

		return nil, err
	}

	if !plan.Active {
		return nil, errs.Wrapf(ErrPlanInactive, "%q", slug)
	}

	return plan, nil
}
