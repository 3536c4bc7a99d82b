package tasks_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/async/tasks"
	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	"github.com/shopmesh/shopmesh/internal/repo/mock"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Tenancy: config.Tenancy{
			BaseDomain: "shopmesh.io",
			TrialDays:  14,
		},
		SSO: config.SSO{
			TokenTTL:       5 * time.Minute,
			RedirectScheme: "https",
		},
	}
}

func newStore(t *testing.T, m *manager.TenantManager, id string) {
	t.Helper()

	_, err := m.CreateStore(t.Context(), manager.CreateStoreParams{
		ID:        id,
		StoreName: id,
		OwnerID:   uuid.New(),
	})
	require.NoError(t, err)
}

func TestUsageResetterProcessTask(t *testing.T) {
	r := mock.NewInMemoryRepository()
	cfg := newTestConfig()

	require.NoError(t, r.Create(t.Context(), &model.Plan{
		ID:     uuid.New(),
		Slug:   model.PlanFree,
		Name:   "Free",
		Active: true,
	}))

	tenants := manager.NewTenantManager(r, cfg)
	newStore(t, tenants, "acme")

	past := time.Now().AddDate(0, -1, 0)

	_, err := r.Patch(t.Context(), &model.Tenant{
		OrderCountThisMonth: 9,
		UsageResetDate:      &past,
	}, *repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, "acme"))).
		Update(repo.OrderCountThisMonthField, repo.UsageResetDateField))
	require.NoError(t, err)

	handler := tasks.NewUsageResetter(tenants)
	assert.Equal(t, config.TaskUsageReset, handler.TaskType())

	err = handler.ProcessTask(t.Context(), asynq.NewTask(config.TaskUsageReset, nil))
	require.NoError(t, err)

	tenant, err := tenants.GetStore(t.Context(), "acme")
	require.NoError(t, err)
	assert.Zero(t, tenant.OrderCountThisMonth)
}
