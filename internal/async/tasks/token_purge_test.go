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

func TestTokenPurgerProcessTask(t *testing.T) {
	r := mock.NewInMemoryRepository()
	sso := manager.NewSSOManager(r, newTestConfig())

	stale := &model.LoginToken{
		ID:        uuid.New(),
		Token:     "stale-token",
		UserID:    uuid.New(),
		TenantID:  "acme",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, r.Create(t.Context(), stale))

	fresh := &model.LoginToken{
		ID:        uuid.New(),
		Token:     "fresh-token",
		UserID:    uuid.New(),
		TenantID:  "acme",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, r.Create(t.Context(), fresh))

	handler := tasks.NewTokenPurger(sso)
	assert.Equal(t, config.TaskTokenPurge, handler.TaskType())

	err := handler.ProcessTask(t.Context(), asynq.NewTask(config.TaskTokenPurge, nil))
	require.NoError(t, err)

	remaining, err := r.Count(t.Context(), &model.LoginToken{}, *repo.NewQuery())
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}
