// Package tasks holds the background task handlers run by the async worker.
package tasks

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/log"
	"github.com/shopmesh/shopmesh/internal/manager"
)

// UsageResetter zeroes monthly order counters for stores whose reset
// watermark has passed. The manager processes due stores in batches, so one
// oversized fleet cannot hold the worker's memory.
type UsageResetter struct {
	tenants *manager.TenantManager
}

func NewUsageResetter(tenants *manager.TenantManager) *UsageResetter {
	return &UsageResetter{tenants: tenants}
}

func (t *UsageResetter) TaskType() string {
	return config.TaskUsageReset
}

func (t *UsageResetter) ProcessTask(ctx context.Context, task *asynq.Task) error {
	ctx = log.InjectTask(ctx, task)

	resets, err := t.tenants.ResetMonthlyUsage(ctx)
	if err != nil {
		return err
	}

	log.Info(ctx, "Monthly usage reset completed", slog.Int("stores", resets))

	return nil
}
