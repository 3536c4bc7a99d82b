package tasks

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/log"
	"github.com/shopmesh/shopmesh/internal/manager"
)

// TokenPurger drops expired SSO login tokens. Issuance already purges
// opportunistically; the scheduled run keeps the table small on quiet days.
type TokenPurger struct {
	sso *manager.SSOManager
}

func NewTokenPurger(sso *manager.SSOManager) *TokenPurger {
	return &TokenPurger{sso: sso}
}

func (t *TokenPurger) TaskType() string {
	return config.TaskTokenPurge
}

func (t *TokenPurger) ProcessTask(ctx context.Context, task *asynq.Task) error {
	ctx = log.InjectTask(ctx, task)

	purged, err := t.sso.PurgeExpiredTokens(ctx)
	if err != nil {
		return err
	}

	log.Info(ctx, "Login token purge completed", slog.Int("tokens", purged))

	return nil
}
