package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/log"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
	"github.com/shopmesh/shopmesh/utils/token"
)

// SSOManager bridges central-domain sessions onto tenant domains. Browsers
// cannot share cookies across registrable domains, so the bridge hands the
// user a short-lived single-use token to present on the store side.
type SSOManager struct {
	repo repo.Repo
	cfg  *config.Config
}

func NewSSOManager(repo repo.Repo, cfg *config.Config) *SSOManager {
	return &SSOManager{
		repo: repo,
		cfg:  cfg,
	}
}

// IssueToken mints a login token for the store owner and returns the URL on
// the store's domain that redeems it. Only the owner of the store may cross
// the bridge.
func (m *SSOManager) IssueToken(ctx context.Context, userID uuid.UUID, tenantID string) (string, error) {
	tenant, err := repo.GetTenantByID(ctx, m.repo, tenantID)
	if err != nil {
		return "", err
	}

	if tenant.OwnerID != userID {
		return "", errs.Wrapf(ErrNotStoreOwner, "store %q", tenantID)
	}

	m.purgeExpired(ctx)

	raw, err := token.NewOpaque()
	if err != nil {
		return "", err
	}

	loginToken := &model.LoginToken{
		ID:        uuid.New(),
		Token:     raw,
		UserID:    userID,
		TenantID:  tenantID,
		ExpiresAt: time.Now().Add(m.cfg.SSO.TokenTTL),
	}

	err = m.repo.Create(ctx, loginToken)
	if err != nil {
		return "", err
	}

	log.Info(ctx, "Issued login token "+token.Prefix(raw, 8))

	return fmt.Sprintf("%s://%s/sso?token=%s",
		m.cfg.SSO.RedirectScheme, tenant.DomainURL, raw), nil
}

// RedeemToken consumes a login token and materializes the central user inside
// the store's schema. Consumption is a single conditional delete: of two
// concurrent redemptions exactly one can succeed.
func (m *SSOManager) RedeemToken(ctx context.Context, raw string) (*model.StoreUser, *model.Tenant, error) {
	consumed := &model.LoginToken{}

	deleted, err := m.repo.Delete(ctx, consumed, *repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().
			Where(repo.TokenField, raw).
			Where(repo.ExpiresAtField, time.Now(), repo.Gt))))
	if err != nil {
		return nil, nil, err
	}

	if !deleted {
		return nil, nil, ErrLoginTokenInvalid
	}

	tenant, err := repo.GetTenantByID(ctx, m.repo, consumed.TenantID)
	if err != nil {
		return nil, nil, err
	}

	if tenant.IsSuspended() {
		return nil, nil, ErrTenantSuspended
	}

	centralUser := &model.User{}

	found, err := m.repo.First(ctx, centralUser, *repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, consumed.UserID))))
	if err != nil {
		return nil, nil, err
	}

	if !found {
		return nil, nil, ErrLoginTokenInvalid
	}

	storeUser, err := m.materializeStoreUser(
		meshcontext.CreateTenantContext(ctx, tenant.ID), centralUser)
	if err != nil {
		return nil, nil, err
	}

	return storeUser, tenant, nil
}

// materializeStoreUser finds the store-local account for the central user's
// email, creating an admin account on first crossing. An existing account is
// returned untouched, whatever its role.
func (m *SSOManager) materializeStoreUser(
	ctx context.Context,
	centralUser *model.User,
) (*model.StoreUser, error) {
	storeUser := &model.StoreUser{}

	found, err := m.repo.First(ctx, storeUser, *repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.EmailField, centralUser.Email))))
	if err != nil {
		return nil, err
	}

	if found {
		return storeUser, nil
	}

	now := time.Now()
	storeUser = &model.StoreUser{
		Email:           centralUser.Email,
		Name:            centralUser.Name,
		PasswordHash:    centralUser.PasswordHash,
		Role:            model.RoleAdmin,
		EmailVerifiedAt: &now,
	}

	err = m.repo.Create(ctx, storeUser)
	if err != nil {
		return nil, err
	}

	return storeUser, nil
}

// purgeExpired removes stale tokens. Best effort: issuing must not fail
// because housekeeping did.
func (m *SSOManager) purgeExpired(ctx context.Context) {
	_, err := m.repo.Delete(ctx, &model.LoginToken{}, *repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().
			Where(repo.ExpiresAtField, time.Now(), repo.Lt))))
	if err != nil {
		log.Warn(ctx, "Failed to purge expired login tokens")
	}
}

// PurgeExpiredTokens removes all stale login tokens and reports how many were
// dropped. Used by the background task queue.
func (m *SSOManager) PurgeExpiredTokens(ctx context.Context) (int, error) {
	count, err := m.repo.Count(ctx, &model.LoginToken{}, *repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().
			Where(repo.ExpiresAtField, time.Now(), repo.Lt))))
	if err != nil {
		return 0, err
	}

	_, err = m.repo.Delete(ctx, &model.LoginToken{}, *repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().
			Where(repo.ExpiresAtField, time.Now(), repo.Lt))))
	if err != nil {
		return 0, err
	}

	return count, nil
}
