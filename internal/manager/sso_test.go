package manager_test

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	"github.com/shopmesh/shopmesh/internal/repo/mock"
)

type ssoFixture struct {
	repo  *mock.InMemoryRepository
	sso   *manager.SSOManager
	owner *model.User
}

func newSSOFixture(t *testing.T) *ssoFixture {
	t.Helper()

	r := mock.NewInMemoryRepository()
	cfg := newTestConfig()
	seedFreePlan(t, r)

	owner := &model.User{
		ID:           uuid.New(),
		Email:        "owner@example.com",
		Name:         "Owner",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
	}
	require.NoError(t, r.Create(t.Context(), owner))

	tm := manager.NewTenantManager(r, cfg)
	_, err := tm.CreateStore(t.Context(), manager.CreateStoreParams{
		ID:        "acme",
		StoreName: "Acme Store",
		OwnerID:   owner.ID,
	})
	require.NoError(t, err)

	return &ssoFixture{
		repo:  r,
		sso:   manager.NewSSOManager(r, cfg),
		owner: owner,
	}
}

func tokenFromURL(t *testing.T, redirect string) string {
	t.Helper()

	u, err := url.Parse(redirect)
	require.NoError(t, err)

	return u.Query().Get("token")
}

func TestIssueToken(t *testing.T) {
	f := newSSOFixture(t)

	t.Run("should build a redirect URL on the store domain", func(t *testing.T) {
		redirect, err := f.sso.IssueToken(t.Context(), f.owner.ID, "acme")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(redirect, "https://acme.shopmesh.io/sso?token="))
		assert.NotEmpty(t, tokenFromURL(t, redirect))
	})

	t.Run("should refuse non-owners", func(t *testing.T) {
		_, err := f.sso.IssueToken(t.Context(), uuid.New(), "acme")
		require.ErrorIs(t, err, manager.ErrNotStoreOwner)
	})

	t.Run("should refuse unknown stores", func(t *testing.T) {
		_, err := f.sso.IssueToken(t.Context(), f.owner.ID, "ghost")
		require.ErrorIs(t, err, repo.ErrTenantNotFound)
	})

	t.Run("should purge expired tokens on issue", func(t *testing.T) {
		stale := &model.LoginToken{
			ID:        uuid.New(),
			Token:     "stale",
			UserID:    f.owner.ID,
			TenantID:  "acme",
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		require.NoError(t, f.repo.Create(t.Context(), stale))

		_, err := f.sso.IssueToken(t.Context(), f.owner.ID, "acme")
		require.NoError(t, err)

		found, err := f.repo.First(t.Context(), &model.LoginToken{}, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.TokenField, "stale"))))
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRedeemToken(t *testing.T) {
	f := newSSOFixture(t)

	redirect, err := f.sso.IssueToken(t.Context(), f.owner.ID, "acme")
	require.NoError(t, err)
	raw := tokenFromURL(t, redirect)

	t.Run("should materialize an admin on first crossing", func(t *testing.T) {
		storeUser, tenant, err := f.sso.RedeemToken(t.Context(), raw)
		require.NoError(t, err)

		assert.Equal(t, "acme", tenant.ID)
		assert.Equal(t, f.owner.Email, storeUser.Email)
		assert.Equal(t, model.RoleAdmin, storeUser.Role)
		assert.NotNil(t, storeUser.EmailVerifiedAt)
	})

	t.Run("should refuse the same token twice", func(t *testing.T) {
		_, _, err := f.sso.RedeemToken(t.Context(), raw)
		require.ErrorIs(t, err, manager.ErrLoginTokenInvalid)
	})

	t.Run("should refuse expired tokens", func(t *testing.T) {
		stale := &model.LoginToken{
			ID:        uuid.New(),
			Token:     "expired-token",
			UserID:    f.owner.ID,
			TenantID:  "acme",
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		require.NoError(t, f.repo.Create(t.Context(), stale))

		_, _, err := f.sso.RedeemToken(t.Context(), "expired-token")
		require.ErrorIs(t, err, manager.ErrLoginTokenInvalid)
	})

	t.Run("should refuse garbage tokens", func(t *testing.T) {
		_, _, err := f.sso.RedeemToken(t.Context(), "no-such-token")
		require.ErrorIs(t, err, manager.ErrLoginTokenInvalid)
	})

	t.Run("should leave an existing store account untouched", func(t *testing.T) {
		ctx := manager.RunAsTenant(t.Context(), "acme")

		_, err := f.repo.Patch(ctx, &model.StoreUser{Role: model.RoleCustomer}, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.EmailField, f.owner.Email))).
			Update("role"))
		require.NoError(t, err)

		redirect, err := f.sso.IssueToken(t.Context(), f.owner.ID, "acme")
		require.NoError(t, err)

		storeUser, _, err := f.sso.RedeemToken(t.Context(), tokenFromURL(t, redirect))
		require.NoError(t, err)
		assert.Equal(t, model.RoleCustomer, storeUser.Role)
	})

	t.Run("should refuse suspended stores", func(t *testing.T) {
		tm := manager.NewTenantManager(f.repo, newTestConfig())
		require.NoError(t, tm.SuspendStore(t.Context(), "acme", "billing"))

		redirect, err := f.sso.IssueToken(t.Context(), f.owner.ID, "acme")
		require.NoError(t, err)

		_, _, err = f.sso.RedeemToken(t.Context(), tokenFromURL(t, redirect))
		require.ErrorIs(t, err, manager.ErrTenantSuspended)
	})
}

func TestPurgeExpiredTokens(t *testing.T) {
	f := newSSOFixture(t)

	for i := range 3 {
		require.NoError(t, f.repo.Create(t.Context(), &model.LoginToken{
			ID:        uuid.New(),
			Token:     fmt.Sprintf("stale-%d", i),
			UserID:    f.owner.ID,
			TenantID:  "acme",
			ExpiresAt: time.Now().Add(-time.Hour),
		}))
	}

	redirect, err := f.sso.IssueToken(t.Context(), f.owner.ID, "acme")
	require.NoError(t, err)

	purged, err := f.sso.PurgeExpiredTokens(t.Context())
	require.NoError(t, err)
	assert.Zero(t, purged) // issuing already swept the stale rows

	_, _, err = f.sso.RedeemToken(t.Context(), tokenFromURL(t, redirect))
	require.NoError(t, err)
}
