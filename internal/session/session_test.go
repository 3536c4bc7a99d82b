package session_test

import (
	"testing"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/session"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()

	m, err := session.NewManager(config.Session{
		Secret: commoncfg.SourceRef{
			Source: commoncfg.EmbeddedSourceValue,
			Value:  "test-signing-secret",
		},
		TTL: time.Hour,
	})
	require.NoError(t, err)

	return m
}

func TestCentralSession(t *testing.T) {
	m := newManager(t)
	userID := uuid.New()

	raw, expires, err := m.IssueCentral(userID)
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	t.Run("should round-trip the user ID", func(t *testing.T) {
		got, err := m.ParseCentral(raw)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("should reject tampered tokens", func(t *testing.T) {
		_, err := m.ParseCentral(raw + "x")
		require.ErrorIs(t, err, session.ErrInvalidSession)
	})

	t.Run("should reject store tokens on the central domain", func(t *testing.T) {
		storeToken, _, err := m.IssueStore("acme", 1, model.RoleAdmin)
		require.NoError(t, err)

		_, err = m.ParseCentral(storeToken)
		require.ErrorIs(t, err, session.ErrWrongAudience)
	})
}

func TestStoreSession(t *testing.T) {
	m := newManager(t)

	raw, _, err := m.IssueStore("acme", 42, model.RoleAdmin)
	require.NoError(t, err)

	t.Run("should carry tenant and role", func(t *testing.T) {
		claims, err := m.ParseStore(raw, "acme")
		require.NoError(t, err)
		assert.Equal(t, "acme", claims.TenantID)
		assert.Equal(t, model.RoleAdmin, claims.Role)
		assert.Equal(t, "42", claims.Subject)
	})

	t.Run("should reject the token on another store", func(t *testing.T) {
		_, err := m.ParseStore(raw, "globex")
		require.ErrorIs(t, err, session.ErrWrongAudience)
	})

	t.Run("should reject central tokens on a store", func(t *testing.T) {
		central, _, err := m.IssueCentral(uuid.New())
		require.NoError(t, err)

		_, err = m.ParseStore(central, "acme")
		require.ErrorIs(t, err, session.ErrWrongAudience)
	})
}

func TestStoreCookieName(t *testing.T) {
	assert.Equal(t, "shopmesh_store_acme", session.StoreCookieName("acme"))
}
