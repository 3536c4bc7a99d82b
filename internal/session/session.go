// Package session issues and validates signed session cookies. Central and
// store sessions are separate: a central cookie lives on the base domain,
// store cookies are namespaced per tenant and carry the tenant in their
// claims, so a session minted for one store can never be replayed on another.
package session

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/openkcm/common-sdk/pkg/commoncfg"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/constants"
	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/model"
)

const issuer = "shopmesh"

var (
	ErrLoadingSecret  = errors.New("error loading session secret")
	ErrSigningSession = errors.New("failed to sign session token")
	ErrInvalidSession = errors.New("session token is invalid")
	ErrWrongAudience  = errors.New("session token was issued for another domain")
	ErrSessionSubject = errors.New("session token carries an invalid subject")
)

// Claims carry the session identity. TenantID is set on store sessions only.
type Claims struct {
	jwt.RegisteredClaims

	TenantID string          `json:"tenant_id,omitempty"`
	Role     model.StoreRole `json:"role,omitempty"`
}

// Manager signs and validates session tokens with a shared HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(cfg config.Session) (*Manager, error) {
	secret, err := commoncfg.LoadValueFromSourceRef(cfg.Secret)
	if err != nil {
		return nil, errs.Wrap(ErrLoadingSecret, err)
	}

	return &Manager{
		secret: []byte(secret),
		ttl:    cfg.TTL,
	}, nil
}

// IssueCentral mints a session for the central domain.
func (m *Manager) IssueCentral(userID uuid.UUID) (string, time.Time, error) {
	return m.sign(Claims{
		RegisteredClaims: m.registered(userID.String()),
	})
}

// IssueStore mints a session bound to one store.
func (m *Manager) IssueStore(tenantID string, storeUserID uint, role model.StoreRole) (string, time.Time, error) {
	return m.sign(Claims{
		RegisteredClaims: m.registered(strconv.FormatUint(uint64(storeUserID), 10)),
		TenantID:         tenantID,
		Role:             role,
	})
}

func (m *Manager) registered(subject string) jwt.RegisteredClaims {
	now := time.Now().UTC()

	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		ID:        uuid.New().String(),
	}
}

func (m *Manager) sign(claims Claims) (string, time.Time, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, errs.Wrap(ErrSigningSession, err)
	}

	return signed, claims.ExpiresAt.Time, nil
}

// ParseCentral validates a central session and returns the user ID.
func (m *Manager) ParseCentral(raw string) (uuid.UUID, error) {
	claims, err := m.parse(raw)
	if err != nil {
		return uuid.Nil, err
	}

	if claims.TenantID != "" {
		return uuid.Nil, ErrWrongAudience
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.Wrap(ErrSessionSubject, err)
	}

	return userID, nil
}

// ParseStore validates a store session for the given tenant. A token minted
// for a different tenant is rejected even though its signature is valid.
func (m *Manager) ParseStore(raw string, tenantID string) (*Claims, error) {
	claims, err := m.parse(raw)
	if err != nil {
		return nil, err
	}

	if claims.TenantID != tenantID {
		return nil, ErrWrongAudience
	}

	return claims, nil
}

func (m *Manager) parse(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		raw,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidSession
			}

			return m.secret, nil
		},
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, errs.Wrap(ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// StoreCookieName returns the session cookie name for one store.
func StoreCookieName(tenantID string) string {
	return constants.SessionCookiePrefix + tenantID
}

// SetCookie writes a session cookie scoped to the request host.
func SetCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires a session cookie.
func ClearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
