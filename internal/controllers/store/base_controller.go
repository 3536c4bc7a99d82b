package store

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopmesh/shopmesh/internal/api/write"
	"github.com/shopmesh/shopmesh/internal/apierrors"
	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/log"
	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/repo"
	"github.com/shopmesh/shopmesh/internal/session"
)

// APIController serves the platform API: account and store management on the
// central domain, storefront operations on the tenant domains.
type APIController struct {
	Repository repo.Repo
	Manager    *manager.Manager
	Sessions   *session.Manager
	config     *config.Config
}

func NewAPIController(r repo.Repo, cfg *config.Config) (*APIController, error) {
	sessions, err := session.NewManager(cfg.Session)
	if err != nil {
		return nil, err
	}

	return &APIController{
		Repository: r,
		Manager:    manager.New(r, cfg),
		Sessions:   sessions,
		config:     cfg,
	}, nil
}

// fail logs the internal error and writes its mapped wire representation.
func (c *APIController) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	log.Error(ctx, msg, err)

	apiErr := apierrors.APIErrorMapper.Transform(ctx, err)
	write.ErrorResponse(ctx, w, apiErr.ToMessage())
}

// decode reads a JSON body. On failure it writes the decode error itself and
// reports false.
func decode[T any](ctx context.Context, w http.ResponseWriter, r *http.Request) (*T, bool) {
	body := new(T)

	err := json.NewDecoder(r.Body).Decode(body)
	if err != nil {
		write.ErrorResponse(ctx, w, apierrors.JSONDecodeErrorMessage().ToMessage())
		return nil, false
	}

	return body, true
}

func validationError(ctx context.Context, w http.ResponseWriter, msg string) {
	write.ErrorResponse(ctx, w, apierrors.ValidationErrorMessage(msg).ToMessage())
}

// pagination reads skip and top query parameters with their defaults.
func pagination(r *http.Request, defaultSkip, defaultTop int) (int, int) {
	skip := queryInt(r, "skip", defaultSkip)
	top := queryInt(r, "top", defaultTop)

	return skip, top
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}

	return value
}

// parseStoreUserID reads the numeric subject of a store session.
func parseStoreUserID(subject string) (uint, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}

func tenantByID(tenantID string) *repo.Query {
	return repo.NewQuery().
		Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, tenantID)))
}
