package store

import (
	"errors"
	"net/http"

	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/api/write"
	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/metrics"
	"github.com/shopmesh/shopmesh/internal/middleware"
)

// UploadMedia accounts an upload against the storage quota. The check covers
// current usage plus the declared size, so an upload that would cross the
// ceiling is denied before any bytes are accepted.
func (c *APIController) UploadMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenant, err := middleware.TenantRecord(ctx)
	if err != nil {
		c.fail(ctx, w, "No store bound to request", err)
		return
	}

	body, ok := decode[storeapi.MediaUploadRequest](ctx, w, r)
	if !ok {
		return
	}

	if body.FileName == "" {
		validationError(ctx, w, "fileName is required")
		return
	}

	if body.SizeMB <= 0 {
		validationError(ctx, w, "sizeMb must be positive")
		return
	}

	err = c.Manager.Guard.CheckStorageQuota(tenant, body.SizeMB)
	if err != nil {
		var quotaErr *manager.QuotaError
		if errors.As(err, &quotaErr) {
			metrics.QuotaDenials.WithLabelValues(string(quotaErr.Type)).Inc()
		}

		c.fail(ctx, w, "Upload denied by storage quota", err)

		return
	}

	err = c.Manager.Tenant.AddStorageUsed(ctx, tenant.ID, body.SizeMB)
	if err != nil {
		c.fail(ctx, w, "Failed to account upload", err)
		return
	}

	write.JSON(ctx, w, http.StatusCreated, storeapi.MediaUploadResponse{
		FileName:      body.FileName,
		StorageUsedMB: tenant.StorageUsedMB + body.SizeMB,
	})
}
