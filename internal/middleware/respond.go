package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopmesh/shopmesh/internal/api/write"
	"github.com/shopmesh/shopmesh/internal/apierrors"
)

func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	apiErr := apierrors.APIErrorMapper.Transform(ctx, err)
	write.ErrorResponse(ctx, w, apiErr.ToMessage())
}

// PrefersHTML reports whether the request comes from a browser rather than an
// API client. Denials for browsers redirect instead of rendering JSON.
func PrefersHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")

	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
