package write

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/log"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

// ErrorResponse writes an error response to the client and logs the error
func ErrorResponse(ctx context.Context, w http.ResponseWriter, errorResponse storeapi.ErrorMessage) {
	requestID, _ := meshcontext.GetRequestID(ctx)

	errorResponse.Error.RequestID = &requestID

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorResponse.Error.Status)

	enc := json.NewEncoder(w)

	err := enc.Encode(&errorResponse)
	if err != nil {
		log.Error(ctx, "Failed to encode error response", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)

		return
	}
}

// JSON writes a success response body.
func JSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)

	err := enc.Encode(payload)
	if err != nil {
		log.Error(ctx, "Failed to encode response", err)
	}
}
