// internal/controller/respond.go
package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	appErrors "github.com/adityarw/nasabah-scoring-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto status codes and the shared
// response envelope. Internals never leak past the summary + detail pair.
func writeError(w http.ResponseWriter, err error) {
	var ve *appErrors.ValidationError
	var nfe *appErrors.NotFoundError
	var ue *appErrors.UpstreamError
	var pe *appErrors.PersistenceError

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   ve.Message,
			"details": ve.Fields,
		})
	case errors.As(err, &nfe):
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   "Nasabah not found",
		})
	case errors.As(err, &ue):
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "ML prediction failed",
			"details": ue.Error(),
		})
	case errors.As(err, &pe):
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to save nasabah",
			"details": pe.Error(),
		})
	default:
		log.Println("❌ unexpected error:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Internal server error",
		})
	}
}
