// internal/controller/nasabah_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adityarw/nasabah-scoring-backend/internal/middleware"
	"github.com/adityarw/nasabah-scoring-backend/internal/service"
)

type NasabahController struct {
	NasabahService *service.NasabahService
}

// PredictAndCreate scores one prospect and persists the record.
func (c *NasabahController) PredictAndCreate(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)
	result, err := c.NasabahService.Create(r.Context(), userID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    result,
	})
}

// BatchPredict queues one score job per prospect for the worker.
func (c *NasabahController) BatchPredict(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Clients []map[string]any `json:"clients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Clients == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   `Request body must contain "clients" array`,
		})
		return
	}

	userID := middleware.UserID(r)
	queued, err := c.NasabahService.EnqueueBatch(userID, body.Clients)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"queued":  queued,
		"status":  "queued",
	})
}

func (c *NasabahController) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	statusCall := r.URL.Query().Get("status_call")
	prediction := r.URL.Query().Get("prediction")

	userID := middleware.UserID(r)
	records, pagination, err := c.NasabahService.List(userID, statusCall, prediction, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       records,
		"pagination": pagination,
	})
}

func (c *NasabahController) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserID(r)

	n, err := c.NasabahService.Get(userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    n,
	})
}

func (c *NasabahController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
		Notes *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)
	n, err := c.NasabahService.UpdateFields(userID, id, body.Name, body.Phone, body.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    n,
	})
}

func (c *NasabahController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		StatusCall string  `json:"status_call"`
		Notes      *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)
	n, err := c.NasabahService.UpdateCallStatus(userID, id, body.StatusCall, body.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    n,
	})
}

func (c *NasabahController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserID(r)

	if err := c.NasabahService.Delete(userID, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Nasabah deleted successfully",
	})
}
