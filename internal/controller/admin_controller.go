// internal/controller/admin_controller.go
package controller

import (
	"net/http"

	"github.com/adityarw/nasabah-scoring-backend/internal/middleware"
	"github.com/adityarw/nasabah-scoring-backend/internal/service"
)

type AdminController struct {
	SummaryService *service.SummaryService
}

func (c *AdminController) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	summary, err := c.SummaryService.GetSummary(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    summary,
	})
}

func (c *AdminController) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	period := r.URL.Query().Get("period")

	report, err := c.SummaryService.GetStats(userID, period)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    report,
	})
}
