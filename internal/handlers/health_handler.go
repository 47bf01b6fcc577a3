package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

type HealthHandler struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{DB: db, Timeout: 2 * time.Second}
}

// Root answers on / with a short JSON greeting.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSONMessage(w, http.StatusOK, "fitness shop API")
}

// @Tags Health
// @Summary Service and database health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	dbStatus := map[string]any{"status": "ok"}
	status, code := "ok", http.StatusOK
	if err := h.DB.PingContext(ctx); err != nil {
		dbStatus = map[string]any{"status": "down", "error": err.Error()}
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status": status,
		"db":     dbStatus,
	})
}
