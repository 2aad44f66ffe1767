// Handler for miscellaneous endpoints such as health check

package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/RedSnail/PanACoTA/logger"
	"go.uber.org/zap"
)

type HealthResponse struct {
	Health    string    `json:"health"`
	Timestamp time.Time `json:"timestamp"`
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Health:    "ok",
		Timestamp: time.Now(),
	}
	writeJSON(w, http.StatusOK, response)
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: err.Error()})
}
