package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/gateway"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleGatewayError converts gateway errors to HTTP status codes
func handleGatewayError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
	case gateway.IsUnavailable(err):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "gateway temporarily unavailable")
	case errors.Is(err, gateway.ErrMalformedResponse):
		respondError(w, http.StatusBadGateway, "bad_gateway", "gateway returned an unreadable response")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "gateway did not answer in time")
	default:
		respondError(w, http.StatusBadGateway, "bad_gateway", err.Error())
	}
}
