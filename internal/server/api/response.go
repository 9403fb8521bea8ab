package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// envelope is the uniform JSON response shape for every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Status  int    `json:"status"`
}

func writeSuccess(w http.ResponseWriter, r *http.Request, data any, message string) {
	writeEnvelope(w, r, envelope{Success: true, Message: message, Data: data, Status: http.StatusOK})
}

func writeError(w http.ResponseWriter, r *http.Request, message string, status int) {
	writeEnvelope(w, r, envelope{Success: false, Message: message, Data: nil, Status: status})
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, env envelope) {
	body, err := json.Marshal(env)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error marshaling JSON response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Status)
	if _, err := w.Write(body); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error writing JSON response body to client")
	}
}
