// Package httpx writes the canonical response envelope used by every tool
// endpoint.
package httpx

import (
	"encoding/json"
	"log"
	"net/http"

	"aivis/internal/apperr"
)

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

// WriteSuccess emits {success:true, data:...} with status 200.
func WriteSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// WriteError emits {success:false, error:{message, code}} with the status
// mapped from the error kind.
func WriteError(w http.ResponseWriter, err error) {
	ae := apperr.As(err)
	writeJSON(w, ae.HTTPStatus(), envelope{
		Success: false,
		Error:   &errorBody{Message: ae.Message, Code: ae.Code()},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("httpx: encode response: %v", err)
	}
}
