package api

import (
	"encoding/json"
	"net/http"

	"github.com/kadrportal/media/pkg/imagestore"
)

// Response envelopes. The field names and shapes are consumed by the upload
// widget on the listing form and must stay stable.

type uploadResponse struct {
	Success   bool                  `json:"success"`
	Image     imagestore.Descriptor `json:"image"`
	Remaining int                   `json:"remaining"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type listResponse struct {
	Success   bool                    `json:"success"`
	Images    []imagestore.Descriptor `json:"images"`
	Remaining int                     `json:"remaining"`
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}
