package api

import (
	"encoding/json"
	"net/http"

	"github.com/UZHBCON/deathnote/errors"
)

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Code    uint32 `json:"code"`
	Message string `json:"message"`
}

func statusCode(err error) int {
	switch {
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case errors.ErrInput.Is(err), errors.ErrEmpty.Is(err), errors.ErrType.Is(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
