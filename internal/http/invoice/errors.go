package invoice

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/MrJamesThe3rd/openfacture/internal/invoice"
)

type issueResponse struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string          `json:"error"`
	Issues []issueResponse `json:"issues,omitempty"`
}

var kindStatus = map[invoice.Kind]int{
	invoice.KindBadRequest:    http.StatusBadRequest,
	invoice.KindUnprocessable: http.StatusUnprocessableEntity,
	invoice.KindConflict:      http.StatusConflict,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError maps domain failures to their status. Anything unrecognised is
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *invoice.Error
	if errors.As(err, &domainErr) {
		if status, ok := kindStatus[domainErr.Kind]; ok {
			resp := errorResponse{Error: domainErr.Message}
			for _, issue := range domainErr.Issues {
				resp.Issues = append(resp.Issues, issueResponse{Path: issue.Path, Message: issue.Message})
			}

			writeJSON(w, status, resp)

			return
		}
	}

	if errors.Is(err, invoice.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "invoice not found")
		return
	}

	log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	writeMessage(w, http.StatusInternalServerError, "internal error")
}
