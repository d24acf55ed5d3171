package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/hub"
	"github.com/DoyleJ11/lol-draft-advisor/internal/session"
	"github.com/DoyleJ11/lol-draft-advisor/pkg/types"
)

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	if errors.Is(err, errBadRequest) {
		code = "bad_request"
	}
	writeJSON(w, statusFor(err), types.ErrorResponse{Error: err.Error(), Code: code})
}

// statusFor maps domain errors onto HTTP statuses. Order matters: the
// refinements of ErrIllegalAction are checked before the general case.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDraftComplete):
		return http.StatusGone
	case errors.Is(err, domain.ErrIllegalAction), errors.Is(err, hub.ErrCodeTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownChampion), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSignalProvider), errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
