package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/pkg/types"
	"github.com/go-chi/chi/v5"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryReader serves completed drafts back out of a history store.
type HistoryReader interface {
	Get(ctx context.Context, sessionID string) (domain.HistoryRecord, error)
	Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
}

// ListHistory returns the most recent completed drafts, capped at ?limit=.
func ListHistory(store HistoryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultHistoryLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxHistoryLimit {
				writeError(w, fmt.Errorf("%w: limit must be between 1 and %d", errBadRequest, maxHistoryLimit))
				return
			}
			limit = n
		}
		recs, err := store.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if recs == nil {
			recs = []domain.HistoryRecord{}
		}
		writeJSON(w, http.StatusOK, types.HistoryResponse{Records: recs})
	}
}

func GetHistory(store HistoryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := store.Get(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}
