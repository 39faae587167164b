package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Flarenzy/netreconciler/internal/domain"
)

func encode[T any](w http.ResponseWriter, _ *http.Request, status int, v T) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func decode[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

func parsePathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("path value %s=%q: %w", name, raw, err)
	}
	return id, nil
}

func (a *API) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := encode(w, r, status, v); err != nil {
		a.Logger.ErrorContext(r.Context(), "responding to client", "err", err.Error())
	}
}

// respondError maps domain errors to status codes. notFound is the message
// sent for ErrNotFound.
func (a *API) respondError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	ctx := r.Context()
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.Logger.DebugContext(ctx, "resource not found", "path", r.URL.Path, "err", err.Error())
		a.respond(w, r, http.StatusNotFound, ErrorResponse{Error: notFound})
	case errors.Is(err, domain.ErrInvalidInput):
		a.Logger.DebugContext(ctx, "invalid request", "path", r.URL.Path, "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		a.Logger.DebugContext(ctx, "conflicting request", "path", r.URL.Path, "err", err.Error())
		a.respond(w, r, http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		a.Logger.ErrorContext(ctx, "request failed", "path", r.URL.Path, "err", err.Error())
		a.respond(w, r, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
