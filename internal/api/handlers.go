// Package api exposes the activity form and tracker state over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/labj86/calorie-tracker/internal/auth"
	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/form"
	"github.com/labj86/calorie-tracker/internal/logger"
	"github.com/labj86/calorie-tracker/internal/session"
	"github.com/labj86/calorie-tracker/internal/store"
)

// Handler coordinates HTTP requests with owner sessions.
type Handler struct {
	sessions *session.Manager
	logger   *logger.Logger
}

// NewHandler builds a Handler.
func NewHandler(sessions *session.Manager, log *logger.Logger) *Handler {
	return &Handler{sessions: sessions, logger: log}
}

// RegisterRoutes wires endpoints to the router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	v1.HandleFunc("/activities", h.getState).Methods(http.MethodGet)
	v1.HandleFunc("/activities/active", h.setActive).Methods(http.MethodPut)
	v1.HandleFunc("/activities/restart", h.restart).Methods(http.MethodPost)
	v1.HandleFunc("/activities/{id}", h.deleteActivity).Methods(http.MethodDelete)
	v1.HandleFunc("/summary", h.summary).Methods(http.MethodGet)
	v1.HandleFunc("/form", h.getForm).Methods(http.MethodGet)
	v1.HandleFunc("/form", h.editForm).Methods(http.MethodPatch)
	v1.HandleFunc("/form/submit", h.submitForm).Methods(http.MethodPost)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireClaims(w, r, false); !ok {
		return
	}
	categories := domain.Categories()
	out := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryView{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(s.Store.Snapshot()))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toTotalsView(domain.Summarize(s.Store.Snapshot().Activities)))
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, true)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := s.Store.Dispatch(r.Context(), store.SetActiveID{ID: strings.TrimSpace(req.ID)}); err != nil {
		h.serverError(w, "set active id failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toFormView(s.Form))
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, true)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if err := s.Store.Dispatch(r.Context(), store.DeleteActivity{ID: id}); err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
			return
		}
		h.serverError(w, "delete activity failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) restart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, true)
	if !ok {
		return
	}
	if err := s.Store.Dispatch(r.Context(), store.RestartApp{}); err != nil {
		h.serverError(w, "restart failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getForm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toFormView(s.Form))
}

func (h *Handler) editForm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, true)
	if !ok {
		return
	}

	var req EditFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	field, ok := form.ParseField(req.Field)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_field", fmt.Sprintf("%s: %q", form.ErrUnknownField, req.Field))
		return
	}

	if _, err := s.Form.Edit(field, req.RawValue()); err != nil {
		switch {
		case errors.Is(err, form.ErrUnknownCategory):
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		default:
			h.serverError(w, "edit failed", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, toFormView(s.Form))
}

func (h *Handler) submitForm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, true)
	if !ok {
		return
	}

	saved, err := s.Form.Submit(r.Context())
	if err != nil {
		if errors.Is(err, form.ErrInvalidDraft) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_draft", "name is required and calories must be greater than zero")
			return
		}
		h.serverError(w, "submit failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, SubmitResponse{
		Saved: toActivityView(saved),
		Form:  toFormView(s.Form),
	})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request, write bool) (*session.Session, bool) {
	claims, ok := requireClaims(w, r, write)
	if !ok {
		return nil, false
	}
	s, err := h.sessions.Get(r.Context(), claims.Owner())
	if err != nil {
		h.serverError(w, "load session failed", err)
		return nil, false
	}
	return s, true
}

func requireClaims(w http.ResponseWriter, r *http.Request, write bool) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	if write && !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:write required")
		return nil, false
	}
	if !write && !claims.CanRead() {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:read required")
		return nil, false
	}
	return claims, true
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, "server_error", err.Error())
}

// SetActiveRequest is the payload for PUT /v1/activities/active.
type SetActiveRequest struct {
	ID string `json:"id"`
}

// EditFormRequest is the payload for PATCH /v1/form. Value may be a JSON
// string or a bare number.
type EditFormRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// RawValue returns the value as the text a user would have typed.
func (r EditFormRequest) RawValue() string {
	var s string
	if err := json.Unmarshal(r.Value, &s); err == nil {
		return s
	}
	raw := strings.TrimSpace(string(r.Value))
	if raw == "null" {
		return ""
	}
	return raw
}

// CategoryView describes a registry entry.
type CategoryView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ActivityView describes a saved activity.
type ActivityView struct {
	ID       string  `json:"id"`
	Category int     `json:"category"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// TotalsView summarises calories.
type TotalsView struct {
	Consumed float64 `json:"consumed"`
	Burned   float64 `json:"burned"`
	Net      float64 `json:"net"`
}

// StateResponse is the body for GET /v1/activities.
type StateResponse struct {
	Activities []ActivityView `json:"activities"`
	ActiveID   string         `json:"active_id,omitempty"`
	Totals     TotalsView     `json:"totals"`
}

// FormView describes the current draft. Calories is null when the last
// input did not parse as a number.
type FormView struct {
	ID             string   `json:"id"`
	Category       int      `json:"category"`
	Name           string   `json:"name"`
	Calories       *float64 `json:"calories"`
	Valid          bool     `json:"valid"`
	SubmitLabel    string   `json:"submit_label"`
	StaleSelection string   `json:"stale_selection,omitempty"`
}

// SubmitResponse is the body for POST /v1/form/submit.
type SubmitResponse struct {
	Saved ActivityView `json:"saved"`
	Form  FormView     `json:"form"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toActivityView(a domain.Activity) ActivityView {
	return ActivityView{ID: a.ID, Category: a.Category, Name: a.Name, Calories: a.Calories}
}

func toTotalsView(t domain.Totals) TotalsView {
	return TotalsView{Consumed: t.Consumed, Burned: t.Burned, Net: t.Net}
}

func toStateResponse(state store.State) StateResponse {
	items := make([]ActivityView, 0, len(state.Activities))
	for _, a := range state.Activities {
		items = append(items, toActivityView(a))
	}
	return StateResponse{
		Activities: items,
		ActiveID:   state.ActiveID,
		Totals:     toTotalsView(domain.Summarize(state.Activities)),
	}
}

func toFormView(f *form.Form) FormView {
	draft := f.Draft()
	view := FormView{
		ID:          draft.ID,
		Category:    draft.Category,
		Name:        draft.Name,
		Valid:       form.Valid(draft),
		SubmitLabel: form.SubmitLabel(draft),
	}
	if !math.IsNaN(draft.Calories) && !math.IsInf(draft.Calories, 0) {
		calories := draft.Calories
		view.Calories = &calories
	}
	if err := f.SyncErr(); err != nil {
		view.StaleSelection = err.Error()
	}
	return view
}
