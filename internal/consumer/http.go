package consumer

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/labj86/calorie-tracker/internal/domain"
)

// TotalsResponse is the body for GET /v1/totals/{tenant}/{user}.
type TotalsResponse struct {
	TenantID string  `json:"tenant_id"`
	UserID   string  `json:"user_id"`
	Consumed float64 `json:"consumed"`
	Burned   float64 `json:"burned"`
	Net      float64 `json:"net"`
}

// RegisterRoutes exposes the projection on the consumer's internal port.
func (h *TotalsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/totals/{tenant}/{user}", h.getTotals).Methods(http.MethodGet)
}

func (h *TotalsHandler) getTotals(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	owner := domain.Owner{TenantID: vars["tenant"], UserID: vars["user"]}
	t := h.Totals(owner)
	writeJSON(w, http.StatusOK, TotalsResponse{
		TenantID: owner.TenantID,
		UserID:   owner.UserID,
		Consumed: t.Consumed,
		Burned:   t.Burned,
		Net:      t.Net,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
