package timers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets/{petID}/timer", func(tr chi.Router) {
		tr.Put("/", setTimerHandler(svc))
		tr.Get("/", getTimerHandler(svc))
		tr.Delete("/", clearTimerHandler(svc))
	})
}

type setTimerRequest struct {
	Hours float64 `json:"hours"`
	Label string  `json:"label"`
}

type timerResponse struct {
	PetID     string     `json:"pet_id"`
	Phase     Phase      `json:"phase"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	Label     string     `json:"label,omitempty"`
	AlertSent bool       `json:"alert_sent"`
}

// setTimerHandler godoc
// @Summary Setear timer de una mascota
// @Description Arranca un timer para la mascota. Si había uno activo lo reemplaza (un solo slot por mascota).
// @Tags timers
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body setTimerRequest true "Duración en horas y etiqueta"
// @Success 200 {object} timerResponse
// @Failure 400 {string} string "invalid json / label requerido"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/timer [put]
func setTimerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setTimerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st, err := svc.Set(r.Context(), chi.URLParam(r, "petID"), req.Hours, req.Label)
		if err != nil {
			writeTimerError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toTimerResponse(st, svc.Now()))
	}
}

// getTimerHandler godoc
// @Summary Consultar timer de una mascota
// @Description Devuelve el timer actual. phase=ready significa vencido pero no limpiado; phase=idle, sin timer.
// @Tags timers
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} timerResponse
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/timer [get]
func getTimerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Get(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeTimerError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toTimerResponse(st, svc.Now()))
	}
}

// clearTimerHandler godoc
// @Summary Apagar timer de una mascota
// @Description Limpia el timer. Limpiar sin timer activo es no-op, no error.
// @Tags timers
// @Param petID path string true "ID de la mascota"
// @Success 204 {string} string ""
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/timer [delete]
func clearTimerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), chi.URLParam(r, "petID")); err != nil {
			writeTimerError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeTimerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPetNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toTimerResponse(st State, now time.Time) timerResponse {
	return timerResponse{
		PetID:     st.PetID,
		Phase:     st.Phase(now),
		EndsAt:    st.EndsAt,
		Label:     st.Label,
		AlertSent: st.AlertSent,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
