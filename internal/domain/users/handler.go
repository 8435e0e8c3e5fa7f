package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"care-tracker/internal/domain/careday"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/users", func(ur chi.Router) {
		ur.Post("/check-in", checkInHandler(svc))
		ur.Get("/search", searchUsersHandler(svc))
		ur.Get("/by-name/{name}", getUserByNameHandler(svc))
		ur.Put("/{userID}", updateUserHandler(svc))
	})
}

type checkInRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	WantsAlerts bool   `json:"wants_alerts"`
	AlertExpiry string `json:"alert_expiry"` // YYYY-MM-DD opcional
}

type userResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	LastSeen    time.Time `json:"last_seen"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	WantsAlerts bool      `json:"wants_alerts"`
	AlertExpiry string    `json:"alert_expiry,omitempty"`
}

type checkInResponse struct {
	User  userResponse `json:"user"`
	IsNew bool         `json:"is_new"`
}

// checkInHandler godoc
// @Summary Check-in de cuidador
// @Description Registra o actualiza la presencia de un cuidador. Un alta con alertas activadas dispara la confirmación externa.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body checkInRequest true "Nombre y preferencias de alerta"
// @Success 200 {object} checkInResponse
// @Failure 400 {string} string "invalid json / name requerido / alert_expiry inválido"
// @Router /users/check-in [post]
func checkInHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var expiry *careday.Day
		if strings.TrimSpace(req.AlertExpiry) != "" {
			d, err := careday.Parse(req.AlertExpiry)
			if err != nil {
				http.Error(w, "alert_expiry must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			expiry = &d
		}

		u, isNew, err := svc.CheckIn(r.Context(), CheckInInput{
			Name:        req.Name,
			PhoneNumber: req.PhoneNumber,
			WantsAlerts: req.WantsAlerts,
			AlertExpiry: expiry,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, checkInResponse{User: toUserResponse(u), IsNew: isNew})
	}
}

// searchUsersHandler godoc
// @Summary Buscar cuidadores
// @Tags users
// @Produce json
// @Param q query string false "Prefijo del nombre"
// @Success 200 {array} userResponse
// @Router /users/search [get]
func searchUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getUserByNameHandler godoc
// @Summary Obtener cuidador por nombre
// @Tags users
// @Produce json
// @Param name path string true "Nombre exacto"
// @Success 200 {object} userResponse
// @Failure 404 {string} string "user not found"
// @Router /users/by-name/{name} [get]
func getUserByNameHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.GetByName(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

type updateUserRequest struct {
	// Punteros: nil = no tocar. alert_expiry admite null para limpiar.
	PhoneNumber *string `json:"phone_number"`
	WantsAlerts *bool   `json:"wants_alerts"`
	AlertExpiry *string `json:"alert_expiry"`
}

// updateUserHandler godoc
// @Summary Actualizar preferencias de cuidador
// @Description Actualiza teléfono y preferencias de alerta. Cada guardado con alertas activas re-dispara la confirmación.
// @Tags users
// @Accept json
// @Produce json
// @Param userID path string true "ID del cuidador"
// @Param payload body updateUserRequest true "Campos a modificar"
// @Success 200 {object} userResponse
// @Failure 400 {string} string "invalid json / alert_expiry inválido"
// @Failure 404 {string} string "user not found"
// @Router /users/{userID} [put]
func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Para distinguir "alert_expiry": null (limpiar) de no enviado,
		// decodificamos primero a raw.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updateUserRequest
		b, _ := json.Marshal(raw)
		if err := json.Unmarshal(b, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			PhoneNumber: req.PhoneNumber,
			WantsAlerts: req.WantsAlerts,
		}

		if v, exists := raw["alert_expiry"]; exists {
			if string(v) == "null" {
				in.ClearAlertExpiry = true
			} else if req.AlertExpiry != nil {
				d, err := careday.Parse(*req.AlertExpiry)
				if err != nil {
					http.Error(w, "alert_expiry must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				in.AlertExpiry = &d
			}
		}

		u, err := svc.Update(r.Context(), chi.URLParam(r, "userID"), in)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func toUserResponse(u User) userResponse {
	out := userResponse{
		ID:          u.ID,
		Name:        u.Name,
		CreatedAt:   u.CreatedAt,
		LastSeen:    u.LastSeen,
		PhoneNumber: u.PhoneNumber,
		WantsAlerts: u.WantsAlerts,
	}
	if u.AlertExpiry != nil {
		out.AlertExpiry = u.AlertExpiry.String()
	}
	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
