package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets/{petID}/care-items", func(cr chi.Router) {
		cr.Post("/", createCareItemHandler(svc))
		cr.Get("/", listCareItemsHandler(svc))
	})
	r.Delete("/care-items/{itemID}", deactivateCareItemHandler(svc))
}

type createCareItemRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Notes        string `json:"notes"` // timing/dependencias, solo informativo
	Category     string `json:"category" enums:"medication,food,supplement,other"`
	DisplayOrder int    `json:"display_order"`
}

type careItemResponse struct {
	ID           string    `json:"id"`
	PetID        string    `json:"pet_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Notes        string    `json:"notes"`
	Category     Category  `json:"category"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	Active       bool      `json:"active"`
}

// createCareItemHandler godoc
// @Summary Crear care item
// @Description Crea una tarea de cuidado recurrente para la mascota (medicación, comida, suplemento).
// @Tags care-items
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body createCareItemRequest true "Datos del care item"
// @Success 201 {object} careItemResponse
// @Failure 400 {string} string "invalid json / name requerido"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/care-items [post]
func createCareItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCareItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		item, err := svc.Create(r.Context(), chi.URLParam(r, "petID"), CreateInput{
			Name:         req.Name,
			Description:  req.Description,
			Notes:        req.Notes,
			Category:     req.Category,
			DisplayOrder: req.DisplayOrder,
		})
		if err != nil {
			if errors.Is(err, ErrPetNotFound) {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toCareItemResponse(item))
	}
}

// listCareItemsHandler godoc
// @Summary Listar care items de una mascota
// @Tags care-items
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param include_inactive query bool false "Incluir items inactivos"
// @Success 200 {array} careItemResponse
// @Router /pets/{petID}/care-items [get]
func listCareItemsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("include_inactive"))

		items, err := svc.ListByPet(r.Context(), chi.URLParam(r, "petID"), includeInactive)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]careItemResponse, 0, len(items))
		for _, item := range items {
			out = append(out, toCareItemResponse(item))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// deactivateCareItemHandler godoc
// @Summary Dar de baja un care item
// @Description Soft delete: el item deja de contar para el status diario pero su historial se conserva.
// @Tags care-items
// @Param itemID path string true "ID del care item"
// @Success 204 {string} string ""
// @Failure 404 {string} string "care item not found"
// @Router /care-items/{itemID} [delete]
func deactivateCareItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Deactivate(r.Context(), chi.URLParam(r, "itemID")); err != nil {
			http.Error(w, "care item not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toCareItemResponse(item CareItem) careItemResponse {
	return careItemResponse{
		ID:           item.ID,
		PetID:        item.PetID,
		Name:         item.Name,
		Description:  item.Description,
		Notes:        item.Notes,
		Category:     item.Category,
		DisplayOrder: item.DisplayOrder,
		CreatedAt:    item.CreatedAt,
		Active:       item.Active,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
