package pets

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Delete("/{petID}", deactivatePetHandler(svc))
	})
}

type createPetRequest struct {
	Name    string `json:"name"`
	Species string `json:"species"`
	Notes   string `json:"notes"`
}

type petResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Species   Species   `json:"species"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	Active    bool      `json:"active"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description Registra una mascota del hogar.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid json / name requerido"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:    req.Name,
			Species: req.Species,
			Notes:   req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Lista las mascotas activas del hogar. Con include_inactive=true incluye las dadas de baja.
// @Tags pets
// @Produce json
// @Param include_inactive query bool false "Incluir mascotas inactivas"
// @Success 200 {array} petResponse
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("include_inactive"))

		items, err := svc.List(r.Context(), includeInactive)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// deactivatePetHandler godoc
// @Summary Dar de baja una mascota
// @Description Soft delete: la mascota sale del tablero diario pero conserva historial.
// @Tags pets
// @Param petID path string true "ID de la mascota"
// @Success 204 {string} string ""
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [delete]
func deactivatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Deactivate(r.Context(), chi.URLParam(r, "petID")); err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		Active:    p.Active,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
