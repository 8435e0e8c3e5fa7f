package tasklog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"care-tracker/internal/domain/careday"
	"care-tracker/internal/domain/tasks"
	"care-tracker/internal/domain/timers"
	"care-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, coord *timers.Coordinator) {
	r.Route("/tasks/{taskID}", func(tr chi.Router) {
		tr.Post("/complete", completeTaskHandler(svc, coord))
		tr.Post("/undo", undoTaskHandler(svc))
	})

	r.Get("/status", statusHandler(svc))
	r.Get("/pets/{petID}/status", petStatusHandler(svc))

	r.Get("/history", historyHandler(svc))
	r.Get("/history/grid", gridHistoryHandler(svc))
}

// actionRequest es el cuerpo de complete/undo. completed_by pisa al
// header X-Actor-Name si vienen ambos.
type actionRequest struct {
	CompletedBy string `json:"completed_by"`
	Notes       string `json:"notes"`
}

type statusResponse struct {
	Done        bool       `json:"done"`
	CompletedBy string     `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type offerResponse struct {
	Hours float64 `json:"hours"`
	Label string  `json:"label"`
}

type actionResponse struct {
	LogID   string         `json:"log_id"`
	TaskID  string         `json:"task_id"`
	CareDay string         `json:"care_day"`
	Status  statusResponse `json:"status"`

	// Offer es el timer sugerido tras completar; null si no aplica.
	// Aceptarlo es decisión del cliente: PUT /pets/{petID}/timer.
	Offer *offerResponse `json:"offer,omitempty"`
}

// completeTaskHandler godoc
// @Summary Completar tarea
// @Description Marca la tarea como hecha para el care day actual (calculado en el servidor). Re-completar está permitido: apendea otra entrada al log sin cambiar el status. Si corresponde, la respuesta incluye una oferta de timer dependiente.
// @Tags tasks
// @Accept json
// @Produce json
// @Param X-Actor-Name header string false "Quién completó (alternativa al body)"
// @Param taskID path string true "ID del care item"
// @Param payload body actionRequest false "Actor y nota opcionales"
// @Success 200 {object} actionResponse
// @Failure 404 {string} string "unknown task"
// @Router /tasks/{taskID}/complete [post]
func completeTaskHandler(svc *Service, coord *timers.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := decodeActionRequest(r)

		res, err := svc.Complete(r.Context(), chi.URLParam(r, "taskID"), req.CompletedBy, req.Notes)
		if err != nil {
			writeActionError(w, err)
			return
		}

		resp := toActionResponse(res)

		// Control de flujo del spec: completar -> recomputar status ->
		// preguntarle al coordinador por el nombre de la tarea.
		if done, err := svc.DoneByName(r.Context(), res.Task.PetID, res.Entry.CareDay); err == nil {
			if offer := coord.Decide(res.Task.Name, done); offer != nil {
				resp.Offer = &offerResponse{Hours: offer.Hours, Label: offer.Label}
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// undoTaskHandler godoc
// @Summary Deshacer tarea
// @Description Revierte una tarea completada hoy apendeando una entrada "undone". Falla si la tarea no está completa para el care day actual.
// @Tags tasks
// @Accept json
// @Produce json
// @Param X-Actor-Name header string false "Quién deshizo (alternativa al body)"
// @Param taskID path string true "ID del care item"
// @Param payload body actionRequest false "Actor y nota opcionales"
// @Success 200 {object} actionResponse
// @Failure 404 {string} string "unknown task"
// @Failure 409 {string} string "nothing to undo"
// @Router /tasks/{taskID}/undo [post]
func undoTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := decodeActionRequest(r)

		res, err := svc.Undo(r.Context(), chi.URLParam(r, "taskID"), req.CompletedBy, req.Notes)
		if err != nil {
			writeActionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toActionResponse(res))
	}
}

type taskStatusResponse struct {
	Item        careItemSummary `json:"care_item"`
	Done        bool            `json:"done"`
	CompletedBy string          `json:"completed_by,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

type careItemSummary struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	Category     tasks.Category `json:"category"`
	DisplayOrder int            `json:"display_order"`
}

type petDayResponse struct {
	PetID   string               `json:"pet_id"`
	PetName string               `json:"pet_name"`
	CareDay string               `json:"care_day"`
	Tasks   []taskStatusResponse `json:"tasks"`
}

type summaryResponse struct {
	CareDay string           `json:"care_day"`
	Pets    []petDayResponse `json:"pets"`
}

// statusHandler godoc
// @Summary Tablero del día
// @Description Status de todas las tareas activas de todas las mascotas para el care day actual. Con ?at= (RFC3339) evalúa otro instante.
// @Tags status
// @Produce json
// @Param at query string false "Instante a evaluar (RFC3339); por defecto ahora"
// @Success 200 {object} summaryResponse
// @Failure 400 {string} string "at must be RFC3339"
// @Router /status [get]
func statusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day := svc.Today()
		if v := strings.TrimSpace(r.URL.Query().Get("at")); v != "" {
			at, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "at must be RFC3339", http.StatusBadRequest)
				return
			}
			day = svc.days.At(at)
		}

		summary, err := svc.Summary(r.Context(), day)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := summaryResponse{CareDay: day.String(), Pets: make([]petDayResponse, 0, len(summary))}
		for _, pd := range summary {
			out.Pets = append(out.Pets, toPetDayResponse(pd))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// petStatusHandler godoc
// @Summary Status diario de una mascota
// @Tags status
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param at query string false "Instante a evaluar (RFC3339); por defecto ahora"
// @Success 200 {object} petDayResponse
// @Failure 400 {string} string "at must be RFC3339"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/status [get]
func petStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		p, err := svc.petsSvc.GetByID(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		at := time.Time{}
		if v := strings.TrimSpace(r.URL.Query().Get("at")); v != "" {
			at, err = time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "at must be RFC3339", http.StatusBadRequest)
				return
			}
		}
		if at.IsZero() {
			at = svc.now()
		}
		day := svc.days.At(at)

		items, err := svc.tasksSvc.ListByPet(r.Context(), petID, false)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		statuses, err := svc.StatusForDay(r.Context(), petID, day)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		pd := PetDay{Pet: p, CareDay: day}
		for _, item := range items {
			pd.Tasks = append(pd.Tasks, TaskStatus{Item: item, Status: statuses[item.ID]})
		}

		writeJSON(w, http.StatusOK, toPetDayResponse(pd))
	}
}

type historyEntryResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	CareDay     string    `json:"care_day"`
	Action      Action    `json:"action"`
	CompletedBy string    `json:"completed_by,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// historyHandler godoc
// @Summary Historial de acciones
// @Description Log de completados/deshechos, lo más reciente primero. Para auditoría: muestra el log crudo, incluyendo undos.
// @Tags history
// @Produce json
// @Param pet_id query string false "Filtrar por mascota"
// @Param task_id query string false "Filtrar por care item"
// @Param from query string false "Care day mínimo (YYYY-MM-DD)"
// @Param to query string false "Care day máximo (YYYY-MM-DD)"
// @Param limit query int false "Máximo de entradas (1-500). Por defecto 100"
// @Success 200 {array} historyEntryResponse
// @Failure 400 {string} string "from/to must be YYYY-MM-DD"
// @Router /history [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := HistoryInput{
			PetID:  r.URL.Query().Get("pet_id"),
			TaskID: r.URL.Query().Get("task_id"),
			Limit:  100,
		}

		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
				in.Limit = n
			}
		}
		if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
			d, err := careday.Parse(v)
			if err != nil {
				http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.From = &d
		}
		if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
			d, err := careday.Parse(v)
			if err != nil {
				http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.To = &d
		}

		entries, err := svc.History(r.Context(), in)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]historyEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, historyEntryResponse{
				ID:          e.ID,
				TaskID:      e.TaskID,
				CareDay:     e.CareDay.String(),
				Action:      e.Action,
				CompletedBy: e.CompletedBy,
				Notes:       e.Notes,
				Timestamp:   e.Timestamp,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

type gridResponse struct {
	Columns  []gridColumnResponse `json:"columns"`
	Rows     []gridRowResponse    `json:"rows"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	HasNext  bool                 `json:"has_next"`
	HasPrev  bool                 `json:"has_prev"`
}

type gridColumnResponse struct {
	ItemID  string `json:"item_id"`
	Name    string `json:"name"`
	PetName string `json:"pet_name"`
}

type gridRowResponse struct {
	Date   string                `json:"date"`
	Values map[string]GridStatus `json:"values"`
}

// gridHistoryHandler godoc
// @Summary Historial en grilla
// @Description Filas = fechas (más reciente primero), columnas = care items activos, celdas = given/missed/n-a.
// @Tags history
// @Produce json
// @Param page query int false "Página (desde 1)"
// @Param page_size query int false "Días por página. Por defecto 30"
// @Success 200 {object} gridResponse
// @Router /history/grid [get]
func gridHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

		grid, err := svc.Grid(r.Context(), page, pageSize)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := gridResponse{
			Columns:  make([]gridColumnResponse, 0, len(grid.Columns)),
			Rows:     make([]gridRowResponse, 0, len(grid.Rows)),
			Page:     grid.Page,
			PageSize: grid.PageSize,
			HasNext:  grid.HasNext,
			HasPrev:  grid.HasPrev,
		}
		for _, c := range grid.Columns {
			out.Columns = append(out.Columns, gridColumnResponse{ItemID: c.ItemID, Name: c.Name, PetName: c.PetName})
		}
		for _, row := range grid.Rows {
			out.Rows = append(out.Rows, gridRowResponse{Date: row.Date.String(), Values: row.Values})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func decodeActionRequest(r *http.Request) actionRequest {
	var req actionRequest
	// Body vacío está bien: actor y nota son opcionales.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if strings.TrimSpace(req.CompletedBy) == "" {
		if actor, ok := middleware.GetActor(r.Context()); ok {
			req.CompletedBy = actor
		}
	}
	return req
}

func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownTask):
		http.Error(w, "unknown task", http.StatusNotFound)
	case errors.Is(err, ErrNothingToUndo):
		http.Error(w, "nothing to undo", http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toActionResponse(res Result) actionResponse {
	return actionResponse{
		LogID:   res.Entry.ID,
		TaskID:  res.Entry.TaskID,
		CareDay: res.Entry.CareDay.String(),
		Status:  toStatusResponse(res.Status),
	}
}

func toStatusResponse(st Status) statusResponse {
	out := statusResponse{Done: st.Done, CompletedBy: st.CompletedBy}
	if st.Done {
		t := st.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

func toPetDayResponse(pd PetDay) petDayResponse {
	out := petDayResponse{
		PetID:   pd.Pet.ID,
		PetName: pd.Pet.Name,
		CareDay: pd.CareDay.String(),
		Tasks:   make([]taskStatusResponse, 0, len(pd.Tasks)),
	}
	for _, ts := range pd.Tasks {
		resp := taskStatusResponse{
			Item: careItemSummary{
				ID:           ts.Item.ID,
				Name:         ts.Item.Name,
				Description:  ts.Item.Description,
				Notes:        ts.Item.Notes,
				Category:     ts.Item.Category,
				DisplayOrder: ts.Item.DisplayOrder,
			},
			Done:        ts.Status.Done,
			CompletedBy: ts.Status.CompletedBy,
		}
		if ts.Status.Done {
			t := ts.Status.CompletedAt
			resp.CompletedAt = &t
		}
		out.Tasks = append(out.Tasks, resp)
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
