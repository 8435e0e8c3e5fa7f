package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"care-tracker/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	h, _ := router.NewRouter(router.Options{})
	return httptest.NewServer(h)
}

func TestHTTP_EndToEnd_DailyFlow(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	// 1) Alta de mascota y régimen mínimo: las dos comidas y la pastilla
	// que depende de estómago vacío.
	petID := createPet(t, ts.URL, map[string]any{
		"name":    "Chessie",
		"species": "dog",
	})

	denamarinID := createCareItem(t, ts.URL, petID, map[string]any{
		"name":          "Denamarin",
		"category":      "medication",
		"display_order": 1,
	})
	breakfastID := createCareItem(t, ts.URL, petID, map[string]any{
		"name":          "Breakfast",
		"category":      "food",
		"display_order": 2,
	})
	dinnerID := createCareItem(t, ts.URL, petID, map[string]any{
		"name":          "Dinner",
		"category":      "food",
		"display_order": 3,
	})

	// 2) Tablero inicial: nada hecho.
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/status", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pet status, got %d body=%s", st, string(body))
		}
		var resp struct {
			Tasks []struct {
				Done bool `json:"done"`
			} `json:"tasks"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Tasks) != 3 {
			t.Fatalf("expected 3 tasks on board, got %d", len(resp.Tasks))
		}
		for _, task := range resp.Tasks {
			if task.Done {
				t.Fatalf("expected all tasks pending, body=%s", string(body))
			}
		}
	}

	// 3) Completar Breakfast con actor por header: la respuesta trae la
	// oferta de timer de estómago vacío (2h).
	{
		st, body := doReq(t, ts.URL, "POST", "/tasks/"+breakfastID+"/complete", "Maria", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 complete breakfast, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status struct {
				Done        bool   `json:"done"`
				CompletedBy string `json:"completed_by"`
			} `json:"status"`
			Offer *struct {
				Hours float64 `json:"hours"`
				Label string  `json:"label"`
			} `json:"offer"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.Status.Done {
			t.Fatalf("expected breakfast done, body=%s", string(body))
		}
		if resp.Status.CompletedBy != "Maria" {
			t.Fatalf("expected actor Maria, got %q", resp.Status.CompletedBy)
		}
		if resp.Offer == nil || resp.Offer.Hours != 2 || resp.Offer.Label != "Empty stomach" {
			t.Fatalf("expected empty-stomach offer, body=%s", string(body))
		}
	}

	// 4) Aceptar la oferta: timer corriendo.
	{
		st, body := doReq(t, ts.URL, "PUT", "/pets/"+petID+"/timer", "", map[string]any{
			"hours": 2.0,
			"label": "Empty stomach",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 set timer, got %d body=%s", st, string(body))
		}
		var resp struct {
			Phase string `json:"phase"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Phase != "running" {
			t.Fatalf("expected running timer, body=%s", string(body))
		}
	}

	// 5) Setear otro timer reemplaza al anterior sin error (un slot por
	// mascota).
	{
		st, body := doReq(t, ts.URL, "PUT", "/pets/"+petID+"/timer", "", map[string]any{
			"hours": 0.5,
			"label": "Walk",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 replace timer, got %d body=%s", st, string(body))
		}
		var resp struct {
			Label string `json:"label"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Label != "Walk" {
			t.Fatalf("expected replaced label Walk, body=%s", string(body))
		}
	}

	// 6) Completar Denamarin: oferta de próxima comida (1h) porque Dinner
	// sigue pendiente.
	{
		st, body := doReq(t, ts.URL, "POST", "/tasks/"+denamarinID+"/complete", "Jon", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 complete denamarin, got %d body=%s", st, string(body))
		}
		var resp struct {
			Offer *struct {
				Hours float64 `json:"hours"`
				Label string  `json:"label"`
			} `json:"offer"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Offer == nil || resp.Offer.Hours != 1 || resp.Offer.Label != "Next meal ready" {
			t.Fatalf("expected next-meal offer, body=%s", string(body))
		}
	}

	// 7) Undo de Dinner sin completar: 409.
	{
		st, _ := doReq(t, ts.URL, "POST", "/tasks/"+dinnerID+"/undo", "", nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 undo pending task, got %d", st)
		}
	}

	// 8) Undo de Breakfast: vuelve a pendiente.
	{
		st, body := doReq(t, ts.URL, "POST", "/tasks/"+breakfastID+"/undo", "Maria", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 undo breakfast, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status struct {
				Done bool `json:"done"`
			} `json:"status"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status.Done {
			t.Fatalf("expected breakfast pending after undo, body=%s", string(body))
		}
	}

	// 9) Completar contra un id desconocido: 404.
	{
		st, _ := doReq(t, ts.URL, "POST", "/tasks/nope/complete", "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown task, got %d", st)
		}
	}

	// 10) Clear del timer: 204, y de nuevo 204 (idempotente).
	for i := 0; i < 2; i++ {
		st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID+"/timer", "", nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 clear timer (round %d), got %d", i+1, st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/timer", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get timer, got %d", st)
		}
		var resp struct {
			Phase string `json:"phase"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Phase != "idle" {
			t.Fatalf("expected idle after clear, body=%s", string(body))
		}
	}

	// 11) El historial registra todo, incluyendo el undo.
	{
		st, body := doReq(t, ts.URL, "GET", "/history?pet_id="+petID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 history, got %d body=%s", st, string(body))
		}
		var entries []struct {
			Action string `json:"action"`
		}
		_ = json.Unmarshal(body, &entries)
		if len(entries) != 3 {
			t.Fatalf("expected 3 log entries, got %d body=%s", len(entries), string(body))
		}
		// Más reciente primero: el undo encabeza la lista.
		if entries[0].Action != "undone" {
			t.Fatalf("expected undo first, body=%s", string(body))
		}
	}

	// 12) La grilla muestra el día actual con given/missed.
	{
		st, body := doReq(t, ts.URL, "GET", "/history/grid", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 grid, got %d body=%s", st, string(body))
		}
		var resp struct {
			Columns []struct {
				ItemID string `json:"item_id"`
			} `json:"columns"`
			Rows []struct {
				Values map[string]string `json:"values"`
			} `json:"rows"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Columns) != 3 || len(resp.Rows) == 0 {
			t.Fatalf("expected 3 columns and at least 1 row, body=%s", string(body))
		}
		today := resp.Rows[0].Values
		if today[denamarinID] != "given" {
			t.Fatalf("expected denamarin given today, body=%s", string(body))
		}
		if today[breakfastID] != "missed" {
			t.Fatalf("expected breakfast missed after undo, body=%s", string(body))
		}
	}
}

func TestHTTP_Users_CheckInAndUpdate(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	// Primer check-in crea el usuario.
	var userID string
	{
		st, body := doReq(t, ts.URL, "POST", "/users/check-in", "", map[string]any{
			"name":         "Maria",
			"phone_number": "+15551234567",
			"wants_alerts": true,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 check-in, got %d body=%s", st, string(body))
		}
		var resp struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
			IsNew bool `json:"is_new"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.IsNew || resp.User.ID == "" {
			t.Fatalf("expected new user on first check-in, body=%s", string(body))
		}
		userID = resp.User.ID
	}

	// Segundo check-in del mismo nombre no duplica.
	{
		st, body := doReq(t, ts.URL, "POST", "/users/check-in", "", map[string]any{
			"name": "Maria",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 repeat check-in, got %d body=%s", st, string(body))
		}
		var resp struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
			IsNew bool `json:"is_new"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.IsNew || resp.User.ID != userID {
			t.Fatalf("expected same user on repeat check-in, body=%s", string(body))
		}
	}

	// Búsqueda por prefijo, case-insensitive.
	{
		st, body := doReq(t, ts.URL, "GET", "/users/search?q=ma", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 search, got %d body=%s", st, string(body))
		}
		var out []struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(body, &out)
		if len(out) != 1 || out[0].Name != "Maria" {
			t.Fatalf("expected Maria in search, body=%s", string(body))
		}
	}

	// Update de preferencias con vencimiento de opt-in.
	{
		st, body := doReq(t, ts.URL, "PUT", "/users/"+userID, "", map[string]any{
			"alert_expiry": "2026-09-15",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update user, got %d body=%s", st, string(body))
		}
		var resp struct {
			AlertExpiry string `json:"alert_expiry"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.AlertExpiry != "2026-09-15" {
			t.Fatalf("expected alert expiry persisted, body=%s", string(body))
		}
	}

	// Usuario inexistente: 404.
	{
		st, _ := doReq(t, ts.URL, "GET", "/users/by-name/Nadie", "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown user, got %d", st)
		}
	}
}

func TestHTTP_Pets_DeactivateKeepsHistory(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	petID := createPet(t, ts.URL, map[string]any{"name": "Milo", "species": "cat"})
	itemID := createCareItem(t, ts.URL, petID, map[string]any{
		"name":     "Flea drops",
		"category": "medication",
	})

	{
		st, _ := doReq(t, ts.URL, "POST", "/tasks/"+itemID+"/complete", "Jon", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 complete, got %d", st)
		}
	}

	{
		st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID, "", nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 deactivate pet, got %d", st)
		}
	}

	// La mascota desaparece del listado activo pero su log sigue ahí.
	{
		st, body := doReq(t, ts.URL, "GET", "/pets", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list pets, got %d", st)
		}
		var out []struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &out)
		for _, p := range out {
			if p.ID == petID {
				t.Fatalf("expected deactivated pet hidden from list")
			}
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/history?pet_id="+petID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 history, got %d", st)
		}
		var entries []struct {
			TaskID string `json:"task_id"`
		}
		_ = json.Unmarshal(body, &entries)
		if len(entries) != 1 || entries[0].TaskID != itemID {
			t.Fatalf("expected history preserved, body=%s", string(body))
		}
	}
}

func createPet(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func createCareItem(t *testing.T, baseURL, petID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets/"+petID+"/care-items", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create care item, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create care item: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, actor string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		req.Header.Set("X-Actor-Name", actor)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
