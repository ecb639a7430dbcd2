package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/questforge/questforge/internal/engine"
	"github.com/questforge/questforge/internal/services"
	"github.com/questforge/questforge/internal/storage"
	"github.com/questforge/questforge/pkg/session"
)

const testOpening = `SCENE: The mine entrance gapes before you.

ENCOUNTER: none

CHOICES:
Enter the mine
Circle around
Make camp`

func newSessionsHandler(responses ...string) (*SessionsHandler, *storage.MockStorage) {
	store := storage.NewMockStorage()
	eng := engine.New(services.NewMockLLM(responses...), store, engine.Config{}, testLogger())
	return NewSessionsHandler(eng, store, testLogger()), store
}

func TestSessionsHandler_Start(t *testing.T) {
	handler, store := newSessionsHandler(testOpening)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(`{"title":"The Lost Mine"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp engine.TurnResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Scene, "mine entrance") {
		t.Errorf("Unexpected scene: %q", resp.Scene)
	}
	if len(resp.Choices) != 3 {
		t.Errorf("Expected 3 choices, got %v", resp.Choices)
	}
	if resp.CurrentHP != 20 {
		t.Errorf("Expected 20 HP, got %d", resp.CurrentHP)
	}
	if store.Count() != 1 {
		t.Errorf("Session should be persisted, store has %d", store.Count())
	}
}

func TestSessionsHandler_StartValidation(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"empty title", http.MethodPost, `{"title":""}`, http.StatusBadRequest},
		{"invalid json", http.MethodPost, `not json`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, ``, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newSessionsHandler(testOpening)

			req := httptest.NewRequest(tt.method, "/v1/sessions", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rr.Code)
			}

			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("Failed to decode error: %v", err)
			}
			if errResp.Error == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestSessionsHandler_Turn(t *testing.T) {
	handler, store := newSessionsHandler(testOpening)

	s := session.New("The Lost Mine", 20)
	s.AppendTurn("You stand outside.", []string{"Enter the mine"})
	if err := store.SaveSession(context.Background(), s.ID, s); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+s.ID.String()+"/turn",
		strings.NewReader(`{"choice":"Enter the mine"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp engine.TurnResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.SessionID != s.ID {
		t.Errorf("Expected session %v, got %v", s.ID, resp.SessionID)
	}

	// The advanced state must be visible on the next load.
	loaded, _ := store.LoadSession(context.Background(), s.ID)
	if loaded.SceneCounter != 2 {
		t.Errorf("Expected persisted counter 2, got %d", loaded.SceneCounter)
	}
}

func TestSessionsHandler_TurnErrors(t *testing.T) {
	handler, _ := newSessionsHandler(testOpening)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown session", "/v1/sessions/" + uuid.NewString() + "/turn", `{"choice":"Go"}`, http.StatusNotFound},
		{"invalid id", "/v1/sessions/not-a-uuid/turn", `{"choice":"Go"}`, http.StatusBadRequest},
		{"empty choice", "/v1/sessions/" + uuid.NewString() + "/turn", `{"choice":""}`, http.StatusBadRequest},
		{"unknown subroute", "/v1/sessions/" + uuid.NewString() + "/frobnicate", `{}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestSessionsHandler_Restart(t *testing.T) {
	handler, store := newSessionsHandler()

	s := session.New("The Lost Mine", 20)
	opening := session.Turn{Scene: "The mine entrance gapes before you.", Choices: []string{"Enter"}}
	s.Opening = &opening
	s.History = []session.Turn{opening}
	s.Player.TakeDamage(20)
	s.Ended = true
	if err := store.SaveSession(context.Background(), s.ID, s); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+s.ID.String()+"/restart", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp engine.TurnResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Scene != opening.Scene {
		t.Errorf("Restart should replay the opening, got %q", resp.Scene)
	}
	if resp.CurrentHP != 20 {
		t.Errorf("Expected full HP, got %d", resp.CurrentHP)
	}
}

func TestSessionsHandler_Abandon(t *testing.T) {
	handler, store := newSessionsHandler()

	s := session.New("The Lost Mine", 20)
	if err := store.SaveSession(context.Background(), s.ID, s); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+s.ID.String(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rr.Code)
	}
	if store.Count() != 0 {
		t.Errorf("Session should be deleted, store has %d", store.Count())
	}
}
