package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/questforge/questforge/internal/engine"
	"github.com/questforge/questforge/internal/storage"
)

// SessionsHandler routes the session lifecycle:
//
//	POST   /v1/sessions                start an adventure
//	POST   /v1/sessions/{id}/turn      advance by one choice
//	POST   /v1/sessions/{id}/restart   replay the cached opening
//	DELETE /v1/sessions/{id}           abandon the session
type SessionsHandler struct {
	engine *engine.Engine
	store  storage.Storage
	logger *slog.Logger
}

func NewSessionsHandler(eng *engine.Engine, store storage.Storage, logger *slog.Logger) *SessionsHandler {
	return &SessionsHandler{
		engine: eng,
		store:  store,
		logger: logger,
	}
}

type StartRequest struct {
	Title string `json:"title"`
}

type TurnRequest struct {
	Choice string `json:"choice"`
}

func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")

	if rest == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		h.start(w, r)
		return
	}

	parts := strings.Split(rest, "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session id.")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.abandon(w, r, id)
	case len(parts) == 2 && parts[1] == "turn" && r.Method == http.MethodPost:
		h.turn(w, r, id)
	case len(parts) == 2 && parts[1] == "restart" && r.Method == http.MethodPost:
		h.restart(w, r, id)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found.")
	}
}

func (h *SessionsHandler) start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'title' field.")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Title cannot be empty.")
		return
	}

	_, resp, err := h.engine.StartAdventure(r.Context(), req.Title)
	if err != nil {
		h.logger.Error("Failed to start adventure", "error", err, "title", req.Title)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to start adventure. Please try again.")
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, resp)
}

func (h *SessionsHandler) turn(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'choice' field.")
		return
	}
	if strings.TrimSpace(req.Choice) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Choice cannot be empty.")
		return
	}

	s, err := h.store.LoadSession(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session.")
		return
	}
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found.")
		return
	}

	resp, err := h.engine.Turn(r.Context(), s, req.Choice)
	if err != nil {
		h.logger.Error("Failed to process turn", "error", err, "session_id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to process turn. Please try again.")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *SessionsHandler) restart(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, err := h.store.LoadSession(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session.")
		return
	}
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found.")
		return
	}

	resp, err := h.engine.Restart(r.Context(), s)
	if err != nil {
		h.logger.Error("Failed to restart session", "error", err, "session_id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to restart session.")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *SessionsHandler) abandon(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.store.DeleteSession(r.Context(), id); err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
