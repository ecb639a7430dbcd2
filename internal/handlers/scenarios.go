package handlers

import (
	"log/slog"
	"net/http"

	"github.com/questforge/questforge/internal/engine"
	"github.com/questforge/questforge/pkg/scenario"
)

// ScenariosHandler generates the adventure premises a player picks
// from. Generation is synchronous and can take a while; the route is
// POST because every call produces a fresh list.
type ScenariosHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewScenariosHandler(eng *engine.Engine, logger *slog.Logger) *ScenariosHandler {
	return &ScenariosHandler{engine: eng, logger: logger}
}

type ScenariosResponse struct {
	Scenarios []scenario.Scenario `json:"scenarios"`
}

func (h *ScenariosHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	scenarios, err := h.engine.ScenarioList(r.Context())
	if err != nil {
		h.logger.Error("Scenario generation failed", "error", err)
		writeError(w, h.logger, http.StatusBadGateway, "Failed to generate scenarios. Please try again.")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, ScenariosResponse{Scenarios: scenarios})
}
