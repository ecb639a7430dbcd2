// Package engine owns the session state machine: it turns classified
// player choices into generation calls, combat rounds, inventory
// changes, and termination checks, and persists the session after
// every mutating turn.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/questforge/questforge/internal/images"
	"github.com/questforge/questforge/internal/metrics"
	"github.com/questforge/questforge/internal/services"
	"github.com/questforge/questforge/internal/storage"
	"github.com/questforge/questforge/pkg/actor"
	"github.com/questforge/questforge/pkg/combat"
	"github.com/questforge/questforge/pkg/parser"
	"github.com/questforge/questforge/pkg/prompts"
	"github.com/questforge/questforge/pkg/session"
	"github.com/questforge/questforge/pkg/textfilter"
)

// Terminal narrative appended when a run ends.
const (
	DeathScene   = "Darkness closes in as your strength fails. Your adventure ends here."
	VictoryScene = "Against all odds, you have seen the quest through to its end. Your legend will be told for generations."
)

// swapScene is shown while the player decides which item to give up.
const swapScene = "Your pack is already full. You must choose something to leave behind."

// Config carries the game rules and test hooks for an Engine.
type Config struct {
	MaxScenes         int
	StartingHP        int
	InventoryCapacity int
	ContentRating     string

	// Roller overrides the default dice source; tests inject fixed
	// rolls through it.
	Roller combat.Roller
}

// Engine drives sessions through generate, parse, apply-rules, persist
// cycles.
type Engine struct {
	llm    services.LLMService
	store  storage.Storage
	filter *textfilter.Filter
	cfg    Config
	roll   combat.Roller
	logger *slog.Logger

	// Optional illustration pipeline, wired by WithImages.
	imageSvc   services.ImageService
	imageCache *images.Cache
	imageModel string
}

// New creates an Engine.
func New(llm services.LLMService, store storage.Storage, cfg Config, logger *slog.Logger) *Engine {
	roll := cfg.Roller
	if roll == nil {
		roll = combat.NewRoller()
	}
	if cfg.MaxScenes <= 0 {
		cfg.MaxScenes = 10
	}
	if cfg.StartingHP <= 0 {
		cfg.StartingHP = 20
	}
	if cfg.InventoryCapacity <= 0 {
		cfg.InventoryCapacity = session.DefaultInventoryCapacity
	}
	return &Engine{
		llm:    llm,
		store:  store,
		filter: textfilter.New(),
		cfg:    cfg,
		roll:   roll,
		logger: logger,
	}
}

// TurnResponse is the player-facing result of one turn.
type TurnResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Scene     string    `json:"scene"`
	Choices   []string  `json:"choices"`
	CurrentHP int       `json:"current_hp"`
	Inventory []string  `json:"inventory,omitempty"`
	GameOver  bool      `json:"game_over,omitempty"`
	Victory   bool      `json:"victory,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Redirect  string    `json:"redirect,omitempty"`
}

// StartAdventure creates a fresh session for the title, generates the
// opening scene with encounter detection enabled, and persists it. Any
// prior session for the identifier is implicitly replaced because the
// new session carries a new identifier and the caller drops the old one.
func (e *Engine) StartAdventure(ctx context.Context, title string) (*session.Session, *TurnResponse, error) {
	s := session.New(title, e.cfg.StartingHP)

	res, err := e.nextScene(ctx, prompts.Opening(title))
	if err != nil {
		res = parser.Result{Scene: ErrorScene, Choices: []string{parser.FallbackChoice}}
	}

	scene, choices := e.applyScene(s, res, true)
	s.AppendTurn(scene, choices)
	opening := *s.LastTurn()
	s.Opening = &opening

	if err := e.store.SaveSession(ctx, s.ID, s); err != nil {
		return nil, nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return s, e.respond(s, scene, choices), nil
}

// Turn advances a session by one player choice. The session is
// persisted before the response is returned; terminal checks (death
// first, then victory) run after every state-mutating branch.
func (e *Engine) Turn(ctx context.Context, s *session.Session, choice string) (*TurnResponse, error) {
	action := Classify(s, choice)
	metrics.TurnsTotal.WithLabelValues(string(action.Kind)).Inc()

	if s.Ended {
		return e.terminalTurn(ctx, s, action)
	}

	var resp *TurnResponse
	switch action.Kind {
	case ActionAttack:
		resp = e.handleAttack(ctx, s, action)
	case ActionTakeItem:
		resp = e.handleTakeItem(ctx, s, choice)
	case ActionLeaveItem:
		resp = e.handleLeaveItem(ctx, s, choice)
	case ActionDiscardItem, ActionDiscardNew:
		resp = e.handleSwapDecision(ctx, s, action)
	default:
		if s.PendingSwap != nil {
			// Story progression stays suspended until the swap is
			// resolved; re-present the discard choices.
			resp = e.respond(s, swapScene, e.swapChoices(s))
		} else {
			resp = e.handleContinue(ctx, s, choice)
		}
	}

	if err := e.store.SaveSession(ctx, s.ID, s); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return resp, nil
}

// terminalTurn serves the two choices offered once a run has ended.
func (e *Engine) terminalTurn(ctx context.Context, s *session.Session, action Action) (*TurnResponse, error) {
	switch action.Kind {
	case ActionRestart:
		return e.Restart(ctx, s)
	case ActionNewAdventure:
		if err := e.store.DeleteSession(ctx, s.ID); err != nil {
			return nil, fmt.Errorf("failed to delete session: %w", err)
		}
		return &TurnResponse{SessionID: s.ID, Redirect: "/"}, nil
	default:
		scene := DeathScene
		if s.Victory {
			scene = VictoryScene
		}
		return e.respond(s, scene, []string{RestartChoice, NewAdventureChoice}), nil
	}
}

// Restart resets the run and replays the cached opening scene. Works
// whether or not the session has ended.
func (e *Engine) Restart(ctx context.Context, s *session.Session) (*TurnResponse, error) {
	s.Restart(e.cfg.StartingHP)
	if err := e.store.SaveSession(ctx, s.ID, s); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	t := s.LastTurn()
	if t == nil {
		return e.respond(s, ErrorScene, []string{parser.FallbackChoice}), nil
	}
	return e.respond(s, t.Scene, t.Choices), nil
}

// handleAttack resolves one combat round. A tracked monster is reused
// when the choice references it; otherwise a fresh encounter is
// synthesized from the choice text with default HP.
func (e *Engine) handleAttack(ctx context.Context, s *session.Session, action Action) *TurnResponse {
	enc := s.Encounter
	if enc == nil || enc.Kind != session.EncounterMonster || staleTarget(enc, action.Target) {
		name := action.Target
		if name == "" {
			name = "enemy"
		}
		enc = &session.Encounter{
			Kind: session.EncounterMonster,
			Name: name,
			HP:   actor.DefaultMonsterHP,
		}
		s.Encounter = enc
	}

	player, err := actor.NewPlayerFromSpec(s.Player)
	if err != nil {
		e.logger.Error("Failed to build combat actor", "error", err)
		return e.respond(s, ErrorScene, []string{parser.FallbackChoice})
	}

	m := &actor.Monster{Name: enc.Name, HP: enc.HP, MaxHP: enc.HP}
	round := combat.ResolveRound(player, m, e.roll)
	enc.HP = m.HP

	if m.IsDefeated() {
		s.ClearEncounter()
		defeatLog := fmt.Sprintf("%s The %s is defeated!", round.Log, m.Name)

		res, err := e.nextScene(ctx, prompts.PostVictory(s, m.Name))
		if err != nil {
			res = parser.Result{Scene: ErrorScene, Choices: []string{parser.FallbackChoice}}
		}
		// The follow-up was told to omit encounters; one encounter per
		// scene is a firm rule, so anything it reports anyway is
		// dropped.
		res.Encounter = ""

		scene, choices := e.applyScene(s, res, false)
		scene = defeatLog + "\n\n" + scene
		s.SceneCounter++
		s.AppendTurn(scene, choices)
		return e.checkTerminal(s, scene, choices)
	}

	// Combat continues: a sub-turn, not a story advance. The scene
	// counter holds and the history log is untouched.
	scene := fmt.Sprintf("%s The %s has %d HP remaining. You have %d.", round.Log, m.Name, m.HP, s.HP())
	return e.checkTerminal(s, scene, []string{AttackAgainChoice, FleeChoice})
}

// handleTakeItem routes a found item through the inventory, possibly
// suspending progression for a swap decision. The choice text is passed
// through so the continuation prompt quotes what the player picked.
func (e *Engine) handleTakeItem(ctx context.Context, s *session.Session, choice string) *TurnResponse {
	if s.Encounter == nil || s.Encounter.Kind != session.EncounterItem {
		return e.handleContinue(ctx, s, choice)
	}
	item := s.Encounter.Name

	result := s.TryAdd(item, e.cfg.InventoryCapacity)
	if !result.Accepted {
		// The encounter converts into a pending swap; the two are
		// never both set.
		s.ClearEncounter()
		s.PendingSwap = &session.PendingSwap{IncomingItem: item}
		return e.respond(s, swapScene, result.DiscardChoices)
	}

	s.ClearEncounter()
	return e.continueStory(ctx, s, choice, true)
}

// handleLeaveItem declines a found item and resumes the story. The
// continuation may surface a brand-new item encounter.
func (e *Engine) handleLeaveItem(ctx context.Context, s *session.Session, choice string) *TurnResponse {
	if s.Encounter != nil {
		s.ClearEncounter()
	}
	return e.continueStory(ctx, s, choice, true)
}

// handleSwapDecision applies the atomic swap (or the decline) and
// resumes the story.
func (e *Engine) handleSwapDecision(ctx context.Context, s *session.Session, action Action) *TurnResponse {
	switch action.Kind {
	case ActionDiscardItem:
		if !s.ResolveSwap(action.Target) {
			// Unknown item named; the swap stays pending.
			return e.respond(s, swapScene, e.swapChoices(s))
		}
	case ActionDiscardNew:
		s.DeclineSwap()
	}
	return e.continueStory(ctx, s, "continue onward", true)
}

// handleContinue processes a plain narrative choice. Any tracked
// monster encounter is stale once the story moves on.
func (e *Engine) handleContinue(ctx context.Context, s *session.Session, choice string) *TurnResponse {
	if s.Encounter != nil && s.Encounter.Kind == session.EncounterMonster {
		s.ClearEncounter()
	}
	return e.continueStory(ctx, s, choice, true)
}

// continueStory requests a continuation scene, applies encounter
// post-processing, advances the scene counter, and appends the turn.
// A failed generation degrades to the error scene without advancing.
func (e *Engine) continueStory(ctx context.Context, s *session.Session, choice string, allowEncounter bool) *TurnResponse {
	res, err := e.nextScene(ctx, prompts.Continuation(s, choice))
	if err != nil {
		t := s.LastTurn()
		choices := []string{parser.FallbackChoice}
		if t != nil {
			choices = t.Choices
		}
		return e.respond(s, ErrorScene, choices)
	}

	scene, choices := e.applyScene(s, res, allowEncounter)
	s.SceneCounter++
	s.AppendTurn(scene, choices)
	return e.checkTerminal(s, scene, choices)
}

// applyScene applies content filtering and encounter post-processing to
// a parsed result, returning the final scene text and choice set.
func (e *Engine) applyScene(s *session.Session, res parser.Result, allowEncounter bool) (string, []string) {
	scene := res.Scene
	if textfilter.ShouldFilter(e.cfg.ContentRating) {
		scene = e.filter.Apply(scene)
	}

	choices := res.Choices
	if allowEncounter && res.HasEncounter() && s.Encounter == nil && s.PendingSwap == nil {
		enc := encounterFromText(res.Encounter)
		s.Encounter = enc
		switch enc.Kind {
		case session.EncounterItem:
			choices = []string{
				fmt.Sprintf("Take the %s", enc.Name),
				fmt.Sprintf("Leave the %s", enc.Name),
			}
		case session.EncounterMonster:
			if !hasAttackChoice(choices) {
				choices = append(choices, fmt.Sprintf("Attack the %s", enc.Name))
			}
		}
	} else {
		// The generation service is not trusted to keep choices
		// consistent with the encounter field.
		choices = filterAttackChoices(choices)
	}

	return scene, choices
}

// checkTerminal evaluates death then victory after a mutating turn and
// returns either the terminal response or the ordinary one.
func (e *Engine) checkTerminal(s *session.Session, scene string, choices []string) *TurnResponse {
	if s.IsDead() {
		s.Ended = true
		s.Victory = false
		s.Encounter = nil
		s.PendingSwap = nil
		metrics.SessionsEnded.WithLabelValues("death").Inc()
		resp := e.respond(s, scene+"\n\n"+DeathScene, []string{RestartChoice, NewAdventureChoice})
		resp.GameOver = true
		return resp
	}

	if s.SceneCounter >= e.cfg.MaxScenes {
		s.Ended = true
		s.Victory = true
		s.Encounter = nil
		s.PendingSwap = nil
		metrics.SessionsEnded.WithLabelValues("victory").Inc()
		resp := e.respond(s, scene+"\n\n"+VictoryScene, []string{RestartChoice, NewAdventureChoice})
		resp.GameOver = true
		resp.Victory = true
		return resp
	}

	return e.respond(s, scene, choices)
}

func (e *Engine) respond(s *session.Session, scene string, choices []string) *TurnResponse {
	resp := &TurnResponse{
		SessionID: s.ID,
		Scene:     scene,
		Choices:   choices,
		CurrentHP: s.HP(),
		Inventory: s.Inventory,
	}
	if e.imageCache != nil && e.imageCache.Has(s.AdventureTitle) {
		resp.ImageURL = images.StaticPath(s.AdventureTitle)
	}
	return resp
}

// swapChoices rebuilds the discard choice set for a pending swap.
func (e *Engine) swapChoices(s *session.Session) []string {
	choices := make([]string, 0, len(s.Inventory)+1)
	for _, held := range s.Inventory {
		choices = append(choices, fmt.Sprintf("Discard %s", held))
	}
	return append(choices, session.DiscardNewItemChoice)
}

// staleTarget reports whether an attack choice names something other
// than the tracked monster.
func staleTarget(enc *session.Encounter, target string) bool {
	if target == "" {
		return false
	}
	return !strings.Contains(strings.ToLower(target), strings.ToLower(enc.Name)) &&
		!strings.Contains(strings.ToLower(enc.Name), strings.ToLower(target))
}

func hasAttackChoice(choices []string) bool {
	for _, c := range choices {
		if strings.Contains(strings.ToLower(c), "attack") {
			return true
		}
	}
	return false
}

func filterAttackChoices(choices []string) []string {
	kept := make([]string, 0, len(choices))
	for _, c := range choices {
		if !strings.Contains(strings.ToLower(c), "attack") {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		kept = []string{parser.FallbackChoice}
	}
	return kept
}
