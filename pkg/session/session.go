package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/questforge/questforge/pkg/actor"
)

// EncounterKind distinguishes the two encounter types a scene can surface.
type EncounterKind string

const (
	EncounterMonster EncounterKind = "monster"
	EncounterItem    EncounterKind = "item"
)

// Encounter is the single live encounter tracked by a session.
// At most one encounter exists at a time; it is cleared when resolved
// (monster defeated, item taken or left, swap completed).
type Encounter struct {
	Kind EncounterKind `json:"kind"`
	Name string        `json:"name"`
	HP   int           `json:"hp,omitempty"` // monsters only
}

// PendingSwap is set while the player is choosing which item to discard
// to make room for a newly found one. It is mutually exclusive with a
// fresh item encounter.
type PendingSwap struct {
	IncomingItem string `json:"incoming_item"`
}

// Turn is an immutable snapshot of one scene and the choices presented
// with it. Turns are appended to the session history and never modified.
type Turn struct {
	Scene   string   `json:"scene"`
	Choices []string `json:"choices"`
}

// Session is the full state of one adventure playthrough.
// It is owned exclusively by the request handling the current turn and
// written back to storage atomically at the end of the turn.
type Session struct {
	ID             uuid.UUID         `json:"id"`
	AdventureTitle string            `json:"adventure_title"`
	History        []Turn            `json:"history"`
	Player         *actor.PlayerSpec `json:"player"`
	SceneCounter   int               `json:"scene_counter"`
	Inventory      []string          `json:"inventory,omitempty"`
	Encounter      *Encounter        `json:"encounter,omitempty"`
	PendingSwap    *PendingSwap      `json:"pending_swap,omitempty"`
	Ended          bool              `json:"ended,omitempty"`
	Victory        bool              `json:"victory,omitempty"`

	// Opening is the first turn captured at adventure start, replayed
	// verbatim on restart to avoid a redundant generation call.
	Opening *Turn `json:"opening,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a fresh session for the given adventure title.
func New(title string, startingHP int) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		AdventureTitle: title,
		History:        make([]Turn, 0),
		Player:         actor.NewPlayerSpec("Adventurer", startingHP),
		SceneCounter:   1,
		Inventory:      make([]string, 0),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AppendTurn records a scene and its choices in the history log.
func (s *Session) AppendTurn(scene string, choices []string) {
	s.History = append(s.History, Turn{Scene: scene, Choices: choices})
}

// LastTurn returns the most recent turn, or nil for an empty history.
func (s *Session) LastTurn() *Turn {
	if len(s.History) == 0 {
		return nil
	}
	return &s.History[len(s.History)-1]
}

// HP returns the player's current hit points.
func (s *Session) HP() int {
	if s.Player == nil {
		return 0
	}
	return s.Player.HP
}

// ClearEncounter resets the active encounter to absent.
func (s *Session) ClearEncounter() {
	s.Encounter = nil
}

// IsDead reports whether the player has been reduced to 0 HP or below.
func (s *Session) IsDead() bool {
	return s.HP() <= 0
}

// Restart resets the run-scoped state (hit points, scene counter,
// inventory, encounters) while keeping the adventure title and the
// cached opening turn. History restarts from the opening snapshot.
func (s *Session) Restart(startingHP int) {
	s.Player = actor.NewPlayerSpec(s.Player.Name, startingHP)
	s.SceneCounter = 1
	s.Inventory = make([]string, 0)
	s.Encounter = nil
	s.PendingSwap = nil
	s.Ended = false
	s.Victory = false
	s.History = make([]Turn, 0)
	if s.Opening != nil {
		s.History = append(s.History, *s.Opening)
	}
	s.UpdatedAt = time.Now()
}
