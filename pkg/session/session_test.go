package session

import (
	"encoding/json"
	"testing"
)

func TestNew(t *testing.T) {
	s := New("The Lost Mine", 20)

	if s.AdventureTitle != "The Lost Mine" {
		t.Errorf("Unexpected title: %q", s.AdventureTitle)
	}
	if s.SceneCounter != 1 {
		t.Errorf("Scene counter should start at 1, got %d", s.SceneCounter)
	}
	if s.HP() != 20 {
		t.Errorf("Expected 20 HP, got %d", s.HP())
	}
	if s.Player.MaxHP != 20 {
		t.Errorf("Expected 20 max HP, got %d", s.Player.MaxHP)
	}
	if len(s.Inventory) != 0 {
		t.Errorf("Inventory should start empty, got %v", s.Inventory)
	}
	if s.Ended || s.Victory {
		t.Error("New session should not be ended")
	}
	if s.ID.String() == "" {
		t.Error("Session should have an ID")
	}
}

func TestAppendTurnAndLastTurn(t *testing.T) {
	s := New("Test", 20)

	if s.LastTurn() != nil {
		t.Error("Empty history should have no last turn")
	}

	s.AppendTurn("First scene", []string{"Go on"})
	s.AppendTurn("Second scene", []string{"Left", "Right"})

	last := s.LastTurn()
	if last == nil {
		t.Fatal("Expected a last turn")
	}
	if last.Scene != "Second scene" {
		t.Errorf("Unexpected last scene: %q", last.Scene)
	}
	if len(last.Choices) != 2 {
		t.Errorf("Unexpected choices: %v", last.Choices)
	}
	if len(s.History) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(s.History))
	}
}

func TestIsDead(t *testing.T) {
	s := New("Test", 5)
	if s.IsDead() {
		t.Error("Fresh session should not be dead")
	}

	s.Player.TakeDamage(5)
	if !s.IsDead() {
		t.Errorf("Expected dead at 0 HP, got %d", s.HP())
	}
	if s.HP() != 0 {
		t.Errorf("HP should clamp at 0, got %d", s.HP())
	}
}

func TestRestart(t *testing.T) {
	s := New("Test", 20)
	s.AppendTurn("Opening scene", []string{"Begin"})
	opening := *s.LastTurn()
	s.Opening = &opening

	// Simulate a played-out run.
	s.AppendTurn("Scene two", []string{"Onward"})
	s.SceneCounter = 7
	s.Inventory = []string{"rope", "lantern"}
	s.Player.TakeDamage(20)
	s.Encounter = &Encounter{Kind: EncounterMonster, Name: "ghoul", HP: 4}
	s.PendingSwap = &PendingSwap{IncomingItem: "gem"}
	s.Ended = true
	s.Victory = false

	s.Restart(20)

	if s.HP() != 20 {
		t.Errorf("Expected full HP after restart, got %d", s.HP())
	}
	if s.SceneCounter != 1 {
		t.Errorf("Scene counter should reset to 1, got %d", s.SceneCounter)
	}
	if len(s.Inventory) != 0 {
		t.Errorf("Inventory should be empty, got %v", s.Inventory)
	}
	if s.Encounter != nil || s.PendingSwap != nil {
		t.Error("Encounter state should be cleared")
	}
	if s.Ended || s.Victory {
		t.Error("Terminal flags should be cleared")
	}
	if len(s.History) != 1 {
		t.Fatalf("History should hold only the opening, got %d entries", len(s.History))
	}
	if s.History[0].Scene != "Opening scene" {
		t.Errorf("History should replay the cached opening, got %q", s.History[0].Scene)
	}
	if s.AdventureTitle != "Test" {
		t.Error("Title should survive restart")
	}
}

func TestRestart_NoCachedOpening(t *testing.T) {
	s := New("Test", 20)
	s.AppendTurn("Some scene", []string{"Go"})

	s.Restart(20)

	if len(s.History) != 0 {
		t.Errorf("Without a cached opening, history should be empty, got %d", len(s.History))
	}
}

func TestSession_JSONRoundTrip(t *testing.T) {
	s := New("The Sunken City", 20)
	s.AppendTurn("Waves crash.", []string{"Dive", "Wait"})
	s.Inventory = []string{"trident"}
	s.Encounter = &Encounter{Kind: EncounterItem, Name: "pearl"}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var loaded Session
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if loaded.ID != s.ID {
		t.Errorf("ID mismatch: %v vs %v", loaded.ID, s.ID)
	}
	if loaded.Encounter == nil || loaded.Encounter.Kind != EncounterItem {
		t.Errorf("Encounter did not survive round trip: %+v", loaded.Encounter)
	}
	if loaded.HP() != 20 {
		t.Errorf("Player HP mismatch: %d", loaded.HP())
	}
}
