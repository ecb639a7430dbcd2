package actor

import "testing"

func TestNewPlayerSpec(t *testing.T) {
	p := NewPlayerSpec("Adventurer", 20)

	if p.HP != 20 || p.MaxHP != 20 {
		t.Errorf("Expected full health at 20, got %d/%d", p.HP, p.MaxHP)
	}
	if p.AC != DefaultPlayerAC {
		t.Errorf("Expected default AC %d, got %d", DefaultPlayerAC, p.AC)
	}
}

func TestPlayerSpec_TakeDamage(t *testing.T) {
	p := NewPlayerSpec("Adventurer", 10)

	p.TakeDamage(3)
	if p.HP != 7 {
		t.Errorf("Expected 7 HP, got %d", p.HP)
	}

	p.TakeDamage(0)
	p.TakeDamage(-5)
	if p.HP != 7 {
		t.Errorf("Non-positive damage must be a no-op, got %d", p.HP)
	}

	p.TakeDamage(100)
	if p.HP != 0 {
		t.Errorf("HP should clamp at 0, got %d", p.HP)
	}
}

func TestNewPlayerFromSpec(t *testing.T) {
	spec := NewPlayerSpec("Adventurer", 20)
	spec.TakeDamage(5)

	player, err := NewPlayerFromSpec(spec)
	if err != nil {
		t.Fatalf("Failed to build player: %v", err)
	}

	if player.Actor.HP() != 15 {
		t.Errorf("Expected actor at 15 HP, got %d", player.Actor.HP())
	}
	if player.Actor.MaxHP() != 20 {
		t.Errorf("Expected 20 max HP, got %d", player.Actor.MaxHP())
	}
	if player.Actor.AC() != DefaultPlayerAC {
		t.Errorf("Expected AC %d, got %d", DefaultPlayerAC, player.Actor.AC())
	}
}

func TestPlayer_TakeDamage(t *testing.T) {
	player, err := NewPlayerFromSpec(NewPlayerSpec("Adventurer", 20))
	if err != nil {
		t.Fatalf("Failed to build player: %v", err)
	}

	player.TakeDamage(6)
	if player.HP() != 14 {
		t.Errorf("Expected 14 HP, got %d", player.HP())
	}
	if player.Actor.HP() != 14 {
		t.Errorf("Actor should mirror the spec, got %d HP", player.Actor.HP())
	}

	// A killing blow zeroes the spec; the actor keeps its last positive
	// HP because d20 rejects non-positive values.
	player.TakeDamage(50)
	if player.HP() != 0 {
		t.Errorf("Expected 0 HP, got %d", player.HP())
	}
}

func TestNewPlayerFromSpec_NilSpec(t *testing.T) {
	if _, err := NewPlayerFromSpec(nil); err == nil {
		t.Error("Expected error for nil spec")
	}
}

func TestNewMonster(t *testing.T) {
	m := NewMonster("goblin", 8)
	if m.HP != 8 || m.MaxHP != 8 {
		t.Errorf("Expected full health at 8, got %d/%d", m.HP, m.MaxHP)
	}

	fallback := NewMonster("shade", 0)
	if fallback.HP != DefaultMonsterHP {
		t.Errorf("Non-positive HP should fall back to %d, got %d", DefaultMonsterHP, fallback.HP)
	}
}

func TestMonster_TakeDamageAndDefeat(t *testing.T) {
	m := NewMonster("goblin", 8)

	m.TakeDamage(3)
	if m.HP != 5 {
		t.Errorf("Expected 5 HP, got %d", m.HP)
	}
	if m.IsDefeated() {
		t.Error("Monster should not be defeated at 5 HP")
	}

	m.TakeDamage(10)
	if m.HP != 0 {
		t.Errorf("HP should clamp at 0, got %d", m.HP)
	}
	if !m.IsDefeated() {
		t.Error("Monster should be defeated at 0 HP")
	}
}
