package actor

import (
	"fmt"

	"github.com/jwebster45206/d20"
)

// DefaultPlayerAC is the armor class assigned to new adventurers.
// Armor is narrative-only for now; combat contests are opposed rolls.
const DefaultPlayerAC = 12

// PlayerSpec is the serializable state of the adventurer. It is what
// gets persisted inside a session; the d20 actor is rebuilt from it at
// runtime.
type PlayerSpec struct {
	Name  string `json:"name"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
	AC    int    `json:"ac"`
}

// NewPlayerSpec creates a spec at full health.
func NewPlayerSpec(name string, hp int) *PlayerSpec {
	return &PlayerSpec{
		Name:  name,
		HP:    hp,
		MaxHP: hp,
		AC:    DefaultPlayerAC,
	}
}

// TakeDamage reduces HP by n, clamped at 0.
func (p *PlayerSpec) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	p.HP -= n
	if p.HP < 0 {
		p.HP = 0
	}
}

// Player is the runtime representation of the adventurer, pairing the
// persisted spec with a d20 actor.
type Player struct {
	Spec  *PlayerSpec
	Actor *d20.Actor
}

// NewPlayerFromSpec builds a Player from a PlayerSpec.
func NewPlayerFromSpec(spec *PlayerSpec) (*Player, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}

	a, err := d20.NewActor(spec.Name).
		WithHP(spec.MaxHP).
		WithAC(spec.AC).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	if spec.HP != spec.MaxHP && spec.HP > 0 {
		if err := a.SetHP(spec.HP); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}

	return &Player{Spec: spec, Actor: a}, nil
}

// TakeDamage applies damage to the spec and mirrors the surviving HP
// into the d20 actor. d20 rejects non-positive HP, so a killing blow
// leaves only the spec at zero.
func (p *Player) TakeDamage(n int) {
	p.Spec.TakeDamage(n)
	if p.Spec.HP > 0 {
		_ = p.Actor.SetHP(p.Spec.HP)
	}
}

// HP reports current hit points. The spec is the source of truth; the
// actor tracks it while the player lives.
func (p *Player) HP() int {
	return p.Spec.HP
}
