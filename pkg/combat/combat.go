// Package combat resolves single rounds of opposed d20 contests between
// the adventurer and a monster.
package combat

import (
	"fmt"
	"math/rand/v2"

	"github.com/questforge/questforge/pkg/actor"
)

const (
	d20Sides = 20
	d4Sides  = 4

	// critBase is the flat damage a natural 20 deals before the d4 rider.
	critBase = 5
)

// Roller returns a uniform integer in [1, sides]. Injecting the roller
// keeps round resolution deterministic under test.
type Roller func(sides int) int

// NewRoller returns a Roller backed by the default random source.
func NewRoller() Roller {
	return func(sides int) int {
		return rand.IntN(sides) + 1
	}
}

// RoundResult describes one resolved round. HP mutations have already
// been applied to the combatants when it is returned.
type RoundResult struct {
	Log         string
	PlayerRoll  int
	MonsterRoll int
}

// ResolveRound rolls one opposed contest and applies damage to the loser.
// The higher roll deals damage equal to the difference; a natural 20
// instead deals critBase plus a d4, regardless of the margin. A tie
// harms no one. Exactly one log line is produced per round.
func ResolveRound(player *actor.Player, monster *actor.Monster, roll Roller) RoundResult {
	pr := roll(d20Sides)
	mr := roll(d20Sides)

	res := RoundResult{PlayerRoll: pr, MonsterRoll: mr}

	switch {
	case pr > mr:
		dmg := pr - mr
		if pr == d20Sides {
			dmg = critBase + roll(d4Sides)
			res.Log = fmt.Sprintf("You roll %d against the %s's %d. A critical hit for %d damage!", pr, monster.Name, mr, dmg)
		} else {
			res.Log = fmt.Sprintf("You roll %d against the %s's %d and strike for %d damage.", pr, monster.Name, mr, dmg)
		}
		monster.TakeDamage(dmg)
	case mr > pr:
		dmg := mr - pr
		if mr == d20Sides {
			dmg = critBase + roll(d4Sides)
			res.Log = fmt.Sprintf("You roll %d, but the %s rolls %d. A critical blow for %d damage!", pr, monster.Name, mr, dmg)
		} else {
			res.Log = fmt.Sprintf("You roll %d, but the %s rolls %d and wounds you for %d damage.", pr, monster.Name, mr, dmg)
		}
		player.TakeDamage(dmg)
	default:
		res.Log = fmt.Sprintf("You and the %s both roll %d. Your blades clash and neither lands a hit.", monster.Name, pr)
	}

	return res
}
