package actor

// DefaultMonsterHP is assigned when a monster is synthesized from choice
// text and the narrative never stated its toughness.
const DefaultMonsterHP = 10

// Monster is a creature surfaced by an encounter. Monsters live only for
// the duration of their encounter and are tracked inside the session.
type Monster struct {
	Name  string `json:"name"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
}

// NewMonster creates a monster at full health. A non-positive hp falls
// back to DefaultMonsterHP.
func NewMonster(name string, hp int) *Monster {
	if hp <= 0 {
		hp = DefaultMonsterHP
	}
	return &Monster{Name: name, HP: hp, MaxHP: hp}
}

// TakeDamage reduces the monster's HP by n. HP cannot go below 0.
func (m *Monster) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	m.HP -= n
	if m.HP < 0 {
		m.HP = 0
	}
}

// IsDefeated returns true if the monster's HP is 0 or less.
func (m *Monster) IsDefeated() bool {
	return m.HP <= 0
}
