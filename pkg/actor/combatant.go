// Package actor defines the entities that fight and explore: the player
// character, companions, and enemies. All share the Combatant core, which
// owns the HP clamping rules.
package actor

// Combatant is the shared combat core: name, hit points, armor class, and
// the melee attack profile.
type Combatant struct {
	Name        string `json:"name"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"max_hp"`
	AC          int    `json:"ac"`
	AttackBonus int    `json:"attack_bonus"`
	Damage      string `json:"damage"`
}

// TakeDamage reduces HP by n. HP cannot go below 0.
func (c *Combatant) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	c.HP -= n
	if c.HP < 0 {
		c.HP = 0
	}
}

// Heal increases HP by n. HP cannot exceed MaxHP. Returns the amount
// actually healed.
func (c *Combatant) Heal(n int) int {
	if n <= 0 {
		return 0
	}
	before := c.HP
	c.HP += n
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	return c.HP - before
}

// IsDown reports whether the combatant is at 0 HP or less.
func (c *Combatant) IsDown() bool {
	return c.HP <= 0
}
