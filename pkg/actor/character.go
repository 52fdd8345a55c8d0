package actor

import (
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/campaign"
)

// Character is the player character. BaseAC is the unmodified class AC;
// AC is kept in sync with equipped armor by the rules engine.
type Character struct {
	Combatant
	Race          string   `json:"race"`
	Class         string   `json:"class"`
	Stats         Stats    `json:"stats"`
	BaseAC        int      `json:"base_ac"`
	Mana          int      `json:"mana"`
	MaxMana       int      `json:"max_mana"`
	Gold          int      `json:"gold"`
	XP            int      `json:"xp"`
	Level         int      `json:"level"`
	LearnedSpells []string `json:"learned_spells"`
}

// NewCharacter creates a level-1 character from the class and race profiles.
// Race stat modifiers are applied to the allocated scores and each stat is
// clamped into [0, 4]. HP gains the CON bonus; casters start with mana
// derived from their casting stat.
func NewCharacter(name, class, race string, allocated Stats) (*Character, error) {
	profile, ok := campaign.Class(class)
	if !ok {
		return nil, fmt.Errorf("unknown class %q", class)
	}
	raceProfile, ok := campaign.Race(race)
	if !ok {
		return nil, fmt.Errorf("unknown race %q", race)
	}

	stats := allocated.Clone()
	for key, mod := range raceProfile.StatMods {
		if _, known := stats[key]; !known {
			continue
		}
		v := stats[key] + mod
		if v < 0 {
			v = 0
		}
		if v > 4 {
			v = 4
		}
		stats[key] = v
	}

	conBonus := stats.Get("CON")
	if conBonus < 0 {
		conBonus = 0
	}
	hp := profile.BaseHP + conBonus

	mana := 0
	if profile.Role == campaign.RoleCaster {
		mana = casterMana(class, stats)
	}

	return &Character{
		Combatant: Combatant{
			Name:        name,
			HP:          hp,
			MaxHP:       hp,
			AC:          profile.BaseAC,
			AttackBonus: profile.AttackBonus,
			Damage:      profile.Damage,
		},
		Race:          race,
		Class:         class,
		Stats:         stats,
		BaseAC:        profile.BaseAC,
		Mana:          mana,
		MaxMana:       mana,
		Level:         1,
		LearnedSpells: append([]string(nil), profile.Spells...),
	}, nil
}

// casterMana derives the starting mana pool from the casting stat:
// WIS for Clerics, INT otherwise.
func casterMana(class string, stats Stats) int {
	key := "INT"
	if class == "Cleric" {
		key = "WIS"
	}
	mod := stats.Get(key)
	if mod < 0 {
		mod = 0
	}
	return 2 + mod*2
}

// IsCaster reports whether the character's class is a caster class.
func (c *Character) IsCaster() bool {
	return campaign.IsCasterClass(c.Class)
}

// EnsureMana repairs the mana pool after loading a save: casters with a
// zero pool get it rebuilt from their stats, and mana is clamped to max.
func (c *Character) EnsureMana() {
	if !c.IsCaster() {
		return
	}
	if c.MaxMana <= 0 {
		c.MaxMana = casterMana(c.Class, c.Stats)
		c.Mana = c.MaxMana
		return
	}
	if c.Mana > c.MaxMana {
		c.Mana = c.MaxMana
	}
}

// Knows reports whether the character has learned the named spell.
func (c *Character) Knows(spell string) bool {
	for _, s := range c.LearnedSpells {
		if s == spell {
			return true
		}
	}
	return false
}
