package campaign

import "sort"

// Role distinguishes caster classes from melee classes.
type Role string

const (
	RoleCaster Role = "caster"
	RoleMelee  Role = "melee"
)

// ClassProfile defines a playable class: base combat numbers, starting
// spells, and per-level HP growth.
type ClassProfile struct {
	Name        string   `json:"name"`
	Role        Role     `json:"role"`
	BaseHP      int      `json:"base_hp"`
	BaseAC      int      `json:"base_ac"`
	AttackBonus int      `json:"attack_bonus"`
	Damage      string   `json:"damage"`
	Spells      []string `json:"spells,omitempty"`
	Description string   `json:"description,omitempty"`
	HPPerLevel  int      `json:"hp_per_level"`
}

// RaceProfile defines a playable race. Stat modifiers are applied at
// character creation and clamped into [0, 4] per stat.
type RaceProfile struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	StatMods    map[string]int `json:"stat_mods,omitempty"`
}

var classProfiles = map[string]ClassProfile{
	"Fighter": {
		Name:        "Fighter",
		Role:        RoleMelee,
		BaseHP:      14,
		BaseAC:      15,
		AttackBonus: 3,
		Damage:      "1d8+1",
		Description: "Hardy frontline combatant.",
		HPPerLevel:  2,
	},
	"Rogue": {
		Name:        "Rogue",
		Role:        RoleMelee,
		BaseHP:      10,
		BaseAC:      14,
		AttackBonus: 2,
		Damage:      "1d6+1",
		Description: "Agile skirmisher with precision strikes.",
		HPPerLevel:  1,
	},
	"Wizard": {
		Name:        "Wizard",
		Role:        RoleCaster,
		BaseHP:      8,
		BaseAC:      12,
		AttackBonus: 1,
		Damage:      "1d4+1",
		Spells:      []string{"Spark"},
		Description: "Arcane caster with limited stamina.",
		HPPerLevel:  1,
	},
	"Cleric": {
		Name:        "Cleric",
		Role:        RoleCaster,
		BaseHP:      12,
		BaseAC:      14,
		AttackBonus: 2,
		Damage:      "1d6+1",
		Spells:      []string{"Cure Wounds"},
		Description: "Divine healer and support caster.",
		HPPerLevel:  1,
	},
}

var raceProfiles = map[string]RaceProfile{
	"Human": {
		Name:        "Human",
		Description: "Versatile and adaptable.",
	},
	"Elf": {
		Name:        "Elf",
		Description: "Graceful and perceptive, with keen senses.",
		StatMods:    map[string]int{"DEX": 1, "INT": 1},
	},
	"Dwarf": {
		Name:        "Dwarf",
		Description: "Sturdy and resilient, at home underground.",
		StatMods:    map[string]int{"STR": 1, "CON": 1, "CHA": -1},
	},
	"Halfling": {
		Name:        "Halfling",
		Description: "Small and nimble, quick to avoid danger.",
		StatMods:    map[string]int{"DEX": 1, "STR": -1},
	},
}

// ClassNames lists the playable classes in a stable order.
func ClassNames() []string {
	names := make([]string, 0, len(classProfiles))
	for name := range classProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Class resolves a class profile by name.
func Class(name string) (ClassProfile, bool) {
	p, ok := classProfiles[name]
	return p, ok
}

// IsCasterClass reports whether the named class has the caster role.
func IsCasterClass(name string) bool {
	p, ok := classProfiles[name]
	return ok && p.Role == RoleCaster
}

// RaceNames lists the playable races in a stable order.
func RaceNames() []string {
	names := make([]string, 0, len(raceProfiles))
	for name := range raceProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Race resolves a race profile by name.
func Race(name string) (RaceProfile, bool) {
	p, ok := raceProfiles[name]
	return p, ok
}
