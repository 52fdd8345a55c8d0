package rules

import "strings"

// spellInfo describes a castable damage spell.
type spellInfo struct {
	Damage string
	Mana   int
}

// damageSpells are the spells usable in combat.
var damageSpells = map[string]spellInfo{
	"Spark":         {Damage: "1d4", Mana: 2},
	"Magic Missile": {Damage: "1d6", Mana: 2},
}

// damageSpellPreference orders damage spells best-first for automatic
// casting (player special and companion AI).
var damageSpellPreference = []string{"Magic Missile", "Spark"}

// wizardLearnableSpells are the spells a Wizard can pick up at even levels,
// beyond the starting spell.
var wizardLearnableSpells = []string{"Magic Missile", "Shield", "Sleep"}

// LearnableSpells lists the spells a class can learn beyond its starting
// spells.
func LearnableSpells(class string) []string {
	if class == "Wizard" {
		return append([]string(nil), wizardLearnableSpells...)
	}
	return nil
}

// SpellChoicesForLevel returns the unlearned spells available to pick when
// reaching the given level. Choices open up at even levels from 2 on.
func SpellChoicesForLevel(class string, level int, learned []string) []string {
	learnable := LearnableSpells(class)
	if len(learnable) == 0 || level < 2 || level%2 != 0 {
		return nil
	}
	var choices []string
	for _, spell := range learnable {
		if !containsFold(learned, spell) {
			choices = append(choices, spell)
		}
	}
	return choices
}

// bestDamageSpell returns the strongest damage spell among the learned
// spells, following the preference order.
func bestDamageSpell(learned []string) (string, spellInfo, bool) {
	for _, name := range damageSpellPreference {
		if containsFold(learned, name) {
			return name, damageSpells[name], true
		}
	}
	return "", spellInfo{}, false
}

// KnownSpell reports whether the name resolves to a spell the engine can
// cast. Content checks use it to catch typos in companion spell lists.
func KnownSpell(name string) bool {
	_, ok := canonicalSpell(name)
	return ok
}

// canonicalSpell resolves a case-insensitive player token to a known spell
// name, or returns false for unknown spells.
func canonicalSpell(token string) (string, bool) {
	for _, name := range []string{"Spark", "Magic Missile", "Shield", "Sleep", "Cure Wounds", "Bless"} {
		if strings.EqualFold(token, name) {
			return name, true
		}
	}
	return "", false
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}
