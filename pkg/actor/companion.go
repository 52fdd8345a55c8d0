package actor

import "github.com/jwebster45206/adventure-engine/pkg/campaign"

// Companion is an allied NPC that acts automatically each combat round.
type Companion struct {
	Combatant
	ID                string   `json:"id,omitempty"`
	Mana              int      `json:"mana"`
	MaxMana           int      `json:"max_mana"`
	LearnedSpells     []string `json:"learned_spells"`
	DefendHPThreshold int      `json:"defend_hp_threshold"`
}

// NewCompanion instantiates a companion from its campaign template.
func NewCompanion(p *campaign.CompanionProfile) *Companion {
	return &Companion{
		Combatant: Combatant{
			Name:        p.Name,
			HP:          p.HP,
			MaxHP:       p.MaxHP,
			AC:          p.AC,
			AttackBonus: p.AttackBonus,
			Damage:      p.Damage,
		},
		ID:                p.ID,
		Mana:              p.Mana,
		MaxMana:           p.MaxMana,
		LearnedSpells:     append([]string(nil), p.Spells...),
		DefendHPThreshold: p.DefendHPThreshold,
	}
}
