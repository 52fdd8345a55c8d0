package actor

import (
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/dice"
)

// Enemy is a hostile combatant spawned from a mob template.
type Enemy struct {
	Combatant
	// Asleep rides along in saves for the Sleep condition. No current
	// content sets it.
	Asleep bool `json:"asleep"`
}

// NewEnemies spawns the units for a mob template. Templates with an HP
// expression roll each unit's HP independently, floored at HPMin; fixed-HP
// templates use the listed value. Count defaults to 1.
func NewEnemies(roller *dice.Roller, p *campaign.MobProfile) ([]*Enemy, error) {
	count := p.Count
	if count < 1 {
		count = 1
	}
	enemies := make([]*Enemy, 0, count)
	for i := 0; i < count; i++ {
		hp := p.HP
		if p.HPExpr != "" {
			rolled, _, err := roller.RollExpr(p.HPExpr)
			if err != nil {
				return nil, fmt.Errorf("rolling hp for %q: %w", p.Name, err)
			}
			if rolled < p.HPMin {
				rolled = p.HPMin
			}
			hp = rolled
		}
		enemies = append(enemies, &Enemy{
			Combatant: Combatant{
				Name:        p.Name,
				HP:          hp,
				MaxHP:       hp,
				AC:          p.AC,
				AttackBonus: p.AttackBonus,
				Damage:      p.Damage,
			},
		})
	}
	return enemies, nil
}
