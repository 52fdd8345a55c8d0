// Command validate checks campaign content integrity: exit targets, loot
// tables, mob and companion references, and dice expressions. Content
// errors are fatal here so they never surface as gameplay messages.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/dice"
	"github.com/jwebster45206/adventure-engine/pkg/rules"
)

func main() {
	validator := &CampaignValidator{roller: dice.New()}

	failed := false
	for _, c := range campaign.Default().Campaigns() {
		fmt.Printf("Validating %s...\n", c.ID)
		if errs := validator.Validate(c); len(errs) > 0 {
			failed = true
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "  %s\n", e)
			}
		}
	}
	if failed {
		fmt.Fprintln(os.Stderr, "Validation failed")
		os.Exit(1)
	}
	fmt.Println("All campaigns are valid!")
}

type CampaignValidator struct {
	roller *dice.Roller
	errors []string
}

// Validate runs every check against one campaign and returns the
// accumulated violations.
func (v *CampaignValidator) Validate(c *campaign.Campaign) []string {
	v.errors = nil

	v.validateRoomOrder(c)
	for id, room := range c.Rooms {
		v.validateRoom(c, id, &room)
	}
	v.validateExits(c)
	for name, mob := range c.Mobs {
		v.validateMob(c, name, &mob)
	}
	for id, companion := range c.Companions {
		v.validateCompanion(id, &companion)
	}
	for _, id := range c.DefaultCompanionIDs {
		if _, ok := c.Companions[id]; !ok {
			v.errorf("default companion %q is not in the companion table", id)
		}
	}
	if c.CompletionXP < 0 {
		v.errorf("completion XP must not be negative")
	}

	return v.errors
}

func (v *CampaignValidator) validateRoomOrder(c *campaign.Campaign) {
	if len(c.RoomOrder) == 0 {
		v.errorf("room order is empty")
	}
	for _, id := range c.RoomOrder {
		if _, ok := c.Rooms[id]; !ok {
			v.errorf("room order references unknown room %q", id)
		}
	}
}

func (v *CampaignValidator) validateRoom(c *campaign.Campaign, id string, room *campaign.Room) {
	switch room.Kind {
	case campaign.RoomSocial:
		if room.Social == nil {
			v.errorf("social room %q has no social check", id)
		} else {
			v.validateStat(fmt.Sprintf("room %q social check", id), room.Social.Stat)
		}
	case campaign.RoomCombat:
		if room.EnemyName == "" {
			v.errorf("combat room %q names no enemy", id)
		} else if _, ok := c.Mobs[room.EnemyName]; !ok {
			v.errorf("combat room %q references unknown mob %q", id, room.EnemyName)
		}
	case campaign.RoomLoot:
		if room.Loot == nil {
			v.errorf("loot room %q has no loot check", id)
			return
		}
		v.validateStat(fmt.Sprintf("room %q loot check", id), room.Loot.Stat)
		if room.Loot.WinItemID != "" {
			if _, ok := c.Items[room.Loot.WinItemID]; !ok {
				v.errorf("loot room %q references unknown item %q", id, room.Loot.WinItemID)
			}
		}
	case campaign.RoomPassage:
		// Nothing kind-specific to check.
	default:
		v.errorf("room %q has unknown kind %q", id, room.Kind)
	}
}

func (v *CampaignValidator) validateExits(c *campaign.Campaign) {
	for from, exits := range c.Exits {
		if _, ok := c.Rooms[from]; !ok {
			v.errorf("exits defined for unknown room %q", from)
		}
		for direction, to := range exits {
			if _, ok := c.Rooms[to]; !ok {
				v.errorf("exit %q -> %q targets unknown room %q", from, direction, to)
			}
		}
	}
}

func (v *CampaignValidator) validateMob(c *campaign.Campaign, name string, mob *campaign.MobProfile) {
	if mob.HP <= 0 && mob.HPExpr == "" {
		v.errorf("mob %q has neither fixed HP nor an HP expression", name)
	}
	v.validateDice(fmt.Sprintf("mob %q HP", name), mob.HPExpr)
	v.validateDice(fmt.Sprintf("mob %q damage", name), mob.Damage)
	v.validateDice(fmt.Sprintf("mob %q loot gold", name), mob.Loot.Gold)
	for _, itemID := range mob.Loot.Items {
		if _, ok := c.Items[itemID]; !ok {
			v.errorf("mob %q loot references unknown item %q", name, itemID)
		}
	}
	if mob.XP < 0 {
		v.errorf("mob %q has negative XP", name)
	}
}

func (v *CampaignValidator) validateCompanion(id string, companion *campaign.CompanionProfile) {
	if companion.Name == "" {
		v.errorf("companion %q has no name", id)
	}
	if companion.MaxHP <= 0 {
		v.errorf("companion %q has no HP", id)
	}
	v.validateDice(fmt.Sprintf("companion %q damage", id), companion.Damage)
	for _, spell := range companion.Spells {
		if !rules.KnownSpell(spell) {
			v.errorf("companion %q lists unknown spell %q", id, spell)
		}
	}
	if len(companion.Spells) > 0 && companion.MaxMana <= 0 {
		v.errorf("companion %q has spells but no mana pool", id)
	}
}

// validateDice parses a dice expression by rolling it once. Empty
// expressions are allowed where the field is optional.
func (v *CampaignValidator) validateDice(context, expr string) {
	if expr == "" {
		return
	}
	if _, _, err := v.roller.RollExpr(expr); err != nil {
		v.errorf("%s: bad dice expression %q: %v", context, expr, err)
	}
}

func (v *CampaignValidator) validateStat(context, stat string) {
	for _, name := range actor.StatNames {
		if stat == name {
			return
		}
	}
	v.errorf("%s: unknown stat %q (want one of %s)", context, stat, strings.Join(actor.StatNames, ", "))
}

func (v *CampaignValidator) errorf(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}
