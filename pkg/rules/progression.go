package rules

import (
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// xpTable is the XP required to reach each level; index 0 is level 1.
// Levels beyond the table cannot be reached by XP alone.
var xpTable = []int{0, 100, 250, 500, 1000, 2000, 3500, 5000, 7000, 10000}

// XPForLevel returns the total XP required to reach a level.
func XPForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	idx := level - 1
	if idx >= len(xpTable) {
		idx = len(xpTable) - 1
	}
	return xpTable[idx]
}

// GrantXP adds XP to the player and applies every level-up the new total
// affords. Spell choices unlocked by a level-up are queued as pending
// decisions instead of being resolved inline. Returns level-up messages.
func (e *Engine) GrantXP(gs *state.GameState, amount int) []string {
	if amount <= 0 {
		return nil
	}
	gs.Player.XP += amount
	var messages []string
	for gs.Player.Level < len(xpTable) && gs.Player.XP >= XPForLevel(gs.Player.Level+1) {
		messages = append(messages, e.applyLevelUp(gs))
	}
	return messages
}

func (e *Engine) applyLevelUp(gs *state.GameState) string {
	player := gs.Player
	player.Level++

	hpPerLevel := 1
	if profile, ok := campaign.Class(player.Class); ok {
		hpPerLevel = profile.HPPerLevel
	}
	player.MaxHP += hpPerLevel
	player.HP += hpPerLevel
	if player.Level%2 == 0 {
		player.AttackBonus++
	}
	if player.IsCaster() {
		player.MaxMana += 2
		player.Mana = player.MaxMana
	}

	if choices := SpellChoicesForLevel(player.Class, player.Level, player.LearnedSpells); len(choices) > 0 {
		gs.PendingDecisions = append(gs.PendingDecisions, state.PendingDecision{
			Type:    "spell",
			Level:   player.Level,
			Choices: choices,
		})
	}

	e.logger.Info("level up", "player", player.Name, "level", player.Level, "xp", player.XP)
	return fmt.Sprintf("Level up! %s is now level %d.", player.Name, player.Level)
}

// FinishCampaign applies campaign-completion rewards: completion XP and
// removal of the campaign's quest items from inventory and equipment.
// Call when the game ends with the player alive.
func (e *Engine) FinishCampaign(gs *state.GameState) ([]string, error) {
	c, err := e.registry.Campaign(gs.CampaignID)
	if err != nil {
		return nil, err
	}
	var messages []string
	if c.CompletionXP > 0 {
		messages = e.GrantXP(gs, c.CompletionXP)
	}
	e.stripQuestItems(gs)
	SyncPlayerAC(gs)
	return messages, nil
}

func (e *Engine) stripQuestItems(gs *state.GameState) {
	questIDs := make(map[string]bool)
	for _, id := range e.registry.QuestItemIDs(gs.CampaignID) {
		questIDs[id] = true
	}
	if len(questIDs) == 0 {
		return
	}
	kept := gs.Inventory[:0]
	for _, item := range gs.Inventory {
		if !questIDs[item.ID] {
			kept = append(kept, item)
		}
	}
	gs.Inventory = kept
	for slot, item := range gs.Equipment {
		if item != nil && questIDs[item.ID] {
			gs.Equipment[slot] = nil
		}
	}
}
