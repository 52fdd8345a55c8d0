package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// InventoryUsed counts the items that occupy pack capacity. Quest items
// are exempt.
func InventoryUsed(gs *state.GameState) int {
	used := 0
	for _, item := range gs.Inventory {
		if item.CountsTowardLimit {
			used++
		}
	}
	return used
}

// CanAddItem reports whether the item fits in the pack.
func CanAddItem(gs *state.GameState, item campaign.Item) bool {
	if !item.CountsTowardLimit {
		return true
	}
	return InventoryUsed(gs) < gs.InventoryLimit
}

// AddItem places an item in the pack, failing when capacity is reached.
func AddItem(gs *state.GameState, item campaign.Item) (bool, string) {
	if !CanAddItem(gs, item) {
		return false, "Inventory is full."
	}
	gs.Inventory = append(gs.Inventory, item)
	return true, fmt.Sprintf("Added %s to your pack.", item.Name)
}

// EquipmentACBonus sums the AC bonuses of all equipped armor.
func EquipmentACBonus(gs *state.GameState) int {
	bonus := 0
	for _, item := range gs.Equipment {
		if item != nil && item.Effect != nil && item.Effect.Kind == campaign.EffectAC {
			bonus += item.Effect.Bonus
		}
	}
	return bonus
}

// SyncPlayerAC recomputes the player's AC from base AC plus equipment.
func SyncPlayerAC(gs *state.GameState) {
	gs.Player.AC = gs.Player.BaseAC + EquipmentACBonus(gs)
}

// findItem resolves a fuzzy item query against the inventory: exact id or
// name, name substring, or kind synonyms (potion/healing/heal for potions,
// armor/armour for armor). Ambiguity is a user error listing candidates.
func findItem(gs *state.GameState, query string, kindFilter campaign.ItemKind) (int, string) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return -1, "Use what?"
	}
	var matches []int
	for i, item := range gs.Inventory {
		if kindFilter != "" && item.Kind != kindFilter {
			continue
		}
		name := strings.ToLower(item.Name)
		id := strings.ToLower(item.ID)
		switch {
		case query == name || query == id || strings.Contains(name, query):
			matches = append(matches, i)
		case item.Kind == campaign.ItemPotion && (query == "potion" || query == "healing" || query == "heal"):
			matches = append(matches, i)
		case item.Kind == campaign.ItemArmor && (query == "armor" || query == "armour"):
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return -1, "You don't have that."
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, idx := range matches {
			names[i] = gs.Inventory[idx].Name
		}
		return -1, "Be more specific or use an item number: " + strings.Join(names, ", ")
	}
	return matches[0], ""
}

// useItem consumes a potion on the player or companion. Target keywords
// pick a side explicitly; otherwise the potion goes to whichever side has
// the lower HP ratio, favoring the player on ties.
func (e *Engine) useItem(gs *state.GameState, query, target string) (bool, string) {
	idx, errMsg := findItem(gs, query, campaign.ItemPotion)
	if errMsg != "" {
		return false, errMsg
	}
	item := gs.Inventory[idx]
	if item.Effect == nil || item.Effect.Kind != campaign.EffectHeal {
		return false, fmt.Sprintf("%s has no usable effect yet.", item.Name)
	}

	companion := gs.ActiveCompanion()
	healCompanion := false
	target = strings.ToLower(strings.TrimSpace(target))
	switch {
	case companion != nil && (target == "companion" || target == strings.ToLower(companion.Name)):
		healCompanion = true
	case target == "me" || target == "self" || target == "player" || target == "you":
		healCompanion = false
	default:
		// Default to the more wounded side. A downed companion can't
		// drink, so its ratio reads as full.
		playerRatio := ratio(gs.Player.HP, gs.Player.MaxHP)
		companionRatio := 1.0
		if companion != nil && !companion.IsDown() {
			companionRatio = ratio(companion.HP, companion.MaxHP)
		}
		healCompanion = companion != nil && !companion.IsDown() && companionRatio < playerRatio
	}

	amount, detail, err := e.roller.RollExpr(item.Effect.Dice)
	if err != nil {
		amount, detail = 0, "0"
	}
	var label string
	var healed int
	if healCompanion {
		label = companion.Name
		healed = companion.Heal(amount)
	} else {
		label = gs.Player.Name
		healed = gs.Player.Heal(amount)
	}

	gs.Inventory = append(gs.Inventory[:idx], gs.Inventory[idx+1:]...)
	return true, fmt.Sprintf("You use %s on %s, healing %d (%s).", item.Name, label, healed, detail)
}

func ratio(hp, maxHP int) float64 {
	if maxHP < 1 {
		maxHP = 1
	}
	return float64(hp) / float64(maxHP)
}

// equipItem equips armor by 1-based inventory index or fuzzy name. An
// occupied slot swaps its item back into the pack first.
func equipItem(gs *state.GameState, query string) (bool, string) {
	query = strings.TrimSpace(query)
	var idx int
	if n, err := strconv.Atoi(query); err == nil {
		idx = n - 1
		if idx < 0 || idx >= len(gs.Inventory) {
			return false, "That item number does not exist."
		}
		if gs.Inventory[idx].Kind != campaign.ItemArmor {
			return false, "That item is not armor."
		}
	} else {
		var errMsg string
		idx, errMsg = findItem(gs, query, campaign.ItemArmor)
		if errMsg != "" {
			return false, errMsg
		}
	}

	item := gs.Inventory[idx]
	if !campaign.ValidSlot(item.Slot) {
		return false, "That armor can't be equipped."
	}
	if current := gs.Equipment[item.Slot]; current != nil {
		if !CanAddItem(gs, *current) {
			return false, "Inventory is full; unequip something first."
		}
		gs.Inventory = append(gs.Inventory, *current)
	}
	gs.Inventory = append(gs.Inventory[:idx], gs.Inventory[idx+1:]...)
	equipped := item
	gs.Equipment[item.Slot] = &equipped
	SyncPlayerAC(gs)
	return true, fmt.Sprintf("Equipped %s to %s.", item.Name, item.Slot)
}

// unequipItem moves a slot's armor back into the pack.
func unequipItem(gs *state.GameState, slot string) (bool, string) {
	key := campaign.Slot(strings.ToLower(strings.TrimSpace(slot)))
	if !campaign.ValidSlot(key) {
		return false, "Unknown equipment slot."
	}
	current := gs.Equipment[key]
	if current == nil {
		return false, "That slot is already empty."
	}
	if !CanAddItem(gs, *current) {
		return false, "Inventory is full."
	}
	gs.Inventory = append(gs.Inventory, *current)
	gs.Equipment[key] = nil
	SyncPlayerAC(gs)
	return true, fmt.Sprintf("Removed %s from %s.", current.Name, key)
}

// rollLoot rolls a mob's loot table: gold from the dice expression and one
// item chosen uniformly from the list, when present.
func (e *Engine) rollLoot(campaignID, mobName string) (int, string, error) {
	profile, err := e.registry.Mob(campaignID, mobName)
	if err != nil {
		return 0, "", err
	}
	gold := 0
	if profile.Loot.Gold != "" {
		gold, _, err = e.roller.RollExpr(profile.Loot.Gold)
		if err != nil {
			return 0, "", fmt.Errorf("rolling loot gold for %q: %w", mobName, err)
		}
	}
	if len(profile.Loot.Items) == 0 {
		return gold, "", nil
	}
	pick := e.roller.Roll(len(profile.Loot.Items)) - 1
	return gold, profile.Loot.Items[pick], nil
}
