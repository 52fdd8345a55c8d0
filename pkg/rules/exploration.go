package rules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// lootTakenFlag marks a loot room's container as opened.
const lootTakenFlag = "loot_taken"

// lootFailedFlag records a failed loot-room check, for campaign scripting.
const lootFailedFlag = "loot_failed"

var talkVerbs = map[string]bool{"talk": true, "speak": true, "parley": true, "approach": true}
var bareDirections = map[string]bool{
	"up": true, "down": true, "north": true, "south": true, "east": true, "west": true, "back": true,
}

// applyExploration resolves one exploration-mode action. The second return
// reports whether the action was a rest, which preserves the rest streak.
func (e *Engine) applyExploration(gs *state.GameState, action string) (Result, bool, error) {
	if count, ok := parseRest(action); ok {
		res := e.applyRest(gs, count)
		return res, true, nil
	}

	if item, target, ok := parseUse(action); ok {
		used, line := e.useItem(gs, item, target)
		return Result{Lines: []string{line}, TurnConsumed: used}, false, nil
	}

	if strings.HasPrefix(action, "equip ") {
		_, line := equipItem(gs, strings.TrimSpace(action[len("equip "):]))
		return Result{Lines: []string{line}}, false, nil
	}
	if strings.HasPrefix(action, "unequip ") {
		_, line := unequipItem(gs, strings.TrimSpace(action[len("unequip "):]))
		return Result{Lines: []string{line}}, false, nil
	}

	if dest, prompt := parseMove(gs, e.exitOptions(gs), action); prompt != "" {
		return Result{Lines: []string{prompt}}, false, nil
	} else if dest != "" {
		line, moved, err := e.movePlayer(gs, dest)
		if err != nil {
			return Result{}, false, err
		}
		return Result{Lines: []string{line}, TurnConsumed: moved}, false, nil
	}

	room, err := e.registry.Room(gs.CampaignID, gs.RoomID)
	if err != nil {
		return Result{}, false, err
	}
	line, recognized, err := e.roomAction(gs, room, action)
	if err != nil {
		return Result{}, false, err
	}
	if !recognized {
		return Result{Lines: []string{
			"Try: talk, search, loot [number|all], move <destination>, rest [N], use <item>, equip <item>, unequip <slot>.",
		}}, false, nil
	}
	return Result{Lines: []string{line}, TurnConsumed: true}, false, nil
}

// parseMove extracts a movement destination. Returns a prompt line when
// the player asked to move without saying where.
func parseMove(gs *state.GameState, options string, action string) (dest, prompt string) {
	if bareDirections[action] {
		return action, ""
	}
	for _, verb := range []string{"go ", "move ", "walk ", "head ", "enter ", "travel ", "leave "} {
		if strings.HasPrefix(action, verb) {
			return strings.TrimSpace(action[len(verb):]), ""
		}
	}
	switch action {
	case "move", "go", "leave", "continue":
		return "", "Where to? Exits: " + options
	}
	return "", ""
}

// exitOptions lists the distinct destinations from the current room.
func (e *Engine) exitOptions(gs *state.GameState) string {
	exits := e.registry.Exits(gs.CampaignID, gs.RoomID)
	if len(exits) == 0 {
		return "none"
	}
	seen := make(map[string]bool)
	var options []string
	for _, dest := range exits {
		if !seen[dest] {
			seen[dest] = true
			options = append(options, dest)
		}
	}
	sort.Strings(options)
	return strings.Join(options, ", ")
}

// movePlayer resolves a destination against the exit map, by key first and
// by destination value second, then enters the new room. The bool reports
// whether the move happened.
func (e *Engine) movePlayer(gs *state.GameState, destination string) (string, bool, error) {
	exits := e.registry.Exits(gs.CampaignID, gs.RoomID)
	target := exits[destination]
	if target == "" {
		for _, dest := range exits {
			if destination == dest {
				target = dest
				break
			}
		}
	}
	if target == "" {
		if len(exits) > 0 {
			return "Can't go that way. Options: " + e.exitOptions(gs) + ".", false, nil
		}
		return "There's nowhere to go from here.", false, nil
	}
	gs.RoomID = target
	line, err := e.startRoom(gs)
	return line, err == nil, err
}

// startRoom handles room entry: marks it visited and, for an undefeated
// combat room, spawns its enemies and flips combat on.
func (e *Engine) startRoom(gs *state.GameState) (string, error) {
	room, err := e.registry.Room(gs.CampaignID, gs.RoomID)
	if err != nil {
		return "", err
	}
	gs.MarkVisited(room.ID)
	if room.Kind == campaign.RoomCombat && !gs.Flags.IsRoomDefeated(room.ID) {
		if len(gs.Enemies) == 0 {
			profile, err := e.registry.Mob(gs.CampaignID, room.EnemyName)
			if err != nil {
				return "", err
			}
			enemies, err := actor.NewEnemies(e.roller, profile)
			if err != nil {
				return "", err
			}
			gs.Enemies = enemies
		}
		gs.InCombat = true
		e.logger.Info("combat started", "room", room.ID, "enemy", room.EnemyName, "units", len(gs.Enemies))
		return fmt.Sprintf("A fight breaks out with %s.", room.EnemyName), nil
	}
	return room.Description, nil
}

// StartRoom enters the state's current room. Used when a new game begins.
func (e *Engine) StartRoom(gs *state.GameState) (string, error) {
	return e.startRoom(gs)
}

// roomAction dispatches a non-movement action by room kind. The bool
// reports whether the verb was recognized at all.
func (e *Engine) roomAction(gs *state.GameState, room *campaign.Room, action string) (string, bool, error) {
	switch room.Kind {
	case campaign.RoomSocial:
		if line := e.socialRoomAction(gs, room, action); line != "" {
			return line, true, nil
		}
		if isRoomVerb(action) {
			npc := room.NPC
			if npc == "" {
				npc = "Someone"
			}
			return fmt.Sprintf("%s waits, watching for your move.", npc), true, nil
		}
	case campaign.RoomLoot:
		if line := e.lootRoomAction(gs, room, action); line != "" {
			return line, true, nil
		}
		if isRoomVerb(action) {
			return "The chest waits.", true, nil
		}
	case campaign.RoomCombat:
		line, err := e.corpseAction(gs, room, action)
		if err != nil {
			return "", false, err
		}
		if line != "" {
			return line, true, nil
		}
		if isRoomVerb(action) {
			if gs.Flags.IsRoomDefeated(room.ID) {
				return "The room falls silent after the fight.", true, nil
			}
			return "The enemy blocks your way, ready to strike.", true, nil
		}
	case campaign.RoomPassage:
		switch action {
		case "search", "inspect", "look":
			return room.Description, true, nil
		}
		if isRoomVerb(action) {
			return "You press onward.", true, nil
		}
	}
	return "", false, nil
}

// isRoomVerb reports whether the action belongs to the exploration
// vocabulary even when the current room has no specific handling for it.
func isRoomVerb(action string) bool {
	if talkVerbs[action] {
		return true
	}
	switch action {
	case "search", "open", "inspect", "look":
		return true
	}
	return action == "loot" || strings.HasPrefix(action, "loot ")
}

// socialRoomAction runs the room's stat check for talk-family verbs.
func (e *Engine) socialRoomAction(gs *state.GameState, room *campaign.Room, action string) string {
	if !talkVerbs[action] || room.Social == nil {
		return ""
	}
	cfg := room.Social
	statBonus := gs.Player.Stats.Get(strings.ToUpper(cfg.Stat))
	success, roll, total := e.roller.Check(statBonus, cfg.DC)

	doneFlag := cfg.DoneFlag
	if doneFlag == "" {
		doneFlag = "social_done"
	}
	gs.Flags.SetFlag(doneFlag)

	if success {
		if cfg.SuccessFlag != "" {
			gs.Flags.SetFlag(cfg.SuccessFlag)
		}
		if cfg.SuccessMsg != "" {
			return formatCheckMsg(cfg.SuccessMsg, roll, total)
		}
		return fmt.Sprintf("You succeed (roll %d -> %d).", roll, total)
	}
	if cfg.FailMsg != "" {
		return formatCheckMsg(cfg.FailMsg, roll, total)
	}
	return fmt.Sprintf("You fail (roll %d -> %d).", roll, total)
}

// lootRoomAction runs the container check for search-family verbs.
// Success materializes the win item, marks the loot taken even when the
// pack is full, and may end the campaign. Failure is retryable.
func (e *Engine) lootRoomAction(gs *state.GameState, room *campaign.Room, action string) string {
	switch action {
	case "search", "open", "loot", "inspect":
	default:
		return ""
	}
	cfg := room.Loot
	if cfg == nil {
		return ""
	}
	if gs.Flags.Flag(lootTakenFlag) {
		return "The chest is already open and empty."
	}

	statBonus := gs.Player.Stats.Get(strings.ToUpper(cfg.Stat))
	success, roll, total := e.roller.Check(statBonus, cfg.DC)
	if !success {
		gs.Flags.SetFlag(lootFailedFlag)
		if cfg.FailMsg != "" {
			return formatCheckMsg(cfg.FailMsg, roll, total)
		}
		return fmt.Sprintf("Your tools slip (roll %d -> %d). The lock resists for now.", roll, total)
	}

	degraded := ""
	if cfg.WinItemID != "" {
		item := e.registry.ItemByID(gs.CampaignID, cfg.WinItemID)
		if added, msg := AddItem(gs, item); !added {
			degraded = fmt.Sprintf(" You force the lock but %s", strings.ToLower(msg))
		}
	}
	gs.Flags.SetFlag(lootTakenFlag)
	if cfg.GameOver {
		gs.GameOver = true
	}
	if cfg.SuccessMsg != "" {
		return formatCheckMsg(cfg.SuccessMsg, roll, total) + degraded
	}
	return fmt.Sprintf("You work the lock free (roll %d -> %d).", roll, total) + degraded
}

// corpseAction handles post-victory interaction in a combat room. Empty
// string with nil error means the verb wasn't a post-fight action here.
func (e *Engine) corpseAction(gs *state.GameState, room *campaign.Room, action string) (string, error) {
	if !gs.Flags.IsRoomDefeated(room.ID) {
		return "", nil
	}

	if action == "loot" || strings.HasPrefix(action, "loot ") {
		return e.lootCorpses(gs, room, strings.TrimSpace(strings.TrimPrefix(action, "loot")))
	}
	switch action {
	case "search", "inspect":
		return fmt.Sprintf("You search the %s. Most supplies are rotted or picked clean.", strings.ToLower(room.Name)), nil
	}
	return "", nil
}

// lootCorpses resolves a loot token against the room's unlooted corpses
// and rolls gold and items for each selected one.
func (e *Engine) lootCorpses(gs *state.GameState, room *campaign.Room, token string) (string, error) {
	corpses := gs.Flags.CorpsesIn(room.ID)
	if len(corpses) == 0 {
		return "Nothing here to loot.", nil
	}
	var unlooted []*state.Corpse
	for _, corpse := range corpses {
		if !corpse.Looted {
			unlooted = append(unlooted, corpse)
		}
	}
	if len(unlooted) == 0 {
		return "You already searched the corpses.", nil
	}

	selected := unlooted
	if idx, err := strconv.Atoi(token); err == nil {
		if idx < 1 || idx > len(unlooted) {
			return "That corpse does not exist.", nil
		}
		selected = unlooted[idx-1 : idx]
	} else if token != "" && token != "all" {
		var matches []*state.Corpse
		for _, corpse := range unlooted {
			if strings.Contains(strings.ToLower(corpse.Name), strings.ToLower(token)) {
				matches = append(matches, corpse)
			}
		}
		if len(matches) == 0 {
			return "No such corpse.", nil
		}
		if len(matches) > 1 {
			return "Be more specific.", nil
		}
		selected = matches
	} else if token == "" && len(unlooted) > 1 {
		return "Multiple corpses here. Use 'loot <number>' or 'loot all'.", nil
	}

	totalGold := 0
	var itemLines []string
	for _, corpse := range selected {
		gold, itemID, err := e.rollLoot(gs.CampaignID, corpse.Name)
		if err != nil {
			return "", err
		}
		totalGold += gold
		if itemID != "" {
			item := e.registry.ItemByID(gs.CampaignID, itemID)
			if added, msg := AddItem(gs, item); added {
				itemLines = append(itemLines, fmt.Sprintf("You find %s.", item.Name))
			} else {
				itemLines = append(itemLines, fmt.Sprintf("You spot %s, but %s", item.Name, strings.ToLower(msg)))
			}
		}
		corpse.Looted = true
	}
	gs.Player.Gold += totalGold

	if totalGold == 0 && len(itemLines) == 0 {
		return "You search the corpse but find nothing.", nil
	}
	line := fmt.Sprintf("You loot the corpse and gain %d gold.", totalGold)
	if len(itemLines) > 0 {
		line += " " + strings.Join(itemLines, " ")
	}
	return line, nil
}

// formatCheckMsg substitutes {roll} and {total} placeholders in campaign
// message templates.
func formatCheckMsg(template string, roll, total int) string {
	msg := strings.ReplaceAll(template, "{roll}", strconv.Itoa(roll))
	return strings.ReplaceAll(msg, "{total}", strconv.Itoa(total))
}
