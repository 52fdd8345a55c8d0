package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

const gmSystemPrompt = "You are the GM for a tiny solo fantasy adventure. Narrate outcomes that the rules engine " +
	"already resolved. Do NOT invent new outcomes, rolls, damage, or state changes. Ask the player " +
	"what they do next with a short question. Keep responses under 120 words."

const companionSystemPromptFmt = "You are %s, a cautious companion. Give a short, practical suggestion (1 sentence) " +
	"based on the current situation. Do NOT narrate outcomes or change the game state. " +
	"Only suggest actions that are actually available. " +
	"Vary your suggestions: movement, exploration (talk/search), combat actions, or rest, whatever fits best. " +
	"Only suggest healing or potions when someone is wounded (HP below max) and it would help. " +
	"When everyone is at full HP, never suggest healing."

// gmUserPrompt renders the narration request: a state snapshot, the raw
// player input, and the rules result to embellish.
func gmUserPrompt(reg *campaign.Registry, gs *state.GameState, playerInput, rulesResult string) string {
	return fmt.Sprintf(
		"STATE\n%s\n\nPLAYER INPUT\n%s\n\nRULES RESULT\n%s\n\n"+
			"Add brief atmospheric flavor (do not repeat RULES RESULT verbatim) and end with a short question "+
			"prompting the player's next action.",
		gmSnapshot(reg, gs), playerInput, rulesResult)
}

// companionUserPrompt renders the suggestion request. When the whole party
// is at full HP the prompt steers the model away from healing advice.
func companionUserPrompt(reg *campaign.Registry, gs *state.GameState) string {
	actions := "talk, search, loot, move, rest, use, equip"
	if gs.InCombat {
		actions = "attack, defend, special, cast <spell> [target], use"
	}
	contextNote := ""
	if partyAtFullHP(gs) {
		contextNote = "\nEveryone at full HP. Suggest movement, exploration, or combat, not healing.\n"
	}
	return fmt.Sprintf("STATE\n%s\n%s\nAvailable actions: %s\nGive a brief suggestion.",
		companionSnapshot(reg, gs), contextNote, actions)
}

func partyAtFullHP(gs *state.GameState) bool {
	if gs.Player.HP < gs.Player.MaxHP {
		return false
	}
	for _, c := range gs.Companions {
		if c.HP < c.MaxHP {
			return false
		}
	}
	return true
}

// gmSnapshot is the immutable text rendering of the state handed to the
// narrator. Output text is never parsed back into state.
func gmSnapshot(reg *campaign.Registry, gs *state.GameState) string {
	roomName, roomKind := roomLabel(reg, gs)
	player := gs.Player
	parts := []string{
		"Room: " + roomName,
		"Room kind: " + roomKind,
		fmt.Sprintf("Player: %s (%s %s) Level %d HP %d/%d",
			player.Name, player.Race, player.Class, player.Level, player.HP, player.MaxHP),
		fmt.Sprintf("Stats: STR %d DEX %d CON %d INT %d WIS %d CHA %d",
			player.Stats.Get("STR"), player.Stats.Get("DEX"), player.Stats.Get("CON"),
			player.Stats.Get("INT"), player.Stats.Get("WIS"), player.Stats.Get("CHA")),
		fmt.Sprintf("Mana: %d/%d", player.Mana, player.MaxMana),
		fmt.Sprintf("Gold: %d", player.Gold),
	}
	if c := gs.ActiveCompanion(); c != nil {
		parts = append(parts, fmt.Sprintf("Companion: %s HP %d/%d", c.Name, c.HP, c.MaxHP))
	}
	parts = append(parts,
		"Inventory: "+inventoryNames(gs),
		fmt.Sprintf("In combat: %v", gs.InCombat),
	)
	if line := enemyLine(gs); line != "" {
		parts = append(parts, line)
	}
	if gs.LastEvent != "" {
		parts = append(parts, "Last event: "+gs.LastEvent)
	}
	if flags := flagLine(gs); flags != "" {
		parts = append(parts, "Flags: "+flags)
	}
	return strings.Join(parts, "\n")
}

// companionSnapshot is a shorter rendering for suggestion prompts.
func companionSnapshot(reg *campaign.Registry, gs *state.GameState) string {
	roomName, roomKind := roomLabel(reg, gs)
	parts := []string{
		fmt.Sprintf("Room: %s (%s)", roomName, roomKind),
		fmt.Sprintf("Player Level %d HP %d/%d", gs.Player.Level, gs.Player.HP, gs.Player.MaxHP),
	}
	if c := gs.ActiveCompanion(); c != nil {
		parts = append(parts, fmt.Sprintf("%s HP %d/%d", c.Name, c.HP, c.MaxHP))
	}
	parts = append(parts,
		fmt.Sprintf("Mana: %d/%d", gs.Player.Mana, gs.Player.MaxMana),
		fmt.Sprintf("Gold: %d", gs.Player.Gold),
		"Inventory: "+inventoryNames(gs),
		fmt.Sprintf("In combat: %v", gs.InCombat),
	)
	if line := enemyLine(gs); line != "" {
		parts = append(parts, line)
	}
	if gs.LastEvent != "" {
		parts = append(parts, "Last event: "+gs.LastEvent)
	}
	return strings.Join(parts, "\n")
}

func roomLabel(reg *campaign.Registry, gs *state.GameState) (name, kind string) {
	room, err := reg.Room(gs.CampaignID, gs.RoomID)
	if err != nil {
		return gs.RoomID, "unknown"
	}
	return room.Name, string(room.Kind)
}

func inventoryNames(gs *state.GameState) string {
	if len(gs.Inventory) == 0 {
		return "(empty)"
	}
	names := make([]string, len(gs.Inventory))
	for i, item := range gs.Inventory {
		names[i] = item.Name
	}
	return strings.Join(names, ", ")
}

func enemyLine(gs *state.GameState) string {
	if len(gs.Enemies) == 0 {
		return ""
	}
	lines := make([]string, len(gs.Enemies))
	for i, enemy := range gs.Enemies {
		lines[i] = fmt.Sprintf("%s HP %d/%d", enemy.Name, enemy.HP, enemy.MaxHP)
	}
	return "Enemies: " + strings.Join(lines, " | ")
}

func flagLine(gs *state.GameState) string {
	var parts []string
	for _, name := range sortedKeys(gs.Flags.Bools) {
		parts = append(parts, fmt.Sprintf("%s=%v", name, gs.Flags.Bools[name]))
	}
	if len(gs.Flags.DefeatedRooms) > 0 {
		parts = append(parts, "defeated_rooms="+strings.Join(gs.Flags.DefeatedRooms, "/"))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
