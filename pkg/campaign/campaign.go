// Package campaign holds the static, trusted content tables for the game:
// campaigns, rooms, the item catalog, mob and companion templates, and the
// class/race profiles used at character creation. Everything here is
// immutable after registration and is always resolved through a Registry
// passed explicitly into the engine.
package campaign

import (
	"fmt"
	"sort"
	"strings"
)

// RoomKind is the behavioral category of a room. It determines the only
// legal action set while the player is in that room.
type RoomKind string

const (
	RoomSocial  RoomKind = "social"
	RoomCombat  RoomKind = "combat"
	RoomLoot    RoomKind = "loot"
	RoomPassage RoomKind = "passage"
)

// ItemKind classifies catalog items.
type ItemKind string

const (
	ItemPotion  ItemKind = "potion"
	ItemArmor   ItemKind = "armor"
	ItemQuest   ItemKind = "quest"
	ItemUnknown ItemKind = "unknown"
)

// EffectKind classifies item effects.
type EffectKind string

const (
	EffectHeal EffectKind = "heal"
	EffectAC   EffectKind = "ac"
)

// AIPolicy selects how an enemy picks its target each round.
type AIPolicy string

const (
	FocusWeakest   AIPolicy = "focus_weakest"
	FocusPlayer    AIPolicy = "focus_player"
	FocusCompanion AIPolicy = "focus_companion"
)

// Slot is one of the six equipment slots.
type Slot string

const (
	SlotHead  Slot = "head"
	SlotArms  Slot = "arms"
	SlotHands Slot = "hands"
	SlotChest Slot = "chest"
	SlotLegs  Slot = "legs"
	SlotFeet  Slot = "feet"
)

// Slots lists the equipment slots in display order.
func Slots() []Slot {
	return []Slot{SlotHead, SlotArms, SlotHands, SlotChest, SlotLegs, SlotFeet}
}

// ValidSlot reports whether s names an equipment slot.
func ValidSlot(s Slot) bool {
	switch s {
	case SlotHead, SlotArms, SlotHands, SlotChest, SlotLegs, SlotFeet:
		return true
	}
	return false
}

// Effect is an item effect: healing dice for potions, a flat AC bonus for armor.
type Effect struct {
	Kind  EffectKind `json:"kind"`
	Dice  string     `json:"dice,omitempty"`
	Bonus int        `json:"bonus,omitempty"`
}

// Item describes a catalog entry. The same shape is carried as an instance
// in the player's inventory and equipment.
type Item struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Kind              ItemKind `json:"kind"`
	Slot              Slot     `json:"slot,omitempty"`
	Effect            *Effect  `json:"effect,omitempty"`
	CountsTowardLimit bool     `json:"counts_toward_limit"`
}

// UnknownItem is the synthetic item returned for an unresolvable id or name.
// Content lookups for items never fail; the caller gets an inert placeholder.
func UnknownItem(name string) Item {
	return Item{ID: "unknown", Name: name, Kind: ItemUnknown, CountsTowardLimit: true}
}

// SocialCheck configures the stat check of a social room.
type SocialCheck struct {
	Stat        string `json:"stat"`
	DC          int    `json:"dc"`
	SuccessFlag string `json:"success_flag,omitempty"`
	SuccessMsg  string `json:"success_msg,omitempty"`
	FailMsg     string `json:"fail_msg,omitempty"`
	DoneFlag    string `json:"done_flag,omitempty"`
}

// LootCheck configures the stat check of a loot room.
type LootCheck struct {
	Stat       string `json:"stat"`
	DC         int    `json:"dc"`
	WinItemID  string `json:"win_item_id,omitempty"`
	GameOver   bool   `json:"game_over"`
	SuccessMsg string `json:"success_msg,omitempty"`
	FailMsg    string `json:"fail_msg,omitempty"`
}

// Room is one location in a campaign. Kind-specific configuration lives in
// the optional Social/Loot records; combat rooms name their mob template.
type Room struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Kind        RoomKind     `json:"kind"`
	NPC         string       `json:"npc,omitempty"`
	EnemyName   string       `json:"enemy_name,omitempty"`
	Social      *SocialCheck `json:"social,omitempty"`
	Loot        *LootCheck   `json:"loot,omitempty"`
}

// LootTable is what a defeated mob drops: a gold dice expression and a list
// of item ids, one of which is chosen uniformly per corpse.
type LootTable struct {
	Gold  string   `json:"gold,omitempty"`
	Items []string `json:"items,omitempty"`
}

// MobProfile is an enemy template. HP is either fixed or rolled per unit
// from HPExpr with a floor of HPMin; Count > 1 spawns multiple units.
type MobProfile struct {
	Name        string    `json:"name"`
	HP          int       `json:"hp,omitempty"`
	HPExpr      string    `json:"hp_expr,omitempty"`
	HPMin       int       `json:"hp_min,omitempty"`
	Count       int       `json:"count,omitempty"`
	AC          int       `json:"ac"`
	AttackBonus int       `json:"attack_bonus"`
	Damage      string    `json:"damage"`
	Loot        LootTable `json:"loot"`
	AI          AIPolicy  `json:"ai,omitempty"`
	XP          int       `json:"xp,omitempty"`
}

// CompanionProfile is a companion template.
type CompanionProfile struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	HP                int      `json:"hp"`
	MaxHP             int      `json:"max_hp"`
	AC                int      `json:"ac"`
	AttackBonus       int      `json:"attack_bonus"`
	Damage            string   `json:"damage"`
	DefendHPThreshold int      `json:"defend_hp_threshold"`
	Mana              int      `json:"mana,omitempty"`
	MaxMana           int      `json:"max_mana,omitempty"`
	Spells            []string `json:"spells,omitempty"`
}

// Campaign is a full adventure: an ordered room sequence, the room table,
// item catalog, mob and companion templates, and the exit graph.
type Campaign struct {
	ID                  string                       `json:"id"`
	Name                string                       `json:"name"`
	Description         string                       `json:"description"`
	RoomOrder           []string                     `json:"room_order"`
	Rooms               map[string]Room              `json:"rooms"`
	Items               map[string]Item              `json:"items"`
	Mobs                map[string]MobProfile        `json:"mobs"`
	Companions          map[string]CompanionProfile  `json:"companions"`
	DefaultCompanionIDs []string                     `json:"default_companion_ids,omitempty"`
	Exits               map[string]map[string]string `json:"exits"`
	CompletionXP        int                          `json:"completion_xp,omitempty"`
}

// Registry is the read-only lookup surface over a set of campaigns.
// Construct one explicitly and pass it into the engine; there is no
// process-global registry.
type Registry struct {
	campaigns map[string]*Campaign
}

// NewRegistry builds a registry over the given campaigns.
func NewRegistry(campaigns ...*Campaign) *Registry {
	r := &Registry{campaigns: make(map[string]*Campaign, len(campaigns))}
	for _, c := range campaigns {
		r.campaigns[c.ID] = c
	}
	return r
}

// Default returns a registry with the built-in campaigns.
func Default() *Registry {
	return NewRegistry(RuinedWatchtower(), LostCrypt())
}

// Campaigns lists registered campaigns sorted by id.
func (r *Registry) Campaigns() []*Campaign {
	out := make([]*Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Campaign resolves a campaign by id. Unknown ids are a content error.
func (r *Registry) Campaign(id string) (*Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("unknown campaign %q", id)
	}
	return c, nil
}

// Room resolves a room within a campaign. Unknown ids are a content error.
func (r *Registry) Room(campaignID, roomID string) (*Room, error) {
	c, err := r.Campaign(campaignID)
	if err != nil {
		return nil, err
	}
	room, ok := c.Rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("unknown room %q in campaign %q", roomID, campaignID)
	}
	return &room, nil
}

// NextRoomID returns the room following roomID in the campaign's ordered
// sequence, or false when roomID is last or not part of the sequence.
func (r *Registry) NextRoomID(campaignID, roomID string) (string, bool) {
	c, err := r.Campaign(campaignID)
	if err != nil {
		return "", false
	}
	for i, id := range c.RoomOrder {
		if id == roomID && i+1 < len(c.RoomOrder) {
			return c.RoomOrder[i+1], true
		}
	}
	return "", false
}

// ItemByID resolves a catalog item by id. Unknown ids yield a synthetic
// "unknown" item instead of failing.
func (r *Registry) ItemByID(campaignID, itemID string) Item {
	c, err := r.Campaign(campaignID)
	if err != nil {
		return UnknownItem(itemID)
	}
	item, ok := c.Items[itemID]
	if !ok {
		return UnknownItem(itemID)
	}
	return item
}

// ItemByName resolves a catalog item by case-insensitive name. Unknown
// names yield a synthetic "unknown" item.
func (r *Registry) ItemByName(campaignID, name string) Item {
	c, err := r.Campaign(campaignID)
	if err != nil {
		return UnknownItem(name)
	}
	for _, item := range c.Items {
		if strings.EqualFold(item.Name, name) {
			return item
		}
	}
	return UnknownItem(name)
}

// Mob resolves a mob template by name. Unknown names are a content error.
func (r *Registry) Mob(campaignID, name string) (*MobProfile, error) {
	c, err := r.Campaign(campaignID)
	if err != nil {
		return nil, err
	}
	mob, ok := c.Mobs[name]
	if !ok {
		return nil, fmt.Errorf("unknown mob %q in campaign %q", name, campaignID)
	}
	return &mob, nil
}

// CompanionProfile resolves a companion template by id. Unknown ids are a
// content error.
func (r *Registry) CompanionProfile(campaignID, id string) (*CompanionProfile, error) {
	c, err := r.Campaign(campaignID)
	if err != nil {
		return nil, err
	}
	profile, ok := c.Companions[id]
	if !ok {
		return nil, fmt.Errorf("unknown companion %q in campaign %q", id, campaignID)
	}
	return &profile, nil
}

// Exits returns the exit map for a room: command token -> destination room
// id. Multiple tokens may map to the same destination. The returned map is
// a copy.
func (r *Registry) Exits(campaignID, roomID string) map[string]string {
	c, err := r.Campaign(campaignID)
	if err != nil {
		return nil
	}
	exits := make(map[string]string, len(c.Exits[roomID]))
	for k, v := range c.Exits[roomID] {
		exits[k] = v
	}
	return exits
}

// QuestItemIDs lists catalog item ids of kind quest. These are stripped
// from inventory and equipment on campaign completion.
func (r *Registry) QuestItemIDs(campaignID string) []string {
	c, err := r.Campaign(campaignID)
	if err != nil {
		return nil
	}
	var ids []string
	for id, item := range c.Items {
		if item.Kind == ItemQuest {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
