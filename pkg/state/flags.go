package state

import (
	"encoding/json"
	"fmt"
)

// Corpse is one lootable enemy remains left behind after a combat.
// IDs are unique across the whole session.
type Corpse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Looted bool   `json:"looted"`
}

// QuestFlags is the typed quest progress record: free-form boolean flags
// set by room checks, the rooms whose combats are already won, corpse
// records per room, and the session-wide corpse id counter.
//
// On the wire the flags serialize as a single flat JSON object, which is
// also the shape legacy saves used. UnmarshalJSON tolerates the legacy
// encodings (corpse name lists, bandit_* keys) and keeps what migration
// needs.
type QuestFlags struct {
	Bools         map[string]bool
	DefeatedRooms []string
	Corpses       map[string][]*Corpse
	NextCorpseID  int

	// Carried only from legacy saves, consumed by migration.
	legacyEnemyName    string
	legacyLootedCorpse []string
}

// NewQuestFlags returns an initialized, empty flag set.
func NewQuestFlags() QuestFlags {
	return QuestFlags{
		Bools:   make(map[string]bool),
		Corpses: make(map[string][]*Corpse),
	}
}

// Flag reads a boolean flag; missing keys read false.
func (q *QuestFlags) Flag(key string) bool {
	return q.Bools[key]
}

// SetFlag sets a boolean flag.
func (q *QuestFlags) SetFlag(key string) {
	if q.Bools == nil {
		q.Bools = make(map[string]bool)
	}
	q.Bools[key] = true
}

// IsRoomDefeated reports whether the room's combat has been won.
func (q *QuestFlags) IsRoomDefeated(roomID string) bool {
	for _, id := range q.DefeatedRooms {
		if id == roomID {
			return true
		}
	}
	return false
}

// MarkRoomDefeated records a won combat, idempotently.
func (q *QuestFlags) MarkRoomDefeated(roomID string) {
	if q.IsRoomDefeated(roomID) {
		return
	}
	q.DefeatedRooms = append(q.DefeatedRooms, roomID)
}

// CorpsesIn returns the corpse records for a room.
func (q *QuestFlags) CorpsesIn(roomID string) []*Corpse {
	return q.Corpses[roomID]
}

// SetCorpses replaces the corpse records for a room.
func (q *QuestFlags) SetCorpses(roomID string, corpses []*Corpse) {
	if q.Corpses == nil {
		q.Corpses = make(map[string][]*Corpse)
	}
	q.Corpses[roomID] = corpses
}

// NextID returns the next session-unique corpse id and advances the counter.
func (q *QuestFlags) NextID() int {
	if q.NextCorpseID < 1 {
		q.NextCorpseID = 1
	}
	id := q.NextCorpseID
	q.NextCorpseID++
	return id
}

// MarshalJSON writes the flags as one flat object: boolean keys alongside
// the structured defeated_rooms, corpses, and next_corpse_id entries.
func (q QuestFlags) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(q.Bools)+3)
	for key, value := range q.Bools {
		out[key] = value
	}
	out["defeated_rooms"] = emptyIfNil(q.DefeatedRooms)
	corpses := q.Corpses
	if corpses == nil {
		corpses = map[string][]*Corpse{}
	}
	out["corpses"] = corpses
	out["next_corpse_id"] = q.NextCorpseID
	return json.Marshal(out)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// UnmarshalJSON reads the flat flag object, accepting legacy corpse
// encodings (a name list or a single name instead of records).
func (q *QuestFlags) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding flags: %w", err)
	}
	*q = NewQuestFlags()
	for key, value := range raw {
		switch key {
		case "defeated_rooms":
			var rooms []string
			if err := json.Unmarshal(value, &rooms); err == nil {
				q.DefeatedRooms = rooms
			}
		case "looted_corpses":
			var rooms []string
			if err := json.Unmarshal(value, &rooms); err == nil {
				q.legacyLootedCorpse = rooms
			}
		case "corpses":
			rooms := map[string]json.RawMessage{}
			if err := json.Unmarshal(value, &rooms); err != nil {
				continue
			}
			for roomID, entry := range rooms {
				q.Corpses[roomID] = decodeCorpses(entry)
			}
		case "next_corpse_id":
			var id int
			if err := json.Unmarshal(value, &id); err == nil {
				q.NextCorpseID = id
			}
		case "enemy_name":
			var name string
			if err := json.Unmarshal(value, &name); err == nil {
				q.legacyEnemyName = name
			}
		default:
			var b bool
			if err := json.Unmarshal(value, &b); err == nil {
				q.Bools[key] = b
			}
		}
	}
	return nil
}

func decodeCorpses(data json.RawMessage) []*Corpse {
	var records []*Corpse
	if err := json.Unmarshal(data, &records); err == nil {
		return records
	}
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		records = make([]*Corpse, len(names))
		for i, name := range names {
			records[i] = &Corpse{ID: i + 1, Name: name}
		}
		return records
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil && name != "" {
		return []*Corpse{{ID: 1, Name: name}}
	}
	return nil
}
