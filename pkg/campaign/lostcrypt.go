package campaign

// LostCrypt is the longer campaign: two social checks, a passage, three
// escalating combats, and a warded treasure vault. It offers a choice of
// companion at setup.
func LostCrypt() *Campaign {
	return &Campaign{
		ID:   "lost_crypt",
		Name: "The Lost Crypt",
		Description: "A sunken crypt holds restless dead and a fabled amulet. " +
			"Choose your companion and descend. Multiple combats, social checks, and a climactic boss.",
		RoomOrder: []string{"approach", "gate", "hallway", "guard_room", "antechamber", "crypt", "treasure"},
		Rooms: map[string]Room{
			"approach": {
				ID:   "approach",
				Name: "Overgrown Approach",
				Description: "A worn path leads through tangled undergrowth to a sunken stone arch. " +
					"Moss and vines cling to weathered carvings. The entrance to the crypt lies ahead.",
				Kind: RoomSocial,
				NPC:  "Keeper Aldric",
				Social: &SocialCheck{
					Stat:        "WIS",
					DC:          12,
					SuccessFlag: "keeper_warned",
					SuccessMsg:  "Aldric shares what he knows (roll {roll} -> {total}). 'The lower levels hold restless dead. Bring light and steel.'",
					FailMsg:     "Aldric shrugs (roll {roll} -> {total}). 'Go if you must. I've said my piece.'",
					DoneFlag:    "social_done",
				},
			},
			"gate": {
				ID:   "gate",
				Name: "Sealed Gate",
				Description: "A heavy iron gate blocks the descent. Rust has weakened the mechanism. " +
					"A careful hand might ease it open, or force could break it.",
				Kind: RoomSocial,
				Social: &SocialCheck{
					Stat:        "DEX",
					DC:          11,
					SuccessFlag: "gate_opened",
					SuccessMsg:  "You work the latch free (roll {roll} -> {total}). The gate swings open silently.",
					FailMsg:     "The mechanism resists (roll {roll} -> {total}). You can try again or force it.",
					DoneFlag:    "gate_done",
				},
			},
			"hallway": {
				ID:   "hallway",
				Name: "Dusty Hallway",
				Description: "Torch sconces line the walls, long cold. Faint scratches mark the floor. " +
					"Something has been through here recently.",
				Kind: RoomPassage,
			},
			"guard_room": {
				ID:   "guard_room",
				Name: "Guard Chamber",
				Description: "Skeletal figures in rusted mail stand watch. At your approach, " +
					"their eyes flare with cold light. The dead do not rest easy here.",
				Kind:      RoomCombat,
				EnemyName: "Crypt Guardians",
			},
			"antechamber": {
				ID:   "antechamber",
				Name: "Antechamber",
				Description: "A small chamber before the main crypt. Faded murals depict a burial procession. " +
					"A lone wight stirs from the shadows, drawn by the living.",
				Kind:      RoomCombat,
				EnemyName: "Crypt Wight",
			},
			"crypt": {
				ID:   "crypt",
				Name: "Main Crypt",
				Description: "Stone sarcophagi line the walls. The air is cold and still. " +
					"A wraith coalesces from the darkness, ancient and hostile.",
				Kind:      RoomCombat,
				EnemyName: "Crypt Wraith",
			},
			"treasure": {
				ID:   "treasure",
				Name: "Treasure Vault",
				Description: "The innermost chamber. A stone casket rests on a dais, lid askew. " +
					"Within lies the Amulet of Rest, the prize that might quiet the crypt forever.",
				Kind: RoomLoot,
				Loot: &LootCheck{
					Stat:       "INT",
					DC:         14,
					WinItemID:  "amulet_of_rest",
					GameOver:   true,
					SuccessMsg: "You secure the Amulet (roll {roll} -> {total}). Its warmth spreads through you. The crypt falls silent. Victory.",
					FailMsg:    "The wards resist (roll {roll} -> {total}). Steady your mind and try again.",
				},
			},
		},
		Items: lostCryptItems(),
		Mobs: map[string]MobProfile{
			"Crypt Guardians": {
				Name:        "Crypt Guardians",
				HP:          8,
				AC:          14,
				AttackBonus: 2,
				Damage:      "1d6",
				Loot:        LootTable{Gold: "2d4", Items: []string{"chain_shirt"}},
				AI:          FocusWeakest,
				XP:          30,
			},
			"Crypt Wight": {
				Name:        "Crypt Wight",
				HP:          12,
				AC:          13,
				AttackBonus: 3,
				Damage:      "1d6+1",
				Loot:        LootTable{Gold: "1d6+3"},
				AI:          FocusPlayer,
				XP:          40,
			},
			"Crypt Wraith": {
				Name:        "Crypt Wraith",
				HP:          14,
				AC:          14,
				AttackBonus: 4,
				Damage:      "1d8",
				Loot:        LootTable{Gold: "3d6"},
				AI:          FocusPlayer,
				XP:          75,
			},
		},
		Companions: map[string]CompanionProfile{
			"eldrin": {
				ID:                "eldrin",
				Name:              "Eldrin",
				HP:                8,
				MaxHP:             8,
				AC:                12,
				AttackBonus:       1,
				Damage:            "1d4+1",
				DefendHPThreshold: 3,
				Mana:              6,
				MaxMana:           6,
				Spells:            []string{"Spark", "Magic Missile"},
			},
			"mara": {
				ID:                "mara",
				Name:              "Mara",
				HP:                10,
				MaxHP:             10,
				AC:                13,
				AttackBonus:       2,
				Damage:            "1d6",
				DefendHPThreshold: 3,
			},
		},
		DefaultCompanionIDs: []string{"eldrin", "mara"},
		CompletionXP:        150,
		Exits: map[string]map[string]string{
			"approach":    {"gate": "gate", "down": "gate"},
			"gate":        {"approach": "approach", "hallway": "hallway", "down": "hallway"},
			"hallway":     {"gate": "gate", "guard_room": "guard_room", "down": "guard_room"},
			"guard_room":  {"hallway": "hallway", "antechamber": "antechamber", "down": "antechamber"},
			"antechamber": {"guard_room": "guard_room", "crypt": "crypt", "down": "crypt"},
			"crypt":       {"antechamber": "antechamber", "treasure": "treasure", "down": "treasure"},
			"treasure":    {"crypt": "crypt", "up": "crypt"},
		},
	}
}

func lostCryptItems() map[string]Item {
	items := watchtowerItems()
	delete(items, "silver_locket")
	items["chain_shirt"] = Item{
		ID:                "chain_shirt",
		Name:              "Chain Shirt",
		Kind:              ItemArmor,
		Slot:              SlotChest,
		Effect:            &Effect{Kind: EffectAC, Bonus: 2},
		CountsTowardLimit: true,
	}
	items["amulet_of_rest"] = Item{
		ID:                "amulet_of_rest",
		Name:              "Amulet of Rest",
		Kind:              ItemQuest,
		CountsTowardLimit: false,
	}
	return items
}
