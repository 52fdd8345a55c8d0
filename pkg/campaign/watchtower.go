package campaign

// RuinedWatchtower is the introductory campaign: one social scene, two
// combats, and a final loot chamber at the top of the tower.
func RuinedWatchtower() *Campaign {
	return &Campaign{
		ID:          "ruined_watchtower",
		Name:        "The Ruined Watchtower",
		Description: "A watchtower with a cellar, one social scene, two combats, and a final loot chamber.",
		RoomOrder:   []string{"courtyard", "cellar", "barracks", "spire"},
		Rooms: map[string]Room{
			"courtyard": {
				ID:   "courtyard",
				Name: "Ruined Courtyard",
				Description: "Broken stone and fallen beams surround a mossy fire pit. A hooded scout " +
					"watches you from a collapsed archway, hand near a shortbow.",
				Kind: RoomSocial,
				NPC:  "Eryn the Scout",
				Social: &SocialCheck{
					Stat:        "INT",
					DC:          13,
					SuccessFlag: "scout_helped",
					SuccessMsg:  "You win Eryn's trust (roll {roll} -> {total}). She points out a safe route and warns you about a lone bandit inside.",
					FailMsg:     "Eryn stays guarded (roll {roll} -> {total}). She gives no help, but allows you to pass.",
					DoneFlag:    "social_done",
				},
			},
			"cellar": {
				ID:   "cellar",
				Name: "Collapsed Cellar",
				Description: "A broken stairwell drops into a damp cellar. Two big rats bristle and hiss, " +
					"ready to charge.",
				Kind:      RoomCombat,
				EnemyName: "Big Rats",
			},
			"barracks": {
				ID:   "barracks",
				Name: "Crumbling Barracks",
				Description: "Dusty bunks line the walls. A lone bandit in watchman gear steps from the shadows, " +
					"blade raised.",
				Kind:      RoomCombat,
				EnemyName: "Watchtower Bandit",
			},
			"spire": {
				ID:   "spire",
				Name: "Top Spire",
				Description: "The top chamber is open to the wind. An ironbound chest sits beneath a broken mural, " +
					"its lock rusted but stubborn.",
				Kind: RoomLoot,
				Loot: &LootCheck{
					Stat:       "DEX",
					DC:         13,
					WinItemID:  "silver_locket",
					GameOver:   true,
					SuccessMsg: "You work the rusted lock free (roll {roll} -> {total}). Inside rests the Silver Locket of the Watch. Your adventure ends in triumph.",
					FailMsg:    "Your tools slip (roll {roll} -> {total}). The lock resists for now, but you can try again.",
				},
			},
		},
		Items: watchtowerItems(),
		Mobs: map[string]MobProfile{
			"Watchtower Bandit": {
				Name:        "Watchtower Bandit",
				HP:          12,
				AC:          13,
				AttackBonus: 3,
				Damage:      "1d6",
				Loot:        LootTable{Gold: "1d6+2", Items: []string{"padded_arms", "worn_boots", "leather_cap"}},
				AI:          FocusPlayer,
				XP:          25,
			},
			"Big Rats": {
				Name:        "Big Rats",
				HPExpr:      "1d4-1",
				HPMin:       1,
				Count:       2,
				AC:          12,
				AttackBonus: 2,
				Damage:      "1d4",
				AI:          FocusWeakest,
				XP:          10,
			},
		},
		Companions: map[string]CompanionProfile{
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
		DefaultCompanionIDs: []string{"mara"},
		CompletionXP:        100,
		Exits: map[string]map[string]string{
			"courtyard": {"down": "cellar", "cellar": "cellar", "up": "barracks", "barracks": "barracks"},
			"cellar":    {"up": "courtyard", "courtyard": "courtyard"},
			"barracks":  {"down": "courtyard", "courtyard": "courtyard", "up": "spire", "spire": "spire"},
			"spire":     {"down": "barracks", "barracks": "barracks"},
		},
	}
}

func watchtowerItems() map[string]Item {
	return map[string]Item{
		"healing_potion": {
			ID:                "healing_potion",
			Name:              "Healing Potion",
			Kind:              ItemPotion,
			Effect:            &Effect{Kind: EffectHeal, Dice: "1d6+2"},
			CountsTowardLimit: true,
		},
		"leather_cap": {
			ID:                "leather_cap",
			Name:              "Leather Cap",
			Kind:              ItemArmor,
			Slot:              SlotHead,
			Effect:            &Effect{Kind: EffectAC, Bonus: 1},
			CountsTowardLimit: true,
		},
		"padded_arms": {
			ID:                "padded_arms",
			Name:              "Padded Armguards",
			Kind:              ItemArmor,
			Slot:              SlotArms,
			Effect:            &Effect{Kind: EffectAC, Bonus: 1},
			CountsTowardLimit: true,
		},
		"worn_boots": {
			ID:                "worn_boots",
			Name:              "Worn Boots",
			Kind:              ItemArmor,
			Slot:              SlotFeet,
			Effect:            &Effect{Kind: EffectAC, Bonus: 1},
			CountsTowardLimit: true,
		},
		"silver_locket": {
			ID:                "silver_locket",
			Name:              "Silver Locket of the Watch",
			Kind:              ItemQuest,
			CountsTowardLimit: false,
		},
	}
}
