package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/adventure-engine/internal/storage"
	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/rules"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// statPointBudget is the number of points spread across the six stats
// at character creation.
const statPointBudget = 12

const (
	statMin = 0
	statMax = 4
)

var stdin = bufio.NewScanner(os.Stdin)

var titleCaser = cases.Title(language.English)

// setupNewGame walks campaign choice, character load-or-create, and
// companion choice, then opens the first room.
func setupNewGame(ctx context.Context, store storage.Storage, registry *campaign.Registry, engine *rules.Engine) (*state.GameState, string, error) {
	fmt.Println("Welcome to the Solo Adventure")

	chosen, err := chooseCampaign(registry)
	if err != nil {
		return nil, "", err
	}
	fmt.Printf("Campaign selected: %s\n", chosen.Name)

	player, inventory, equipment, err := chooseOrCreateCharacter(ctx, store, registry, chosen.ID)
	if err != nil {
		return nil, "", err
	}

	companion, err := chooseCompanion(registry, chosen)
	if err != nil {
		return nil, "", err
	}

	startRoomID := "courtyard"
	if len(chosen.RoomOrder) > 0 {
		startRoomID = chosen.RoomOrder[0]
	}

	gs := state.NewGameState(chosen.ID, player, []*actor.Companion{companion}, startRoomID)
	gs.Inventory = inventory
	if equipment != nil {
		gs.Equipment = equipment
	}
	rules.SyncPlayerAC(gs)

	intro, err := engine.StartRoom(gs)
	if err != nil {
		return nil, "", err
	}
	gs.LastEvent = intro
	return gs, intro, nil
}

func chooseCampaign(registry *campaign.Registry) (*campaign.Campaign, error) {
	campaigns := registry.Campaigns()
	if len(campaigns) == 0 {
		return nil, fmt.Errorf("no campaigns are registered")
	}
	if len(campaigns) == 1 {
		return campaigns[0], nil
	}
	names := make([]string, len(campaigns))
	for i, c := range campaigns {
		names[i] = c.Name
	}
	choice := promptChoice("Choose a campaign", names)
	return campaigns[choice], nil
}

// chooseOrCreateCharacter offers the roster first, then falls back to
// full character creation.
func chooseOrCreateCharacter(ctx context.Context, store storage.Storage, registry *campaign.Registry, campaignID string) (*actor.Character, []campaign.Item, map[campaign.Slot]*campaign.Item, error) {
	saved, err := store.ListCharacters(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(saved) > 0 {
		options := append([]string{"Create new"}, saved...)
		choice := promptChoice("Load character or create new?", options)
		if choice > 0 {
			record, err := store.LoadCharacter(ctx, options[choice], campaignID)
			if err != nil {
				return nil, nil, nil, err
			}
			return record.Character, record.Inventory, record.Equipment, nil
		}
	}

	name := titleCaser.String(promptLine("Enter your character name"))
	if name == "" {
		name = "Adventurer"
	}
	classes := campaign.ClassNames()
	class := classes[promptChoice("Choose a class", classes)]
	race := chooseRace()
	stats := promptStatAllocation(statPointBudget)

	player, err := actor.NewCharacter(name, class, race, stats)
	if err != nil {
		return nil, nil, nil, err
	}
	inventory := []campaign.Item{
		registry.ItemByID(campaignID, "healing_potion"),
		registry.ItemByID(campaignID, "healing_potion"),
		registry.ItemByID(campaignID, "healing_potion"),
		registry.ItemByID(campaignID, "leather_cap"),
		registry.ItemByID(campaignID, "worn_boots"),
	}
	return player, inventory, nil, nil
}

func chooseRace() string {
	races := campaign.RaceNames()
	if len(races) == 0 {
		return "Human"
	}
	if len(races) == 1 {
		return races[0]
	}
	return races[promptChoice("Choose a race", races)]
}

// chooseCompanion uses the campaign default when there is only one
// candidate, otherwise prompts.
func chooseCompanion(registry *campaign.Registry, c *campaign.Campaign) (*actor.Companion, error) {
	ids := c.DefaultCompanionIDs
	if len(ids) == 0 {
		for id := range c.Companions {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("campaign %s has no companions", c.ID)
	}

	pick := ids[0]
	if len(ids) > 1 {
		names := make([]string, len(ids))
		for i, id := range ids {
			profile, err := registry.CompanionProfile(c.ID, id)
			if err != nil {
				return nil, err
			}
			names[i] = profile.Name
		}
		pick = ids[promptChoice("Choose your companion", names)]
	}

	profile, err := registry.CompanionProfile(c.ID, pick)
	if err != nil {
		return nil, err
	}
	return actor.NewCompanion(profile), nil
}

// promptStatAllocation collects the six stats interactively. Every point
// of the budget must be spent and each stat stays in [statMin, statMax].
func promptStatAllocation(totalPoints int) actor.Stats {
	stats := make(actor.Stats, len(actor.StatNames))
	for _, name := range actor.StatNames {
		stats[name] = 0
	}
	for {
		remaining := totalPoints - statSum(stats)
		fmt.Printf("Allocate stats. Remaining points: %d\n", remaining)
		valid := true
		for _, key := range actor.StatNames {
			current := stats[key]
			raw := promptLine(fmt.Sprintf("%s (current %d, %d-%d)", key, current, statMin, statMax))
			value := current
			if raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil {
					fmt.Println("Enter a number.")
					valid = false
					break
				}
				value = n
			}
			if value < statMin || value > statMax {
				fmt.Printf("%s must be between %d and %d.\n", key, statMin, statMax)
				valid = false
				break
			}
			if value-current > totalPoints-statSum(stats) {
				fmt.Println("Not enough points remaining.")
				valid = false
				break
			}
			stats[key] = value
		}
		if valid && statSum(stats) == totalPoints {
			return stats
		}
		if valid {
			fmt.Println("You must spend all points.")
		}
	}
}

func statSum(stats actor.Stats) int {
	total := 0
	for _, v := range stats {
		total += v
	}
	return total
}

// promptChoice prints numbered options and returns the chosen index.
func promptChoice(prompt string, options []string) int {
	for {
		fmt.Println(prompt)
		for i, option := range options {
			fmt.Printf("  %d - %s\n", i+1, option)
		}
		raw := promptLine("Select by number")
		n, err := strconv.Atoi(raw)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1
		}
		fmt.Println("Invalid selection.")
	}
}

func yesNo(prompt string) bool {
	for {
		raw := strings.ToLower(promptLine(prompt + " [y/n]"))
		switch raw {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}

func promptLine(prompt string) string {
	fmt.Printf("%s: ", prompt)
	if !stdin.Scan() {
		return ""
	}
	return strings.TrimSpace(stdin.Text())
}
