package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/actor"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

// defendACBonus is the one-round AC bonus from a defend stance.
const defendACBonus = 2

// applyCombat resolves one combat-mode action. A valid player action runs
// the full round: player, companion, enemies, stance cleanup, end-of-combat
// detection, and mana regeneration. User errors abort before the round
// starts and do not consume the turn.
func (e *Engine) applyCombat(gs *state.GameState, action string) (Result, error) {
	if item, target, ok := parseUse(action); ok {
		used, line := e.useItem(gs, item, target)
		if !used {
			return Result{Lines: []string{line}}, nil
		}
		return e.finishRound(gs, line)
	}

	verb, target, spell, errLine := parseCombatAction(action)
	if errLine != "" {
		return Result{Lines: []string{errLine}}, nil
	}
	if verb == "" {
		return Result{Lines: []string{"Choose attack, defend, special, or cast <spell> [target]."}}, nil
	}

	line, ok, err := e.playerAction(gs, verb, target, spell)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Lines: []string{line}}, nil
	}
	return e.finishRound(gs, line)
}

// parseCombatAction maps input to (verb, target, spell). Bare spell names
// act as cast shortcuts. An empty verb with no error line means the input
// was not a combat action.
func parseCombatAction(action string) (verb, target, spell, errLine string) {
	switch {
	case action == "attack":
		return "attack", "", "", ""
	case strings.HasPrefix(action, "attack "):
		return "attack", strings.TrimSpace(action[len("attack "):]), "", ""
	case action == "defend":
		return "defend", "", "", ""
	case action == "special":
		return "special", "", "", ""
	case strings.HasPrefix(action, "special "):
		return "special", strings.TrimSpace(action[len("special "):]), "", ""
	case action == "cast":
		return "", "", "", "Cast which spell? (e.g. cast magic missile, cast spark 1)"
	case strings.HasPrefix(action, "cast "):
		rest := strings.TrimSpace(action[len("cast "):])
		return parseCastArgs(rest)
	}
	// Bare spell names: "spark", "magic missile 2", ...
	if v, t, s, el := parseCastArgs(action); s != "" {
		return v, t, s, el
	}
	return "", "", "", ""
}

// parseCastArgs resolves "spellname [target]" where the spell name may be
// multi-word. The trailing token is a target only when the full text is
// not itself a spell name.
func parseCastArgs(text string) (verb, target, spell, errLine string) {
	if name, ok := canonicalSpell(text); ok {
		return "cast", "", name, ""
	}
	if i := strings.LastIndex(text, " "); i > 0 {
		if name, ok := canonicalSpell(text[:i]); ok {
			return "cast", strings.TrimSpace(text[i+1:]), name, ""
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", "", "", "Cast which spell? (e.g. cast magic missile, cast spark 1)"
	}
	return "", "", "", ""
}

// finishRound runs the rest of the round after a successful player action.
func (e *Engine) finishRound(gs *state.GameState, playerLine string) (Result, error) {
	lines := []string{playerLine}
	if companionLine := e.companionAction(gs); companionLine != "" {
		lines = append(lines, companionLine)
	}
	enemyLines, err := e.enemyActions(gs)
	if err != nil {
		return Result{}, err
	}
	lines = append(lines, enemyLines...)

	gs.PlayerDefending = false
	gs.CompanionDefending = false

	endLine, err := e.endCombatIfNeeded(gs)
	if err != nil {
		return Result{}, err
	}
	if endLine != "" {
		lines = append(lines, endLine)
	}

	e.regenMana(gs, 1)
	return Result{Lines: lines, TurnConsumed: true}, nil
}

// attackRoll resolves to-hit: d20 + bonus vs AC, +2 AC while defending.
func (e *Engine) attackRoll(attackBonus, targetAC int, targetDefending bool) (bool, int, int) {
	roll := e.roller.Roll(20)
	total := roll + attackBonus
	effectiveAC := targetAC
	if targetDefending {
		effectiveAC += defendACBonus
	}
	return total >= effectiveAC, roll, total
}

// rollDamage evaluates a damage expression plus a flat bonus, returning
// the amount and a display string like "5 (4+1)".
func (e *Engine) rollDamage(expr string, bonus int) (int, string, error) {
	damage, detail, err := e.roller.RollExpr(expr)
	if err != nil {
		return 0, "", fmt.Errorf("rolling damage %q: %w", expr, err)
	}
	if bonus != 0 {
		detail = fmt.Sprintf("%s%+d", detail, bonus)
		damage += bonus
	}
	return damage, fmt.Sprintf("%d (%s)", damage, detail), nil
}

// selectEnemy resolves a target query against the living enemies: empty
// picks the weakest, a digit indexes the living list 1-based, anything
// else matches by name substring. The second return is a user error line.
func selectEnemy(gs *state.GameState, query string) (*actor.Enemy, string) {
	alive := gs.AliveEnemies()
	if len(alive) == 0 {
		return nil, "There's nothing to attack."
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		weakest := alive[0]
		for _, enemy := range alive[1:] {
			if enemy.HP < weakest.HP {
				weakest = enemy
			}
		}
		return weakest, ""
	}
	if idx, err := strconv.Atoi(query); err == nil {
		if idx < 1 || idx > len(alive) {
			return nil, "That target doesn't exist."
		}
		return alive[idx-1], ""
	}
	var matches []*actor.Enemy
	for _, enemy := range alive {
		if strings.Contains(strings.ToLower(enemy.Name), query) {
			matches = append(matches, enemy)
		}
	}
	if len(matches) == 0 {
		return nil, "No such target."
	}
	if len(matches) > 1 {
		return nil, "Be more specific."
	}
	return matches[0], ""
}

// playerAction resolves the player's combat verb. ok=false marks a user
// or resource error that must not consume the turn.
func (e *Engine) playerAction(gs *state.GameState, verb, target, spell string) (string, bool, error) {
	player := gs.Player

	if verb == "defend" {
		gs.PlayerDefending = true
		return fmt.Sprintf("%s takes a defensive stance (+2 AC until next attack).", player.Name), true, nil
	}

	enemy, errLine := selectEnemy(gs, target)
	if errLine != "" {
		return errLine, false, nil
	}

	attackBonus := player.AttackBonus
	damageExpr := player.Damage
	flatBonus := 0
	flavor := ""

	switch verb {
	case "attack":
		// Base attack, no modifiers.
	case "special":
		if player.IsCaster() {
			// A caster with no damage spells swings their weapon instead.
			if name, info, ok := bestDamageSpell(player.LearnedSpells); ok {
				if player.Mana < info.Mana {
					return "You are out of mana.", false, nil
				}
				player.Mana -= info.Mana
				damageExpr = info.Damage
				attackBonus += player.Stats.Get("INT")
				flavor = fmt.Sprintf("You channel %s. ", name)
			}
		} else if player.Class == "Fighter" {
			flatBonus = 2
			flavor = "You drive a heavy power strike. "
		} else if player.Class == "Rogue" {
			attackBonus += 2
			flavor = "You line up a precise shot. "
		}
	case "cast":
		if !player.Knows(spell) {
			return "You don't know that spell.", false, nil
		}
		info, ok := damageSpells[spell]
		if !ok {
			return fmt.Sprintf("You can't cast %s right now.", spell), false, nil
		}
		if player.Mana < info.Mana {
			return "You are out of mana.", false, nil
		}
		player.Mana -= info.Mana
		damageExpr = info.Damage
		attackBonus += player.Stats.Get("INT")
		flavor = fmt.Sprintf("You channel %s. ", spell)
	}

	hit, roll, total := e.attackRoll(attackBonus, enemy.AC, false)
	if !hit {
		return fmt.Sprintf("%sMiss %s (roll %d -> %d).", flavor, enemy.Name, roll, total), true, nil
	}
	damage, detail, err := e.rollDamage(damageExpr, flatBonus)
	if err != nil {
		return "", false, err
	}
	enemy.TakeDamage(damage)
	return fmt.Sprintf("%sHit %s (roll %d -> %d) for %s damage.", flavor, enemy.Name, roll, total, detail), true, nil
}

// companionAction runs the active companion's automatic turn: nothing when
// down, defend when badly hurt, best damage spell when affordable, melee
// against the weakest enemy otherwise.
func (e *Engine) companionAction(gs *state.GameState) string {
	companion := gs.ActiveCompanion()
	if companion == nil {
		return ""
	}
	if companion.IsDown() {
		return fmt.Sprintf("%s is down and cannot act.", companion.Name)
	}
	if companion.HP <= companion.DefendHPThreshold {
		gs.CompanionDefending = true
		return fmt.Sprintf("%s keeps their distance and braces (+2 AC).", companion.Name)
	}
	enemy, errLine := selectEnemy(gs, "")
	if errLine != "" {
		return fmt.Sprintf("%s scans the room, weapon lowered.", companion.Name)
	}

	if name, info, ok := bestDamageSpell(companion.LearnedSpells); ok && companion.MaxMana > 0 && companion.Mana >= info.Mana {
		companion.Mana -= info.Mana
		hit, roll, total := e.attackRoll(companion.AttackBonus, enemy.AC, false)
		if !hit {
			return fmt.Sprintf("%s channels %s. Miss %s (roll %d -> %d).", companion.Name, name, enemy.Name, roll, total)
		}
		damage, detail, err := e.rollDamage(info.Damage, 0)
		if err != nil {
			return fmt.Sprintf("%s channels %s, but the spell fizzles.", companion.Name, name)
		}
		enemy.TakeDamage(damage)
		return fmt.Sprintf("%s channels %s. Hit %s (roll %d -> %d) for %s damage.",
			companion.Name, name, enemy.Name, roll, total, detail)
	}

	hit, roll, total := e.attackRoll(companion.AttackBonus, enemy.AC, false)
	if !hit {
		return fmt.Sprintf("%s misses %s (roll %d -> %d).", companion.Name, enemy.Name, roll, total)
	}
	damage, detail, err := e.rollDamage(companion.Damage, 0)
	if err != nil {
		return fmt.Sprintf("%s swings wide at %s.", companion.Name, enemy.Name)
	}
	enemy.TakeDamage(damage)
	return fmt.Sprintf("%s strikes %s (roll %d -> %d) for %s damage.",
		companion.Name, enemy.Name, roll, total, detail)
}

// enemyActions runs one attack per living enemy, target chosen by the
// mob's AI policy.
func (e *Engine) enemyActions(gs *state.GameState) ([]string, error) {
	alive := gs.AliveEnemies()
	if len(alive) == 0 {
		return []string{"The foes are down."}, nil
	}

	companion := gs.ActiveCompanion()
	var lines []string
	for _, enemy := range alive {
		profile, err := e.registry.Mob(gs.CampaignID, enemy.Name)
		if err != nil {
			return nil, err
		}

		targetPlayer := true
		switch profile.AI {
		case campaign.FocusPlayer:
			targetPlayer = gs.Player.HP > 0 || companion == nil
		case campaign.FocusCompanion:
			targetPlayer = companion == nil || companion.IsDown()
		default: // FocusWeakest
			if companion != nil && !companion.IsDown() && companion.HP < gs.Player.HP {
				targetPlayer = false
			}
		}

		if targetPlayer {
			hit, roll, total := e.attackRoll(enemy.AttackBonus, gs.Player.AC, gs.PlayerDefending)
			if !hit {
				lines = append(lines, fmt.Sprintf("%s misses %s (roll %d -> %d).", enemy.Name, gs.Player.Name, roll, total))
				continue
			}
			damage, detail, err := e.rollDamage(enemy.Damage, 0)
			if err != nil {
				return nil, err
			}
			gs.Player.TakeDamage(damage)
			lines = append(lines, fmt.Sprintf("%s strikes %s (roll %d -> %d) for %s damage.",
				enemy.Name, gs.Player.Name, roll, total, detail))
			continue
		}

		hit, roll, total := e.attackRoll(enemy.AttackBonus, companion.AC, gs.CompanionDefending)
		if !hit {
			lines = append(lines, fmt.Sprintf("%s misses %s (roll %d -> %d).", enemy.Name, companion.Name, roll, total))
			continue
		}
		damage, detail, err := e.rollDamage(enemy.Damage, 0)
		if err != nil {
			return nil, err
		}
		companion.TakeDamage(damage)
		lines = append(lines, fmt.Sprintf("%s lashes at %s (roll %d -> %d) for %s damage.",
			enemy.Name, companion.Name, roll, total, detail))
	}
	return lines, nil
}

// endCombatIfNeeded checks the round's outcome. Victory is checked first:
// all enemies down ends combat, records the defeated room and corpses,
// grants XP, and clears the enemy list. Otherwise a downed player means
// defeat. Calling again after enemies are cleared is a no-op.
func (e *Engine) endCombatIfNeeded(gs *state.GameState) (string, error) {
	if len(gs.Enemies) == 0 {
		return "", nil
	}
	if len(gs.AliveEnemies()) == 0 {
		gs.InCombat = false
		gs.Flags.MarkRoomDefeated(gs.RoomID)

		totalXP := 0
		for _, enemy := range gs.Enemies {
			profile, err := e.registry.Mob(gs.CampaignID, enemy.Name)
			if err != nil {
				return "", err
			}
			totalXP += profile.XP
		}
		var levelMsgs []string
		if totalXP > 0 {
			levelMsgs = e.GrantXP(gs, totalXP)
		}

		corpses := make([]*state.Corpse, len(gs.Enemies))
		names := make([]string, len(gs.Enemies))
		for i, enemy := range gs.Enemies {
			corpses[i] = &state.Corpse{ID: gs.Flags.NextID(), Name: enemy.Name}
			names[i] = fmt.Sprintf("%d. %s", corpses[i].ID, enemy.Name)
		}
		gs.Flags.SetCorpses(gs.RoomID, corpses)
		gs.Enemies = nil

		parts := []string{fmt.Sprintf(
			"The foes fall. Corpses: %s. You can 'loot <number>' or 'loot all'. The way forward is clear.",
			strings.Join(names, ", "))}
		if totalXP > 0 {
			parts = append(parts, fmt.Sprintf("XP +%d.", totalXP))
		}
		parts = append(parts, levelMsgs...)
		e.logger.Info("combat won", "room", gs.RoomID, "xp", totalXP)
		return strings.Join(parts, " "), nil
	}
	if gs.Player.IsDown() {
		gs.GameOver = true
		e.logger.Info("player defeated", "room", gs.RoomID, "turn", gs.Turn)
		return "You collapse from your wounds. The adventure claims another victim.", nil
	}
	return "", nil
}

// regenMana restores mana to the player (casters only) and every companion
// with a pool, capped at max.
func (e *Engine) regenMana(gs *state.GameState, amount int) int {
	gained := 0
	if gs.Player.IsCaster() && gs.Player.MaxMana > 0 {
		before := gs.Player.Mana
		gs.Player.Mana += amount
		if gs.Player.Mana > gs.Player.MaxMana {
			gs.Player.Mana = gs.Player.MaxMana
		}
		gained += gs.Player.Mana - before
	}
	for _, companion := range gs.Companions {
		if companion.MaxMana <= 0 {
			continue
		}
		before := companion.Mana
		companion.Mana += amount
		if companion.Mana > companion.MaxMana {
			companion.Mana = companion.MaxMana
		}
		gained += companion.Mana - before
	}
	return gained
}
