package combat

import "fmt"

// ResolverService turns a submitted action into an ActionResult. The to-hit
// or ability check happens upstream; the resolver only resolves the effects
// of a succeeded or failed attempt, signaled by hit.
//
// Damage-dealing branches mutate the target snapshot's hit points in place;
// the caller persists that change.
type ResolverService struct {
	Roller Roller
}

// Resolve dispatches on action type. Unknown types produce a failure result
// rather than an error: submitting an unimplemented action is recorded as a
// failed historical event, not a broken request.
func (r ResolverService) Resolve(t ActionType, actor, target *CharacterSnapshot, item *ItemSnapshot, spell *SpellSnapshot, castingAbility AbilityType, hit bool) ActionResult {
	switch t {
	case ActionAttack:
		return r.resolveAttack(actor, target, item, hit)
	case ActionCastSpell:
		return r.resolveCastSpell(actor, target, spell, castingAbility, hit)
	case ActionDash:
		return ActionResult{
			Success:     true,
			Description: fmt.Sprintf("%s takes the Dash action, doubling movement this turn.", actor.Name),
		}
	case ActionReady:
		return ActionResult{
			Success:     true,
			Description: fmt.Sprintf("%s readies an action, waiting for the right moment.", actor.Name),
		}
	case ActionHelp:
		if target == nil {
			return ActionResult{Description: "No target specified for help."}
		}
		return ActionResult{
			Success:     true,
			Description: fmt.Sprintf("%s helps %s, granting advantage on their next check.", actor.Name, target.Name),
		}
	case ActionHide:
		if !hit {
			return ActionResult{Description: fmt.Sprintf("%s tries to hide but is spotted.", actor.Name)}
		}
		return ActionResult{
			Success:     true,
			Description: fmt.Sprintf("%s slips out of sight and hides.", actor.Name),
		}
	case ActionSearch:
		if !hit {
			return ActionResult{Description: fmt.Sprintf("%s searches the area but finds nothing.", actor.Name)}
		}
		return ActionResult{
			Success:     true,
			Description: fmt.Sprintf("%s searches the area and notices something of interest.", actor.Name),
		}
	case ActionUseItem:
		return r.resolveUseItem(actor, item, hit)
	case ActionBonusAction, ActionReaction:
		return r.resolveGeneric(t, actor, item, spell, hit)
	default:
		return ActionResult{Description: fmt.Sprintf("Action type %q is not implemented.", string(t))}
	}
}

// damageSource is the tagged variant behind every damage computation:
// a dice expression plus the ability-modifier rule that applies to it.
// Weapon, unarmed and spell damage all flow through the same roll.
type damageSource struct {
	dice       string
	abilityMod int
	flatBonus  int
}

// rollDamage evaluates a damage source, floored at 1 total.
func (r ResolverService) rollDamage(src damageSource) (damage int, roll string, breakdown map[string]int) {
	total, breakdown := r.Roller.Roll(src.dice)
	damage = total + src.abilityMod + src.flatBonus
	if damage < 1 {
		damage = 1
	}
	roll = src.dice
	if mod := src.abilityMod + src.flatBonus; mod != 0 {
		roll = fmt.Sprintf("%s%+d", src.dice, mod)
	}
	return damage, roll, breakdown
}

func (r ResolverService) resolveAttack(actor, target *CharacterSnapshot, item *ItemSnapshot, hit bool) ActionResult {
	if target == nil {
		return ActionResult{Description: "No target specified for attack."}
	}
	if !hit {
		return ActionResult{
			Description: fmt.Sprintf("%s attacks %s but misses.", actor.Name, target.Name),
		}
	}

	src := damageSource{dice: "1", abilityMod: actor.Modifier(AbilityStrength)}
	weaponName := "an unarmed strike"
	if item != nil && item.Weapon {
		src = damageSource{
			dice:       item.DamageDice,
			abilityMod: attackModifier(actor, item),
			flatBonus:  item.DamageBonus,
		}
		weaponName = item.Name
	}

	damage, roll, breakdown := r.rollDamage(src)
	remaining := target.ApplyDamage(damage)

	description := fmt.Sprintf("%s hits %s with %s for %d damage.", actor.Name, target.Name, weaponName, damage)
	if remaining == 0 {
		description += fmt.Sprintf(" %s falls unconscious!", target.Name)
	}

	return ActionResult{
		Success:     true,
		DamageDealt: damage,
		Description: description,
		DamageRoll:  roll,
		DiceResults: breakdown,
	}
}

// attackModifier picks the ability bonus per weapon property: finesse takes
// the better of STR and DEX, ranged weapons use DEX, everything else STR.
func attackModifier(actor *CharacterSnapshot, item *ItemSnapshot) int {
	strMod := actor.Modifier(AbilityStrength)
	dexMod := actor.Modifier(AbilityDexterity)
	switch {
	case item.HasProperty(PropertyFinesse):
		if dexMod > strMod {
			return dexMod
		}
		return strMod
	case item.Ranged:
		return dexMod
	default:
		return strMod
	}
}

func (r ResolverService) resolveCastSpell(actor, target *CharacterSnapshot, spell *SpellSnapshot, castingAbility AbilityType, hit bool) ActionResult {
	if spell == nil {
		return ActionResult{Description: "No spell specified for casting."}
	}
	if !hit {
		return ActionResult{
			Description: fmt.Sprintf("%s fails to cast %s.", actor.Name, spell.Name),
		}
	}
	if spell.DamageDice == "" {
		return ActionResult{
			Success:     true,
			Description: fmt.Sprintf("%s casts %s successfully.", actor.Name, spell.Name),
		}
	}
	if target == nil {
		return ActionResult{Description: fmt.Sprintf("No target specified for %s.", spell.Name)}
	}

	if castingAbility == "" {
		castingAbility = AbilityIntelligence
	}
	damage, roll, breakdown := r.rollDamage(damageSource{
		dice:       spell.DamageDice,
		abilityMod: actor.Modifier(castingAbility),
	})
	remaining := target.ApplyDamage(damage)

	description := fmt.Sprintf("%s casts %s at %s for %d damage.", actor.Name, spell.Name, target.Name, damage)
	if remaining == 0 {
		description += fmt.Sprintf(" %s falls unconscious!", target.Name)
	}

	return ActionResult{
		Success:     true,
		DamageDealt: damage,
		Description: description,
		DamageRoll:  roll,
		DiceResults: breakdown,
	}
}

func (r ResolverService) resolveUseItem(actor *CharacterSnapshot, item *ItemSnapshot, hit bool) ActionResult {
	if item == nil {
		return ActionResult{Description: "No item specified for use."}
	}
	if !hit {
		return ActionResult{
			Description: fmt.Sprintf("%s fumbles with %s to no effect.", actor.Name, item.Name),
		}
	}
	return ActionResult{
		Success:     true,
		Description: fmt.Sprintf("%s uses %s.", actor.Name, item.Name),
	}
}

func (r ResolverService) resolveGeneric(t ActionType, actor *CharacterSnapshot, item *ItemSnapshot, spell *SpellSnapshot, hit bool) ActionResult {
	label := "a maneuver"
	switch {
	case item != nil:
		label = item.Name
	case spell != nil:
		label = spell.Name
	}
	kind := "bonus action"
	if t == ActionReaction {
		kind = "reaction"
	}
	if !hit {
		return ActionResult{
			Description: fmt.Sprintf("%s attempts %s as a %s but fails.", actor.Name, label, kind),
		}
	}
	return ActionResult{
		Success:     true,
		Description: fmt.Sprintf("%s uses %s as a %s.", actor.Name, label, kind),
	}
}
