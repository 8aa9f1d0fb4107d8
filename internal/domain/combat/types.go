package combat

import "time"

type ActionType string

const (
	ActionAttack      ActionType = "attack"
	ActionCastSpell   ActionType = "cast_spell"
	ActionDash        ActionType = "dash"
	ActionDisengage   ActionType = "disengage"
	ActionDodge       ActionType = "dodge"
	ActionHelp        ActionType = "help"
	ActionHide        ActionType = "hide"
	ActionReady       ActionType = "ready"
	ActionSearch      ActionType = "search"
	ActionUseItem     ActionType = "use_item"
	ActionBonusAction ActionType = "bonus_action"
	ActionReaction    ActionType = "reaction"
)

type ActionCategory string

const (
	CategoryMain     ActionCategory = "main"
	CategoryBonus    ActionCategory = "bonus"
	CategoryReaction ActionCategory = "reaction"
)

// Category maps an action type to the per-round budget it consumes.
func (t ActionType) Category() ActionCategory {
	switch t {
	case ActionBonusAction:
		return CategoryBonus
	case ActionReaction:
		return CategoryReaction
	default:
		return CategoryMain
	}
}

func (t ActionType) Known() bool {
	switch t {
	case ActionAttack, ActionCastSpell, ActionDash, ActionDisengage, ActionDodge,
		ActionHelp, ActionHide, ActionReady, ActionSearch, ActionUseItem,
		ActionBonusAction, ActionReaction:
		return true
	default:
		return false
	}
}

type AbilityType string

const (
	AbilityStrength     AbilityType = "strength"
	AbilityDexterity    AbilityType = "dexterity"
	AbilityConstitution AbilityType = "constitution"
	AbilityIntelligence AbilityType = "intelligence"
	AbilityWisdom       AbilityType = "wisdom"
	AbilityCharisma     AbilityType = "charisma"
)

type WeaponProperty string

const (
	PropertyFinesse WeaponProperty = "finesse"
)

// CharacterSnapshot is the read-only slice of a character the engine needs.
// Hit points are the one field the resolver mutates; the caller persists
// the change.
type CharacterSnapshot struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	AbilityScores    map[AbilityType]int `json:"ability_scores"`
	CurrentHitPoints int                 `json:"current_hit_points"`
	MaxHitPoints     int                 `json:"max_hit_points"`
	ProficiencyBonus int                 `json:"proficiency_bonus"`
}

// Modifier derives the ability bonus: floor((score-10)/2).
func (c *CharacterSnapshot) Modifier(a AbilityType) int {
	d := c.AbilityScores[a] - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// ApplyDamage lowers current hit points, clamped at zero, and returns the
// remaining value.
func (c *CharacterSnapshot) ApplyDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	c.CurrentHitPoints -= amount
	if c.CurrentHitPoints < 0 {
		c.CurrentHitPoints = 0
	}
	return c.CurrentHitPoints
}

func (c *CharacterSnapshot) Unconscious() bool {
	return c.CurrentHitPoints <= 0
}

type ItemSnapshot struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Weapon      bool             `json:"weapon"`
	DamageDice  string           `json:"damage_dice,omitempty"`
	DamageBonus int              `json:"damage_bonus,omitempty"`
	Ranged      bool             `json:"ranged,omitempty"`
	Properties  []WeaponProperty `json:"properties,omitempty"`
}

func (i *ItemSnapshot) HasProperty(p WeaponProperty) bool {
	for _, have := range i.Properties {
		if have == p {
			return true
		}
	}
	return false
}

type SpellSnapshot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	School     string `json:"school,omitempty"`
	DamageDice string `json:"damage_dice,omitempty"`
}

// ActionResult is the immutable outcome of one resolved action.
type ActionResult struct {
	Success     bool           `json:"success"`
	DamageDealt int            `json:"damage_dealt"`
	Description string         `json:"description"`
	DamageRoll  string         `json:"damage_roll,omitempty"`
	DiceResults map[string]int `json:"dice_results,omitempty"`
}

// CombatAction is one entry of the append-only action history.
type CombatAction struct {
	ID          string       `json:"id"`
	CharacterID string       `json:"character_id"`
	Type        ActionType   `json:"type"`
	TargetID    string       `json:"target_id,omitempty"`
	ItemID      string       `json:"item_id,omitempty"`
	SpellID     string       `json:"spell_id,omitempty"`
	Result      ActionResult `json:"result"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Initiative is the per-participant turn record plus its per-round budgets.
type Initiative struct {
	CharacterID      string `json:"character_id"`
	Roll             int    `json:"roll"`
	CurrentTurn      bool   `json:"current_turn"`
	HasActed         bool   `json:"has_acted"`
	BonusActionsUsed int    `json:"bonus_actions_used"`
	ReactionsUsed    int    `json:"reactions_used"`
	MovementUsed     int    `json:"movement_used"`
}

// Effect is a timed modifier. The engine never ticks effects on its own;
// callers advance or deactivate them explicitly.
type Effect struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Duration int    `json:"duration"` // rounds; negative means indefinite
	Active   bool   `json:"active"`
	SourceID string `json:"source_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`
	SpellID  string `json:"spell_id,omitempty"`
}

func (e *Effect) Indefinite() bool {
	return e.Duration < 0
}

// TickRound burns one round off a finite effect and deactivates it when the
// duration runs out.
func (e *Effect) TickRound() {
	if !e.Active || e.Indefinite() {
		return
	}
	e.Duration--
	if e.Duration <= 0 {
		e.Active = false
	}
}

// CombatState is the aggregate root for one active encounter's combat.
type CombatState struct {
	ID            string         `json:"id"`
	EncounterID   string         `json:"encounter_id"`
	CurrentRound  int            `json:"current_round"`
	Order         []Initiative   `json:"initiative_order"`
	ActiveEffects []Effect       `json:"active_effects,omitempty"`
	Active        bool           `json:"active"`
	StartedAt     *time.Time     `json:"started_at,omitempty"`
	EndedAt       *time.Time     `json:"ended_at,omitempty"`
	History       []CombatAction `json:"action_history"`
	Version       int64          `json:"version"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type EventType string

const (
	EventCombatStarted    EventType = "combat_started"
	EventCombatEnded      EventType = "combat_ended"
	EventParticipantAdded EventType = "participant_added"
	EventActionPerformed  EventType = "action_performed"
	EventTurnChanged      EventType = "turn_changed"
	EventRoundStarted     EventType = "round_started"
	EventHealthUpdate     EventType = "health_update"
)

type DomainEvent struct {
	Type       EventType      `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}
