package action

import "lorekeeper/internal/domain/combat"

type Request struct {
	EncounterID    string             `json:"encounter_id"`
	CharacterID    string             `json:"character_id"`
	Type           combat.ActionType  `json:"type"`
	TargetID       string             `json:"target_id,omitempty"`
	ItemID         string             `json:"item_id,omitempty"`
	SpellID        string             `json:"spell_id,omitempty"`
	CastingAbility combat.AbilityType `json:"casting_ability,omitempty"`
	// Hit is the upstream to-hit/ability-check outcome. The roll itself
	// happens outside this engine.
	Hit bool `json:"hit"`
}

type HealthDelta struct {
	CharacterID      string `json:"character_id"`
	CurrentHitPoints int    `json:"current_hit_points"`
	Damage           int    `json:"damage"`
}

type Response struct {
	Action       combat.CombatAction  `json:"action"`
	CurrentRound int                  `json:"current_round"`
	HealthDelta  *HealthDelta         `json:"health_delta,omitempty"`
	Events       []combat.DomainEvent `json:"events"`
}
