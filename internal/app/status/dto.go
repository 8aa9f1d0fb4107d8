package status

import "lorekeeper/internal/domain/combat"

type Request struct {
	EncounterID string
}

type Response struct {
	Combat             combat.CombatState `json:"combat"`
	CurrentCharacterID string             `json:"current_character_id,omitempty"`
}
