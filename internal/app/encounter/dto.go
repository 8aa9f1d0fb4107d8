package encounter

import "lorekeeper/internal/domain/combat"

type ParticipantRoll struct {
	CharacterID    string `json:"character_id"`
	InitiativeRoll int    `json:"initiative_roll"`
}

type StartRequest struct {
	EncounterID  string            `json:"encounter_id"`
	Participants []ParticipantRoll `json:"participants"`
}

type AddParticipantRequest struct {
	EncounterID    string `json:"encounter_id"`
	CharacterID    string `json:"character_id"`
	InitiativeRoll int    `json:"initiative_roll"`
}

type TurnRequest struct {
	EncounterID string `json:"encounter_id"`
}

type EndRequest struct {
	EncounterID string `json:"encounter_id"`
}

type Response struct {
	Combat combat.CombatState   `json:"combat"`
	Events []combat.DomainEvent `json:"events"`
}
