package replay

import "lorekeeper/internal/domain/combat"

type Request struct {
	EncounterID  string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

type Response struct {
	Events []combat.DomainEvent `json:"events"`
	// HitPoints holds the last-known hit-point value per character,
	// reconstructed from health_update events.
	HitPoints map[string]int `json:"hit_points"`
}
