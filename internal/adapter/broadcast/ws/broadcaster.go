package wsbroadcast

import (
	"context"

	"lorekeeper/internal/domain/combat"
)

type eventMessage struct {
	Type        string               `json:"type"`
	EncounterID string               `json:"encounter_id"`
	Events      []combat.DomainEvent `json:"events"`
}

// Broadcaster fans committed combat events out to the hub.
type Broadcaster struct {
	Hub *Hub
}

func (b Broadcaster) Notify(_ context.Context, encounterID string, events []combat.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	b.Hub.Broadcast(encounterID, eventMessage{
		Type:        "combat_events",
		EncounterID: encounterID,
		Events:      events,
	})
	return nil
}
