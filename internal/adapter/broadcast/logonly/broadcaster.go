// Package logonly is the broadcaster used when no WebSocket listener is
// configured. Events are written to the process log instead of the wire.
package logonly

import (
	"context"
	"log"

	"lorekeeper/internal/domain/combat"
)

type Broadcaster struct{}

func (Broadcaster) Notify(_ context.Context, encounterID string, events []combat.DomainEvent) error {
	for _, e := range events {
		log.Printf("broadcast encounter=%s event=%s", encounterID, e.Type)
	}
	return nil
}
