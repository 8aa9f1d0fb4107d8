package ports

import (
	"context"

	"lorekeeper/internal/domain/combat"
)

// Broadcaster pushes live-sync events to connected clients. Best-effort:
// the authoritative state change has already committed by the time a
// broadcast is attempted, so callers log failures and move on.
type Broadcaster interface {
	Notify(ctx context.Context, encounterID string, events []combat.DomainEvent) error
}
