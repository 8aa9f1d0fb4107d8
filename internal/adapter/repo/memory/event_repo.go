package memory

import (
	"context"

	"lorekeeper/internal/app/ports"
	"lorekeeper/internal/domain/combat"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, encounterID string, events []combat.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	r.store.events[encounterID] = append(r.store.events[encounterID], events...)
	return nil
}

func (r EventRepo) ListByEncounter(_ context.Context, encounterID string, limit int) ([]combat.DomainEvent, error) {
	events := r.store.events[encounterID]
	if len(events) == 0 {
		return nil, ports.ErrNotFound
	}
	out := make([]combat.DomainEvent, len(events))
	copy(out, events)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
