package ports

import (
	"context"

	"lorekeeper/internal/domain/combat"
)

// CombatRepository owns the combat aggregate. Active lookup is keyed by
// encounter: at most one combat is active per encounter at any time.
type CombatRepository interface {
	ActiveByEncounter(ctx context.Context, encounterID string) (combat.CombatState, error)
	GetByID(ctx context.Context, combatID string) (combat.CombatState, error)
	SaveWithVersion(ctx context.Context, state combat.CombatState, expectedVersion int64) error
}

// CharacterRepository reads character snapshots and persists the one field
// the engine mutates: current hit points.
type CharacterRepository interface {
	GetByID(ctx context.Context, characterID string) (combat.CharacterSnapshot, error)
	SaveHitPoints(ctx context.Context, characterID string, current int) error
}

type ItemRepository interface {
	GetByID(ctx context.Context, itemID string) (combat.ItemSnapshot, error)
}

type SpellRepository interface {
	GetByID(ctx context.Context, spellID string) (combat.SpellSnapshot, error)
}

// EventRepository is the append-only log of combat domain events, the
// state-of-record for replay.
type EventRepository interface {
	Append(ctx context.Context, encounterID string, events []combat.DomainEvent) error
	ListByEncounter(ctx context.Context, encounterID string, limit int) ([]combat.DomainEvent, error)
}
