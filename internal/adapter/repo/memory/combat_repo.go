package memory

import (
	"context"

	"lorekeeper/internal/app/ports"
	"lorekeeper/internal/domain/combat"
)

type CombatRepo struct {
	store *Store
}

func NewCombatRepo(store *Store) CombatRepo {
	return CombatRepo{store: store}
}

func (r CombatRepo) ActiveByEncounter(_ context.Context, encounterID string) (combat.CombatState, error) {
	for _, state := range r.store.combats {
		if state.EncounterID == encounterID && state.Active {
			return state, nil
		}
	}
	return combat.CombatState{}, ports.ErrNotFound
}

func (r CombatRepo) GetByID(_ context.Context, combatID string) (combat.CombatState, error) {
	state, ok := r.store.combats[combatID]
	if !ok {
		return combat.CombatState{}, ports.ErrNotFound
	}
	return state, nil
}

func (r CombatRepo) SaveWithVersion(_ context.Context, state combat.CombatState, expectedVersion int64) error {
	current, ok := r.store.combats[state.ID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.combats[state.ID] = state
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.combats[state.ID] = state
	return nil
}
