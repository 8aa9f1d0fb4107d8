package action

import (
	"context"

	"lorekeeper/internal/app/ports"
	"lorekeeper/internal/domain/combat"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubCombatRepo struct {
	byEncounter map[string]combat.CombatState
}

func (r *stubCombatRepo) ActiveByEncounter(_ context.Context, encounterID string) (combat.CombatState, error) {
	state, ok := r.byEncounter[encounterID]
	if !ok || !state.Active {
		return combat.CombatState{}, ports.ErrNotFound
	}
	return state, nil
}

func (r *stubCombatRepo) GetByID(_ context.Context, combatID string) (combat.CombatState, error) {
	for _, state := range r.byEncounter {
		if state.ID == combatID {
			return state, nil
		}
	}
	return combat.CombatState{}, ports.ErrNotFound
}

func (r *stubCombatRepo) SaveWithVersion(_ context.Context, state combat.CombatState, expectedVersion int64) error {
	current, ok := r.byEncounter[state.EncounterID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.byEncounter[state.EncounterID] = state
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byEncounter[state.EncounterID] = state
	return nil
}

type stubCharacterRepo struct {
	byID    map[string]combat.CharacterSnapshot
	savedHP map[string]int
}

func (r *stubCharacterRepo) GetByID(_ context.Context, characterID string) (combat.CharacterSnapshot, error) {
	snapshot, ok := r.byID[characterID]
	if !ok {
		return combat.CharacterSnapshot{}, ports.ErrNotFound
	}
	return snapshot, nil
}

func (r *stubCharacterRepo) SaveHitPoints(_ context.Context, characterID string, current int) error {
	if r.savedHP == nil {
		r.savedHP = map[string]int{}
	}
	r.savedHP[characterID] = current
	return nil
}

type stubItemRepo struct {
	byID map[string]combat.ItemSnapshot
}

func (r *stubItemRepo) GetByID(_ context.Context, itemID string) (combat.ItemSnapshot, error) {
	item, ok := r.byID[itemID]
	if !ok {
		return combat.ItemSnapshot{}, ports.ErrNotFound
	}
	return item, nil
}

type stubSpellRepo struct {
	byID map[string]combat.SpellSnapshot
}

func (r *stubSpellRepo) GetByID(_ context.Context, spellID string) (combat.SpellSnapshot, error) {
	spell, ok := r.byID[spellID]
	if !ok {
		return combat.SpellSnapshot{}, ports.ErrNotFound
	}
	return spell, nil
}

type stubEventRepo struct {
	events []combat.DomainEvent
}

func (r *stubEventRepo) Append(_ context.Context, _ string, events []combat.DomainEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *stubEventRepo) ListByEncounter(_ context.Context, _ string, limit int) ([]combat.DomainEvent, error) {
	if len(r.events) == 0 {
		return nil, ports.ErrNotFound
	}
	if limit > 0 && limit < len(r.events) {
		return r.events[:limit], nil
	}
	return r.events, nil
}

type stubBroadcaster struct {
	notified [][]combat.DomainEvent
	err      error
}

func (b *stubBroadcaster) Notify(_ context.Context, _ string, events []combat.DomainEvent) error {
	if b.err != nil {
		return b.err
	}
	b.notified = append(b.notified, events)
	return nil
}

type stubMetrics struct {
	success  []combat.ActionType
	conflict int
	failure  int
}

func (m *stubMetrics) RecordSuccess(t combat.ActionType) { m.success = append(m.success, t) }
func (m *stubMetrics) RecordConflict()                   { m.conflict++ }
func (m *stubMetrics) RecordFailure()                    { m.failure++ }

type scriptedSource struct {
	values []int
	next   int
}

func (s *scriptedSource) Intn(n int) int {
	if s.next >= len(s.values) {
		return 0
	}
	v := s.values[s.next]
	s.next++
	if v >= n {
		v = n - 1
	}
	return v
}
