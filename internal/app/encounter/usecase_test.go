package encounter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

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
	byID map[string]combat.CharacterSnapshot
}

func (r *stubCharacterRepo) GetByID(_ context.Context, characterID string) (combat.CharacterSnapshot, error) {
	snapshot, ok := r.byID[characterID]
	if !ok {
		return combat.CharacterSnapshot{}, ports.ErrNotFound
	}
	return snapshot, nil
}

func (r *stubCharacterRepo) SaveHitPoints(_ context.Context, _ string, _ int) error {
	return nil
}

type stubEventRepo struct {
	events []combat.DomainEvent
}

func (r *stubEventRepo) Append(_ context.Context, _ string, events []combat.DomainEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *stubEventRepo) ListByEncounter(_ context.Context, _ string, _ int) ([]combat.DomainEvent, error) {
	return r.events, nil
}

func newUseCase() (UseCase, *stubCombatRepo, *stubEventRepo) {
	combats := &stubCombatRepo{byEncounter: map[string]combat.CombatState{}}
	events := &stubEventRepo{}
	characters := &stubCharacterRepo{byID: map[string]combat.CharacterSnapshot{
		"p20": {ID: "p20", Name: "Aric", CurrentHitPoints: 20},
		"p15": {ID: "p15", Name: "Bren", CurrentHitPoints: 18},
		"p5":  {ID: "p5", Name: "Cole", CurrentHitPoints: 12},
	}}
	counter := 0
	uc := UseCase{
		TxManager:  stubTxManager{},
		CombatRepo: combats,
		Characters: characters,
		EventRepo:  events,
		Now:        func() time.Time { return time.Unix(1700000000, 0) },
		NewID: func() string {
			counter++
			return fmt.Sprintf("id-%d", counter)
		},
	}
	return uc, combats, events
}

func startRequest() StartRequest {
	return StartRequest{
		EncounterID: "enc-1",
		Participants: []ParticipantRoll{
			{CharacterID: "p20", InitiativeRoll: 20},
			{CharacterID: "p15", InitiativeRoll: 15},
			{CharacterID: "p5", InitiativeRoll: 5},
		},
	}
}

func TestStart(t *testing.T) {
	uc, combats, events := newUseCase()

	resp, err := uc.Start(context.Background(), startRequest())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !resp.Combat.Active || resp.Combat.CurrentRound != 1 {
		t.Fatalf("expected active combat at round 1, got %+v", resp.Combat)
	}
	current, err := resp.Combat.CurrentTurn()
	if err != nil {
		t.Fatalf("current turn: %v", err)
	}
	if current.CharacterID != "p20" {
		t.Fatalf("expected highest roll first, got %s", current.CharacterID)
	}
	if _, ok := combats.byEncounter["enc-1"]; !ok {
		t.Fatal("expected combat persisted")
	}

	var started, added int
	for _, evt := range events.events {
		switch evt.Type {
		case combat.EventCombatStarted:
			started++
		case combat.EventParticipantAdded:
			added++
		}
	}
	if started != 1 || added != 3 {
		t.Fatalf("expected 1 start + 3 participant events, got %d/%d", started, added)
	}
}

func TestStart_AlreadyActive(t *testing.T) {
	uc, _, _ := newUseCase()
	if _, err := uc.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.Start(context.Background(), startRequest()); !errors.Is(err, ErrCombatAlreadyActive) {
		t.Fatalf("expected ErrCombatAlreadyActive, got %v", err)
	}
}

func TestStart_UnknownCharacter(t *testing.T) {
	uc, _, _ := newUseCase()
	_, err := uc.Start(context.Background(), StartRequest{
		EncounterID:  "enc-1",
		Participants: []ParticipantRoll{{CharacterID: "ghost", InitiativeRoll: 9}},
	})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNextTurn_CycleAndRoundReset(t *testing.T) {
	uc, combats, events := newUseCase()
	if _, err := uc.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("start: %v", err)
	}

	for _, want := range []string{"p15", "p5", "p20"} {
		resp, err := uc.NextTurn(context.Background(), TurnRequest{EncounterID: "enc-1"})
		if err != nil {
			t.Fatalf("next turn: %v", err)
		}
		current, err := resp.Combat.CurrentTurn()
		if err != nil {
			t.Fatalf("current turn: %v", err)
		}
		if current.CharacterID != want {
			t.Fatalf("expected %s to act, got %s", want, current.CharacterID)
		}
	}

	saved := combats.byEncounter["enc-1"]
	if saved.CurrentRound != 2 {
		t.Fatalf("expected round 2 after wrap, got %d", saved.CurrentRound)
	}
	for _, entry := range saved.Order {
		if entry.HasActed || entry.BonusActionsUsed != 0 || entry.ReactionsUsed != 0 || entry.MovementUsed != 0 {
			t.Fatalf("budgets not reset for %s: %+v", entry.CharacterID, entry)
		}
	}

	rounds := 0
	for _, evt := range events.events {
		if evt.Type == combat.EventRoundStarted {
			rounds++
		}
	}
	if rounds != 1 {
		t.Fatalf("expected exactly one round_started event, got %d", rounds)
	}
}

func TestNextTurn_NoActiveCombat(t *testing.T) {
	uc, _, _ := newUseCase()
	if _, err := uc.NextTurn(context.Background(), TurnRequest{EncounterID: "enc-1"}); !errors.Is(err, ErrNoActiveCombat) {
		t.Fatalf("expected ErrNoActiveCombat, got %v", err)
	}
}

func TestAddParticipant(t *testing.T) {
	uc, combats, _ := newUseCase()
	if _, err := uc.Start(context.Background(), StartRequest{
		EncounterID: "enc-1",
		Participants: []ParticipantRoll{
			{CharacterID: "p20", InitiativeRoll: 20},
			{CharacterID: "p5", InitiativeRoll: 5},
		},
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	resp, err := uc.AddParticipant(context.Background(), AddParticipantRequest{
		EncounterID:    "enc-1",
		CharacterID:    "p15",
		InitiativeRoll: 15,
	})
	if err != nil {
		t.Fatalf("add participant: %v", err)
	}
	want := []string{"p20", "p15", "p5"}
	for i, id := range want {
		if resp.Combat.Order[i].CharacterID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, resp.Combat.Order[i].CharacterID)
		}
	}
	if saved := combats.byEncounter["enc-1"]; len(saved.Order) != 3 {
		t.Fatalf("expected 3 participants persisted, got %d", len(saved.Order))
	}

	if _, err := uc.AddParticipant(context.Background(), AddParticipantRequest{
		EncounterID:    "enc-1",
		CharacterID:    "p15",
		InitiativeRoll: 12,
	}); !errors.Is(err, ErrAlreadyParticipant) {
		t.Fatalf("expected ErrAlreadyParticipant, got %v", err)
	}
}

func TestEnd(t *testing.T) {
	uc, combats, events := newUseCase()
	if _, err := uc.Start(context.Background(), startRequest()); err != nil {
		t.Fatalf("start: %v", err)
	}

	resp, err := uc.End(context.Background(), EndRequest{EncounterID: "enc-1"})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if resp.Combat.Active {
		t.Fatal("expected combat inactive")
	}
	if resp.Combat.EndedAt == nil {
		t.Fatal("expected end time stamped")
	}
	for _, entry := range resp.Combat.Order {
		if entry.CurrentTurn {
			t.Fatal("expected turn flags cleared")
		}
	}

	saved := combats.byEncounter["enc-1"]
	if saved.Active {
		t.Fatal("expected persisted combat inactive")
	}
	last := events.events[len(events.events)-1]
	if last.Type != combat.EventCombatEnded {
		t.Fatalf("expected combat_ended event, got %s", last.Type)
	}

	// A finished combat is history: further lifecycle calls conflict.
	if _, err := uc.End(context.Background(), EndRequest{EncounterID: "enc-1"}); !errors.Is(err, ErrNoActiveCombat) {
		t.Fatalf("expected ErrNoActiveCombat after end, got %v", err)
	}
}
