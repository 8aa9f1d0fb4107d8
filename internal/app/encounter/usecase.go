package encounter

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"lorekeeper/internal/app/ports"
	"lorekeeper/internal/domain/combat"
)

var (
	ErrInvalidRequest      = errors.New("invalid encounter request")
	ErrNoActiveCombat      = errors.New("no active combat for encounter")
	ErrCombatAlreadyActive = errors.New("combat already active for encounter")
	ErrAlreadyParticipant  = errors.New("character already participates in this combat")
)

// UseCase drives the combat lifecycle: start, participant add, turn
// advance and end. One transaction per operation; broadcast after commit.
type UseCase struct {
	TxManager  ports.TxManager
	CombatRepo ports.CombatRepository
	Characters ports.CharacterRepository
	EventRepo  ports.EventRepository
	Broadcast  ports.Broadcaster
	Now        func() time.Time
	NewID      func() string
}

func (u UseCase) Start(ctx context.Context, req StartRequest) (Response, error) {
	req.EncounterID = strings.TrimSpace(req.EncounterID)
	if req.EncounterID == "" || len(req.Participants) == 0 {
		return Response{}, ErrInvalidRequest
	}

	now := u.now()
	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := u.CombatRepo.ActiveByEncounter(txCtx, req.EncounterID); err == nil {
			return ErrCombatAlreadyActive
		} else if !errors.Is(err, ports.ErrNotFound) {
			return err
		}

		state := combat.NewCombatState(u.newID(), req.EncounterID, now)
		events := make([]combat.DomainEvent, 0, len(req.Participants)+1)
		for _, p := range req.Participants {
			if _, err := u.Characters.GetByID(txCtx, p.CharacterID); err != nil {
				return err
			}
			state.AddParticipant(p.CharacterID, p.InitiativeRoll)
			events = append(events, participantAddedEvent(p.CharacterID, p.InitiativeRoll, now))
		}
		state.Start(now)
		state.Version = 1

		if err := u.CombatRepo.SaveWithVersion(txCtx, *state, 0); err != nil {
			return err
		}

		current, err := state.CurrentTurn()
		if err != nil {
			return err
		}
		events = append(events, combat.DomainEvent{
			Type:       combat.EventCombatStarted,
			OccurredAt: now,
			Payload: map[string]any{
				"combat_id":    state.ID,
				"round":        state.CurrentRound,
				"character_id": current.CharacterID,
			},
		})
		if err := u.EventRepo.Append(txCtx, req.EncounterID, events); err != nil {
			return err
		}

		out = Response{Combat: *state, Events: events}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	u.notify(ctx, req.EncounterID, out.Events)
	return out, nil
}

func (u UseCase) AddParticipant(ctx context.Context, req AddParticipantRequest) (Response, error) {
	req.EncounterID = strings.TrimSpace(req.EncounterID)
	req.CharacterID = strings.TrimSpace(req.CharacterID)
	if req.EncounterID == "" || req.CharacterID == "" {
		return Response{}, ErrInvalidRequest
	}

	now := u.now()
	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		state, err := u.loadActive(txCtx, req.EncounterID)
		if err != nil {
			return err
		}
		if _, err := u.Characters.GetByID(txCtx, req.CharacterID); err != nil {
			return err
		}
		if state.Participant(req.CharacterID) != nil {
			return ErrAlreadyParticipant
		}

		state.AddParticipant(req.CharacterID, req.InitiativeRoll)
		expected := state.Version
		state.Version++
		state.UpdatedAt = now
		if err := u.CombatRepo.SaveWithVersion(txCtx, state, expected); err != nil {
			return err
		}

		events := []combat.DomainEvent{participantAddedEvent(req.CharacterID, req.InitiativeRoll, now)}
		if err := u.EventRepo.Append(txCtx, req.EncounterID, events); err != nil {
			return err
		}
		out = Response{Combat: state, Events: events}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	u.notify(ctx, req.EncounterID, out.Events)
	return out, nil
}

func (u UseCase) NextTurn(ctx context.Context, req TurnRequest) (Response, error) {
	req.EncounterID = strings.TrimSpace(req.EncounterID)
	if req.EncounterID == "" {
		return Response{}, ErrInvalidRequest
	}

	now := u.now()
	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		state, err := u.loadActive(txCtx, req.EncounterID)
		if err != nil {
			return err
		}

		roundBefore := state.CurrentRound
		next, err := state.NextTurn()
		if err != nil {
			return err
		}

		expected := state.Version
		state.Version++
		state.UpdatedAt = now
		if err := u.CombatRepo.SaveWithVersion(txCtx, state, expected); err != nil {
			return err
		}

		events := []combat.DomainEvent{{
			Type:       combat.EventTurnChanged,
			OccurredAt: now,
			Payload: map[string]any{
				"character_id": next.CharacterID,
				"round":        state.CurrentRound,
			},
		}}
		if state.CurrentRound > roundBefore {
			events = append(events, combat.DomainEvent{
				Type:       combat.EventRoundStarted,
				OccurredAt: now,
				Payload:    map[string]any{"round": state.CurrentRound},
			})
		}
		if err := u.EventRepo.Append(txCtx, req.EncounterID, events); err != nil {
			return err
		}
		out = Response{Combat: state, Events: events}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	u.notify(ctx, req.EncounterID, out.Events)
	return out, nil
}

func (u UseCase) End(ctx context.Context, req EndRequest) (Response, error) {
	req.EncounterID = strings.TrimSpace(req.EncounterID)
	if req.EncounterID == "" {
		return Response{}, ErrInvalidRequest
	}

	now := u.now()
	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		state, err := u.loadActive(txCtx, req.EncounterID)
		if err != nil {
			return err
		}

		state.End(now)
		expected := state.Version
		state.Version++
		if err := u.CombatRepo.SaveWithVersion(txCtx, state, expected); err != nil {
			return err
		}

		events := []combat.DomainEvent{{
			Type:       combat.EventCombatEnded,
			OccurredAt: now,
			Payload: map[string]any{
				"combat_id": state.ID,
				"rounds":    state.CurrentRound,
				"actions":   len(state.History),
			},
		}}
		if err := u.EventRepo.Append(txCtx, req.EncounterID, events); err != nil {
			return err
		}
		out = Response{Combat: state, Events: events}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	u.notify(ctx, req.EncounterID, out.Events)
	return out, nil
}

func (u UseCase) loadActive(ctx context.Context, encounterID string) (combat.CombatState, error) {
	state, err := u.CombatRepo.ActiveByEncounter(ctx, encounterID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return combat.CombatState{}, ErrNoActiveCombat
		}
		return combat.CombatState{}, err
	}
	return state, nil
}

func (u UseCase) notify(ctx context.Context, encounterID string, events []combat.DomainEvent) {
	if u.Broadcast == nil {
		return
	}
	if err := u.Broadcast.Notify(ctx, encounterID, events); err != nil {
		log.Printf("broadcast failed for encounter %s: %v", encounterID, err)
	}
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func (u UseCase) newID() string {
	if u.NewID != nil {
		return u.NewID()
	}
	return uuid.NewString()
}

func participantAddedEvent(characterID string, roll int, now time.Time) combat.DomainEvent {
	return combat.DomainEvent{
		Type:       combat.EventParticipantAdded,
		OccurredAt: now,
		Payload: map[string]any{
			"character_id":    characterID,
			"initiative_roll": roll,
		},
	}
}
