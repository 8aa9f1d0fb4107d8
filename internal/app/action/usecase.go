package action

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
	ErrInvalidRequest = errors.New("invalid action request")
	ErrNoActiveCombat = errors.New("no active combat for encounter")
)

// UseCase performs one combat action: validates the acting participant's
// turn and budget, resolves the outcome, appends it to the combat history
// and fans the change out to listeners. All state mutation happens inside
// one transaction; broadcast runs after commit and never fails the action.
type UseCase struct {
	TxManager  ports.TxManager
	CombatRepo ports.CombatRepository
	Characters ports.CharacterRepository
	Items      ports.ItemRepository
	Spells     ports.SpellRepository
	EventRepo  ports.EventRepository
	Broadcast  ports.Broadcaster
	Metrics    ports.CombatMetrics
	Resolver   combat.ResolverService
	Now        func() time.Time
	NewID      func() string
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.EncounterID = strings.TrimSpace(req.EncounterID)
	req.CharacterID = strings.TrimSpace(req.CharacterID)
	req.Type = combat.ActionType(strings.TrimSpace(string(req.Type)))
	if req.EncounterID == "" || req.CharacterID == "" || req.Type == "" {
		return Response{}, ErrInvalidRequest
	}

	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	newID := u.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		state, err := u.CombatRepo.ActiveByEncounter(txCtx, req.EncounterID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return ErrNoActiveCombat
			}
			return err
		}

		actor, err := u.Characters.GetByID(txCtx, req.CharacterID)
		if err != nil {
			return err
		}

		if err := state.CanPerform(req.CharacterID, req.Type); err != nil {
			return err
		}

		var target *combat.CharacterSnapshot
		if req.TargetID != "" {
			loaded, err := u.Characters.GetByID(txCtx, req.TargetID)
			if err != nil {
				return err
			}
			target = &loaded
		}
		var item *combat.ItemSnapshot
		if req.ItemID != "" {
			loaded, err := u.Items.GetByID(txCtx, req.ItemID)
			if err != nil {
				return err
			}
			item = &loaded
		}
		var spell *combat.SpellSnapshot
		if req.SpellID != "" {
			loaded, err := u.Spells.GetByID(txCtx, req.SpellID)
			if err != nil {
				return err
			}
			spell = &loaded
		}

		result := u.Resolver.Resolve(req.Type, &actor, target, item, spell, req.CastingAbility, req.Hit)

		now := nowFn()
		performed := combat.CombatAction{
			ID:          newID(),
			CharacterID: req.CharacterID,
			Type:        req.Type,
			TargetID:    req.TargetID,
			ItemID:      req.ItemID,
			SpellID:     req.SpellID,
			Result:      result,
			Timestamp:   now,
		}
		state.AppendAction(performed)
		state.ConsumeBudget(req.CharacterID, req.Type)

		expected := state.Version
		state.Version++
		if err := u.CombatRepo.SaveWithVersion(txCtx, state, expected); err != nil {
			return err
		}

		events := []combat.DomainEvent{{
			Type:       combat.EventActionPerformed,
			OccurredAt: now,
			Payload: map[string]any{
				"action_id":    performed.ID,
				"character_id": performed.CharacterID,
				"action_type":  string(performed.Type),
				"success":      result.Success,
				"damage_dealt": result.DamageDealt,
				"description":  result.Description,
				"round":        state.CurrentRound,
			},
		}}

		var delta *HealthDelta
		if result.DamageDealt > 0 && target != nil {
			if err := u.Characters.SaveHitPoints(txCtx, target.ID, target.CurrentHitPoints); err != nil {
				return err
			}
			delta = &HealthDelta{
				CharacterID:      target.ID,
				CurrentHitPoints: target.CurrentHitPoints,
				Damage:           result.DamageDealt,
			}
			events = append(events, combat.DomainEvent{
				Type:       combat.EventHealthUpdate,
				OccurredAt: now,
				Payload: map[string]any{
					"character_id":       target.ID,
					"current_hit_points": target.CurrentHitPoints,
					"damage":             result.DamageDealt,
				},
			})
		}

		if err := u.EventRepo.Append(txCtx, req.EncounterID, events); err != nil {
			return err
		}

		out = Response{
			Action:       performed,
			CurrentRound: state.CurrentRound,
			HealthDelta:  delta,
			Events:       events,
		}
		return nil
	})
	if err != nil {
		if u.Metrics != nil {
			if IsConflict(err) {
				u.Metrics.RecordConflict()
			} else {
				u.Metrics.RecordFailure()
			}
		}
		return Response{}, err
	}

	if u.Broadcast != nil {
		if err := u.Broadcast.Notify(ctx, req.EncounterID, out.Events); err != nil {
			log.Printf("broadcast failed for encounter %s: %v", req.EncounterID, err)
		}
	}
	if u.Metrics != nil {
		u.Metrics.RecordSuccess(req.Type)
	}
	return out, nil
}

// IsConflict reports whether err belongs to the state-conflict family:
// acting out of turn, exhausted budgets, no active combat, or a lost
// optimistic-version race.
func IsConflict(err error) bool {
	return errors.Is(err, ports.ErrConflict) ||
		errors.Is(err, ErrNoActiveCombat) ||
		errors.Is(err, combat.ErrCombatInactive) ||
		errors.Is(err, combat.ErrNotParticipant) ||
		errors.Is(err, combat.ErrNotYourTurn) ||
		errors.Is(err, combat.ErrActionSpent) ||
		errors.Is(err, combat.ErrBonusActionSpent) ||
		errors.Is(err, combat.ErrReactionSpent)
}
