package replay

import (
	"context"
	"errors"
	"strings"

	"lorekeeper/internal/app/ports"
	"lorekeeper/internal/domain/combat"
)

var ErrInvalidRequest = errors.New("invalid replay request")

// UseCase reads the append-only event log back. The log is the audit trail
// of record: actions are never mutated or deleted after the fact.
type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.EncounterID) == "" {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Events.ListByEncounter(ctx, req.EncounterID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	return Response{
		Events:    events,
		HitPoints: reconstructHitPoints(events),
	}, nil
}

func filterByTimeWindow(events []combat.DomainEvent, from, to int64) []combat.DomainEvent {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]combat.DomainEvent, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func reconstructHitPoints(events []combat.DomainEvent) map[string]int {
	hp := map[string]int{}
	for _, evt := range events {
		if evt.Type != combat.EventHealthUpdate || evt.Payload == nil {
			continue
		}
		id, ok := evt.Payload["character_id"].(string)
		if !ok || id == "" {
			continue
		}
		hp[id] = int(num(evt.Payload["current_hit_points"]))
	}
	return hp
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
