package gormrepo

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lorekeeper/internal/adapter/repo/gorm/model"
	"lorekeeper/internal/app/ports"
	"lorekeeper/internal/domain/combat"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, encounterID string, events []combat.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.CombatEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.CombatEvent{
			EncounterID: encounterID,
			Type:        string(e.Type),
			OccurredAt:  e.OccurredAt,
			Payload:     b,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

func (r EventRepo) ListByEncounter(ctx context.Context, encounterID string, limit int) ([]combat.DomainEvent, error) {
	rows := []model.CombatEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.CombatEvent{EncounterID: encounterID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "occurred_at"}}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]combat.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, combat.DomainEvent{
			Type:       combat.EventType(row.Type),
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
