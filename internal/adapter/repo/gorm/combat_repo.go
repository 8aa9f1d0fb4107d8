package gormrepo

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lorekeeper/internal/adapter/repo/gorm/model"
	"lorekeeper/internal/app/ports"
	"lorekeeper/internal/domain/combat"
)

type CombatRepo struct {
	db *gorm.DB
}

func NewCombatRepo(db *gorm.DB) CombatRepo {
	return CombatRepo{db: db}
}

func (r CombatRepo) ActiveByEncounter(ctx context.Context, encounterID string) (combat.CombatState, error) {
	var m model.Combat
	err := getDBFromCtx(ctx, r.db).
		Where("encounter_id = ? AND active", encounterID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return combat.CombatState{}, ports.ErrNotFound
		}
		return combat.CombatState{}, err
	}
	return r.hydrate(ctx, m)
}

func (r CombatRepo) GetByID(ctx context.Context, combatID string) (combat.CombatState, error) {
	var m model.Combat
	err := getDBFromCtx(ctx, r.db).Where("id = ?", combatID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return combat.CombatState{}, ports.ErrNotFound
		}
		return combat.CombatState{}, err
	}
	return r.hydrate(ctx, m)
}

func (r CombatRepo) hydrate(ctx context.Context, m model.Combat) (combat.CombatState, error) {
	state := combat.CombatState{
		ID:           m.ID,
		EncounterID:  m.EncounterID,
		CurrentRound: int(m.CurrentRound),
		Active:       m.Active,
		StartedAt:    m.StartedAt,
		EndedAt:      m.EndedAt,
		Version:      m.Version,
		UpdatedAt:    m.UpdatedAt,
	}
	if len(m.InitiativeOrder) > 0 {
		if err := json.Unmarshal(m.InitiativeOrder, &state.Order); err != nil {
			return combat.CombatState{}, err
		}
	}
	if len(m.ActiveEffects) > 0 {
		if err := json.Unmarshal(m.ActiveEffects, &state.ActiveEffects); err != nil {
			return combat.CombatState{}, err
		}
	}

	rows := []model.CombatAction{}
	err := getDBFromCtx(ctx, r.db).
		Where(&model.CombatAction{CombatID: m.ID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "timestamp"}}},
		}).
		Find(&rows).Error
	if err != nil {
		return combat.CombatState{}, err
	}
	for _, row := range rows {
		action := combat.CombatAction{
			ID:          row.ID,
			CharacterID: row.CharacterID,
			Type:        combat.ActionType(row.ActionType),
			TargetID:    row.TargetID,
			ItemID:      row.ItemID,
			SpellID:     row.SpellID,
			Timestamp:   row.Timestamp,
		}
		if len(row.Result) > 0 {
			if err := json.Unmarshal(row.Result, &action.Result); err != nil {
				return combat.CombatState{}, err
			}
		}
		state.History = append(state.History, action)
	}
	return state, nil
}

func (r CombatRepo) SaveWithVersion(ctx context.Context, state combat.CombatState, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)

	orderJSON, err := json.Marshal(state.Order)
	if err != nil {
		return err
	}
	effectsJSON, err := json.Marshal(state.ActiveEffects)
	if err != nil {
		return err
	}

	if expectedVersion == 0 {
		m := model.Combat{
			ID:              state.ID,
			EncounterID:     state.EncounterID,
			CurrentRound:    int32(state.CurrentRound),
			Active:          state.Active,
			StartedAt:       state.StartedAt,
			EndedAt:         state.EndedAt,
			InitiativeOrder: orderJSON,
			ActiveEffects:   effectsJSON,
			Version:         state.Version,
			UpdatedAt:       state.UpdatedAt,
		}
		if err := db.Create(&m).Error; err != nil {
			return err
		}
		return r.appendActions(ctx, state)
	}

	updates := map[string]any{
		"current_round":    int32(state.CurrentRound),
		"active":           state.Active,
		"started_at":       state.StartedAt,
		"ended_at":         state.EndedAt,
		"initiative_order": orderJSON,
		"active_effects":   effectsJSON,
		"version":          state.Version,
		"updated_at":       state.UpdatedAt,
	}
	res := db.Model(&model.Combat{}).
		Where("id = ? AND version = ?", state.ID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return r.appendActions(ctx, state)
}

// appendActions inserts history rows, skipping ones already on disk. The
// history is append-only, so do-nothing on conflict is exact.
func (r CombatRepo) appendActions(ctx context.Context, state combat.CombatState) error {
	if len(state.History) == 0 {
		return nil
	}
	rows := make([]model.CombatAction, 0, len(state.History))
	for _, action := range state.History {
		resultJSON, err := json.Marshal(action.Result)
		if err != nil {
			return err
		}
		rows = append(rows, model.CombatAction{
			ID:          action.ID,
			CombatID:    state.ID,
			CharacterID: action.CharacterID,
			ActionType:  string(action.Type),
			TargetID:    action.TargetID,
			ItemID:      action.ItemID,
			SpellID:     action.SpellID,
			Result:      resultJSON,
			Timestamp:   action.Timestamp,
		})
	}
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}
