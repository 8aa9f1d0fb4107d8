package gormrepo

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"lorekeeper/internal/adapter/repo/gorm/model"
	"lorekeeper/internal/app/ports"
	"lorekeeper/internal/domain/combat"
)

type CharacterRepo struct {
	db *gorm.DB
}

func NewCharacterRepo(db *gorm.DB) CharacterRepo {
	return CharacterRepo{db: db}
}

func (r CharacterRepo) GetByID(ctx context.Context, characterID string) (combat.CharacterSnapshot, error) {
	var m model.Character
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", characterID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return combat.CharacterSnapshot{}, ports.ErrNotFound
		}
		return combat.CharacterSnapshot{}, err
	}
	snapshot := combat.CharacterSnapshot{
		ID:               m.ID,
		Name:             m.Name,
		CurrentHitPoints: int(m.CurrentHitPoints),
		MaxHitPoints:     int(m.MaxHitPoints),
		ProficiencyBonus: int(m.ProficiencyBonus),
	}
	if len(m.AbilityScores) > 0 {
		if err := json.Unmarshal(m.AbilityScores, &snapshot.AbilityScores); err != nil {
			return combat.CharacterSnapshot{}, err
		}
	}
	return snapshot, nil
}

func (r CharacterRepo) SaveHitPoints(ctx context.Context, characterID string, current int) error {
	res := getDBFromCtx(ctx, r.db).Model(&model.Character{}).
		Where("id = ?", characterID).
		Update("current_hit_points", int32(current))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

type ItemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepo {
	return ItemRepo{db: db}
}

func (r ItemRepo) GetByID(ctx context.Context, itemID string) (combat.ItemSnapshot, error) {
	var m model.Item
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", itemID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return combat.ItemSnapshot{}, ports.ErrNotFound
		}
		return combat.ItemSnapshot{}, err
	}
	item := combat.ItemSnapshot{
		ID:          m.ID,
		Name:        m.Name,
		Weapon:      m.Weapon,
		DamageDice:  m.DamageDice,
		DamageBonus: int(m.DamageBonus),
		Ranged:      m.Ranged,
	}
	if len(m.Properties) > 0 {
		if err := json.Unmarshal(m.Properties, &item.Properties); err != nil {
			return combat.ItemSnapshot{}, err
		}
	}
	return item, nil
}

type SpellRepo struct {
	db *gorm.DB
}

func NewSpellRepo(db *gorm.DB) SpellRepo {
	return SpellRepo{db: db}
}

func (r SpellRepo) GetByID(ctx context.Context, spellID string) (combat.SpellSnapshot, error) {
	var m model.Spell
	if err := getDBFromCtx(ctx, r.db).Where("id = ?", spellID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return combat.SpellSnapshot{}, ports.ErrNotFound
		}
		return combat.SpellSnapshot{}, err
	}
	return combat.SpellSnapshot{
		ID:         m.ID,
		Name:       m.Name,
		Level:      int(m.Level),
		School:     m.School,
		DamageDice: m.DamageDice,
	}, nil
}
