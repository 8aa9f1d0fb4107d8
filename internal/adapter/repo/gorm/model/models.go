// Package model holds the row types for the postgres schema. Refresh them
// with tools/modelgen after a schema change; they are committed so the tree
// builds without a live database.
package model

import "time"

type Combat struct {
	ID              string `gorm:"primaryKey"`
	EncounterID     string `gorm:"index"`
	CurrentRound    int32
	Active          bool `gorm:"index"`
	StartedAt       *time.Time
	EndedAt         *time.Time
	InitiativeOrder []byte `gorm:"type:jsonb"`
	ActiveEffects   []byte `gorm:"type:jsonb"`
	Version         int64
	UpdatedAt       time.Time
}

func (Combat) TableName() string { return "combats" }

type CombatAction struct {
	ID          string `gorm:"primaryKey"`
	CombatID    string `gorm:"index"`
	CharacterID string
	ActionType  string
	TargetID    string
	ItemID      string
	SpellID     string
	Result      []byte `gorm:"type:jsonb"`
	Timestamp   time.Time
}

func (CombatAction) TableName() string { return "combat_actions" }

type CombatEvent struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	EncounterID string `gorm:"index"`
	Type        string
	OccurredAt  time.Time
	Payload     []byte `gorm:"type:jsonb"`
}

func (CombatEvent) TableName() string { return "combat_events" }

type Character struct {
	ID               string `gorm:"primaryKey"`
	Name             string
	AbilityScores    []byte `gorm:"type:jsonb"`
	CurrentHitPoints int32
	MaxHitPoints     int32
	ProficiencyBonus int32
}

func (Character) TableName() string { return "characters" }

type Item struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Weapon      bool
	DamageDice  string
	DamageBonus int32
	Ranged      bool
	Properties  []byte `gorm:"type:jsonb"`
}

func (Item) TableName() string { return "items" }

type Spell struct {
	ID         string `gorm:"primaryKey"`
	Name       string
	Level      int32
	School     string
	DamageDice string
}

func (Spell) TableName() string { return "spells" }
