package memory

import (
	"context"

	"lorekeeper/internal/app/ports"
	"lorekeeper/internal/domain/combat"
)

type CharacterRepo struct {
	store *Store
}

func NewCharacterRepo(store *Store) CharacterRepo {
	return CharacterRepo{store: store}
}

func (r CharacterRepo) GetByID(_ context.Context, characterID string) (combat.CharacterSnapshot, error) {
	snapshot, ok := r.store.characters[characterID]
	if !ok {
		return combat.CharacterSnapshot{}, ports.ErrNotFound
	}
	return snapshot, nil
}

func (r CharacterRepo) SaveHitPoints(_ context.Context, characterID string, current int) error {
	snapshot, ok := r.store.characters[characterID]
	if !ok {
		return ports.ErrNotFound
	}
	snapshot.CurrentHitPoints = current
	r.store.characters[characterID] = snapshot
	return nil
}

type ItemRepo struct {
	store *Store
}

func NewItemRepo(store *Store) ItemRepo {
	return ItemRepo{store: store}
}

func (r ItemRepo) GetByID(_ context.Context, itemID string) (combat.ItemSnapshot, error) {
	item, ok := r.store.items[itemID]
	if !ok {
		return combat.ItemSnapshot{}, ports.ErrNotFound
	}
	return item, nil
}

type SpellRepo struct {
	store *Store
}

func NewSpellRepo(store *Store) SpellRepo {
	return SpellRepo{store: store}
}

func (r SpellRepo) GetByID(_ context.Context, spellID string) (combat.SpellSnapshot, error) {
	spell, ok := r.store.spells[spellID]
	if !ok {
		return combat.SpellSnapshot{}, ports.ErrNotFound
	}
	return spell, nil
}
