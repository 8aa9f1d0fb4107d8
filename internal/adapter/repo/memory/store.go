package memory

import (
	"sync"

	"lorekeeper/internal/domain/combat"
)

// Store is the shared in-memory backing for the repo twins. The TxManager
// holds the mutex for the duration of a transaction, which gives the same
// single-writer-per-aggregate discipline the database adapter gets from
// transactions plus version checks.
type Store struct {
	mu         sync.Mutex
	combats    map[string]combat.CombatState
	characters map[string]combat.CharacterSnapshot
	items      map[string]combat.ItemSnapshot
	spells     map[string]combat.SpellSnapshot
	events     map[string][]combat.DomainEvent
}

func NewStore() *Store {
	return &Store{
		combats:    make(map[string]combat.CombatState),
		characters: make(map[string]combat.CharacterSnapshot),
		items:      make(map[string]combat.ItemSnapshot),
		spells:     make(map[string]combat.SpellSnapshot),
		events:     make(map[string][]combat.DomainEvent),
	}
}

func (s *Store) SeedCharacter(snapshot combat.CharacterSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters[snapshot.ID] = snapshot
}

func (s *Store) SeedItem(item combat.ItemSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

func (s *Store) SeedSpell(spell combat.SpellSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spells[spell.ID] = spell
}
