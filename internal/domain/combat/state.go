package combat

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrEmptyOrder       = errors.New("initiative order is empty")
	ErrNoCurrentTurn    = errors.New("no participant holds the current turn")
	ErrNotParticipant   = errors.New("character is not a combat participant")
	ErrNotYourTurn      = errors.New("not this character's turn")
	ErrActionSpent      = errors.New("main action already used this round")
	ErrBonusActionSpent = errors.New("bonus action already used this round")
	ErrReactionSpent    = errors.New("reaction already used this round")
	ErrCombatInactive   = errors.New("combat is not active")
)

func NewCombatState(id, encounterID string, now time.Time) *CombatState {
	return &CombatState{
		ID:           id,
		EncounterID:  encounterID,
		CurrentRound: 1,
		UpdatedAt:    now,
	}
}

// AddParticipant appends a zeroed initiative entry and re-sorts the order
// descending by roll. The sort is stable: equal rolls keep their insertion
// order, no secondary tiebreak.
func (s *CombatState) AddParticipant(characterID string, roll int) {
	s.Order = append(s.Order, Initiative{
		CharacterID: characterID,
		Roll:        roll,
	})
	sort.SliceStable(s.Order, func(i, j int) bool {
		return s.Order[i].Roll > s.Order[j].Roll
	})
}

// Start activates the combat at round 1 and hands the turn to the highest
// roll. No-op on an empty order.
func (s *CombatState) Start(now time.Time) {
	s.Active = true
	s.StartedAt = &now
	s.CurrentRound = 1
	s.UpdatedAt = now
	if len(s.Order) == 0 {
		return
	}
	for i := range s.Order {
		s.Order[i].CurrentTurn = false
	}
	s.Order[0].CurrentTurn = true
}

// NextTurn ends the current participant's turn and advances the pointer.
// Ending a turn always consumes the main action, used or not. Wrapping back
// to index 0 begins a new round: the round counter increments and every
// participant's per-round budgets reset.
func (s *CombatState) NextTurn() (*Initiative, error) {
	if len(s.Order) == 0 {
		return nil, ErrEmptyOrder
	}
	current := -1
	for i := range s.Order {
		if s.Order[i].CurrentTurn {
			current = i
			break
		}
	}
	if current < 0 {
		return nil, ErrNoCurrentTurn
	}

	s.Order[current].CurrentTurn = false
	s.Order[current].HasActed = true

	next := (current + 1) % len(s.Order)
	if next == 0 {
		s.CurrentRound++
		for i := range s.Order {
			s.Order[i].HasActed = false
			s.Order[i].BonusActionsUsed = 0
			s.Order[i].ReactionsUsed = 0
			s.Order[i].MovementUsed = 0
		}
	}
	s.Order[next].CurrentTurn = true
	return &s.Order[next], nil
}

// End deactivates the combat and clears every turn flag. The state is
// immutable history afterwards.
func (s *CombatState) End(now time.Time) {
	s.Active = false
	s.EndedAt = &now
	s.UpdatedAt = now
	for i := range s.Order {
		s.Order[i].CurrentTurn = false
	}
}

func (s *CombatState) CurrentTurn() (*Initiative, error) {
	for i := range s.Order {
		if s.Order[i].CurrentTurn {
			return &s.Order[i], nil
		}
	}
	return nil, ErrNoCurrentTurn
}

func (s *CombatState) Participant(characterID string) *Initiative {
	for i := range s.Order {
		if s.Order[i].CharacterID == characterID {
			return &s.Order[i]
		}
	}
	return nil
}

// CanPerform checks turn ownership and the per-round budget for the
// requested action type. Violations are state conflicts, distinct from
// not-found conditions.
func (s *CombatState) CanPerform(characterID string, t ActionType) error {
	if !s.Active {
		return ErrCombatInactive
	}
	entry := s.Participant(characterID)
	if entry == nil {
		return ErrNotParticipant
	}
	if !entry.CurrentTurn {
		return ErrNotYourTurn
	}
	switch t.Category() {
	case CategoryBonus:
		if entry.BonusActionsUsed >= 1 {
			return ErrBonusActionSpent
		}
	case CategoryReaction:
		if entry.ReactionsUsed >= 1 {
			return ErrReactionSpent
		}
	default:
		if entry.HasActed {
			return ErrActionSpent
		}
	}
	return nil
}

// ConsumeBudget marks the budget spent for a performed action. Mirrors
// CanPerform.
func (s *CombatState) ConsumeBudget(characterID string, t ActionType) {
	entry := s.Participant(characterID)
	if entry == nil {
		return
	}
	switch t.Category() {
	case CategoryBonus:
		entry.BonusActionsUsed++
	case CategoryReaction:
		entry.ReactionsUsed++
	default:
		entry.HasActed = true
	}
}

// AppendAction records an action into the append-only history.
func (s *CombatState) AppendAction(action CombatAction) {
	s.History = append(s.History, action)
	s.UpdatedAt = action.Timestamp
}

func (s *CombatState) AddEffect(effect Effect) {
	s.ActiveEffects = append(s.ActiveEffects, effect)
}

func (s *CombatState) DeactivateEffect(effectID string) bool {
	for i := range s.ActiveEffects {
		if s.ActiveEffects[i].ID == effectID {
			s.ActiveEffects[i].Active = false
			return true
		}
	}
	return false
}
