package inmemory

import (
	"testing"

	"lorekeeper/internal/domain/combat"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordSuccess(combat.ActionAttack)
	r.RecordSuccess(combat.ActionCastSpell)
	r.RecordConflict()
	r.RecordFailure()

	s := r.Snapshot()
	if s.ActionTotal != 4 {
		t.Fatalf("expected total 4, got %d", s.ActionTotal)
	}
	if s.ActionSuccess != 2 {
		t.Fatalf("expected success 2, got %d", s.ActionSuccess)
	}
	if s.ActionConflict != 1 {
		t.Fatalf("expected conflict 1, got %d", s.ActionConflict)
	}
	if s.ActionFailure != 1 {
		t.Fatalf("expected failure 1, got %d", s.ActionFailure)
	}
	if s.ByActionType[string(combat.ActionAttack)] != 1 {
		t.Fatalf("expected attack count 1")
	}
	if s.ByActionType[string(combat.ActionCastSpell)] != 1 {
		t.Fatalf("expected cast_spell count 1")
	}
}
