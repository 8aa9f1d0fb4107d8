package combat

import (
	"reflect"
	"testing"
)

type scriptedSource struct {
	values []int
	next   int
}

func (s *scriptedSource) Intn(n int) int {
	if s.next >= len(s.values) {
		return 0
	}
	v := s.values[s.next]
	s.next++
	if v >= n {
		v = n - 1
	}
	return v
}

func TestRoll_FixedValue(t *testing.T) {
	roller := NewRoller(nil)
	total, breakdown := roller.Roll("5")
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if !reflect.DeepEqual(breakdown, map[string]int{"fixed_1": 5}) {
		t.Fatalf("unexpected breakdown: %v", breakdown)
	}
}

func TestRoll_Malformed(t *testing.T) {
	roller := NewRoller(nil)
	for _, expr := range []string{"bogus", "", "d6", "2d", "0d6", "2d0", "-1d6", "two d six"} {
		total, breakdown := roller.Roll(expr)
		if total != 1 {
			t.Fatalf("expr %q: expected fail-soft total 1, got %d", expr, total)
		}
		if !reflect.DeepEqual(breakdown, map[string]int{"error_1": 1}) {
			t.Fatalf("expr %q: unexpected breakdown: %v", expr, breakdown)
		}
	}
}

func TestRoll_BreakdownLabels(t *testing.T) {
	roller := NewRoller(&scriptedSource{values: []int{2, 4, 0}})
	total, breakdown := roller.Roll("3d6")
	if total != 3+5+1 {
		t.Fatalf("expected total 9, got %d", total)
	}
	want := map[string]int{"d6_1": 3, "d6_2": 5, "d6_3": 1}
	if !reflect.DeepEqual(breakdown, want) {
		t.Fatalf("expected breakdown %v, got %v", want, breakdown)
	}
}

func TestRoll_SeedDeterminism(t *testing.T) {
	first, firstBreakdown := NewRoller(NewSeededSource(42)).Roll("3d6")
	second, secondBreakdown := NewRoller(NewSeededSource(42)).Roll("3d6")
	if first != second {
		t.Fatalf("same seed produced different totals: %d vs %d", first, second)
	}
	if !reflect.DeepEqual(firstBreakdown, secondBreakdown) {
		t.Fatalf("same seed produced different breakdowns: %v vs %v", firstBreakdown, secondBreakdown)
	}
	if len(firstBreakdown) != 3 {
		t.Fatalf("expected 3 dice in breakdown, got %d", len(firstBreakdown))
	}
	for label, value := range firstBreakdown {
		if value < 1 || value > 6 {
			t.Fatalf("die %s out of range: %d", label, value)
		}
	}
}

func TestRoll_RangeBounds(t *testing.T) {
	roller := NewRoller(NewSeededSource(7))
	for i := 0; i < 200; i++ {
		total, _ := roller.Roll("1d20")
		if total < 1 || total > 20 {
			t.Fatalf("1d20 out of range: %d", total)
		}
	}
}
