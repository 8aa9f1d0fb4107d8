package combat

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Source is the randomness provider for dice rolls. Seed it for
// deterministic replay.
type Source interface {
	Intn(n int) int
}

func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Roller evaluates dice expressions of the form "NdM" or a bare integer.
type Roller struct {
	src Source
}

func NewRoller(src Source) Roller {
	return Roller{src: src}
}

// Roll returns the expression total plus a per-die breakdown keyed
// "d{M}_{i}" (1-indexed), or "fixed_1" for a constant.
//
// Malformed expressions never fail the caller: a bad content-authored dice
// string must not abort an in-progress turn, so the result degrades to
// total 1 with breakdown {"error_1": 1}.
func (r Roller) Roll(expression string) (int, map[string]int) {
	expr := strings.ToLower(strings.TrimSpace(expression))

	if fixed, err := strconv.Atoi(expr); err == nil {
		return fixed, map[string]int{"fixed_1": fixed}
	}

	count, sides, ok := parseDiceExpr(expr)
	if !ok {
		return 1, map[string]int{"error_1": 1}
	}

	src := r.src
	if src == nil {
		src = defaultSource{}
	}

	total := 0
	breakdown := make(map[string]int, count)
	for i := 1; i <= count; i++ {
		value := src.Intn(sides) + 1
		breakdown[fmt.Sprintf("d%d_%d", sides, i)] = value
		total += value
	}
	return total, breakdown
}

func parseDiceExpr(expr string) (count, sides int, ok bool) {
	parts := strings.SplitN(expr, "d", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	count, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	sides, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	if count < 1 || sides < 1 {
		return 0, 0, false
	}
	return count, sides, true
}

type defaultSource struct{}

func (defaultSource) Intn(n int) int {
	return rand.Intn(n)
}
