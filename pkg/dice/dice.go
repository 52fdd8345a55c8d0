// Package dice provides the randomness primitives for the rules engine:
// single die rolls, NdM+B expression evaluation, and d20 skill checks.
package dice

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Rand is the source of uniform random integers. *rand.Rand satisfies it,
// and tests substitute a scripted source for deterministic outcomes.
type Rand interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
}

// Roller rolls dice against a Rand source. Each roll is an independent draw;
// the Roller holds no state beyond the source itself.
type Roller struct {
	src Rand
}

// NewRoller creates a Roller backed by the given source.
func NewRoller(src Rand) *Roller {
	return &Roller{src: src}
}

// New creates a Roller backed by a freshly seeded PRNG.
func New() *Roller {
	return &Roller{src: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded creates a Roller with a fixed seed, for reproducible runs.
func NewSeeded(seed uint64) *Roller {
	return &Roller{src: rand.New(rand.NewPCG(seed, seed))}
}

// Roll returns a uniform integer in [1, sides].
func (r *Roller) Roll(sides int) int {
	if sides <= 1 {
		return 1
	}
	return r.src.IntN(sides) + 1
}

// RollExpr evaluates a dice expression: "NdM", "NdM+B", "NdM-B", or a plain
// integer literal. N defaults to 1 and B to 0. The detail string lists the
// individual rolls joined by '+' with the signed bonus appended, e.g. "3+5+2".
func (r *Roller) RollExpr(expr string) (int, string, error) {
	expr = strings.ReplaceAll(expr, " ", "")
	if expr == "" {
		return 0, "", fmt.Errorf("empty dice expression")
	}

	if !strings.Contains(expr, "d") {
		value, err := strconv.Atoi(expr)
		if err != nil {
			return 0, "", fmt.Errorf("invalid dice expression %q: %w", expr, err)
		}
		return value, strconv.Itoa(value), nil
	}

	left, right, _ := strings.Cut(expr, "d")
	count := 1
	if left != "" {
		n, err := strconv.Atoi(left)
		if err != nil || n < 1 {
			return 0, "", fmt.Errorf("invalid die count in %q", expr)
		}
		count = n
	}

	bonus := 0
	sidesStr := right
	if i := strings.IndexAny(right, "+-"); i >= 0 {
		sidesStr = right[:i]
		b, err := strconv.Atoi(right[i:])
		if err != nil {
			return 0, "", fmt.Errorf("invalid bonus in %q", expr)
		}
		bonus = b
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil || sides < 1 {
		return 0, "", fmt.Errorf("invalid die sides in %q", expr)
	}

	total := bonus
	parts := make([]string, count)
	for i := 0; i < count; i++ {
		roll := r.Roll(sides)
		total += roll
		parts[i] = strconv.Itoa(roll)
	}

	detail := strings.Join(parts, "+")
	if bonus != 0 {
		detail = fmt.Sprintf("%s%+d", detail, bonus)
	}
	return total, detail, nil
}

// Check rolls a d20 skill check: success when roll+statBonus >= dc.
func (r *Roller) Check(statBonus, dc int) (bool, int, int) {
	roll := r.Roll(20)
	total := roll + statBonus
	return total >= dc, roll, total
}
