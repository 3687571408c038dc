package schedule

import (
	"fmt"
	"math/rand/v2"
)

// Binary is a periods x units matrix of on/off flags.
type Binary [][]int8

// Integer is a periods x units matrix of signed run lengths.
type Integer [][]int

// NewBinary allocates an all-offline schedule of the given shape.
func NewBinary(periods, units int) Binary {
	backing := make([]int8, periods*units)
	b := make(Binary, periods)
	for t := range b {
		b[t] = backing[t*units : (t+1)*units : (t+1)*units]
	}
	return b
}

// Periods returns the number of rows.
func (b Binary) Periods() int { return len(b) }

// Units returns the number of columns.
func (b Binary) Units() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// Clone returns a deep copy.
func (b Binary) Clone() Binary {
	out := NewBinary(b.Periods(), b.Units())
	for t := range b {
		copy(out[t], b[t])
	}
	return out
}

// Equal reports whether both schedules hold the same cells.
func (b Binary) Equal(o Binary) bool {
	if len(b) != len(o) {
		return false
	}
	for t := range b {
		if len(b[t]) != len(o[t]) {
			return false
		}
		for n := range b[t] {
			if b[t][n] != o[t][n] {
				return false
			}
		}
	}
	return true
}

// OnlineCount returns the number of committed cells.
func (b Binary) OnlineCount() int {
	var c int
	for _, row := range b {
		for _, v := range row {
			if v > 0 {
				c++
			}
		}
	}
	return c
}

// CheckShape verifies b is a rectangular periods x units matrix of 0/1 values.
func CheckShape(b Binary, periods, units int) error {
	if len(b) != periods {
		return fmt.Errorf("schedule has %d periods, want %d", len(b), periods)
	}
	for t, row := range b {
		if len(row) != units {
			return fmt.Errorf("period %d has %d units, want %d", t, len(row), units)
		}
		for n, v := range row {
			if v != 0 && v != 1 {
				return fmt.Errorf("cell (%d,%d) is %d, want 0 or 1", t, n, v)
			}
		}
	}
	return nil
}

// Random draws every cell uniformly from {0,1}, row by row.
func Random(rng *rand.Rand, periods, units int) Binary {
	b := NewBinary(periods, units)
	for t := range b {
		for n := range b[t] {
			b[t][n] = int8(rng.IntN(2))
		}
	}
	return b
}

// Periods returns the number of rows.
func (s Integer) Periods() int { return len(s) }

// Units returns the number of columns.
func (s Integer) Units() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Clone returns a deep copy.
func (s Integer) Clone() Integer {
	out := make(Integer, len(s))
	for t := range s {
		out[t] = append([]int(nil), s[t]...)
	}
	return out
}
