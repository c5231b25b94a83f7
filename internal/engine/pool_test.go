package engine_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/s104tools/cgtcalc/internal/apperrors"
	"github.com/s104tools/cgtcalc/internal/engine"
)

// TestPool tests Section 104 holding bookkeeping.
//
// WHY: The pool is the residual cost-basis store for every disposal; a
// removal exceeding the holding means upstream matching lost track of
// quantity and must be fatal, never silently clamped.
func TestPool(t *testing.T) {
	dec := decimal.RequireFromString

	t.Run("accumulates additions", func(t *testing.T) {
		var pool engine.Pool
		pool.Add(dec("9500"), dec("9500"))
		pool.Add(dec("500"), dec("850"))

		if !pool.Quantity.Equal(dec("10000")) {
			t.Errorf("Quantity = %s, want 10000", pool.Quantity)
		}
		if !pool.Cost.Equal(dec("10350")) {
			t.Errorf("Cost = %s, want 10350", pool.Cost)
		}
	})

	t.Run("removes within the holding", func(t *testing.T) {
		var pool engine.Pool
		pool.Add(dec("9500"), dec("9500"))

		if err := pool.Remove(dec("3500"), dec("3500")); err != nil {
			t.Fatalf("Remove() returned unexpected error: %v", err)
		}
		if !pool.Quantity.Equal(dec("6000")) {
			t.Errorf("Quantity = %s, want 6000", pool.Quantity)
		}
		if !pool.Cost.Equal(dec("6000")) {
			t.Errorf("Cost = %s, want 6000", pool.Cost)
		}
	})

	t.Run("fails when removal exceeds the holding", func(t *testing.T) {
		var pool engine.Pool
		pool.Add(dec("100"), dec("200"))

		err := pool.Remove(dec("100.00000001"), dec("200"))
		if !errors.Is(err, apperrors.ErrPoolInsufficient) {
			t.Errorf("Remove() error = %v, want ErrPoolInsufficient", err)
		}
		// State must be untouched after a failed removal.
		if !pool.Quantity.Equal(dec("100")) || !pool.Cost.Equal(dec("200")) {
			t.Errorf("pool = %s/%s after failed removal, want 100/200", pool.Quantity, pool.Cost)
		}
	})

	t.Run("fails on removal from an empty holding", func(t *testing.T) {
		var pool engine.Pool
		if err := pool.Remove(dec("1"), dec("1")); !errors.Is(err, apperrors.ErrPoolInsufficient) {
			t.Errorf("Remove() error = %v, want ErrPoolInsufficient", err)
		}
	})

	t.Run("average cost per unit", func(t *testing.T) {
		var pool engine.Pool

		cpu, err := pool.CostPerUnit()
		if err != nil {
			t.Fatalf("CostPerUnit() returned unexpected error: %v", err)
		}
		if !cpu.IsZero() {
			t.Errorf("empty holding CostPerUnit = %s, want 0", cpu)
		}

		pool.Add(dec("1500"), dec("6280"))
		cpu, err = pool.CostPerUnit()
		if err != nil {
			t.Fatalf("CostPerUnit() returned unexpected error: %v", err)
		}
		if !cpu.Round(4).Equal(dec("4.1867")) {
			t.Errorf("CostPerUnit = %s, want 4.1867 at 4dp", cpu.Round(4))
		}
	})
}
