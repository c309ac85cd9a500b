package engine

import (
	"testing"

	"biofuel_tea/pkg/core/trace"
)

func TestRecorderIsNumericallyInert(t *testing.T) {
	// Enabling provenance must not change any numeric result: the
	// recorder observes the canonical formulas, it never re-derives
	// them.
	in := workedInputs()
	ref := refRecord()
	cfg := DefaultConfig()

	plain, err := CalculateLayer1(in, ref, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	rec := trace.New()
	traced, err := CalculateLayer1(in, ref, cfg, rec)
	if err != nil {
		t.Fatal(err)
	}

	if plain.TCI != traced.TCI ||
		plain.TotalProduction != traced.TotalProduction ||
		plain.FuelEnergyContent != traced.FuelEnergyContent ||
		plain.CCE != traced.CCE {
		t.Error("recorder changed a Layer 1 result")
	}
	for i := range plain.Products {
		if plain.Products[i] != traced.Products[i] {
			t.Errorf("recorder changed product %d", i)
		}
	}

	if len(rec.Steps()) == 0 {
		t.Error("recorder captured no steps")
	}
	// Every step carries a formula.
	for _, s := range rec.Steps() {
		if s.Formula == "" {
			t.Errorf("step %q has no formula", s.Name)
		}
	}
}
