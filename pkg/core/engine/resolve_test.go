package engine

import "testing"

func TestResolve(t *testing.T) {
	// Absent user value keeps the default.
	if got := Resolve(1.21, 0, 1e-3); got != 1.21 {
		t.Errorf("absent user value: expected 1.21, got %f", got)
	}
	// Within tolerance keeps the default.
	if got := Resolve(1.21, 1.2105, 1e-3); got != 1.21 {
		t.Errorf("within tolerance: expected 1.21, got %f", got)
	}
	// Beyond tolerance takes the user value.
	if got := Resolve(1.21, 1.30, 1e-3); got != 1.30 {
		t.Errorf("beyond tolerance: expected 1.30, got %f", got)
	}
	// tol = 0 is a pure presence check.
	if got := Resolve(400, 410, 0); got != 410 {
		t.Errorf("presence check: expected 410, got %f", got)
	}
}
