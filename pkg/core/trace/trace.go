// Package trace records a step-by-step breakdown of a calculation as it
// runs. The recorder is threaded through the engine layers alongside the
// normal evaluation; it observes values, never produces them, so enabling
// it cannot change a numeric result. A nil *Recorder is valid and records
// nothing, which keeps the hot path free of conditionals at call sites.
package trace

import "biofuel_tea/pkg/models"

// Recorder accumulates ordered calculation steps. Not safe for
// concurrent use; each calculation owns its own recorder.
type Recorder struct {
	steps []models.TraceStep
}

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{}
}

// In builds one resolved-input entry for Record.
func In(name string, value float64, unit string) models.TraceInput {
	return models.TraceInput{Name: name, Value: value, Unit: unit}
}

// Record appends one step: the quantity's name, its human-readable
// formula, the resolved inputs, and the computed value. No-op on a nil
// recorder.
func (r *Recorder) Record(name, formula string, value float64, inputs ...models.TraceInput) {
	if r == nil {
		return
	}
	r.steps = append(r.steps, models.TraceStep{
		Name:    name,
		Formula: formula,
		Inputs:  inputs,
		Value:   value,
	})
}

// Steps returns the recorded steps in calculation order. Nil-safe.
func (r *Recorder) Steps() []models.TraceStep {
	if r == nil {
		return nil
	}
	return r.steps
}
