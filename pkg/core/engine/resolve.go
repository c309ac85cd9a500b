package engine

import "math"

// Resolve implements the single override policy used everywhere a
// reference default can be replaced by a user value: the user value wins
// only if it is present (non-zero) and differs from the default beyond
// tol. tol = 0 degrades to a pure presence check.
//
// Every overridable field in the engine goes through this function; the
// comparison is never re-derived at a call site.
func Resolve(def, user, tol float64) float64 {
	if user == 0 {
		return def
	}
	if math.Abs(user-def) <= tol {
		return def
	}
	return user
}
