package finance

import (
	"math"

	"biofuel_tea/pkg/core/trace"
	"biofuel_tea/pkg/models"
)

// IRR solver bounds. Rates outside [-99%, +1000%] are not meaningful
// for a plant investment; the iteration count bounds the search so the
// solver can never loop indefinitely.
const (
	irrLowerBound = -0.99
	irrUpperBound = 10.0
	irrMaxIter    = 200
	irrTolerance  = 1e-7
)

// npvAtRate re-discounts the schedule's after-tax cash flows at rate r.
func npvAtRate(rows []models.CashFlowRow, r float64) float64 {
	var npv float64
	for _, row := range rows {
		npv += row.AfterTaxCashFlow * math.Pow(1.0+r, -float64(row.Year))
	}
	return npv
}

// SolveIRR finds the rate at which the schedule's NPV is zero, by
// bisection within the documented bounds. Returns nil when the
// cash-flow sign pattern admits no root in range (e.g. all-negative
// flows) or the iteration bound runs out before the tolerance is met:
// non-convergence is a valid outcome, not an error.
func SolveIRR(rows []models.CashFlowRow) *float64 {
	return solveIRR(rows, irrMaxIter)
}

func solveIRR(rows []models.CashFlowRow, maxIter int) *float64 {
	lo, hi := irrLowerBound, irrUpperBound
	fLo := npvAtRate(rows, lo)
	fHi := npvAtRate(rows, hi)

	// Bisection needs a sign change across the bracket.
	if fLo == 0 {
		return &lo
	}
	if fHi == 0 {
		return &hi
	}
	if (fLo > 0) == (fHi > 0) {
		return nil
	}

	for i := 0; i < maxIter; i++ {
		mid := (lo + hi) / 2.0
		fMid := npvAtRate(rows, mid)
		if math.Abs(fMid) < irrTolerance || (hi-lo)/2.0 < irrTolerance {
			return &mid
		}
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}

	// Iteration bound exhausted without meeting the tolerance: report
	// non-convergence rather than a half-converged estimate.
	return nil
}

// PaybackPeriod returns the first year whose cumulative undiscounted
// after-tax cash flow is non-negative, or nil when the investment is
// never recovered within the schedule.
func PaybackPeriod(rows []models.CashFlowRow) *int {
	var cumulative float64
	for _, row := range rows {
		cumulative += row.AfterTaxCashFlow
		if cumulative >= 0 {
			year := row.Year
			return &year
		}
	}
	return nil
}

// Analyze builds the full schedule and derives the summary metrics.
// NPV is the final cumulative discounted cash flow of the schedule.
func Analyze(in Input, rec *trace.Recorder) ([]models.CashFlowRow, models.FinancialSummary) {
	rows := BuildSchedule(in, rec)

	var npv float64
	if len(rows) > 0 {
		npv = rows[len(rows)-1].CumulativeDCF
	}
	irr := SolveIRR(rows)
	payback := PaybackPeriod(rows)

	rec.Record("npv", "NPV = final cumulative discounted cash flow", npv)
	if irr != nil {
		rec.Record("irr", "IRR solves sum(CF_t / (1+r)^t) = 0", *irr)
	}

	return rows, models.FinancialSummary{
		NPV:     npv,
		IRR:     irr,
		Payback: payback,
	}
}
