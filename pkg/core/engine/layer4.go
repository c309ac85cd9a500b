package engine

import (
	"math"

	"biofuel_tea/pkg/core/trace"
)

// CRF returns the capital recovery factor for rate r over n years:
// r(1+r)^n / ((1+r)^n - 1). At r = 0 the expression approaches 1/n,
// which is returned directly rather than dividing by zero.
func CRF(r float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	if r == 0 {
		return 1.0 / float64(n)
	}
	growth := math.Pow(1.0+r, float64(n))
	return r * growth / (growth - 1.0)
}

// CalculateLayer4 derives the final plant KPIs: total OPEX, annualized
// capital via the capital recovery factor, levelized cost of production
// and total CO2 emissions. l1 and l2 carry the plant-level capital and
// indirect OPEX; the direct costs come from the Layer-3 aggregate so a
// blend prices every stream. totalProduction is the plant total across
// all streams.
func CalculateLayer4(l1 *Layer1Result, l2 *Layer2Result, l3 *Layer3Result, capacity, totalProduction float64, discountRate float64, lifetime int, cfg Config, rec *trace.Recorder) (*Layer4Result, error) {
	if lifetime <= 0 {
		return nil, Validationf("project lifetime must be positive, got %d", lifetime)
	}

	// 1. Total OPEX
	totalOpex := l3.DirectOpex + l2.IndirectOpex
	rec.Record("total_opex", "total = direct + indirect", totalOpex,
		trace.In("direct", l3.DirectOpex, "MUSD/yr"),
		trace.In("indirect", l2.IndirectOpex, "MUSD/yr"))

	// 2. Annualized capital. TCI is already on the M-USD cost base.
	crf := CRF(discountRate, lifetime)
	annualCap := l1.TCI * crf
	rec.Record("crf", "CRF = r(1+r)^n / ((1+r)^n - 1)", crf,
		trace.In("r", discountRate, ""), trace.In("n", float64(lifetime), "yr"))
	rec.Record("annualized_capital", "annualized = TCI * CRF", annualCap,
		trace.In("TCI", l1.TCI, "MUSD"), trace.In("CRF", crf, ""))

	// 3. LCOP, M-USD/yr over t/yr scaled to USD/t. The numerator is the
	// same direct + indirect + annualized capital that total OPEX and
	// the result's OPEX breakdown report.
	var lcop float64
	if capacity > cfg.DenomEpsilon {
		lcop = (l3.DirectOpex + l2.IndirectOpex + annualCap) * usdPerMillion / capacity
	}
	rec.Record("lcop", "LCOP = (direct_opex + indirect + annualized_capital) / capacity", lcop,
		trace.In("direct_opex", l3.DirectOpex, "MUSD/yr"),
		trace.In("capacity", capacity, "t/yr"))

	// 4. Total CO2: gCO2/MJ * MJ/kg * t/yr = kgCO2/yr, scaled once to tCO2/yr
	totalCO2 := l3.WeightedCI * l1.FuelEnergyContent * totalProduction / kgCO2PerTonne
	rec.Record("total_co2", "total = weighted_CI * fuel_energy_content * production", totalCO2,
		trace.In("weighted_CI", l3.WeightedCI, "gCO2/MJ"),
		trace.In("fuel_energy_content", l1.FuelEnergyContent, "MJ/kg"),
		trace.In("production", totalProduction, "t/yr"))

	return &Layer4Result{
		TotalOpex:         totalOpex,
		CRF:               crf,
		AnnualizedCapital: annualCap,
		LCOP:              lcop,
		TotalCO2Emissions: totalCO2,
	}, nil
}
