package engine

import (
	"biofuel_tea/pkg/core/refdata"
	"biofuel_tea/pkg/core/trace"
)

// usdPerMillion converts USD/yr figures to the M-USD/yr cost base.
const usdPerMillion = 1e6

// kgCO2PerTonne is the single scaling constant between per-mass CO2
// figures and tonnes.
const kgCO2PerTonne = 1000.0

// CalculateLayer2 computes indirect OPEX, the direct cost components,
// the carbon-intensity breakdown on the fuel-energy basis, and the
// per-product emissions and revenue for one feedstock stream.
func CalculateLayer2(in Inputs, l1 *Layer1Result, ref *refdata.Record, cfg Config, rec *trace.Recorder) (*Layer2Result, error) {
	// 1. Indirect OPEX = ratio * TCI
	ratio := Resolve(ref.IndirectOpexRatio, in.Economics.IndirectOpexRatio, 0)
	indirect := ratio * l1.TCI
	rec.Record("indirect_opex", "indirect = ratio * TCI", indirect,
		trace.In("ratio", ratio, ""), trace.In("TCI", l1.TCI, "MUSD"))

	// 2. Direct costs = consumption * price
	feedCost := l1.FeedstockConsumption * in.Feedstock.Price / usdPerMillion
	h2Cost := l1.HydrogenConsumption * in.Hydrogen.Price / usdPerMillion
	// Electricity: MWh/yr * USD/kWh * 1000 kWh/MWh
	elCost := l1.ElectricityConsumption * in.Electricity.Price * 1000.0 / usdPerMillion

	rec.Record("feedstock_cost", "cost = consumption * price", feedCost,
		trace.In("consumption", l1.FeedstockConsumption, "t/yr"),
		trace.In("price", in.Feedstock.Price, "USD/t"))
	rec.Record("hydrogen_cost", "cost = consumption * price", h2Cost,
		trace.In("consumption", l1.HydrogenConsumption, "t/yr"),
		trace.In("price", in.Hydrogen.Price, "USD/t"))
	rec.Record("electricity_cost", "cost = consumption * price", elCost,
		trace.In("consumption", l1.ElectricityConsumption, "MWh/yr"),
		trace.In("price", in.Electricity.Price, "USD/kWh"))

	// 3. Carbon-intensity breakdown, normalized to the fuel energy basis.
	// Layer 1 guarantees FuelEnergyContent > 0 (documented fallbacks),
	// the epsilon check is belt-and-braces against a hand-built result.
	fuelE := l1.FuelEnergyContent
	if fuelE <= cfg.DenomEpsilon {
		fuelE = 1.0
	}
	feedCI := in.Feedstock.CarbonIntensity * l1.FeedstockYield / fuelE
	h2CI := in.Hydrogen.CarbonIntensity * l1.HydrogenYield / fuelE
	elCI := in.Electricity.CarbonIntensity * l1.ElectricityYield / fuelE
	procCI := ref.ProcessCI

	var mfSum float64
	for _, p := range l1.Products {
		mfSum += p.MassFraction
	}
	totalCI := (feedCI + h2CI + elCI + procCI) * mfSum

	rec.Record("feedstock_ci", "CI = source_CI * source_yield / fuel_energy_content", feedCI,
		trace.In("source_CI", in.Feedstock.CarbonIntensity, "gCO2/MJ"),
		trace.In("source_yield", l1.FeedstockYield, "kg/kg"),
		trace.In("fuel_energy_content", fuelE, "MJ/kg"))
	rec.Record("hydrogen_ci", "CI = source_CI * source_yield / fuel_energy_content", h2CI)
	rec.Record("electricity_ci", "CI = source_CI * source_yield / fuel_energy_content", elCI)
	rec.Record("total_ci", "total = (feedstock + hydrogen + electricity + process) * sum(mass_fractions)", totalCI,
		trace.In("process_CI", procCI, "gCO2/MJ"),
		trace.In("mass_fraction_sum", mfSum, ""))

	// 4. Per-product metrics. Total revenue is the exact sum of the
	// per-product revenues; no independent aggregate is computed.
	metrics := make([]ProductMetrics, 0, len(l1.Products))
	var totalRevenue float64
	for i, p := range l1.Products {
		ci := totalCI * p.Yield
		co2 := ci * p.Production / kgCO2PerTonne
		revenue := p.Production * in.Products[i].Price / usdPerMillion
		totalRevenue += revenue

		metrics = append(metrics, ProductMetrics{
			Name:            p.Name,
			Production:      p.Production,
			CarbonIntensity: ci,
			CCE:             p.CCE,
			CO2Emissions:    co2,
			Revenue:         revenue,
		})

		rec.Record("product_ci:"+p.Name, "CI = total_CI * product_yield", ci,
			trace.In("total_CI", totalCI, "gCO2/MJ"), trace.In("product_yield", p.Yield, "kg/kg"))
		rec.Record("revenue:"+p.Name, "revenue = production * price", revenue,
			trace.In("production", p.Production, "t/yr"),
			trace.In("price", in.Products[i].Price, "USD/t"))
	}

	return &Layer2Result{
		IndirectOpex:    indirect,
		FeedstockCost:   feedCost,
		HydrogenCost:    h2Cost,
		ElectricityCost: elCost,
		FeedstockCI:     feedCI,
		HydrogenCI:      h2CI,
		ElectricityCI:   elCI,
		ProcessCI:       procCI,
		TotalCI:         totalCI,
		Products:        metrics,
		TotalRevenue:    totalRevenue,
		ProductYield:    l1.ProductYieldSum * l1.Share,
	}, nil
}
