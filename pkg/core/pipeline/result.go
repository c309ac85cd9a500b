package pipeline

import (
	"biofuel_tea/pkg/core/engine"
	"biofuel_tea/pkg/models"
)

// assembleResult maps the layer outputs onto the stable result
// contract. Per-product entries from every feedstock stream are listed,
// so the round-trip identities (sum of per-product production equals
// total production, likewise revenue) hold on the result record itself.
func assembleResult(req *models.CalculationRequest, capacity float64, l1s []*engine.Layer1Result, streams []*engine.Layer2Result, l3 *engine.Layer3Result, l4 *engine.Layer4Result, rows []models.CashFlowRow, summary models.FinancialSummary) *models.CalculationResult {
	res := &models.CalculationResult{
		ID:      req.ID,
		Process: req.Inputs.Process,
		Country: req.Inputs.Country,

		TCI:               l1s[0].TCI,
		AnnualizedCapital: l4.AnnualizedCapital,
		FuelEnergyContent: l1s[0].FuelEnergyContent,

		CI: models.CIBreakdown{
			Feedstock:   streams[0].FeedstockCI,
			Hydrogen:    streams[0].HydrogenCI,
			Electricity: streams[0].ElectricityCI,
			Process:     streams[0].ProcessCI,
			Total:       streams[0].TotalCI,
			Weighted:    l3.WeightedCI,
		},

		TotalCO2Emissions: l4.TotalCO2Emissions,
		LCOP:              l4.LCOP,
		Financial:         summary,
		CashFlows:         rows,
	}

	var cceSum float64
	var cceCount int
	for i, l1 := range l1s {
		res.TotalProduction += l1.TotalProduction
		res.FeedstockConsumption += l1.FeedstockConsumption
		res.HydrogenConsumption += l1.HydrogenConsumption
		res.ElectricityConsumption += l1.ElectricityConsumption

		l2 := streams[i]
		res.Opex.Feedstock += l2.FeedstockCost
		res.Opex.Hydrogen += l2.HydrogenCost
		res.Opex.Electricity += l2.ElectricityCost
		res.Opex.Indirect = l2.IndirectOpex // TCI-proportional, identical per stream
		res.TotalRevenue += l2.TotalRevenue

		for j, p := range l1.Products {
			m := l2.Products[j]
			res.Products = append(res.Products, models.ProductResult{
				Name:            p.Name,
				Production:      p.Production,
				MassFraction:    p.MassFraction,
				CarbonIntensity: m.CarbonIntensity,
				CCE:             m.CCE,
				CO2Emissions:    m.CO2Emissions,
				Revenue:         m.Revenue,
			})
			cceSum += m.CCE
			cceCount++
		}
	}
	if cceCount > 0 {
		res.CCE = cceSum / float64(cceCount)
	}

	res.Opex.Direct = l3.DirectOpex
	res.Opex.Total = l4.TotalOpex

	return res
}
