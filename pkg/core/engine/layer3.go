package engine

import "biofuel_tea/pkg/core/trace"

// CalculateLayer3 combines the Layer-2 results of one or more feedstock
// streams into the plant-level direct OPEX and a yield-weighted carbon
// intensity. With a single stream the blend degenerates to that
// stream's total CI times its product yield.
func CalculateLayer3(streams []*Layer2Result, rec *trace.Recorder) (*Layer3Result, error) {
	if len(streams) == 0 {
		return nil, Validationf("no feedstock streams supplied")
	}

	var direct, weightedCI float64
	for _, s := range streams {
		direct += s.FeedstockCost + s.HydrogenCost + s.ElectricityCost
		weightedCI += s.TotalCI * s.ProductYield
	}

	rec.Record("direct_opex", "direct = sum(feedstock_cost + hydrogen_cost + electricity_cost)", direct)
	rec.Record("weighted_ci", "weighted = sum(total_CI_i * product_yield_i)", weightedCI)

	return &Layer3Result{
		DirectOpex: direct,
		WeightedCI: weightedCI,
	}, nil
}
