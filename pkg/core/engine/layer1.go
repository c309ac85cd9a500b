package engine

import (
	"math"

	"biofuel_tea/pkg/core/refdata"
	"biofuel_tea/pkg/core/trace"
)

// CalculateLayer1 computes the technical core: capital investment via
// the economy-of-scale power law, feedstock/utility consumption,
// per-product production, weighted fuel energy content and carbon
// conversion efficiency.
//
// Pure function of its inputs; rec may be nil.
func CalculateLayer1(in Inputs, ref *refdata.Record, cfg Config, rec *trace.Recorder) (*Layer1Result, error) {
	if len(in.Products) == 0 {
		return nil, Validationf("no products supplied")
	}

	// Capacity share of this stream. Capital scales with the whole
	// plant; consumption and production scale with the share, so the
	// per-stream results of a blend sum back to the plant figures.
	share := in.Feedstock.Share
	if share <= 0 {
		share = 1.0
	}

	// 1. Capital Investment (economy of scale)
	// TCI = TCI_ref * (capacity / capacity_ref)^s
	tciRef := Resolve(ref.RefCapitalCost, in.Economics.RefCapitalCost, 0)
	capRef := Resolve(ref.RefCapacity, in.Economics.RefCapacity, 0)
	s := Resolve(ref.ScalingExponent, in.Economics.ScalingExponent, 0)
	if capRef <= 0 {
		return nil, Validationf("reference capacity must be strictly positive, got %g", capRef)
	}
	if in.Capacity <= 0 {
		return nil, Validationf("plant capacity must be strictly positive, got %g", in.Capacity)
	}
	// math.Pow(1, s) == 1 exactly, so TCI == TCI_ref when the capacities match.
	tci := tciRef * math.Pow(in.Capacity/capRef, s)
	rec.Record("tci", "TCI = TCI_ref * (capacity / capacity_ref)^s", tci,
		trace.In("TCI_ref", tciRef, "MUSD"),
		trace.In("capacity", in.Capacity, "t/yr"),
		trace.In("capacity_ref", capRef, "t/yr"),
		trace.In("s", s, ""),
	)

	// 2. Consumption = capacity * yield, each yield independently overridable
	fy := Resolve(ref.FeedstockYield, in.Feedstock.Yield, cfg.YieldTolerance)
	hy := Resolve(ref.HydrogenYield, in.Hydrogen.Yield, cfg.YieldTolerance)
	ey := Resolve(ref.ElectricityYield, in.Electricity.Yield, cfg.YieldTolerance)

	streamCap := in.Capacity * share
	feedCons := streamCap * fy
	h2Cons := streamCap * hy
	// Electricity yield is kWh/kg, which is numerically MWh/t.
	elCons := streamCap * ey

	rec.Record("feedstock_consumption", "consumption = capacity * yield", feedCons,
		trace.In("capacity", streamCap, "t/yr"), trace.In("yield", fy, "kg/kg"))
	rec.Record("hydrogen_consumption", "consumption = capacity * yield", h2Cons,
		trace.In("capacity", streamCap, "t/yr"), trace.In("yield", hy, "kg/kg"))
	rec.Record("electricity_consumption", "consumption = capacity * yield", elCons,
		trace.In("capacity", streamCap, "t/yr"), trace.In("yield", ey, "kWh/kg"))

	// 3. Per-product production and mass-fraction validation
	products := make([]ProductOutput, 0, len(in.Products))
	var totalProduction, mfSum, yieldSum float64
	for _, p := range in.Products {
		mf := p.MassFraction
		if mf == 0 {
			// Fall back to the reference default for this product name.
			if def, ok := ref.MassFraction(p.Name); ok {
				mf = def
			}
		}
		yield := p.Yield
		if yield == 0 {
			yield = mf
		}

		amount := streamCap * yield
		products = append(products, ProductOutput{
			Name:         p.Name,
			Production:   amount,
			Yield:        yield,
			MassFraction: mf,
		})
		totalProduction += amount
		mfSum += mf
		yieldSum += yield

		rec.Record("production:"+p.Name, "amount = capacity * product_yield", amount,
			trace.In("capacity", streamCap, "t/yr"), trace.In("product_yield", yield, "kg/kg"))
	}
	if mfSum > 1+cfg.MassFractionEpsilon {
		return nil, Validationf("product mass fractions sum to %g, exceeding 1", mfSum)
	}

	// 4. Weighted fuel energy content
	// Sum(energy_i * mass_fraction_i); if non-positive, fall back to the
	// unweighted average of the supplied energy contents; if that is
	// still non-positive, use 1.0 so downstream per-energy figures stay
	// finite. Both fallbacks are part of the numeric contract.
	var fuelEnergy float64
	for i, p := range in.Products {
		fuelEnergy += p.EnergyContent * products[i].MassFraction
	}
	if fuelEnergy <= 0 {
		var sum float64
		var count int
		for _, p := range in.Products {
			if p.EnergyContent > 0 {
				sum += p.EnergyContent
				count++
			}
		}
		if count > 0 {
			fuelEnergy = sum / float64(count)
		}
	}
	if fuelEnergy <= 0 {
		fuelEnergy = 1.0
	}
	rec.Record("fuel_energy_content", "E = sum(energy_content_i * mass_fraction_i)", fuelEnergy)

	// 5. Carbon conversion efficiency
	// CCE_i = (product_carbon * product_yield) / (feedstock_carbon * feedstock_yield) * 100
	ccDenom := in.Feedstock.CarbonContent * fy
	var cceSum float64
	for i := range products {
		pcc := in.Products[i].CarbonContent
		if pcc == 0 {
			pcc = cfg.DefaultProductCarbonContent
		}
		var cce float64
		if ccDenom > cfg.DenomEpsilon {
			cce = (pcc * products[i].Yield) / ccDenom * 100.0
		}
		products[i].CCE = cce
		cceSum += cce

		rec.Record("cce:"+products[i].Name,
			"CCE = (product_carbon * product_yield) / (feedstock_carbon * feedstock_yield) * 100", cce,
			trace.In("product_carbon", pcc, ""),
			trace.In("product_yield", products[i].Yield, "kg/kg"),
			trace.In("feedstock_carbon", in.Feedstock.CarbonContent, ""),
			trace.In("feedstock_yield", fy, "kg/kg"),
		)
	}
	engineCCE := cceSum / float64(len(products))

	return &Layer1Result{
		TCI:                    tci,
		Share:                  share,
		FeedstockConsumption:   feedCons,
		HydrogenConsumption:    h2Cons,
		ElectricityConsumption: elCons,
		TotalProduction:        totalProduction,
		Products:               products,
		FuelEnergyContent:      fuelEnergy,
		CCE:                    engineCCE,
		FeedstockYield:         fy,
		HydrogenYield:          hy,
		ElectricityYield:       ey,
		ProductYieldSum:        yieldSum,
	}, nil
}
