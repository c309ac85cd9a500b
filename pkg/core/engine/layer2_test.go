package engine

import (
	"math"
	"testing"
)

func runLayers12(t *testing.T, in Inputs) (*Layer1Result, *Layer2Result) {
	t.Helper()
	ref := refRecord()
	cfg := DefaultConfig()
	l1, err := CalculateLayer1(in, ref, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	l2, err := CalculateLayer2(in, l1, ref, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return l1, l2
}

func TestIndirectOpex(t *testing.T) {
	// ratio 0.04 * TCI 400 = 16 M/yr
	_, l2 := runLayers12(t, workedInputs())
	if math.Abs(l2.IndirectOpex-16.0) > 1e-9 {
		t.Errorf("indirect OPEX: expected 16, got %f", l2.IndirectOpex)
	}
}

func TestDirectCosts(t *testing.T) {
	_, l2 := runLayers12(t, workedInputs())

	// feedstock: 605,000 t/yr * 800 USD/t = 484 M/yr
	if math.Abs(l2.FeedstockCost-484.0) > 1e-9 {
		t.Errorf("feedstock cost: expected 484, got %f", l2.FeedstockCost)
	}
	// hydrogen: 21,000 t/yr * 1500 USD/t = 31.5 M/yr
	if math.Abs(l2.HydrogenCost-31.5) > 1e-9 {
		t.Errorf("hydrogen cost: expected 31.5, got %f", l2.HydrogenCost)
	}
	// electricity: 100,000 MWh/yr * 0.08 USD/kWh = 8 M/yr
	if math.Abs(l2.ElectricityCost-8.0) > 1e-9 {
		t.Errorf("electricity cost: expected 8, got %f", l2.ElectricityCost)
	}
}

func TestCarbonIntensityBreakdown(t *testing.T) {
	l1, l2 := runLayers12(t, workedInputs())

	fuelE := l1.FuelEnergyContent
	// feedstock CI = 20 * 1.21 / fuelE
	wantFeed := 20.0 * 1.21 / fuelE
	if math.Abs(l2.FeedstockCI-wantFeed) > 1e-9 {
		t.Errorf("feedstock CI: expected %f, got %f", wantFeed, l2.FeedstockCI)
	}
	wantH2 := 90.0 * 0.042 / fuelE
	if math.Abs(l2.HydrogenCI-wantH2) > 1e-9 {
		t.Errorf("hydrogen CI: expected %f, got %f", wantH2, l2.HydrogenCI)
	}
	wantEl := 120.0 * 0.2 / fuelE
	if math.Abs(l2.ElectricityCI-wantEl) > 1e-9 {
		t.Errorf("electricity CI: expected %f, got %f", wantEl, l2.ElectricityCI)
	}
	if l2.ProcessCI != 5.0 {
		t.Errorf("process CI comes straight from the reference record, got %f", l2.ProcessCI)
	}

	// total = (sum of sources) * sum of mass fractions (= 1.0 here)
	wantTotal := (wantFeed + wantH2 + wantEl + 5.0) * 1.0
	if math.Abs(l2.TotalCI-wantTotal) > 1e-9 {
		t.Errorf("total CI: expected %f, got %f", wantTotal, l2.TotalCI)
	}
}

func TestRevenueIdentity(t *testing.T) {
	// Total revenue must be the exact sum of per-product revenues.
	_, l2 := runLayers12(t, workedInputs())

	var sum float64
	for _, p := range l2.Products {
		sum += p.Revenue
	}
	if sum != l2.TotalRevenue {
		t.Errorf("revenue identity broken: sum %f != total %f", sum, l2.TotalRevenue)
	}

	// Spot-check one product: jet 320,000 t/yr * 1100 USD/t = 352 M/yr.
	if math.Abs(l2.Products[0].Revenue-352.0) > 1e-9 {
		t.Errorf("jet revenue: expected 352, got %f", l2.Products[0].Revenue)
	}
}

func TestPerProductCIAndCO2(t *testing.T) {
	_, l2 := runLayers12(t, workedInputs())

	for i, p := range l2.Products {
		wantCI := l2.TotalCI * workedInputs().Products[i].MassFraction
		if math.Abs(p.CarbonIntensity-wantCI) > 1e-9 {
			t.Errorf("product %s CI: expected %f, got %f", p.Name, wantCI, p.CarbonIntensity)
		}
		wantCO2 := p.CarbonIntensity * p.Production / 1000.0
		if math.Abs(p.CO2Emissions-wantCO2) > 1e-9 {
			t.Errorf("product %s CO2: expected %f, got %f", p.Name, wantCO2, p.CO2Emissions)
		}
	}
}
