package engine

import (
	"math"
	"testing"

	"biofuel_tea/pkg/core/refdata"
)

func refRecord() *refdata.Record {
	return &refdata.Record{
		RefCapitalCost:    400,    // M-USD
		RefCapacity:       500000, // t/yr
		ScalingExponent:   0.6,
		FeedstockYield:    1.21,
		HydrogenYield:     0.042,
		ElectricityYield:  0.2,
		MassFractions:     map[string]float64{"jet": 0.64, "diesel": 0.15, "naphtha": 0.21},
		ProcessCI:         5.0,
		IndirectOpexRatio: 0.04,
		ProcessingSteps:   3,
	}
}

func workedInputs() Inputs {
	return Inputs{
		Capacity: 500000,
		Feedstock: Feedstock{
			Name:            "used_cooking_oil",
			Price:           800,
			CarbonContent:   0.77,
			CarbonIntensity: 20,
			EnergyContent:   37,
			Yield:           1.21,
		},
		Hydrogen:    Utility{Price: 1500, Yield: 0.042, CarbonIntensity: 90},
		Electricity: Utility{Price: 0.08, Yield: 0.2, CarbonIntensity: 120},
		Products: []Product{
			{Name: "jet", Price: 1100, CarbonContent: 0.84, EnergyContent: 43.1, MassFraction: 0.64},
			{Name: "diesel", Price: 950, CarbonContent: 0.85, EnergyContent: 42.8, MassFraction: 0.15},
			{Name: "naphtha", Price: 700, CarbonContent: 0.84, EnergyContent: 44.9, MassFraction: 0.21},
		},
		Economics: Economics{DiscountRate: 0.08, Lifetime: 25},
	}
}

func TestWorkedScenario(t *testing.T) {
	// capacity = 500,000 t/yr at reference capacity 500,000 with
	// TCI_ref = 400 => TCI = 400 exactly.
	res, err := CalculateLayer1(workedInputs(), refRecord(), DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.TCI != 400 {
		t.Errorf("TCI at reference capacity: expected exactly 400, got %f", res.TCI)
	}
	// feedstock yield 1.21 => 605,000 t/yr
	if math.Abs(res.FeedstockConsumption-605000) > 1e-6 {
		t.Errorf("feedstock consumption: expected 605000, got %f", res.FeedstockConsumption)
	}
	// hydrogen yield 0.042 => 21,000 t/yr
	if math.Abs(res.HydrogenConsumption-21000) > 1e-6 {
		t.Errorf("hydrogen consumption: expected 21000, got %f", res.HydrogenConsumption)
	}
	// mass fractions 0.64 / 0.15 / 0.21 => 320,000 / 75,000 / 105,000
	want := []float64{320000, 75000, 105000}
	for i, p := range res.Products {
		if math.Abs(p.Production-want[i]) > 1e-6 {
			t.Errorf("product %s: expected %f, got %f", p.Name, want[i], p.Production)
		}
	}
	// Round-trip identity: per-product sum == total production.
	var sum float64
	for _, p := range res.Products {
		sum += p.Production
	}
	if math.Abs(sum-res.TotalProduction) > 1e-9 {
		t.Errorf("sum of products %f != total production %f", sum, res.TotalProduction)
	}
	if math.Abs(res.TotalProduction-500000) > 1e-6 {
		t.Errorf("total production: expected 500000, got %f", res.TotalProduction)
	}
}

func TestCapacityShareScalesFlowsNotCapital(t *testing.T) {
	// Half the plant's capacity on this stream: consumption and
	// production halve, the plant capital does not.
	in := workedInputs()
	in.Feedstock.Share = 0.5

	res, err := CalculateLayer1(in, refRecord(), DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.TCI != 400 {
		t.Errorf("TCI must stay full-plant, got %f", res.TCI)
	}
	if math.Abs(res.FeedstockConsumption-302500) > 1e-6 {
		t.Errorf("feedstock consumption: expected 302500, got %f", res.FeedstockConsumption)
	}
	if math.Abs(res.TotalProduction-250000) > 1e-6 {
		t.Errorf("total production: expected 250000, got %f", res.TotalProduction)
	}
	if res.Share != 0.5 {
		t.Errorf("resolved share: expected 0.5, got %f", res.Share)
	}
}

func TestSubLinearCapitalScaling(t *testing.T) {
	// With s < 1, doubling capacity less than doubles TCI.
	ref := refRecord()
	cfg := DefaultConfig()

	small := workedInputs()
	small.Capacity = 250000
	large := workedInputs()
	large.Capacity = 500000

	resSmall, err := CalculateLayer1(small, ref, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	resLarge, err := CalculateLayer1(large, ref, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	ratio := resLarge.TCI / resSmall.TCI
	capRatio := large.Capacity / small.Capacity
	if ratio >= capRatio {
		t.Errorf("expected sub-linear scaling: TCI ratio %f >= capacity ratio %f", ratio, capRatio)
	}
	// s = 0.6: ratio should be 2^0.6
	if math.Abs(ratio-math.Pow(2, 0.6)) > 1e-9 {
		t.Errorf("expected 2^0.6 = %f, got %f", math.Pow(2, 0.6), ratio)
	}
}

func TestMassFractionValidation(t *testing.T) {
	ref := refRecord()
	cfg := DefaultConfig()

	// Sum > 1 + epsilon rejects the request.
	in := workedInputs()
	in.Products[0].MassFraction = 0.9
	if _, err := CalculateLayer1(in, ref, cfg, nil); err == nil {
		t.Error("expected ValidationError for mass fraction sum > 1")
	}

	// Sum exactly 1 passes; so does 1 + a sub-epsilon excess.
	in = workedInputs()
	if _, err := CalculateLayer1(in, ref, cfg, nil); err != nil {
		t.Errorf("mass fraction sum of 1.0 should pass: %v", err)
	}
	in.Products[0].MassFraction = 0.64 + 5e-7
	if _, err := CalculateLayer1(in, ref, cfg, nil); err != nil {
		t.Errorf("sub-epsilon excess should pass: %v", err)
	}
}

func TestNoProducts(t *testing.T) {
	in := workedInputs()
	in.Products = nil
	_, err := CalculateLayer1(in, refRecord(), DefaultConfig(), nil)
	if err == nil {
		t.Fatal("expected ValidationError when no products supplied")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("expected *ValidationError, got %T", err)
	}
}

func TestMassFractionReferenceFallback(t *testing.T) {
	// A product missing its mass fraction takes the reference default
	// for its name, case-insensitive.
	in := workedInputs()
	in.Products[0].MassFraction = 0
	in.Products[0].Name = "JET"

	res, err := CalculateLayer1(in, refRecord(), DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Products[0].MassFraction != 0.64 {
		t.Errorf("expected reference default 0.64, got %f", res.Products[0].MassFraction)
	}
	if math.Abs(res.Products[0].Production-320000) > 1e-6 {
		t.Errorf("expected 320000, got %f", res.Products[0].Production)
	}
}

func TestFuelEnergyFallbacks(t *testing.T) {
	ref := refRecord()
	ref.MassFractions = map[string]float64{}
	cfg := DefaultConfig()

	// No mass fractions anywhere: weighted sum is 0, fall back to the
	// unweighted average of supplied energy contents.
	in := workedInputs()
	for i := range in.Products {
		in.Products[i].MassFraction = 0
		in.Products[i].Yield = 0.1 // keep production defined
	}
	res, err := CalculateLayer1(in, ref, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	wantAvg := (43.1 + 42.8 + 44.9) / 3.0
	if math.Abs(res.FuelEnergyContent-wantAvg) > 1e-9 {
		t.Errorf("expected unweighted average %f, got %f", wantAvg, res.FuelEnergyContent)
	}

	// No energy contents either: guard value 1.0, never zero.
	for i := range in.Products {
		in.Products[i].EnergyContent = 0
	}
	res, err = CalculateLayer1(in, ref, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.FuelEnergyContent != 1.0 {
		t.Errorf("expected guard value 1.0, got %f", res.FuelEnergyContent)
	}
}

func TestCCEDenominatorGuard(t *testing.T) {
	// Zero feedstock carbon content: CCE guarded to 0, no Inf/NaN.
	in := workedInputs()
	in.Feedstock.CarbonContent = 0
	res, err := CalculateLayer1(in, refRecord(), DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range res.Products {
		if math.IsNaN(p.CCE) || math.IsInf(p.CCE, 0) {
			t.Fatalf("CCE must stay finite under zero denominator, got %f", p.CCE)
		}
		if p.CCE != 0 {
			t.Errorf("expected guarded CCE of 0, got %f", p.CCE)
		}
	}
}

func TestDefaultProductCarbonContent(t *testing.T) {
	// An absent product carbon content takes the configured default.
	in := workedInputs()
	in.Products[0].CarbonContent = 0

	cfg := DefaultConfig()
	res, err := CalculateLayer1(in, refRecord(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	// CCE = (0.75 * 0.64) / (0.77 * 1.21) * 100
	want := (0.75 * 0.64) / (0.77 * 1.21) * 100
	if math.Abs(res.Products[0].CCE-want) > 1e-9 {
		t.Errorf("expected CCE %f from default carbon content, got %f", want, res.Products[0].CCE)
	}
}
