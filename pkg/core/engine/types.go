package engine

// Inputs is the unit-normalized snapshot one engine run computes from:
// one feedstock stream plus the plant-level parameters. Multi-feedstock
// plants run the engine once per stream, each at its capacity share,
// and aggregate the stream shares in Layer 3.
//
// All quantities are in base units (see pkg/core/units): capacity t/yr,
// prices USD/t (electricity USD/kWh), carbon intensities gCO2/MJ,
// energy contents MJ/kg, capital M-USD.
type Inputs struct {
	Capacity  float64
	LoadHours float64

	Feedstock   Feedstock
	Hydrogen    Utility
	Electricity Utility
	Products    []Product
	Economics   Economics
}

// Feedstock is one resolved feedstock stream.
type Feedstock struct {
	Name            string
	Share           float64 // fraction of plant capacity this stream feeds; 0 = whole plant
	Price           float64 // USD/t
	CarbonContent   float64 // mass fraction of carbon
	CarbonIntensity float64 // gCO2/MJ
	EnergyContent   float64 // MJ/kg
	Yield           float64 // kg feedstock per kg product; 0 = use reference default
}

// Utility is a hydrogen or electricity stream.
type Utility struct {
	Price           float64 // USD/t (hydrogen), USD/kWh (electricity)
	Yield           float64 // per kg product; 0 = use reference default
	CarbonIntensity float64 // gCO2/MJ
}

// Product is one output product.
type Product struct {
	Name          string
	Price         float64 // USD/t
	PriceCISlope  float64
	CarbonContent float64 // 0 = use Config.DefaultProductCarbonContent
	EnergyContent float64 // MJ/kg
	Yield         float64 // kg product per kg output; 0 = use mass fraction
	MassFraction  float64 // 0 = use reference default for the product name
}

// Economics holds capital and levelization parameters. Zero fields fall
// back to the reference-data defaults through Resolve.
type Economics struct {
	DiscountRate        float64
	Lifetime            int
	RefCapitalCost      float64 // M-USD
	ScalingExponent     float64
	RefCapacity         float64 // t/yr
	WorkingCapitalRatio float64
	IndirectOpexRatio   float64
}

// Config carries the engine-wide tolerances and documented defaults.
type Config struct {
	// YieldTolerance is the override tolerance for yield fields: a user
	// yield within this distance of the reference default is treated as
	// "same as default".
	YieldTolerance float64

	// MassFractionEpsilon bounds the allowed excess of the product
	// mass-fraction sum over 1.
	MassFractionEpsilon float64

	// DenomEpsilon guards the CCE, CI and LCOP denominators.
	DenomEpsilon float64

	// DefaultProductCarbonContent is used when a product does not state
	// its carbon content. The historical default is 0.75.
	DefaultProductCarbonContent float64
}

// DefaultConfig returns the documented engine defaults.
func DefaultConfig() Config {
	return Config{
		YieldTolerance:              1e-3,
		MassFractionEpsilon:         1e-6,
		DenomEpsilon:                1e-12,
		DefaultProductCarbonContent: 0.75,
	}
}

// ProductOutput is the per-product detail of Layer 1.
type ProductOutput struct {
	Name         string
	Production   float64 // t/yr
	Yield        float64 // resolved
	MassFraction float64 // resolved
	CCE          float64 // percent
}

// Layer1Result holds the technical core outputs. Immutable once built.
// TCI is always the full-plant capital; the flow quantities cover only
// this stream's capacity share.
type Layer1Result struct {
	TCI   float64 // M-USD, full plant
	Share float64 // resolved capacity share, 1 for a single-stream plant

	FeedstockConsumption   float64 // t/yr
	HydrogenConsumption    float64 // t/yr
	ElectricityConsumption float64 // MWh/yr

	TotalProduction   float64 // t/yr
	Products          []ProductOutput
	FuelEnergyContent float64 // MJ/kg, mass-fraction weighted
	CCE               float64 // percent, mean across products

	// Resolved stream values Layer 2 reuses.
	FeedstockYield   float64
	HydrogenYield    float64
	ElectricityYield float64
	ProductYieldSum  float64
}

// ProductMetrics is the per-product detail of Layer 2.
type ProductMetrics struct {
	Name            string
	Production      float64 // t/yr
	CarbonIntensity float64 // gCO2/MJ
	CCE             float64 // percent
	CO2Emissions    float64 // tCO2/yr
	Revenue         float64 // M-USD/yr
}

// Layer2Result holds cost, carbon-intensity and revenue outputs for one
// feedstock stream.
type Layer2Result struct {
	IndirectOpex    float64 // M-USD/yr
	FeedstockCost   float64 // M-USD/yr
	HydrogenCost    float64 // M-USD/yr
	ElectricityCost float64 // M-USD/yr

	FeedstockCI   float64 // gCO2/MJ of fuel
	HydrogenCI    float64
	ElectricityCI float64
	ProcessCI     float64
	TotalCI       float64

	Products     []ProductMetrics
	TotalRevenue float64 // M-USD/yr

	// ProductYield is this stream's share-scaled aggregate product
	// yield, the weight used by the Layer-3 carbon-intensity blend.
	// Stream weights of a fully specified plant sum to ~1.
	ProductYield float64
}

// Layer3Result aggregates one or more feedstock streams.
type Layer3Result struct {
	DirectOpex float64 // M-USD/yr
	WeightedCI float64 // gCO2/MJ, yield-weighted blend
}

// Layer4Result holds the final plant-level KPIs.
type Layer4Result struct {
	TotalOpex         float64 // M-USD/yr
	CRF               float64
	AnnualizedCapital float64 // M-USD/yr
	LCOP              float64 // USD/t
	TotalCO2Emissions float64 // tCO2/yr
}
