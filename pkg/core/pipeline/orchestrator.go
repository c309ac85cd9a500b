// Package pipeline wires the calculation layers end to end: unit
// normalization, reference-data resolution, the four engine layers and
// the financial model. The layers themselves are pure; everything that
// touches the outside world (reference data, logging) lives here.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"biofuel_tea/pkg/core/engine"
	"biofuel_tea/pkg/core/finance"
	"biofuel_tea/pkg/core/refdata"
	"biofuel_tea/pkg/core/scenario"
	"biofuel_tea/pkg/core/trace"
	"biofuel_tea/pkg/core/units"
	"biofuel_tea/pkg/models"
)

// Orchestrator runs calculations against a reference-data source. Safe
// for concurrent use: all per-request state is local to Run.
type Orchestrator struct {
	refdata refdata.Repository
	cfg     engine.Config
	logger  *zap.Logger
}

// NewOrchestrator builds an orchestrator with the default engine
// configuration. logger may be nil.
func NewOrchestrator(repo refdata.Repository, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		refdata: repo,
		cfg:     engine.DefaultConfig(),
		logger:  logger,
	}
}

// SetConfig overrides the engine configuration (tolerances, documented
// defaults). Intended for variant studies and tests.
func (o *Orchestrator) SetConfig(cfg engine.Config) {
	o.cfg = cfg
}

// Run executes one calculation. Validation failures reject the whole
// request; every other outcome returns a complete result, possibly with
// nil IRR/payback.
func (o *Orchestrator) Run(ctx context.Context, req models.CalculationRequest) (*models.CalculationResult, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	start := time.Now()

	if err := scenario.Validate(&req.Inputs); err != nil {
		return nil, err
	}
	if len(req.Inputs.Feedstocks) == 0 {
		return nil, engine.Validationf("at least one feedstock stream is required")
	}

	var rec *trace.Recorder
	if req.Trace {
		rec = trace.New()
	}

	norm := units.NewNormalizer(units.DefaultDensity, req.Inputs.LoadHours)
	capacity, err := norm.NormalizeIn(req.Inputs.Capacity, units.GroupMassFlow)
	if err != nil {
		return nil, engine.Validationf("capacity: %v", err)
	}

	shares, err := feedstockShares(req.Inputs.Feedstocks)
	if err != nil {
		return nil, err
	}

	// One engine pass per feedstock stream at its capacity share,
	// aggregated in Layer 3.
	var firstL1 *engine.Layer1Result
	var firstL2 *engine.Layer2Result
	streams := make([]*engine.Layer2Result, 0, len(req.Inputs.Feedstocks))
	l1s := make([]*engine.Layer1Result, 0, len(req.Inputs.Feedstocks))

	for i, fs := range req.Inputs.Feedstocks {
		key := refdata.Key{
			Process:   req.Inputs.Process,
			Feedstock: fs.Name,
			Country:   req.Inputs.Country,
		}
		ref, err := o.refdata.Get(ctx, key)
		if err != nil {
			return nil, engine.Validationf("reference data not found for %s", key)
		}

		in, err := o.buildInputs(norm, &req.Inputs, fs, shares[i], capacity)
		if err != nil {
			return nil, err
		}

		l1, err := engine.CalculateLayer1(*in, ref, o.cfg, rec)
		if err != nil {
			return nil, err
		}
		l2, err := engine.CalculateLayer2(*in, l1, ref, o.cfg, rec)
		if err != nil {
			return nil, err
		}

		if firstL1 == nil {
			firstL1, firstL2 = l1, l2
		}
		l1s = append(l1s, l1)
		streams = append(streams, l2)
	}

	l3, err := engine.CalculateLayer3(streams, rec)
	if err != nil {
		return nil, err
	}

	var plantProduction float64
	for _, l1 := range l1s {
		plantProduction += l1.TotalProduction
	}
	l4, err := engine.CalculateLayer4(firstL1, firstL2, l3, capacity, plantProduction,
		req.Inputs.Economics.DiscountRate, req.Inputs.Economics.Lifetime, o.cfg, rec)
	if err != nil {
		return nil, err
	}

	// Financial model on the aggregate plant figures. Absent finance
	// parameters take the documented defaults; explicit values win,
	// including explicit zeros.
	var totalRevenue float64
	for _, s := range streams {
		totalRevenue += s.TotalRevenue
	}
	fin := finance.Defaults()
	fin.TCI = firstL1.TCI
	fin.Revenue = totalRevenue
	fin.ManufacturingCost = l4.TotalOpex
	fin.DiscountRate = req.Inputs.Economics.DiscountRate
	fin.Lifetime = req.Inputs.Economics.Lifetime
	fin.WorkingCapitalRatio = req.Inputs.Economics.WorkingCapitalRatio
	applyFinanceOverrides(&fin, req.Inputs.Finance)
	rows, summary := finance.Analyze(fin, rec)

	result := assembleResult(&req, capacity, l1s, streams, l3, l4, rows, summary)
	result.Trace = rec.Steps()

	o.logger.Info("calculation complete",
		zap.String("id", req.ID),
		zap.String("process", req.Inputs.Process),
		zap.Int("feedstocks", len(streams)),
		zap.Float64("lcop", l4.LCOP),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// RunBatch evaluates many requests on a bounded worker pool. Results
// keep the input order. The first error cancels the remaining work.
func (o *Orchestrator) RunBatch(ctx context.Context, reqs []models.CalculationRequest, workers int) ([]*models.CalculationResult, error) {
	if workers <= 0 {
		workers = 4
	}
	results := make([]*models.CalculationResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, req := range reqs {
		g.Go(func() error {
			res, err := o.Run(ctx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// feedstockShares resolves each stream's capacity share. No explicit
// shares means an equal split; explicit shares must be set on every
// stream and sum to 1.
func feedstockShares(streams []models.FeedstockInput) ([]float64, error) {
	shares := make([]float64, len(streams))
	var sum float64
	var explicit int
	for i, fs := range streams {
		if fs.Share < 0 || fs.Share > 1 {
			return nil, engine.Validationf("feedstock %q share must be a fraction in [0,1], got %g", fs.Name, fs.Share)
		}
		if fs.Share > 0 {
			explicit++
		}
		shares[i] = fs.Share
		sum += fs.Share
	}
	if explicit == 0 {
		for i := range shares {
			shares[i] = 1.0 / float64(len(shares))
		}
		return shares, nil
	}
	if explicit != len(streams) {
		return nil, engine.Validationf("feedstock shares must be set on every stream or on none")
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return nil, engine.Validationf("feedstock shares must sum to 1, got %g", sum)
	}
	return shares, nil
}

// applyFinanceOverrides copies the request's non-nil finance parameters
// over the defaults.
func applyFinanceOverrides(fin *finance.Input, f models.FinanceInput) {
	if f.EquityRatio != nil {
		fin.EquityRatio = *f.EquityRatio
	}
	if f.TaxRate != nil {
		fin.TaxRate = *f.TaxRate
	}
	if f.LoanInterestRate != nil {
		fin.LoanInterestRate = *f.LoanInterestRate
	}
	if f.LoanTerm != nil {
		fin.LoanTerm = *f.LoanTerm
	}
	if f.DepreciationRate != nil {
		fin.DepreciationRate = *f.DepreciationRate
	}
	if f.DepreciationYears != nil {
		fin.DepreciationYears = *f.DepreciationYears
	}
	if f.LandCostRatio != nil {
		fin.LandCostRatio = *f.LandCostRatio
	}
}

// buildInputs normalizes one feedstock stream's quantities into the
// engine's base-unit snapshot.
func (o *Orchestrator) buildInputs(norm *units.Normalizer, in *models.UserInputs, fs models.FeedstockInput, share, capacity float64) (*engine.Inputs, error) {
	fsPrice, err := norm.NormalizeIn(fs.Price, units.GroupPricePerMass)
	if err != nil {
		return nil, engine.Validationf("feedstock %q price: %v", fs.Name, err)
	}
	fsCI, err := norm.NormalizeIn(fs.CarbonIntensity, units.GroupCIPerEnergy)
	if err != nil {
		return nil, engine.Validationf("feedstock %q carbon intensity: %v", fs.Name, err)
	}
	fsEnergy, err := norm.NormalizeIn(fs.EnergyContent, units.GroupEnergyPerMass)
	if err != nil {
		return nil, engine.Validationf("feedstock %q energy content: %v", fs.Name, err)
	}
	h2Price, err := norm.NormalizeIn(in.Hydrogen.Price, units.GroupPricePerMass)
	if err != nil {
		return nil, engine.Validationf("hydrogen price: %v", err)
	}
	h2CI, err := norm.NormalizeIn(in.Hydrogen.CarbonIntensity, units.GroupCIPerEnergy)
	if err != nil {
		return nil, engine.Validationf("hydrogen carbon intensity: %v", err)
	}
	elPrice, err := norm.NormalizeIn(in.Electricity.Price, units.GroupPricePerEnergy)
	if err != nil {
		return nil, engine.Validationf("electricity price: %v", err)
	}
	elCI, err := norm.NormalizeIn(in.Electricity.CarbonIntensity, units.GroupCIPerEnergy)
	if err != nil {
		return nil, engine.Validationf("electricity carbon intensity: %v", err)
	}
	refCapital, err := norm.NormalizeIn(in.Economics.RefCapitalCost, units.GroupCurrency)
	if err != nil {
		return nil, engine.Validationf("reference capital cost: %v", err)
	}
	refCapacity, err := norm.NormalizeIn(in.Economics.RefCapacity, units.GroupMassFlow)
	if err != nil {
		return nil, engine.Validationf("reference capacity: %v", err)
	}

	products := make([]engine.Product, 0, len(in.Products))
	for _, p := range in.Products {
		price, err := norm.NormalizeIn(p.Price, units.GroupPricePerMass)
		if err != nil {
			return nil, engine.Validationf("product %q price: %v", p.Name, err)
		}
		energy, err := norm.NormalizeIn(p.EnergyContent, units.GroupEnergyPerMass)
		if err != nil {
			return nil, engine.Validationf("product %q energy content: %v", p.Name, err)
		}
		products = append(products, engine.Product{
			Name:          p.Name,
			Price:         price,
			PriceCISlope:  p.PriceCISlope,
			CarbonContent: p.CarbonContent,
			EnergyContent: energy,
			Yield:         p.Yield,
			MassFraction:  p.MassFraction,
		})
	}

	return &engine.Inputs{
		Capacity:  capacity,
		LoadHours: in.LoadHours,
		Feedstock: engine.Feedstock{
			Name:            fs.Name,
			Share:           share,
			Price:           fsPrice,
			CarbonContent:   fs.CarbonContent,
			CarbonIntensity: fsCI,
			EnergyContent:   fsEnergy,
			Yield:           fs.Yield,
		},
		Hydrogen: engine.Utility{
			Price:           h2Price,
			Yield:           in.Hydrogen.Yield,
			CarbonIntensity: h2CI,
		},
		Electricity: engine.Utility{
			Price:           elPrice,
			Yield:           in.Electricity.Yield,
			CarbonIntensity: elCI,
		},
		Products: products,
		Economics: engine.Economics{
			DiscountRate:        in.Economics.DiscountRate,
			Lifetime:            in.Economics.Lifetime,
			RefCapitalCost:      refCapital,
			ScalingExponent:     in.Economics.ScalingExponent,
			RefCapacity:         refCapacity,
			WorkingCapitalRatio: in.Economics.WorkingCapitalRatio,
			IndirectOpexRatio:   in.Economics.IndirectOpexRatio,
		},
	}, nil
}
