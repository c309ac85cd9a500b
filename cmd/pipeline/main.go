package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"biofuel_tea/pkg/core/pipeline"
	"biofuel_tea/pkg/core/refdata"
	"biofuel_tea/pkg/core/scenario"
	"biofuel_tea/pkg/models"
)

func main() {
	godotenv.Load()

	refFile := flag.String("refdata", "config/reference_data.yaml", "reference data YAML file (ignored when DATABASE_URL is set)")
	workers := flag.Int("workers", 4, "worker pool size for batch runs")
	withTrace := flag.Bool("trace", false, "print the step-by-step calculation breakdown")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: pipeline [flags] scenario.hjson [more scenarios...]")
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	var repo refdata.Repository
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool, err := refdata.Connect(ctx, dsn)
		if err != nil {
			logger.Fatal("database init failed", zap.Error(err))
		}
		defer pool.Close()
		repo = refdata.NewPostgresRepo(pool)
	} else {
		repo = refdata.NewFileRepo(*refFile)
	}
	cache := refdata.NewCache(repo, 15*time.Minute)
	orch := pipeline.NewOrchestrator(cache, logger)

	var reqs []models.CalculationRequest
	for _, path := range flag.Args() {
		req, err := scenario.Load(path)
		if err != nil {
			logger.Fatal("bad scenario", zap.String("path", path), zap.Error(err))
		}
		req.Trace = req.Trace || *withTrace
		reqs = append(reqs, *req)
	}

	start := time.Now()
	results, err := orch.RunBatch(ctx, reqs, *workers)
	if err != nil {
		logger.Fatal("calculation failed", zap.Error(err))
	}

	for i, res := range results {
		printReport(flag.Arg(i), res)
	}
	logger.Info("done", zap.Int("scenarios", len(results)), zap.Duration("elapsed", time.Since(start)))
}

func printReport(path string, res *models.CalculationResult) {
	fmt.Printf("\n=== %s (%s / %s) ===\n", path, res.Process, res.Country)
	fmt.Printf("TCI:               %.1f MUSD\n", res.TCI)
	fmt.Printf("Total production:  %.0f t/yr\n", res.TotalProduction)
	for _, p := range res.Products {
		fmt.Printf("  %-12s %12.0f t/yr  CI %6.2f gCO2/MJ  revenue %8.2f MUSD/yr\n",
			p.Name, p.Production, p.CarbonIntensity, p.Revenue)
	}
	fmt.Printf("OPEX:              %.2f MUSD/yr (direct %.2f + indirect %.2f)\n",
		res.Opex.Total, res.Opex.Direct, res.Opex.Indirect)
	fmt.Printf("Carbon intensity:  %.2f gCO2/MJ (weighted %.2f)\n", res.CI.Total, res.CI.Weighted)
	fmt.Printf("Total CO2:         %.0f t/yr\n", res.TotalCO2Emissions)
	fmt.Printf("LCOP:              %.2f USD/t\n", res.LCOP)
	fmt.Printf("NPV:               %.2f MUSD\n", res.Financial.NPV)
	if res.Financial.IRR != nil {
		fmt.Printf("IRR:               %.2f%%\n", *res.Financial.IRR*100)
	} else {
		fmt.Printf("IRR:               not convergent\n")
	}
	if res.Financial.Payback != nil {
		fmt.Printf("Payback:           year %d\n", *res.Financial.Payback)
	} else {
		fmt.Printf("Payback:           not recovered within lifetime\n")
	}

	if len(res.Trace) > 0 {
		fmt.Println("--- calculation steps ---")
		for _, s := range res.Trace {
			fmt.Printf("  %-28s %s = %.6g\n", s.Name, s.Formula, s.Value)
			for _, in := range s.Inputs {
				fmt.Printf("      %s = %.6g %s\n", in.Name, in.Value, in.Unit)
			}
		}
	}
}
