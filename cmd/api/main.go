package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"biofuel_tea/pkg/api/calculation"
	"biofuel_tea/pkg/api/masterdata"
	"biofuel_tea/pkg/core/pipeline"
	"biofuel_tea/pkg/core/refdata"
)

// ServerConfig is read from config/server.yaml.
type ServerConfig struct {
	Port              int    `yaml:"port"`
	ReferenceDataFile string `yaml:"reference_data_file"`
	CacheTTLMinutes   int    `yaml:"cache_ttl_minutes"`
}

func main() {
	// Load environment variables
	godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := ServerConfig{
		Port:              8080,
		ReferenceDataFile: "config/reference_data.yaml",
		CacheTTLMinutes:   15,
	}
	if data, err := os.ReadFile("config/server.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logger.Fatal("invalid server config", zap.Error(err))
		}
	}

	// Reference data: Postgres when DATABASE_URL is set, YAML file
	// otherwise. Either way a TTL cache fronts the store.
	ctx := context.Background()
	var repo refdata.Repository
	var writer refdata.Writer
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool, err := refdata.Connect(ctx, dsn)
		if err != nil {
			logger.Fatal("database init failed", zap.Error(err))
		}
		defer pool.Close()
		pg := refdata.NewPostgresRepo(pool)
		repo = pg
		writer = pg
		logger.Info("reference data from postgres")
	} else {
		repo = refdata.NewFileRepo(cfg.ReferenceDataFile)
		logger.Info("reference data from file", zap.String("path", cfg.ReferenceDataFile))
	}
	cache := refdata.NewCache(repo, time.Duration(cfg.CacheTTLMinutes)*time.Minute)

	orch := pipeline.NewOrchestrator(cache, logger)

	calcHandler := calculation.NewHandler(orch, logger)
	http.HandleFunc("/api/calculate", calcHandler.HandleCalculate)
	http.HandleFunc("/api/calculate/batch", calcHandler.HandleBatch)

	mdHandler := masterdata.NewHandler(cache, writer, logger)
	http.HandleFunc("/api/refdata", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			mdHandler.HandleGet(w, r)
			return
		}
		mdHandler.HandlePut(w, r)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
