package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/prizewheel/internal/config"
	"github.com/xtding233/prizewheel/internal/inventory"
	"github.com/xtding233/prizewheel/internal/logger"
	"github.com/xtding233/prizewheel/internal/prize"
	"github.com/xtding233/prizewheel/internal/simulate"
)

func main() {
	var (
		cfgPath  = flag.String("config", "config/config.yaml", "config file")
		envOnly  = flag.Bool("env-only", false, "read configuration from WHEEL_* env only")
		date     = flag.String("date", "", "day to replay (YYYY-MM-DD), default today")
		runs     = flag.Int("runs", 500, "spins in the simulated day")
		m1       = flag.Float64("m1", simulate.DefaultModeShares[0], "share of runs in mode 1")
		m2       = flag.Float64("m2", simulate.DefaultModeShares[1], "share of runs in mode 2; mode 3 takes the rest")
		seed     = flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
		trials   = flag.Int("trials", 0, "monte carlo trials; 0 runs a single day")
		out      = flag.String("out", "simulation_results.csv", "delivered counts CSV")
		timeline = flag.String("timeline", "simulation_timeline.csv", "timeline CSV")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath, *envOnly)
	if err != nil {
		panic(err)
	}
	if err := config.Validate(cfg); err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	loc, _ := cfg.Schedule.Location()
	if *date == "" {
		*date = inventory.NewDateResolver(loc).Resolve()
	}
	catalog, err := prize.NewLoader(cfg.Data.CatalogPath(), log).Load(prize.Default())
	if err != nil {
		log.Warn("catalog not loaded, keeping built-in catalog", zap.Error(err))
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		log.Fatal("engine options", zap.Error(err))
	}

	shares, err := simulate.ModeShares(*m1, *m2)
	if err != nil {
		log.Fatal("mode shares", zap.Error(err))
	}

	setup := simulate.Setup{
		Catalog:    catalog,
		LedgerPath: cfg.Data.LedgerPath(),
		Options:    opts,
		Location:   loc,
		Logger:     log,
	}
	params := simulate.Params{
		Date:       *date,
		Runs:       *runs,
		ModeShares: shares,
		Seed:       *seed,
	}
	ctx := context.Background()

	if *trials > 0 {
		sum, err := simulate.RunMonteCarlo(ctx, setup, params, *trials)
		if err != nil {
			log.Fatal("monte carlo failed", zap.Error(err))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(sum)
		return
	}

	res, err := simulate.RunDay(ctx, setup, params)
	if err != nil {
		log.Fatal("simulation failed", zap.Error(err))
	}
	if err := writeCSV(*out, func(f *os.File) error { return simulate.WriteResults(f, res) }); err != nil {
		log.Fatal("write results", zap.Error(err))
	}
	if err := writeCSV(*timeline, func(f *os.File) error { return simulate.WriteTimeline(f, res) }); err != nil {
		log.Fatal("write timeline", zap.Error(err))
	}
	fmt.Printf("date=%s runs=%d goal=%d undelivered=%d filler=%d rejected=%d\n",
		res.Date, res.Runs, res.DailyGoal, res.Undelivered, res.Filler, res.Rejected)
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
