package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/internal/simulate"
	"github.com/okian/readiness/pkg/logger"
)

const (
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	runTimeout     = 5 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		athletes = flag.Int("athletes", simulate.DefaultAthletes, "Squad size")
		days     = flag.Int("days", simulate.DefaultDays, "Days of history before today")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Concurrent submitters")
		seed     = flag.Uint64("seed", 1, "Generator seed")
		date     = flag.String("date", "", "Scoring day, YYYY-MM-DD (default today, UTC)")
		timeout  = flag.Duration("timeout", simulate.DefaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Log every failed request")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	cfg := simulate.Config{
		BaseURL:  *baseURL,
		Athletes: *athletes,
		Days:     *days,
		Workers:  *workers,
		Timeout:  *timeout,
		Seed:     *seed,
		Verbose:  *verbose,
	}
	if *date != "" {
		d, err := model.ParseDate(*date)
		if err != nil {
			os.Stderr.WriteString("invalid -date: " + err.Error() + "\n")
			os.Exit(2)
		}
		cfg.Today = d
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := simulate.Run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
