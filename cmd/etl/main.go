package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"playetl/internal/config"
	"playetl/internal/metrics"
	"playetl/internal/metrics/prompush"
	"playetl/internal/pipeline"
	"playetl/internal/storage"

	// register all backends with the storage factory.
	_ "playetl/internal/storage/all"
)

// main loads the run config, optionally initializes a metrics backend, opens
// the target store, and executes the pipeline once.
func main() {
	var (
		cfgPath        string
		metricsBackend string
		gatewayURL     string
		validate       bool
	)

	flag.StringVar(&cfgPath, "config", "configs/run.json", "run config JSON path")
	flag.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend (pushgateway, none); overrides config")
	flag.StringVar(&gatewayURL, "pushgateway-url", "", "Pushgateway base URL; overrides config and PUSHGATEWAY_URL")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		log.Printf("configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	// Metrics backend: flag → config → env.
	backendName := metricsBackend
	if backendName == "" {
		backendName = cfg.Metrics.Backend
	}
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		gwURL := gatewayURL
		if gwURL == "" {
			gwURL = cfg.Metrics.GatewayURL
		}
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}

		b, err := prompush.NewBackend(cfg.Job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
		} else {
			log.Printf("metrics: backend=%s url=%s job=%s", backendName, gwURL, cfg.Job)
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}

	case "", "none":
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("run: job=%s catalog=%s events=%s storage=%s",
			cfg.Job, cfg.Source.CatalogRoot, cfg.Source.EventsRoot, cfg.Storage.Kind)
	}

	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.Storage.DSN})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer repo.Close()

	sum, err := pipeline.New(cfg, repo).Run(ctx)
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("loaded: artists=%d songs=%d users=%d times=%d songplays=%d (skipped_lines=%d)",
		sum.Artists, sum.Songs, sum.Users, sum.Times, sum.Songplays, sum.SkippedLines)
	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
