package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/daryadaneshmand/Oura-data/internal/config"
	"github.com/daryadaneshmand/Oura-data/internal/daily"
	"github.com/daryadaneshmand/Oura-data/internal/logging"
	"github.com/daryadaneshmand/Oura-data/internal/metrics"
	"github.com/daryadaneshmand/Oura-data/internal/oura"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    false,
		SentryServerName: "oura-arc-fetch",
	})

	token := os.Getenv("OURA_TOKEN")
	if token == "" {
		token = os.Getenv("OURA_PAT")
	}
	if token == "" {
		log.Error("OURA_TOKEN or OURA_PAT not set, run the gettoken command first")
		os.Exit(1)
	}

	client := oura.NewClient(oura.NewClientParams{
		BaseURL: cfg.OuraBaseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		CacheSizeMegabytes: cfg.PageCacheMegabytes,
		MetricsManager:     metrics.NewManager("oura", "fetch", metrics.SetupPrometheus()),
	})

	service := daily.NewService(
		client,
		daily.NewSnapshotStore(cfg.SnapshotPath),
		nil,
	)

	rng := oura.DateRange{Start: cfg.StartDate, End: cfg.EndDate}
	log.Printf("fetching %s to %s ...", rng.Start, rng.End)

	records, err := service.Refresh(context.Background(), rng)
	if err != nil {
		var authErr *oura.AuthError
		if errors.As(err, &authErr) {
			log.Errorf("auth failed: %s", authErr.Reason)
			log.Error("re-run the gettoken command to get a fresh token")
			os.Exit(1)
		}
		log.Errorf("fetch failed: %s", err)
		os.Exit(1)
	}

	fmt.Printf("done, %d day records written to %s\n", len(records), cfg.SnapshotPath)
}
