// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command antennacheck runs the antenna rule checker against a design
// snapshot and a run configuration, with CLI flags overriding whatever
// the config file sets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exa-laboratories/antennacheck/internal/api"
	"github.com/exa-laboratories/antennacheck/internal/checker"
	"github.com/exa-laboratories/antennacheck/internal/config"
	"github.com/exa-laboratories/antennacheck/internal/db/fixture"
	checkererrors "github.com/exa-laboratories/antennacheck/internal/errors"
	"github.com/exa-laboratories/antennacheck/internal/logging"
	"github.com/exa-laboratories/antennacheck/internal/metrics"
	"github.com/exa-laboratories/antennacheck/internal/rules"
	"github.com/exa-laboratories/antennacheck/internal/techdata"
	"github.com/exa-laboratories/antennacheck/internal/validation"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("antennacheck", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a checker config HCL file")
	dbPath := fs.String("db", "", "path to a design snapshot HCL file (overrides the config's database field)")
	netName := fs.String("net", "", "restrict the run to a single net by name (overrides the config's net field)")
	margin := fs.Float64("margin", -1, "ratio margin percentage (overrides the config's ratio_margin field; -1 means unset)")
	diodeCell := fs.String("diode-cell", "", "diode master terminal name, cell/pin (overrides the config's diode_cell field)")
	reportPath := fs.String("report", "", "path to write the human-readable violation report (overrides report_path)")
	verbose := fs.Bool("verbose", false, "log at debug level")
	metricsAddr := fs.String("metrics-addr", "", "if set, serve /violations and /metrics on this address (overrides metrics_addr)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "antennacheck:", err)
			return 1
		}
		cfg = loaded
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}
	if *netName != "" {
		cfg.Net = *netName
	}
	if *margin >= 0 {
		cfg.RatioMargin = *margin
	}
	if *diodeCell != "" {
		cfg.DiodeCell = *diodeCell
	}
	if *reportPath != "" {
		cfg.ReportPath = *reportPath
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if cfg.Database == "" {
		fmt.Fprintln(os.Stderr, "antennacheck: no design snapshot given (pass -db or set \"database\" in -config)")
		return 2
	}

	logger := newLogger(cfg)

	if err := runChecker(cfg, logger); err != nil {
		logger.Error("run failed", "error", err, "kind", checkererrors.GetKind(err).String())
		fmt.Fprintln(os.Stderr, "antennacheck:", err)
		return 1
	}
	return 0
}

func newLogger(cfg config.CheckerConfig) *logging.Logger {
	if cfg.LogJSON {
		return logging.New(os.Stderr, cfg.LogLevel)
	}
	return logging.NewText(os.Stderr, cfg.LogLevel)
}

func runChecker(cfg config.CheckerConfig, logger *logging.Logger) error {
	if err := validation.ValidateRatioMargin(cfg.RatioMargin); err != nil {
		return err
	}
	if cfg.MaxDiodeCountPerGate != 0 {
		if err := validation.ValidateMaxDiodeCount(cfg.MaxDiodeCountPerGate); err != nil {
			return err
		}
	}

	design, err := fixture.Load(cfg.Database)
	if err != nil {
		return checkererrors.Wrap(err, checkererrors.KindInternal, "loading design snapshot")
	}

	stack := techdata.NewStack(design.Layers())
	store, warnings := rules.NewStore(design.Layers())
	for _, w := range warnings {
		logger.Warn("rule store warning", "layer", w.Layer, "detail", w.Message)
	}

	mtr := metrics.NewMetrics()
	mtr.RegisterMetrics()

	c := checker.New(store, stack, logger)

	var reportFile *os.File
	if cfg.ReportPath != "" {
		reportFile, err = os.Create(cfg.ReportPath)
		if err != nil {
			return checkererrors.Wrap(err, checkererrors.KindInternal, "creating report file")
		}
		defer reportFile.Close()
		c.SetReportSink(reportFile)
	}

	opts := checker.Options{
		ReportIfNoViolation:  cfg.ReportIfNoViolation,
		RatioMargin:          cfg.RatioMargin,
		MaxDiodeCountPerGate: cfg.MaxDiodeCountPerGate,
	}
	if cfg.DiodeCell != "" {
		diode, ok := design.DiodeCell(cfg.DiodeCell)
		if !ok {
			return checkererrors.Errorf(checkererrors.KindInputError, "diode cell %q not found in design", cfg.DiodeCell)
		}
		opts.DiodeMTerm = &diode
	}

	nets := design.Nets()
	if cfg.Net != "" {
		nets = filterNet(nets, cfg.Net)
		if len(nets) == 0 {
			return checkererrors.Errorf(checkererrors.KindInputError, "net %q not found in design", cfg.Net)
		}
	}

	result, err := c.CheckAllNets(nets, opts, cfg.Workers)
	if err != nil {
		return err
	}

	maxDiodes := checker.DefaultMaxDiodeCountPerGate
	if cfg.MaxDiodeCountPerGate > 0 {
		maxDiodes = cfg.MaxDiodeCountPerGate
	}
	for _, res := range result.NetResults {
		layers := make([]string, 0, len(res.Violations))
		for _, v := range res.Violations {
			layers = append(layers, v.Layer)
		}
		saturated := 0
		diodes := 0
		for _, v := range res.Violations {
			diodes += v.DiodeCountPerGate
			if v.DiodeCountPerGate >= maxDiodes {
				saturated++
			}
		}
		mtr.RecordResult(res.NetViolated, res.PinViolationCount, layers, saturated, diodes)
	}
	for reason, count := range result.NetsSkipped {
		for i := 0; i < count; i++ {
			mtr.RecordSkip(reason)
		}
	}

	logger.Info("run complete",
		"nets_checked", len(result.NetResults),
		"net_violations", result.NetViolationCount,
		"pin_violations", result.PinViolationCount,
	)

	if cfg.MetricsAddr != "" {
		return serveAPI(cfg.MetricsAddr, result, logger)
	}
	return nil
}

func filterNet(nets []techdata.Net, name string) []techdata.Net {
	for _, n := range nets {
		if n.Name == name {
			return []techdata.Net{n}
		}
	}
	return nil
}

// serveAPI blocks serving the read-only violation API until the process
// receives SIGINT/SIGTERM.
func serveAPI(addr string, result checker.AllNetsResult, logger *logging.Logger) error {
	server := api.NewServer(addr, result, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return checkererrors.Wrap(err, checkererrors.KindInternal, "api server failed")
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
