package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/azargarov/tasksched"
	"github.com/azargarov/tasksched/internal/report"
	"github.com/azargarov/tasksched/internal/workload"
)

const usage = "Usage: tasksched [flags] <threads> <tasks>"

type config struct {
	threads     int
	tasks       int
	out         string
	format      string
	producers   int
	rate        float64
	iterations  int
	seed        uint64
	pin         bool
	metricsAddr string
	debug       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stderr, usage)
		return 1
	}

	logger := newLogger(stderr, cfg.debug)
	defer func() { _ = logger.Sync() }()

	if err := execute(ctx, cfg, logger, stdout); err != nil {
		logger.Error("run failed", zap.Error(err))
		return 1
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (config, error) {
	cfg := config{}
	fs := flag.NewFlagSet("tasksched", flag.ContinueOnError)
	// run reports parse errors; the flag set stays silent
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.StringVar(&cfg.out, "out", envOr("TASKSCHED_OUT", "metrics.json"), "summary record path")
	fs.StringVar(&cfg.format, "format", envOr("TASKSCHED_FORMAT", report.CodecNameJSON), "json|msgpack")
	fs.IntVar(&cfg.producers, "producers", envInt("TASKSCHED_PRODUCERS", 1), "submitting goroutines")
	fs.Float64Var(&cfg.rate, "rate", 0, "max submissions per second (0 = unlimited)")
	fs.IntVar(&cfg.iterations, "iterations", envInt("TASKSCHED_ITERATIONS", workload.DefaultIterations), "busy loop size per task")
	fs.Uint64Var(&cfg.seed, "seed", uint64(time.Now().UnixNano()), "priority seed")
	fs.BoolVar(&cfg.pin, "pin", false, "pin workers to CPUs")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", os.Getenv("TASKSCHED_METRICS_ADDR"), "serve Prometheus metrics on this address")
	fs.BoolVar(&cfg.debug, "debug", false, "development logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, usage)
			fs.SetOutput(stderr)
			fs.PrintDefaults()
		}
		return cfg, err
	}

	if fs.NArg() != 2 {
		return cfg, fmt.Errorf("expected 2 arguments, got %d", fs.NArg())
	}
	var err error
	if cfg.threads, err = strconv.Atoi(fs.Arg(0)); err != nil {
		return cfg, fmt.Errorf("threads: %w", err)
	}
	if cfg.tasks, err = strconv.Atoi(fs.Arg(1)); err != nil {
		return cfg, fmt.Errorf("tasks: %w", err)
	}
	if _, ok := report.GetCodec(cfg.format); !ok {
		return cfg, fmt.Errorf("unknown format %q", cfg.format)
	}
	return cfg, nil
}

func execute(ctx context.Context, cfg config, logger *zap.Logger, stdout io.Writer) (err error) {
	reg := prometheus.NewRegistry()
	pm, err := tasksched.NewPrometheusMetrics(reg, "tasksched", "")
	if err != nil {
		return err
	}

	if cfg.metricsAddr != "" {
		srv, serr := serveMetrics(cfg.metricsAddr, reg, logger)
		if serr != nil {
			return serr
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = multierr.Append(err, srv.Shutdown(sctx))
		}()
	}

	s, err := tasksched.New(tasksched.Options{
		Workers:    cfg.threads,
		QueueHint:  cfg.tasks,
		Metrics:    pm,
		PinWorkers: cfg.pin,
		OnTaskError: func(e error) {
			logger.Warn("task error", zap.Error(e))
		},
		OnInternalError: func(e error) {
			logger.Warn("scheduler error", zap.Error(e))
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Starting scheduler with %d worker threads.\n", cfg.threads)
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Stop()
	logger.Info("scheduler started",
		zap.String("run", s.RunID()),
		zap.Int("workers", cfg.threads),
		zap.Int("tasks", cfg.tasks),
	)

	genErr := workload.Generate(ctx, s, workload.Config{
		Tasks:      cfg.tasks,
		Producers:  cfg.producers,
		Rate:       cfg.rate,
		Iterations: cfg.iterations,
		Seed:       cfg.seed,
	})
	if genErr != nil {
		// still drain and report what was accepted
		logger.Warn("workload interrupted", zap.Error(genErr))
	}

	s.Stop()
	sum, err := s.Summary()
	if err != nil {
		return err
	}

	if err := report.WriteText(stdout, sum); err != nil {
		return err
	}
	codec, _ := report.GetCodec(cfg.format)
	if err := report.WriteFile(cfg.out, sum.Record(), codec); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Metrics exported to %s\n", cfg.out)
	return genErr
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	return srv, nil
}

func newLogger(w io.Writer, debug bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	level := zapcore.InfoLevel
	enc := zapcore.NewJSONEncoder(encCfg)
	if debug {
		encCfg = zap.NewDevelopmentEncoderConfig()
		level = zapcore.DebugLevel
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
