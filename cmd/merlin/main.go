// Command merlin runs one planner operation against the configured
// generator backend and writes the JSON result to stdout.
//
// Usage:
//
//	merlin -op optimize  [-in week.json]            # JSON week -> optimized week
//	merlin -op optimize  -format ics -in week.ics -week 2025-07-21
//	merlin -op summarize [-in week.json]            # JSON week -> prose summary
//	merlin -op ask       -in ask.json               # {question, events} -> answer
//	merlin -op prompt    -prompt "..." [-clipboard "..."]  # streamed frames
//
// Input defaults to stdin. Configuration comes from MERLIN_* env vars or
// the YAML file named by MERLIN_CONFIG.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/merlinhq/merlin/internal/adapters/generator"
	"github.com/merlinhq/merlin/internal/adapters/ics"
	"github.com/merlinhq/merlin/internal/app"
	"github.com/merlinhq/merlin/internal/config"
	"github.com/merlinhq/merlin/internal/domain/model"
	"github.com/merlinhq/merlin/internal/domain/session"
	"github.com/merlinhq/merlin/pkg/logger"
	"github.com/merlinhq/merlin/pkg/metrics"
)

// Metrics listener timeouts.
const (
	metricsReadHeaderTimeout = 5 * time.Second
	dateLayout               = "2006-01-02"
)

type optimizeResponse struct {
	Status    string        `json:"status"`
	Optimized []model.Event `json:"optimized"`
}

type summaryResponse struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func main() {
	op := flag.String("op", "optimize", "operation: optimize | summarize | ask | prompt")
	in := flag.String("in", "", "input file (default stdin)")
	format := flag.String("format", "json", "optimize input format: json | ics")
	week := flag.String("week", "", "week start date (YYYY-MM-DD) for ICS import")
	prompt := flag.String("prompt", "", "prompt text for -op prompt")
	clipboard := flag.String("clipboard", "", "clipboard context for -op prompt")
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("merlin")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fail(err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, log)
	}

	client := generator.NewOllamaClient(
		generator.WithBaseURL(cfg.GeneratorBaseURL),
		generator.WithModel(cfg.GeneratorModel),
	)
	sessions := session.NewStore(
		session.WithTTL(time.Duration(cfg.SessionTTLMinutes) * time.Minute),
	)
	svc := app.New(client,
		app.WithLogger(log),
		app.WithMaxConcurrentDays(cfg.MaxConcurrentDays),
		app.WithDayTimeout(time.Duration(cfg.DayTimeoutSeconds)*time.Second),
		app.WithSessionStore(sessions),
	)
	svc.StartSessionSweeper(ctx)

	switch *op {
	case "optimize":
		runOptimize(ctx, svc, *in, *format, *week, log)
	case "summarize":
		runSummarize(ctx, svc, *in)
	case "ask":
		runAsk(ctx, svc, *in)
	case "prompt":
		runPrompt(ctx, svc, *prompt, *clipboard)
	default:
		fail(fmt.Errorf("unknown operation %q", *op))
	}
}

func runOptimize(ctx context.Context, svc *app.Service, in, format, week string, log logger.Logger) {
	body, err := readInput(in)
	if err != nil {
		fail(err)
	}

	var events []model.Event
	switch format {
	case "json":
		if err := json.Unmarshal(body, &events); err != nil {
			fail(fmt.Errorf("parse events: %w", err))
		}
	case "ics":
		start, err := weekStart(week)
		if err != nil {
			fail(err)
		}
		var skipped []error
		events, skipped, err = ics.ImportWeek(body, start)
		if err != nil {
			fail(fmt.Errorf("import ICS: %w", err))
		}
		for _, serr := range skipped {
			log.Warn(ctx, "skipped ICS entry", logger.Error(serr))
		}
	default:
		fail(fmt.Errorf("unknown input format %q", format))
	}

	optimized, err := svc.OptimizeWeek(ctx, events)
	if err != nil {
		fail(err)
	}
	emit(optimizeResponse{Status: "success", Optimized: optimized})
}

func runSummarize(ctx context.Context, svc *app.Service, in string) {
	body, err := readInput(in)
	if err != nil {
		fail(err)
	}
	var events []model.Event
	if err := json.Unmarshal(body, &events); err != nil {
		fail(fmt.Errorf("parse events: %w", err))
	}

	summary, err := svc.Summarize(ctx, events)
	if err != nil {
		fail(err)
	}
	emit(summaryResponse{Status: "success", Summary: summary})
}

func runAsk(ctx context.Context, svc *app.Service, in string) {
	body, err := readInput(in)
	if err != nil {
		fail(err)
	}
	var req model.AskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		fail(fmt.Errorf("parse ask request: %w", err))
	}

	answer, err := svc.AnswerScheduleQuestion(ctx, req)
	if err != nil {
		fail(fmt.Errorf("failed to process question: %w", err))
	}
	emit(askResponse{Answer: answer})
}

// runPrompt streams the reply as encoded frames, one "data:" line per
// fragment, errors delivered in-band.
func runPrompt(ctx context.Context, svc *app.Service, prompt, clipboard string) {
	if prompt == "" {
		fail(fmt.Errorf("-prompt is required for -op prompt"))
	}

	id := svc.NewSession(ctx, clipboard != "")
	defer svc.EndSession(ctx, id)

	fragments, err := svc.AnswerPromptStream(ctx, id, prompt, clipboard)
	if err != nil {
		fail(err)
	}
	for f := range fragments {
		if f.Err != nil {
			os.Stdout.WriteString(generator.EncodeErrorFrame(f.Err))
			os.Exit(1)
		}
		os.Stdout.WriteString(generator.EncodeFrame(f.Content))
	}
}

func serveMetrics(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(ctx, "metrics listener failed", logger.Error(err))
	}
}

func weekStart(week string) (time.Time, error) {
	if week == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	start, err := time.Parse(dateLayout, week)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse -week: %w", err)
	}
	return start, nil
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func emit(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail(err)
	}
}

// fail writes the structured error payload and exits non-zero.
func fail(err error) {
	buf, merr := json.Marshal(errorResponse{Error: err.Error()})
	if merr != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	os.Stdout.Write(append(buf, '\n'))
	os.Exit(1)
}
