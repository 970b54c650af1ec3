// Package app provides the planning service: concurrent week
// optimization, summaries, schedule questions, and streamed prompt
// answers, all built on the generator client.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/merlinhq/merlin/internal/adapters/generator"
	"github.com/merlinhq/merlin/internal/domain/model"
	"github.com/merlinhq/merlin/internal/domain/normalize"
	"github.com/merlinhq/merlin/internal/domain/partition"
	"github.com/merlinhq/merlin/internal/domain/session"
	"github.com/merlinhq/merlin/pkg/logger"
	"github.com/merlinhq/merlin/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultMaxConcurrentDays = 7
	defaultDayTimeout        = 45 * time.Second
	sessionSweepInterval     = 5 * time.Minute
)

// Generator defines how the service reaches the reasoning backend.
type Generator interface {
	Invoke(ctx context.Context, systemPrompt, userPayload string, structured bool) (string, error)
	InvokeStream(ctx context.Context, messages []generator.Message) (<-chan generator.Fragment, error)
}

// Service implements the planner operations.
type Service struct {
	gen      Generator
	sessions *session.Store

	maxConcurrentDays int
	dayTimeout        time.Duration

	logger logger.Logger
}

// New constructs a Service with configuration options.
func New(gen Generator, opts ...Option) *Service {
	s := &Service{
		gen:               gen,
		maxConcurrentDays: defaultMaxConcurrentDays,
		dayTimeout:        defaultDayTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.sessions == nil {
		s.sessions = session.NewStore()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("planner")
	}
	return s
}

// OptimizeWeek partitions events by calendar day, dispatches one
// generator request per day with bounded concurrency, and reassembles
// the results in ascending day order.
//
// A day whose request fails — transport, malformed JSON, schema
// violation, timeout — contributes an empty batch and is logged; the
// operation itself fails only when the inbound payload is invalid.
func (s *Service) OptimizeWeek(ctx context.Context, events []model.Event) ([]model.Event, error) {
	start := time.Now()
	defer func() {
		metrics.ObserveOptimizeDuration(time.Since(start).Seconds())
	}()

	if err := model.ValidateAll(events); err != nil {
		return nil, err
	}
	metrics.AddEventsIn(len(events))

	buckets := partition.ByDay(events)
	if len(buckets) == 0 {
		return []model.Event{}, nil
	}
	days := partition.SortedKeys(buckets)

	// One result slot per day. Each task writes only its own slot and
	// slots are read after the join, so no locking is needed.
	batches := make([][]model.Event, len(days))
	sem := make(chan struct{}, s.maxConcurrentDays)
	var wg sync.WaitGroup

	for i, day := range days {
		wg.Add(1)
		go func(i int, day string, bucket []model.Event) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				s.reportDayFailure(ctx, day, ctx.Err())
				return
			}
			defer func() { <-sem }()

			dayCtx, cancel := context.WithTimeout(ctx, s.dayTimeout)
			defer cancel()

			batch, err := s.optimizeDay(dayCtx, bucket)
			if err != nil {
				s.reportDayFailure(ctx, day, err)
				return
			}
			batches[i] = batch
			metrics.RecordDayDispatched()
		}(i, day, buckets[day])
	}
	wg.Wait()

	out := make([]model.Event, 0, len(events))
	for _, batch := range batches {
		out = append(out, batch...)
	}
	metrics.AddEventsOut(len(out))
	return out, nil
}

func (s *Service) optimizeDay(ctx context.Context, bucket []model.Event) ([]model.Event, error) {
	payload, err := json.Marshal(bucket)
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.Invoke(ctx, promptPlanner, string(payload), true)
	if err != nil {
		return nil, err
	}
	return normalize.Events(raw)
}

func (s *Service) reportDayFailure(ctx context.Context, day string, err error) {
	metrics.RecordDayFailure(failureReason(err))
	s.logger.Error(ctx, "day optimization failed; contributing empty batch",
		logger.String("day", day),
		logger.Error(err),
	)
}

// failureReason maps a per-day error onto a metrics label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.ReasonTimeout
	case errors.Is(err, context.Canceled):
		return metrics.ReasonCanceled
	case errors.Is(err, normalize.ErrMalformedJSON):
		return metrics.ReasonMalformedJSON
	case errors.Is(err, normalize.ErrSchemaViolation):
		return metrics.ReasonSchemaViolation
	default:
		return metrics.ReasonTransport
	}
}

// Summarize produces a prose summary of the week in one generator turn.
func (s *Service) Summarize(ctx context.Context, events []model.Event) (string, error) {
	if err := model.ValidateAll(events); err != nil {
		return "", err
	}

	payload, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	summary, err := s.gen.Invoke(ctx, promptSummary, string(payload), false)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return summary, nil
}

// AnswerScheduleQuestion answers one question about a schedule in one
// generator turn. Transport failures surface verbatim to the caller.
func (s *Service) AnswerScheduleQuestion(ctx context.Context, req model.AskRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	eventsJSON, err := json.Marshal(req.Events)
	if err != nil {
		return "", err
	}
	payload := fmt.Sprintf("Here is my schedule: %s\n\nMy question: %s", eventsJSON, req.Question)

	answer, err := s.gen.Invoke(ctx, promptQA, payload, false)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return answer, nil
}

// NewSession opens a prompt session seeded with the assistant system
// prompt and returns its ID. withClipboard selects the clipboard-aware
// prompt variant.
func (s *Service) NewSession(ctx context.Context, withClipboard bool) string {
	prompt := promptDefault
	if withClipboard {
		prompt = promptClipboard
	}
	return s.sessions.Create(ctx, prompt).ID()
}

// EndSession discards a prompt session.
func (s *Service) EndSession(ctx context.Context, id string) {
	s.sessions.Delete(ctx, id)
}

// StartSessionSweeper evicts idle sessions in the background until ctx
// is canceled.
func (s *Service) StartSessionSweeper(ctx context.Context) {
	s.sessions.StartSweeper(ctx, sessionSweepInterval)
}

// AnswerPromptStream records the prompt on the session, streams the
// generator's reply, and appends the accumulated reply to the session
// once the stream ends. Fragments with Err set signal an in-band
// transport failure; the channel closes afterwards.
func (s *Service) AnswerPromptStream(ctx context.Context, sessionID, prompt, clipboard string) (<-chan generator.Fragment, error) {
	sess, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	parts := []string{"USER PROMPT: " + prompt}
	if clipboard != "" {
		parts = append(parts, "CLIPBOARD CONTEXT: "+clipboard)
	}
	sess.Append(session.RoleUser, strings.Join(parts, ". "))

	turns := sess.Turns()
	msgs := make([]generator.Message, len(turns))
	for i, t := range turns {
		msgs[i] = generator.Message{Role: t.Role, Content: t.Content}
	}

	fragments, err := s.gen.InvokeStream(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	out := make(chan generator.Fragment)
	go func() {
		defer close(out)

		var reply strings.Builder
		for f := range fragments {
			if f.Err == nil {
				reply.WriteString(f.Content)
			}
			select {
			case out <- f:
			case <-ctx.Done():
				return
			}
		}
		if reply.Len() > 0 {
			sess.Append(session.RoleAssistant, reply.String())
		}
	}()
	return out, nil
}
