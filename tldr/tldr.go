// Package tldr produces RFC summaries and raw bodies, consulting the content
// cache before any external fetch and coalescing concurrent requests for the
// same RFC into a single task.
package tldr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/rfcli"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var _ rfcli.TLDRService = (*Service)(nil)

// Defaults for Service fields left zero by NewService callers.
const (
	DefaultAttemptTimeout = 30 * time.Second
	DefaultContextLines   = 300
)

// Operation names used in transitions and coalescing keys.
const (
	OpTLDR = "tldr"
	OpRaw  = "raw"
)

// Service implements rfcli.TLDRService.
type Service struct {
	Cache      rfcli.ContentCache
	Fetcher    rfcli.Fetcher
	Summarizer rfcli.Summarizer
	Logger     *slog.Logger

	// AttemptTimeout bounds each fetch or summarize attempt.
	AttemptTimeout time.Duration

	// RetryDelays are the waits between attempts. Its length is the
	// number of retries.
	RetryDelays []time.Duration

	// ContextLines is how many cleaned lines are sent to the summarizer.
	ContextLines int

	// OnTransition, if set, is called for every state change. It may be
	// called from several goroutines at once.
	OnTransition func(Transition)

	group   singleflight.Group
	mu      sync.Mutex
	flights map[string]*flight
}

// flight is one in-flight task shared by every caller waiting on it.
type flight struct {
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// NewService creates a Service with default timeouts and retries.
func NewService(cache rfcli.ContentCache, fetcher rfcli.Fetcher, summarizer rfcli.Summarizer) *Service {
	return &Service{
		Cache:          cache,
		Fetcher:        fetcher,
		Summarizer:     summarizer,
		AttemptTimeout: DefaultAttemptTimeout,
		RetryDelays:    DefaultRetryDelays(),
		ContextLines:   DefaultContextLines,
	}
}

// TLDR returns the cached summary of an RFC, deriving and caching it on a miss.
func (s *Service) TLDR(ctx context.Context, number int) (string, error) {
	if number <= 0 {
		return "", rfcli.Errorf(rfcli.EINVALID, "rfc number must be positive, got %d", number)
	}
	v, err := s.do(ctx, OpTLDR, number, func(ctx context.Context, t *tracker) (any, error) {
		return s.tldr(ctx, t)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Raw returns the raw text of an RFC, fetching and caching it on a miss.
func (s *Service) Raw(ctx context.Context, number int) ([]byte, error) {
	if number <= 0 {
		return nil, rfcli.Errorf(rfcli.EINVALID, "rfc number must be positive, got %d", number)
	}
	v, err := s.do(ctx, OpRaw, number, func(ctx context.Context, t *tracker) (any, error) {
		return s.raw(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *Service) tldr(ctx context.Context, t *tracker) (string, error) {
	t.to(CacheCheck)
	entry, ok, err := s.Cache.Get(ctx, t.number, rfcli.KindTLDR)
	if err != nil {
		return "", t.fail(err)
	}
	if ok {
		t.to(CacheHit)
		t.to(Done)
		return string(entry.Content), nil
	}
	t.to(CacheMiss)

	t.to(Fetching)
	body, err := s.Raw(ctx, t.number)
	if err != nil {
		return "", t.fail(err)
	}

	t.to(Deriving)
	text := rfcli.Head(rfcli.CleanText(string(body)), s.ContextLines)
	var summary string
	err = s.withRetry(ctx, t.number, "summarize", func(ctx context.Context) error {
		var err error
		summary, err = s.Summarizer.Summarize(ctx, t.number, text)
		return err
	})
	if err != nil {
		if rfcli.ErrorCode(err) == rfcli.EINTERNAL {
			err = rfcli.Wrap(rfcli.EDERIVE, err, "summarize rfc %d", t.number)
		}
		return "", t.fail(err)
	}
	lines := rfcli.TidySummary(summary)
	if len(lines) == 0 {
		return "", t.fail(rfcli.Errorf(rfcli.EDERIVE, "empty summary for rfc %d", t.number))
	}
	out := strings.Join(lines, "\n")

	t.to(Persisting)
	if _, err := s.Cache.Put(ctx, t.number, rfcli.KindTLDR, []byte(out)); err != nil {
		return "", t.fail(err)
	}
	t.to(Done)
	return out, nil
}

func (s *Service) raw(ctx context.Context, t *tracker) ([]byte, error) {
	t.to(CacheCheck)
	entry, ok, err := s.Cache.Get(ctx, t.number, rfcli.KindRaw)
	if err != nil {
		return nil, t.fail(err)
	}
	if ok {
		t.to(CacheHit)
		t.to(Done)
		return entry.Content, nil
	}
	t.to(CacheMiss)

	t.to(Fetching)
	var body []byte
	err = s.withRetry(ctx, t.number, "fetch", func(ctx context.Context) error {
		var err error
		body, err = s.Fetcher.FetchRaw(ctx, t.number)
		return err
	})
	if err != nil {
		return nil, t.fail(err)
	}

	t.to(Persisting)
	if _, err := s.Cache.Put(ctx, t.number, rfcli.KindRaw, body); err != nil {
		return nil, t.fail(err)
	}
	t.to(Done)
	return body, nil
}

// do runs fn once per (op, number) no matter how many callers ask at the
// same time. The task runs on a context detached from its callers and is
// cancelled only once every caller has gone.
func (s *Service) do(ctx context.Context, op string, number int, fn func(context.Context, *tracker) (any, error)) (any, error) {
	key := fmt.Sprintf("%s:%d", op, number)

	s.mu.Lock()
	if s.flights == nil {
		s.flights = make(map[string]*flight)
	}
	f, ok := s.flights[key]
	if !ok {
		taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{id: uuid.NewString(), ctx: taskCtx, cancel: cancel}
		s.flights[key] = f
	}
	f.waiters++
	ch := s.group.DoChan(key, func() (any, error) {
		defer s.finish(key, f)
		t := &tracker{op: op, number: number, notify: s.notify(f.id)}
		return fn(f.ctx, t)
	})
	s.mu.Unlock()

	select {
	case res := <-ch:
		s.leave(key, f, false)
		return res.Val, res.Err
	case <-ctx.Done():
		s.leave(key, f, true)
		return nil, canceled(ctx, number)
	}
}

// finish retires a flight whose task has returned.
func (s *Service) finish(key string, f *flight) {
	s.mu.Lock()
	if s.flights[key] == f {
		delete(s.flights, key)
	}
	s.mu.Unlock()
	f.cancel()
}

// leave drops one waiter. When the last waiter abandons a running task
// the task is cancelled and forgotten so the next caller starts afresh.
func (s *Service) leave(key string, f *flight, abandoned bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.waiters--
	if f.waiters > 0 || !abandoned {
		return
	}
	if s.flights[key] == f {
		delete(s.flights, key)
		s.group.Forget(key)
	}
	f.cancel()
}

func (s *Service) notify(id string) func(Transition) {
	return func(tr Transition) {
		s.logger().Debug("tldr transition",
			"task", id,
			"op", tr.Op,
			"number", tr.Number,
			"from", tr.From.String(),
			"to", tr.To.String(),
			"error", tr.Err)
		if s.OnTransition != nil {
			s.OnTransition(tr)
		}
	}
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}
