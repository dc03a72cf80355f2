// Package liveness probes the search URL of every bang and records the HTTP
// status it answers with.
//
// Probes run on a bounded pool of workers. A bang that already carries a
// status is never probed again, and bangs on the provider sentinel host are
// skipped without a network call. A failed probe is recorded as a synthetic
// status and never stops the batch.
package liveness

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/bangmap/internal/transport"
	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/constants"
	"github.com/agentstation/bangmap/pkg/logging"
	"github.com/agentstation/bangmap/pkg/normalize"
)

// Doer issues HTTP requests. Both *http.Client and *transport.Client satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Checker probes bang URLs.
type Checker struct {
	client      Doer
	concurrency int
	timeout     time.Duration
	term        string
}

// Option configures a Checker.
type Option func(*Checker)

// WithConcurrency sets the number of concurrent probes, capped at
// constants.MaxProbeWorkers.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = min(n, constants.MaxProbeWorkers)
		}
	}
}

// WithTimeout bounds every single probe.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTerm sets the search term substituted into URLs before probing.
func WithTerm(term string) Option {
	return func(c *Checker) {
		c.term = term
	}
}

// New creates a checker issuing requests through client.
func New(client Doer, opts ...Option) *Checker {
	c := &Checker{
		client:      client,
		concurrency: constants.MaxProbeWorkers,
		timeout:     constants.ProbeTimeout,
		term:        constants.ProbeTerm,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of a liveness check.
type Result struct {
	// Bangs is the input set, in input order, with every bang annotated.
	Bangs bangs.Set
	// Probed counts the bangs that were sent a request in this run.
	Probed int
	// Counts holds the number of bangs per status class.
	Counts map[Class]int
}

// Check annotates every bang of set with a status. The input is not modified.
// The only error is the cancellation of ctx.
func (c *Checker) Check(ctx context.Context, set bangs.Set) (Result, error) {
	out := set.Clone()
	total := len(out)
	if total == 0 {
		return Result{Bangs: out, Counts: map[Class]int{}}, nil
	}

	queue := make(chan int, total)
	for i := range total {
		queue <- i
	}
	close(queue)

	var done, probed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)

	for range min(c.concurrency, total) {
		g.Go(func() error {
			for i := range queue {
				if err := gctx.Err(); err != nil {
					return err
				}

				var sent bool
				out[i], sent = c.check(gctx, out[i])
				if sent {
					probed.Add(1)
				}
				c.progress(ctx, int(done.Add(1)), total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{
		Bangs:  out,
		Probed: int(probed.Load()),
		Counts: make(map[Class]int),
	}
	for _, b := range out {
		result.Counts[Classify(b.Status)]++
	}
	return result, nil
}

// check returns b annotated with its status. The second result reports
// whether a request was sent.
func (c *Checker) check(ctx context.Context, b bangs.Bang) (bangs.Bang, bool) {
	if b.Probed() {
		return b, false
	}

	url := b.ResolvedURL(c.term)
	if normalize.Domain(url) == constants.ProviderHost {
		return b.WithStatus(StatusSkipped, SkippedText), false
	}

	status, text := c.probe(ctx, url)
	if status == StatusFetchError {
		logging.FromContext(ctx).Debug().
			Str("trigger", b.Trigger()).
			Str("url", url).
			Str("cause", text).
			Msg("Probe failed")
	}
	return b.WithStatus(status, text), true
}

// probe sends one bounded HEAD request to url.
func (c *Checker) probe(ctx context.Context, url string) (int, string) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return StatusFetchError, causeText(err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return StatusFetchError, causeText(err)
	}
	_ = resp.Body.Close()

	return resp.StatusCode, transport.StatusText(resp)
}

func (c *Checker) progress(ctx context.Context, done, total int) {
	if done%constants.ProgressInterval != 0 && done != total {
		return
	}
	logging.FromContext(ctx).Info().
		Str("percent", formatPercent(done, total)).
		Int("done", done).
		Int("total", total).
		Msg("Probing bangs")
}

// causeText is the first line of the error's underlying cause, or of the
// error itself when it wraps nothing.
func causeText(err error) string {
	text := err.Error()
	if cause := errors.Unwrap(err); cause != nil && cause.Error() != "" {
		text = cause.Error()
	}
	first, _, _ := strings.Cut(text, "\n")
	return first
}

func formatPercent(done, total int) string {
	return fmt.Sprintf("%.2f%%", 100*float64(done)/float64(total))
}
