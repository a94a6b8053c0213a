// Package stats aggregates request completion events using
// github.com/joeycumines/go-microbatch, the same batching-with-flush
// pattern used in the teacher repo's microbatch package itself. This is
// the domain-stack completion-stats feature described in SPEC_FULL.md;
// it is purely an observability addition and never affects the literal
// per-request stdout completion line mandated by spec.md §4.6, §6.
package stats

import (
	"context"
	"time"

	microbatch "github.com/joeycumines/go-microbatch"

	"github.com/joeycumines/sws/internal/obs"
	"github.com/joeycumines/sws/scheduler"
)

// completion is one batched job: the subset of RCB state worth
// summarizing after the request has been destroyed.
type completion struct {
	seqNum int64
	path   string
	total  int64
	tier   scheduler.Tier
}

// Aggregator batches scheduler.CompletionObserver notifications and
// periodically logs a summary via obs.Logger, instead of emitting one
// log line per request.
type Aggregator struct {
	logger  *obs.Logger
	batcher *microbatch.Batcher[completion]
}

var _ scheduler.CompletionObserver = (*Aggregator)(nil)

// NewAggregator constructs an Aggregator flushing a summary every 16
// completions or 50ms, whichever comes first — the same defaults
// exercised in the teacher's microbatch_test.go.
func NewAggregator(logger *obs.Logger) *Aggregator {
	a := &Aggregator{logger: logger}
	a.batcher = microbatch.NewBatcher[completion](&microbatch.BatcherConfig{
		MaxSize:       16,
		FlushInterval: 50 * time.Millisecond,
	}, a.process)
	return a
}

// Observe submits rcb's completion for aggregation. Safe to call from any
// goroutine; never blocks on the flush itself.
func (a *Aggregator) Observe(rcb *scheduler.RCB) {
	_, _ = a.batcher.Submit(context.Background(), completion{
		seqNum: rcb.SeqNum,
		path:   rcb.Path,
		total:  rcb.Total,
		tier:   rcb.Tier,
	})
}

// Close flushes any pending batch and stops the aggregator.
func (a *Aggregator) Close() error {
	return a.batcher.Close()
}

func (a *Aggregator) process(_ context.Context, jobs []completion) error {
	if len(jobs) == 0 {
		return nil
	}

	var totalBytes int64
	byTier := map[scheduler.Tier]int{}
	for _, j := range jobs {
		totalBytes += j.total
		byTier[j.tier]++
	}

	a.logger.Debug(`completion batch`, map[string]any{
		`count`:      len(jobs),
		`bytes`:      totalBytes,
		`tier0Count`: byTier[scheduler.T0],
		`tier1Count`: byTier[scheduler.T1],
		`tier2Count`: byTier[scheduler.T2],
	})

	return nil
}
