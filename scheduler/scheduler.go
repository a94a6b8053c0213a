package scheduler

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// RateLimiter optionally gates admission of a request for the given
// category (the requested path). It is consulted before a file is
// stat-ed or opened. A nil RateLimiter disables this check entirely.
//
// This is a domain-stack addition (see SPEC_FULL.md) layered on top of
// the admission steps described in spec.md §4.5; it does not change any
// of the scheduling policies.
type RateLimiter interface {
	Allow(category string) bool
}

// CompletionObserver is notified, outside of the scheduler mutex, every
// time an RCB is destroyed after having been resident in a policy queue.
// A nil CompletionObserver disables this hook. This is a domain-stack
// addition (see SPEC_FULL.md); it has no effect on scheduling semantics.
type CompletionObserver interface {
	Observe(rcb *RCB)
}

// ErrorLogger receives diagnostics for the error taxonomy described in
// spec.md §7 (memory exhaustion during insertion, read/write failure
// during a slice). It deliberately does not receive the literal wire
// protocol or completion log lines, which are part of the byte-exact
// external contract (spec.md §6) and are written directly by the
// Scheduler.
type ErrorLogger interface {
	Error(rcb *RCB, op string, err error)
	Fatal(msg string, err error)
}

// nopLogger discards everything; used when no ErrorLogger is configured.
type nopLogger struct{}

func (nopLogger) Error(*RCB, string, error) {}
func (nopLogger) Fatal(string, error)       {}

// for testing purposes, mirroring the catrate package's timeNow/
// timeNewTicker override pattern.
var (
	statFunc = os.Stat
	openFunc = func(name string) (io.ReadCloser, error) { return os.Open(name) }
)

// Option configures a Scheduler constructed via New.
type Option func(*Scheduler)

// WithRateLimiter installs a RateLimiter consulted at admission.
func WithRateLimiter(rl RateLimiter) Option {
	return func(s *Scheduler) { s.rateLimiter = rl }
}

// WithCompletionObserver installs a CompletionObserver notified each time
// a served RCB is completed and destroyed. RCBs destroyed at admission or
// on a failed insert are not reported.
func WithCompletionObserver(obs CompletionObserver) Option {
	return func(s *Scheduler) { s.observer = obs }
}

// WithErrorLogger installs the ErrorLogger used for spec.md §7's
// stderr-logged error paths.
func WithErrorLogger(l ErrorLogger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStdout overrides the writer used for the literal completion log
// line (spec.md §4.6, §6). Defaults to os.Stdout. Exposed for tests.
func WithStdout(w io.Writer) Option {
	return func(s *Scheduler) { s.stdout = bufio.NewWriter(w) }
}

// Scheduler is the process-wide front end: it holds the selected policy,
// a mutex, a condition variable, and the sequence counter (spec.md §3,
// §4.5). Construct with New.
type Scheduler struct {
	mu     sync.Mutex
	cond   *sync.Cond
	policy policy
	seq    int64

	rateLimiter RateLimiter
	observer    CompletionObserver
	logger      ErrorLogger

	stdoutMu sync.Mutex
	stdout   *bufio.Writer
}

// New constructs a Scheduler for the named discipline. An unrecognized
// name is a fatal configuration error per spec.md §7; New reports it as
// an error rather than aborting directly, leaving the fatal/abort
// decision to the caller (cmd/sws calls ErrorLogger.Fatal).
func New(name Name, opts ...Option) (*Scheduler, error) {
	p, ok := newPolicy(name)
	if !ok {
		return nil, fmt.Errorf("scheduler: unrecognized scheduler %q", name)
	}

	s := &Scheduler{
		policy: p,
		logger: nopLogger{},
		stdout: bufio.NewWriter(os.Stdout),
	}
	s.cond = sync.NewCond(&s.mu)

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Admit is executed by the accept goroutine for each new connection. It
// performs the admission steps of spec.md §4.5, entirely without the
// scheduler lock except for the final insert: read up to bufSize bytes
// of the request, tokenize on ASCII whitespace, validate the method,
// strip the leading byte of the path, rate-limit, stat, open, construct
// the RCB, emit the 200 status line, then insert under the lock and
// signal a waiting worker.
func (s *Scheduler) Admit(conn io.ReadWriteCloser) {
	buf := make([]byte, bufSize)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		_ = conn.Close()
		return
	}

	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 || string(fields[0]) != "GET" {
		writeAndClose(conn, "HTTP/1.1 400 Bad request\n\n")
		return
	}

	reqPath := string(fields[1])
	if len(reqPath) < 1 {
		writeAndClose(conn, "HTTP/1.1 400 Bad request\n\n")
		return
	}
	path := reqPath[1:]

	if s.rateLimiter != nil && !s.rateLimiter.Allow(path) {
		writeAndClose(conn, "HTTP/1.1 429 Too many requests\n\n")
		return
	}

	info, err := statFunc(path)
	if err != nil {
		writeAndClose(conn, "HTTP/1.1 404 File not found\n\n")
		return
	}

	file, err := openFunc(path)
	if err != nil {
		writeAndClose(conn, "HTTP/1.1 404 File not found\n\n")
		return
	}

	rcb := &RCB{
		SeqNum:     atomic.AddInt64(&s.seq, 1),
		ClientSink: conn,
		Path:       path,
		Source:     file,
		Total:      info.Size(),
		Tier:       T0,
	}

	if _, err := conn.Write([]byte("HTTP/1.1 200 OK\n\n")); err != nil {
		s.logger.Error(rcb, "admit: status line", err)
		rcb.Destroy()
		return
	}

	s.mu.Lock()
	s.policy.insert(s, rcb)
	s.mu.Unlock()
	s.cond.Signal()
}

// Next is executed by workers: it acquires the lock, waits on the
// condition variable while the combined queue count is zero (tolerating
// spurious wakeups by re-checking the predicate in a loop), then pops
// the highest-priority RCB and releases the lock (spec.md §4.5).
func (s *Scheduler) Next() *RCB {
	s.mu.Lock()
	for s.policy.count() == 0 {
		s.cond.Wait()
	}
	rcb, _ := s.policy.pickNext()
	s.mu.Unlock()
	return rcb
}

// ServeSlice dispatches to the selected policy's serveSlice, without
// holding the scheduler mutex, per spec.md §4.1.
func (s *Scheduler) ServeSlice(rcb *RCB) {
	s.policy.serveSlice(s, rcb)
}

// reinsert re-queues rcb under the scheduler lock and signals one
// waiting worker. Called by policies from within serveSlice, which runs
// without the lock (spec.md §4.1, §4.6).
func (s *Scheduler) reinsert(rcb *RCB) {
	s.mu.Lock()
	s.policy.insert(s, rcb)
	s.mu.Unlock()
	s.cond.Signal()
}

// complete destroys rcb, notifies the CompletionObserver (if any), and
// emits the literal completion log line, flushed immediately (spec.md
// §4.6, §6).
func (s *Scheduler) complete(rcb *RCB) {
	rcb.Destroy()

	if s.observer != nil {
		s.observer.Observe(rcb)
	}

	s.stdoutMu.Lock()
	_, _ = fmt.Fprintf(s.stdout, "Request %d completed\n", rcb.SeqNum)
	_ = s.stdout.Flush()
	s.stdoutMu.Unlock()
}

// logIOError reports a read/write failure during ServeSlice to the
// configured ErrorLogger (spec.md §7).
func (s *Scheduler) logIOError(rcb *RCB, err error) {
	s.logger.Error(rcb, "serve_slice", err)
}

func writeAndClose(conn io.ReadWriteCloser, status string) {
	_, _ = conn.Write([]byte(status))
	_ = conn.Close()
}
