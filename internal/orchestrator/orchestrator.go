// Package orchestrator drives the report-request lifecycle of a single view:
// one active request per (mode, query), key-scoped deduplication and a
// one-shot readiness notification per request.
package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/aletheia/internal/logging"
	"github.com/ppiankov/aletheia/internal/model"
)

// State is the request lifecycle state
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateResolved State = "resolved"
	StateError    State = "error"
)

// DefaultErrorMessage is shown when a failure carries no message of its own
const DefaultErrorMessage = "Unable to generate the report. Please try again."

// DefaultTimeout bounds a single fetch. Reports can take several minutes.
const DefaultTimeout = 5 * time.Minute

// Fetcher performs one normalized report fetch
type Fetcher interface {
	Fetch(ctx context.Context, mode model.UserMode, query string) (*model.AnalysisRecord, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, mode model.UserMode, query string) (*model.AnalysisRecord, error)

func (f FetcherFunc) Fetch(ctx context.Context, mode model.UserMode, query string) (*model.AnalysisRecord, error) {
	return f(ctx, mode, query)
}

// Snapshot is a consistent copy of the orchestrator state.
// Seq increases with every state change, so a host receiving snapshots on
// several goroutines can drop the older ones.
type Snapshot struct {
	State  State
	Key    model.RequestKey
	Mode   model.UserMode
	Query  string
	Record *model.AnalysisRecord
	Err    string
	Seq    uint64
}

// Terminal reports whether the snapshot is resolved or errored
func (s Snapshot) Terminal() bool {
	return s.State == StateResolved || s.State == StateError
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithTimeout bounds each fetch. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOnChange registers a hook called after every state change
func WithOnChange(fn func(Snapshot)) Option {
	return func(o *Orchestrator) { o.onChange = fn }
}

// WithOnReady registers a hook called once per request when it first becomes
// resolved or errored, and immediately when the query is empty
func WithOnReady(fn func(Snapshot)) Option {
	return func(o *Orchestrator) { o.onReady = fn }
}

// Orchestrator owns the request state of one view.
// Hooks are invoked without the lock held, possibly from a fetch goroutine.
type Orchestrator struct {
	fetcher  Fetcher
	timeout  time.Duration
	logger   *slog.Logger
	onChange func(Snapshot)
	onReady  func(Snapshot)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       State
	mode        model.UserMode
	query       string
	key         model.RequestKey
	record      *model.AnalysisRecord
	errMsg      string
	inFlight    model.RequestKey
	lastSuccess model.RequestKey
	readyFired  bool
	gen         uint64 // Bumped whenever a pending fetch becomes stale
	seq         uint64
	closed      bool
}

// New creates an idle orchestrator
func New(fetcher Fetcher, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())

	o := &Orchestrator{
		fetcher: fetcher,
		timeout: DefaultTimeout,
		logger:  logging.Discard(),
		ctx:     ctx,
		cancel:  cancel,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Request asks for the report of (mode, query). It returns true when a fetch
// was issued. An empty query moves to idle; a query whose key is in flight or
// was the last success is a no-op.
func (o *Orchestrator) Request(mode model.UserMode, query string) bool {
	if mode == "" {
		mode = model.ModeNormal
	}
	q := strings.TrimSpace(query)
	key := model.NewRequestKey(mode, q)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return false
	}

	if key.IsZero() {
		o.resetLocked(mode)
		return false
	}

	if key == o.inFlight || key == o.lastSuccess {
		o.mu.Unlock()
		o.logger.Debug("duplicate report request ignored", "key", key)
		return false
	}

	o.startLocked(mode, q, key)
	return true
}

// Retry re-issues the request that last failed. It is the only way to refetch
// a key without changing the query or mode.
func (o *Orchestrator) Retry() bool {
	o.mu.Lock()
	if o.closed || o.state != StateError || o.key.IsZero() {
		o.mu.Unlock()
		return false
	}
	o.startLocked(o.mode, o.query, o.key)
	return true
}

// Accept installs a record obtained elsewhere: the state becomes resolved and
// the key is marked as the last success without any network call. Any pending
// fetch becomes stale.
func (o *Orchestrator) Accept(mode model.UserMode, query string, rec *model.AnalysisRecord) {
	if rec == nil {
		return
	}
	if mode == "" {
		mode = model.ModeNormal
	}
	q := strings.TrimSpace(query)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}

	o.gen++
	o.state = StateResolved
	o.mode = mode
	o.query = q
	o.key = model.NewRequestKey(mode, q)
	o.record = rec
	o.errMsg = ""
	o.inFlight = ""
	o.lastSuccess = o.key
	o.readyFired = true
	snap := o.changedLocked()
	o.mu.Unlock()

	o.logger.Debug("report accepted", "key", snap.Key)
	o.emit(snap, true)
}

// Snapshot returns the current state
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Close tears the orchestrator down. Pending fetches are cancelled and their
// results discarded; later calls are no-ops.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.gen++
	o.mu.Unlock()

	o.cancel()
}

// Wait blocks until every fetch goroutine has returned
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// resetLocked moves to idle and releases the lock. Readiness fires once per
// entry into idle.
func (o *Orchestrator) resetLocked(mode model.UserMode) {
	if o.state == StateIdle && o.key.IsZero() && o.readyFired {
		o.mode = mode
		o.mu.Unlock()
		return
	}

	o.gen++
	o.state = StateIdle
	o.mode = mode
	o.query = ""
	o.key = ""
	o.record = nil
	o.errMsg = ""
	o.inFlight = ""
	o.lastSuccess = ""
	o.readyFired = true
	snap := o.changedLocked()
	o.mu.Unlock()

	o.emit(snap, true)
}

// startLocked enters loading, launches the fetch and releases the lock
func (o *Orchestrator) startLocked(mode model.UserMode, query string, key model.RequestKey) {
	o.gen++
	gen := o.gen

	o.state = StateLoading
	o.mode = mode
	o.query = query
	o.key = key
	o.record = nil
	o.errMsg = ""
	o.inFlight = key
	o.lastSuccess = ""
	o.readyFired = false
	snap := o.changedLocked()

	o.wg.Add(1)
	o.mu.Unlock()

	o.logger.Debug("report requested", "key", key)
	o.emit(snap, false)

	go o.run(gen, mode, query)
}

func (o *Orchestrator) run(gen uint64, mode model.UserMode, query string) {
	defer o.wg.Done()

	ctx, cancel := context.WithTimeout(o.ctx, o.timeout)
	defer cancel()

	start := time.Now()
	rec, err := o.fetcher.Fetch(ctx, mode, query)
	o.complete(gen, rec, err, time.Since(start))
}

// complete applies a fetch result unless it has become stale
func (o *Orchestrator) complete(gen uint64, rec *model.AnalysisRecord, err error, elapsed time.Duration) {
	o.mu.Lock()
	if o.closed || gen != o.gen {
		o.mu.Unlock()
		o.logger.Debug("stale report result discarded", "elapsed", elapsed)
		return
	}

	o.inFlight = ""
	if err != nil || rec == nil {
		o.state = StateError
		o.errMsg = errorMessage(err)
		o.lastSuccess = ""
		o.logger.Warn("report request failed", "key", o.key, "error", err, "elapsed", elapsed)
	} else {
		o.state = StateResolved
		o.record = rec
		o.lastSuccess = o.key
		o.logger.Debug("report resolved", "key", o.key, "elapsed", elapsed)
	}

	ready := !o.readyFired
	o.readyFired = true
	snap := o.changedLocked()
	o.mu.Unlock()

	o.emit(snap, ready)
}

func (o *Orchestrator) changedLocked() Snapshot {
	o.seq++
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{
		State:  o.state,
		Key:    o.key,
		Mode:   o.mode,
		Query:  o.query,
		Record: o.record,
		Err:    o.errMsg,
		Seq:    o.seq,
	}
}

func (o *Orchestrator) emit(snap Snapshot, ready bool) {
	if o.onChange != nil {
		o.onChange(snap)
	}
	if ready && o.onReady != nil {
		o.onReady(snap)
	}
}
