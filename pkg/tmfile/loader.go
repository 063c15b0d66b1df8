package tmfile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ha1tch/turing-graph/internal/logging"
)

var (
	// ErrLoadPending is returned when a load is requested while another is
	// still running.
	ErrLoadPending = errors.New("a file load is already pending")

	// ErrCancelled is returned by pickers when the user dismisses the pick.
	ErrCancelled = errors.New("file pick cancelled")
)

// Picker asks the user for a file and returns its path.
type Picker interface {
	Pick(ctx context.Context) (string, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(ctx context.Context) (string, error)

func (f PickerFunc) Pick(ctx context.Context) (string, error) { return f(ctx) }

// StaticPicker always picks the same path.
type StaticPicker string

func (p StaticPicker) Pick(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(p), nil
}

// Result is the outcome of one load.
type Result struct {
	Path string
	Text string
	Err  error
}

// Loader runs at most one pick-and-read in the background. The owner polls
// it once per frame; Poll never blocks.
type Loader struct {
	pending chan Result
	notify  func()
	logger  *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithNotify sets a function called from the background goroutine once a
// result is ready, so an idle event loop can wake up and poll.
func WithNotify(fn func()) LoaderOption {
	return func(l *Loader) {
		l.notify = fn
	}
}

// WithLogger sets the loader's logger.
func WithLogger(lg *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logging.OrNop(lg)
	}
}

// NewLoader returns an idle loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Pending reports whether a load is in flight or finished but not yet
// polled.
func (l *Loader) Pending() bool {
	return l.pending != nil
}

// Request starts picking and reading a file. It fails with ErrLoadPending
// if a previous request has not been consumed by Poll.
func (l *Loader) Request(ctx context.Context, p Picker) error {
	if l.pending != nil {
		return ErrLoadPending
	}
	ch := make(chan Result, 1)
	l.pending = ch

	go func() {
		res := load(ctx, p)
		ch <- res
		if l.notify != nil {
			l.notify()
		}
	}()
	return nil
}

func load(ctx context.Context, p Picker) Result {
	path, err := p.Pick(ctx)
	if err != nil {
		return Result{Err: err}
	}
	text, err := ReadFile(path)
	return Result{Path: path, Text: text, Err: err}
}

// Poll returns the finished result, if any, and makes the loader idle again.
func (l *Loader) Poll() (Result, bool) {
	if l.pending == nil {
		return Result{}, false
	}
	select {
	case res := <-l.pending:
		l.pending = nil
		if res.Err != nil {
			l.logger.Warn("file load failed", "path", res.Path, "error", res.Err)
		} else {
			l.logger.Info("file loaded", "path", res.Path, "bytes", len(res.Text))
		}
		return res, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the pending result is ready or ctx is done. It is meant
// for batch callers and tests; the editor uses Poll.
func (l *Loader) Wait(ctx context.Context) (Result, error) {
	if l.pending == nil {
		return Result{}, errors.New("no load pending")
	}
	select {
	case res := <-l.pending:
		l.pending = nil
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
