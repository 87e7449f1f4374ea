// Package checkclient implements the interactive side of the availability
// checker: a watcher that debounces token keystrokes, issues cancelable
// checks, and only ever trusts the result of the newest one.
package checkclient

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is the pause after the last keystroke before a check
// fires.
const DefaultDebounce = 300 * time.Millisecond

// CheckFunc performs one availability check, typically an HTTP round trip
// to the check endpoint. It must honor ctx cancellation.
type CheckFunc func(ctx context.Context, token string) (available bool, err error)

// Verdict is the watcher's answer for one checked token. Inconclusive is
// set when the check failed; such verdicts report available so the form
// never blocks on a transient fault - the authoritative write still
// decides.
type Verdict struct {
	Token        string
	Available    bool
	Inconclusive bool
}

type checkResult struct {
	seq       uint64
	token     string
	available bool
	err       error
}

// Watcher debounces a stream of candidate tokens and delivers one verdict
// per settled token. A new keystroke supersedes any in-flight check: its
// context is canceled and a late result is discarded, so a slow stale
// response can never overwrite a fresher verdict.
type Watcher struct {
	check     CheckFunc
	debounce  time.Duration
	onVerdict func(Verdict)
	logger    *zap.Logger

	input  chan string
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher delivering verdicts to onVerdict from the
// watcher's own goroutine. A non-positive debounce falls back to
// DefaultDebounce.
func NewWatcher(check CheckFunc, debounce time.Duration, onVerdict func(Verdict), logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		check:     check,
		debounce:  debounce,
		onVerdict: onVerdict,
		logger:    logger,
		input:     make(chan string, 16),
		done:      make(chan struct{}),
	}
}

// Start launches the watch loop.
func (w *Watcher) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	go w.watchLoop(ctx)

	return nil
}

// Input feeds one edit of the token field. Safe to call from any
// goroutine; drops the oldest pending edit if the buffer is full, which is
// harmless because only the latest value matters.
func (w *Watcher) Input(token string) {
	for {
		select {
		case w.input <- token:
			return
		default:
			select {
			case <-w.input:
			default:
			}
		}
	}
}

// Shutdown stops the loop and cancels any in-flight check.
func (w *Watcher) Shutdown() error {
	if w.cancel != nil {
		w.cancel()
	}

	<-w.done

	return nil
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.done)

	var (
		timer          *time.Timer
		timerC         <-chan time.Time
		pending        string
		seq            uint64
		inflightCancel context.CancelFunc
	)

	defer func() {
		if inflightCancel != nil {
			inflightCancel()
		}
	}()

	results := make(chan checkResult, 1)

	for {
		select {
		case <-ctx.Done():
			return

		case token := <-w.input:
			pending = token

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C

				continue
			}

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}

			timer.Reset(w.debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil

			// A newer check supersedes the in-flight one.
			if inflightCancel != nil {
				inflightCancel()
			}

			seq++

			checkCtx, cancel := context.WithCancel(ctx)
			inflightCancel = cancel

			go func(seq uint64, token string) {
				available, err := w.check(checkCtx, token)

				select {
				case results <- checkResult{seq: seq, token: token, available: available, err: err}:
				case <-checkCtx.Done():
				}
			}(seq, pending)

		case res := <-results:
			if res.seq != seq {
				// Superseded by a newer keystroke.
				continue
			}

			verdict := Verdict{Token: res.token}

			if res.err != nil {
				w.logger.Warn("availability check failed, assuming available",
					zap.String("token", res.token),
					zap.Error(res.err),
				)

				verdict.Available = true
				verdict.Inconclusive = true
			} else {
				verdict.Available = res.available
			}

			w.onVerdict(verdict)
		}
	}
}
