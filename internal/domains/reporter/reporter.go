package reporter

import (
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"source.hodakov.me/hdkv/f2aac/internal/application"
	"source.hodakov.me/hdkv/f2aac/internal/domains"
)

var (
	_ domains.Reporter = new(Reporter)
	_ domains.Domain   = new(Reporter)
	_ io.Closer        = new(Reporter)
)

const (
	queueSize     = 256
	redrawEvery   = 100 * time.Millisecond
	clearLine     = "\r\033[2K"
	carriageStart = "\r"
)

type event struct {
	line      []byte
	progress  bool
	completed int
	total     int
}

// Reporter is the only thing that writes to the terminal once started.
// Log lines and progress updates are queued and drawn by one goroutine:
// a log line clears the bar, prints itself and redraws the bar below.
type Reporter struct {
	app *application.App

	out         io.Writer
	interactive bool
	quiet       bool
	columns     func() int
	limiter     *rate.Limiter

	queue       chan event
	done        chan struct{}
	queueMutex  sync.RWMutex
	closed      bool
	started     bool
	directMutex sync.Mutex

	// Owned by the drawing goroutine.
	bar        string
	barVisible bool
}

func New(app *application.App) *Reporter {
	return newReporter(
		app, os.Stderr, isTerminal(os.Stderr), app.Config().F2AAC.Quiet, terminalColumns(os.Stderr),
	)
}

func newReporter(
	app *application.App, out io.Writer, interactive, quiet bool, columns func() int,
) *Reporter {
	return &Reporter{
		app:         app,
		out:         out,
		interactive: interactive,
		quiet:       quiet,
		columns:     columns,
		limiter:     rate.NewLimiter(rate.Every(redrawEvery), 1),
		queue:       make(chan event, queueSize),
		done:        make(chan struct{}),
	}
}

func (r *Reporter) ConnectDependencies() error {
	return nil
}

// Start launches the drawing goroutine and routes the application log
// through it.
func (r *Reporter) Start() error {
	r.queueMutex.Lock()
	r.started = true
	r.queueMutex.Unlock()

	go r.run()

	r.app.SetLogOutput(r)

	return nil
}

// Write queues one log line. It is safe for concurrent use; logrus hands
// over each entry in a single call.
func (r *Reporter) Write(p []byte) (int, error) {
	r.queueMutex.RLock()
	defer r.queueMutex.RUnlock()

	if r.closed || !r.started {
		r.directMutex.Lock()
		defer r.directMutex.Unlock()

		return r.out.Write(p)
	}

	line := make([]byte, len(p))
	copy(line, p)

	r.queue <- event{line: line}

	return len(p), nil
}

// Progress queues a bar update. Updates are dropped in quiet mode and
// for empty batches.
func (r *Reporter) Progress(completed, total int) {
	if r.quiet || total <= 0 {
		return
	}

	r.queueMutex.RLock()
	defer r.queueMutex.RUnlock()

	if r.closed || !r.started {
		return
	}

	r.queue <- event{progress: true, completed: completed, total: total}
}

// Close drains the queue, finishes an unterminated bar and hands the log
// back to stderr.
func (r *Reporter) Close() error {
	r.queueMutex.Lock()

	if r.closed {
		r.queueMutex.Unlock()

		return ErrAlreadyClosed
	}

	r.closed = true
	started := r.started

	if started {
		close(r.queue)
	}

	r.queueMutex.Unlock()

	if started {
		<-r.done
		r.app.SetLogOutput(os.Stderr)
	}

	return nil
}

func (r *Reporter) run() {
	defer close(r.done)

	for ev := range r.queue {
		if ev.progress {
			r.drawProgress(ev.completed, ev.total)
		} else {
			r.writeLine(ev.line)
		}
	}

	if r.barVisible {
		r.write([]byte("\n"))
		r.barVisible = false
	}
}

func (r *Reporter) drawProgress(completed, total int) {
	final := completed >= total

	// Non-interactive outputs get the finished bar only, so logs piped to a
	// file don't fill up with carriage returns.
	if !r.interactive && !final {
		return
	}

	if !final && !r.limiter.Allow() {
		return
	}

	r.bar = Render(completed, total, barWidth(r.columns()))

	if r.interactive {
		r.write([]byte(carriageStart + r.bar))
	} else {
		r.write([]byte(r.bar))
	}

	r.barVisible = !final

	if final {
		r.write([]byte("\n"))
	}
}

func (r *Reporter) writeLine(line []byte) {
	if !r.barVisible {
		r.write(line)

		return
	}

	r.write([]byte(clearLine))
	r.write(line)
	r.write([]byte(carriageStart + r.bar))
}

func (r *Reporter) write(p []byte) {
	r.directMutex.Lock()
	defer r.directMutex.Unlock()

	_, _ = r.out.Write(p)
}
