package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on stderr while a long operation such as
// SVG rendering runs. On non-terminal output it stays silent.
type Spinner struct {
	w       io.Writer
	message string
	animate bool

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
	started bool
	mu      sync.Mutex
	width   int
}

// newSpinnerWithContext creates a stderr spinner that stops when ctx is
// cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message, isatty.IsTerminal(os.Stderr.Fd()))
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string, animate bool) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		message: message,
		animate: animate,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation. It must be called at most once.
func (s *Spinner) Start() {
	s.started = true
	if !s.animate {
		close(s.stopped)
		return
	}
	go s.run(time.Now())
}

func (s *Spinner) run(start time.Time) {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-s.stop:
			return
		case <-ticker.C:
			elapsed := time.Since(start).Round(100 * time.Millisecond)
			line := fmt.Sprintf("%s %s", s.message, elapsed)
			s.mu.Lock()
			s.width = max(s.width, len(line)+2)
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(line))
			s.mu.Unlock()
		}
	}
}

// Stop ends the animation and clears the line. Safe to call repeatedly.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		s.cancel()
	})
	if !s.started {
		return
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	if !s.animate {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

// Cancelled reports whether the caller's context ended before Stop.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
