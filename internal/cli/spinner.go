package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on stderr while a blocking call runs,
// such as connecting to MongoDB. It stops when Stop is called or ctx ends.
type spinner struct {
	out     io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	start   time.Time
}

// newSpinner starts a spinner immediately.
func newSpinner(ctx context.Context, message string) *spinner {
	return startSpinner(ctx, os.Stderr, message)
}

func startSpinner(ctx context.Context, out io.Writer, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		out:     out,
		message: message,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		start:   time.Now(),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+16))
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			elapsed := time.Since(s.start).Round(100 * time.Millisecond)
			fmt.Fprintf(s.out, "\r%s %s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message), StyleDim.Render(elapsed.String()))
		}
	}
}

// Stop ends the animation and clears the line. It is safe to call twice.
func (s *spinner) Stop() {
	s.once.Do(s.cancel)
	<-s.stopped
}

// Elapsed returns the time since the spinner started.
func (s *spinner) Elapsed() time.Duration {
	return time.Since(s.start)
}
