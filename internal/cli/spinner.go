package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// fetchSpinner animates on the status stream while a registry is queried.
// It stops on Stop or when the parent context is cancelled.
type fetchSpinner struct {
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	stopped chan struct{}
	once    sync.Once
}

func newFetchSpinner(ctx context.Context, url string) *fetchSpinner {
	ctx, cancel := context.WithCancel(ctx)
	return &fetchSpinner{
		message: "Fetching metadata from " + url + "...",
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start launches the animation. Call it at most once.
func (s *fetchSpinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(uiOut, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			}
		}
	}()
}

// Stop ends the animation and blanks the line. Safe to call more than once,
// and without Start.
func (s *fetchSpinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}
		fmt.Fprintf(uiOut, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	})
}
