package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nix-template/pkg/expr"
)

// newLogger builds the diagnostics logger. Timestamps look like 14:32:01.45.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// fetchTimer measures one enrichment run against a registry URL.
type fetchTimer struct {
	logger *log.Logger
	url    string
	start  time.Time
}

func startFetch(l *log.Logger, url string) *fetchTimer {
	return &fetchTimer{logger: l, url: url, start: time.Now()}
}

// done reports what the registry filled in, e.g.
// "Fetched requests 2.32.3 from=https://pypi.org/project/requests took=412ms".
func (f *fetchTimer) done(info *expr.Info) {
	f.logger.Info(fmt.Sprintf("Fetched %s %s", info.Pname, info.Version),
		"from", f.url,
		"took", time.Since(f.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or an info-level logger on
// the status stream when none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return newLogger(uiOut, LogInfo)
}
