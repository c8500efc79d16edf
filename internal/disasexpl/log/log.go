package log

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"

	"disasexpl/internal/logging"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
	closer      io.Closer
)

// Setup installs the process-wide slog logger once. debug forces the debug
// level regardless of DISASEXPL_LOG_LEVEL.
func Setup(debug bool) {
	initOnce.Do(func() {
		lg := logging.NewLogger()
		if debug {
			lg.SetLevel(charmlog.DebugLevel)
			lg.SetReportCaller(true)
		}
		closer = lg

		slog.SetDefault(slog.New(lg.Logger))
		initialized.Store(true)
	})
}

// Close flushes the log file, if any.
func Close() error {
	if closer == nil {
		return nil
	}
	return closer.Close()
}

func Initialized() bool {
	return initialized.Load()
}

func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
