package pipeconf

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false so callers skip
// building the record at all.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var (
	loggerPtr atomic.Pointer[slog.Logger]

	// followers maps libraries created without WithLogger to their
	// backend. SetLogger forwards the new logger to each of them.
	followersMu sync.Mutex
	followers   = make(map[*Library]loggerSetter)
)

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the package-wide logger and hands it to the backend of
// every live Library that was created without WithLogger. Nil restores the
// silent default.
//
// Levels:
//   - [slog.LevelDebug]: pipeline created, shader destroyed
//   - [slog.LevelInfo]: catalog loaded, reloaded, shut down
//   - [slog.LevelWarn]: reload failed and the catalog is empty
//
// Example:
//
//	pipeconf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}

	followersMu.Lock()
	defer followersMu.Unlock()

	loggerPtr.Store(l)
	for _, ls := range followers {
		ls.SetLogger(l)
	}
}

// Logger returns the package-wide logger. Sub-packages and the CLI share it.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by backends that accept a logger, such as
// *native.Backend.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes l to b if b accepts a logger.
func propagateLogger(b any, l *slog.Logger) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

// follow makes the backend of lib track SetLogger until unfollow.
func follow(lib *Library, b any) {
	ls, ok := b.(loggerSetter)
	if !ok {
		return
	}

	followersMu.Lock()
	defer followersMu.Unlock()

	followers[lib] = ls
	ls.SetLogger(Logger())
}

func unfollow(lib *Library) {
	followersMu.Lock()
	defer followersMu.Unlock()

	delete(followers, lib)
}
