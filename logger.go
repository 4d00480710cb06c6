package imui

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false, so call sites
// on the frame path never format their arguments while logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the active logger, swapped atomically so SetLogger
// may race with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger installs the logger imui and its sub-packages write to.
// The module is silent until one is installed; passing nil makes it
// silent again. Safe to call at any time, from any goroutine.
//
// Debug carries per-frame diagnostics (paint job counts, buffer
// growth), Info marks lifecycle points (fonts installed, pipeline
// built), and Warn flags non-fatal problems such as a failed theme
// font swap.
//
//	imui.SetLogger(slog.Default())
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the active logger. The frame, backend/wgpu, and gpu
// packages log through it, so one SetLogger call configures the whole
// module without import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
