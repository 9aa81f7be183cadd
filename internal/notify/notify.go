// Package notify delivers user-facing success, warning and error messages.
package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Kind is the severity of a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Sink accepts fire-and-forget notifications
type Sink interface {
	Notify(message string, kind Kind)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(message string, kind Kind)

// Notify calls f
func (f SinkFunc) Notify(message string, kind Kind) {
	f(message, kind)
}

// WriterSink prints notifications as single lines, e.g. "✔ Comment posted"
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

var kindPrefix = map[Kind]string{
	KindSuccess: "✔",
	KindWarning: "!",
	KindError:   "✘",
}

// Notify writes the message with its kind prefix
func (s *WriterSink) Notify(message string, kind Kind) {
	prefix, ok := kindPrefix[kind]
	if !ok {
		prefix = "-"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s %s\n", prefix, message)
}

// LogSink records notifications in the structured log
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink backed by logger
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs the message at a level matching its kind
func (s *LogSink) Notify(message string, kind Kind) {
	switch kind {
	case KindError:
		s.logger.Error("User notification", zap.String("message", message))
	case KindWarning:
		s.logger.Warn("User notification", zap.String("message", message))
	default:
		s.logger.Info("User notification", zap.String("message", message))
	}
}

// Multi fans a notification out to several sinks
type Multi []Sink

// Notify forwards to every sink
func (m Multi) Notify(message string, kind Kind) {
	for _, s := range m {
		if s != nil {
			s.Notify(message, kind)
		}
	}
}

// Discard drops every notification
var Discard Sink = SinkFunc(func(string, Kind) {})
