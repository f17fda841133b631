// Package obslog provides the control plane's structured logger and the
// realtime-safe sink the audio thread hands log records to without ever
// blocking on the logger itself. It mirrors the layered ErrorHandler
// pattern the teacher repo uses (default/logging/panic handlers), but
// splits "format and log" (safe only off the audio thread) from "hand off
// a record" (safe on the audio thread).
package obslog

import (
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shaban/trackd/internal/rtqueue"
)

// Logger wraps charmbracelet/log for every control-plane log line.
type Logger struct {
	*log.Logger
}

// New constructs a Logger writing leveled, structured output to stderr.
func New() *Logger {
	return &Logger{log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "trackd",
	})}
}

// RTSink is a non-blocking handoff point for the audio thread: it enqueues
// preformatted strings into a lock-free SPSC ring. A single background
// goroutine (started by Drain) owns the consumer side and forwards each
// record to a Logger. The audio thread must only ever call Warn or Error.
type RTSink struct {
	queue *rtqueue.Queue[rtSinkRecord]
}

type rtSinkRecord struct {
	level   log.Level
	message string
}

// NewRTSink creates a sink with the given backlog capacity. A capacity of
// a few hundred records comfortably absorbs a burst of plugin/MIDI errors
// between drain cycles without the audio thread ever blocking.
func NewRTSink(capacity int) *RTSink {
	return &RTSink{queue: rtqueue.New[rtSinkRecord](capacity)}
}

// Warn enqueues a warning-level record. Called from the audio thread; it
// never blocks and drops the record (silently, by design — the audio
// thread must not even allocate a fallback log line) if the backlog is
// saturated.
func (s *RTSink) Warn(message string) {
	_ = s.queue.TryPush(rtSinkRecord{level: log.WarnLevel, message: message})
}

// Error enqueues an error-level record under the same non-blocking
// contract as Warn.
func (s *RTSink) Error(message string) {
	_ = s.queue.TryPush(rtSinkRecord{level: log.ErrorLevel, message: message})
}

// Drain starts a background goroutine forwarding queued records to dst
// until stop is closed. It is the control plane's responsibility to start
// exactly one drainer per sink.
func (s *RTSink) Drain(dst *Logger, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				s.drainRemaining(dst)
				return
			case <-ticker.C:
				s.drainRemaining(dst)
			}
		}
	}()
}

func (s *RTSink) drainRemaining(dst *Logger) {
	s.queue.Drain(func(r rtSinkRecord) {
		dst.Logger.Log(r.level, r.message)
	})
}
