package crossstitch

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const progressBarWidth = 20

// ProgressEvent reports how many pattern rows have been classified.
type ProgressEvent struct {
	RowsDone  int
	RowsTotal int
	Percent   int
}

func newProgressEvent(done, total int) ProgressEvent {
	return ProgressEvent{RowsDone: done, RowsTotal: total, Percent: done * 100 / total}
}

// Bar renders the event as a fixed-width bar, e.g. "[#####---------------]".
func (e ProgressEvent) Bar() string {
	filled := 0
	if e.RowsTotal > 0 {
		filled = progressBarWidth * e.RowsDone / e.RowsTotal
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressBarWidth-filled) + "]"
}

func (e ProgressEvent) String() string {
	return fmt.Sprintf("Processed %d/%d rows... %s %d%%", e.RowsDone, e.RowsTotal, e.Bar(), e.Percent)
}

// Sink receives the messages and row progress of a single conversion job.
// Implementations should return quickly; a slow sink stalls row workers.
type Sink interface {
	Message(msg string)
	Progress(ev ProgressEvent)
}

type nopSink struct{}

func (nopSink) Message(string)         {}
func (nopSink) Progress(ProgressEvent) {}

// NopSink discards everything.
var NopSink Sink = nopSink{}

type multiSink []Sink

func (m multiSink) Message(msg string) {
	for _, s := range m {
		s.Message(msg)
	}
}

func (m multiSink) Progress(ev ProgressEvent) {
	for _, s := range m {
		s.Progress(ev)
	}
}

// MultiSink forwards to every non-nil sink in order.
func MultiSink(sinks ...Sink) Sink {
	var m multiSink
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

// LogSink writes job messages at info level and row progress at debug level.
func LogSink(logger *slog.Logger) Sink {
	return logSink{logger: logger}
}

type logSink struct {
	logger *slog.Logger
}

func (s logSink) Message(msg string) {
	s.logger.Info(msg)
}

func (s logSink) Progress(ev ProgressEvent) {
	s.logger.Debug("Row progress", "rows_done", ev.RowsDone, "rows_total", ev.RowsTotal, "percent", ev.Percent)
}

// Update is one item delivered by a ChannelSink. Progress is nil for plain
// messages.
type Update struct {
	Message  string
	Progress *ProgressEvent
}

// ChannelSink delivers updates over a bounded channel. When the consumer falls
// behind, the oldest buffered update is dropped so producers never block;
// delivered updates keep their original order.
type ChannelSink struct {
	mu      sync.Mutex
	ch      chan Update
	closed  bool
	dropped int
}

func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Update, max(1, buffer))}
}

func (s *ChannelSink) Updates() <-chan Update {
	return s.ch
}

func (s *ChannelSink) Message(msg string) {
	s.send(Update{Message: msg})
}

func (s *ChannelSink) Progress(ev ProgressEvent) {
	s.send(Update{Message: ev.String(), Progress: &ev})
}

// Dropped reports how many updates were discarded for lack of buffer space.
func (s *ChannelSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close ends the update stream. Later sends are ignored.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *ChannelSink) send(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- u:
			return
		default:
		}
		select {
		case <-s.ch:
			s.dropped++
		default:
		}
	}
}

// rowReporter turns out-of-order row completions into one in-order progress
// event per row.
type rowReporter struct {
	mu    sync.Mutex
	done  []bool
	next  int
	total int
	sink  Sink
}

func newRowReporter(total int, sink Sink) *rowReporter {
	return &rowReporter{
		done:  make([]bool, total),
		total: total,
		sink:  sink,
	}
}

func (r *rowReporter) rowDone(y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done[y] = true
	for r.next < r.total && r.done[r.next] {
		r.next++
		r.sink.Progress(newProgressEvent(r.next, r.total))
	}
}
