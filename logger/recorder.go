package logger

import (
	"sync"

	"go.uber.org/zap/zapcore"
)

// Entry is one recorded log call.
type Entry struct {
	Level   Level
	Name    string
	Message string
	Fields  map[string]interface{}
}

// Recorder is a Logger that keeps entries in memory, for tests.
type Recorder struct {
	mu      *sync.Mutex
	entries *[]Entry
	name    string
	fields  []Field
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (r *Recorder) Debug(msg string, fields ...Field) { r.log(DebugLevel, msg, fields) }
func (r *Recorder) Info(msg string, fields ...Field)  { r.log(InfoLevel, msg, fields) }
func (r *Recorder) Warn(msg string, fields ...Field)  { r.log(WarnLevel, msg, fields) }
func (r *Recorder) Error(msg string, fields ...Field) { r.log(ErrorLevel, msg, fields) }

// With returns a recorder sharing the same entries with extra fields.
func (r *Recorder) With(fields ...Field) Logger {
	c := *r
	c.fields = append(append([]Field(nil), r.fields...), fields...)
	return &c
}

// Named returns a recorder sharing the same entries under a dotted name.
func (r *Recorder) Named(name string) Logger {
	c := *r
	if c.name == "" {
		c.name = name
	} else {
		c.name += "." + name
	}
	return &c
}

func (r *Recorder) Sync() error { return nil }

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), (*r.entries)...)
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []string {
	entries := r.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func (r *Recorder) log(level Level, msg string, fields []Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range r.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, Entry{Level: level, Name: r.name, Message: msg, Fields: enc.Fields})
}
