package log

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/flightrig/fsuipcgen/ini"
)

// RecordLogger mirrors written INI entries with optional file output.
type RecordLogger interface {
	Log(r ini.Record)
}

// recordLogger implements RecordLogger with thread-safe log.
type recordLogger struct {
	w   io.Writer
	mu  sync.Mutex
	now func() time.Time
}

// NewRecords creates a new RecordLogger. If writer is nil, returns a no-op
// logger.
func NewRecords(w io.Writer) RecordLogger {
	return &recordLogger{w: w, now: time.Now}
}

// Log emits a single line with timestamp, section and the entry as written.
func (r *recordLogger) Log(rec ini.Record) {
	if r.w == nil {
		return
	}

	line := fmt.Sprintf("%s [%s] %s\n",
		r.now().Format("2006/01/02 15:04:05"),
		rec.Section,
		rec.String())

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}
