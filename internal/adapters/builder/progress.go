package builder

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

// progressWriter turns the sideband progress output of a git clone into
// progress records. git redraws a line with '\r', so both '\r' and '\n'
// end a record.
type progressWriter struct {
	activity string
	out      domain.StreamWriter
	buf      bytes.Buffer
}

func newProgressWriter(activity string, out domain.StreamWriter) *progressWriter {
	return &progressWriter{activity: activity, out: out}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\r' || b == '\n' {
			w.emit()
			continue
		}
		w.buf.WriteByte(b)
	}
	return len(p), nil
}

// Flush emits whatever partial line is buffered.
func (w *progressWriter) Flush() {
	w.emit()
}

func (w *progressWriter) emit() {
	line := strings.TrimSpace(w.buf.String())
	w.buf.Reset()
	if line == "" {
		return
	}
	w.out.Progress(domain.ProgressRecord{
		Activity:          w.activity,
		StatusDescription: line,
		PercentComplete:   percentOf(line),
	})
}

// percentOf returns the first "NN%" figure in line, or -1.
func percentOf(line string) int {
	for _, field := range strings.Fields(line) {
		field = strings.TrimSuffix(field, ",")
		if !strings.HasSuffix(field, "%") {
			continue
		}
		if pct, err := strconv.Atoi(strings.TrimSuffix(field, "%")); err == nil && pct >= 0 && pct <= 100 {
			return pct
		}
	}
	return -1
}
