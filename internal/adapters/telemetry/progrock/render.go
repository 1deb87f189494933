package progrock

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"github.com/vito/progrock"
)

var _ progrock.Writer = (*LineWriter)(nil)

// LineWriter renders vertex updates as chronological lines, one when a vertex is first seen and
// one when it completes. It suits terminals and CI logs alike.
type LineWriter struct {
	w      io.Writer
	output *termenv.Output

	mu       sync.Mutex
	started  map[string]bool
	finished map[string]bool
}

// NewLineWriter creates a LineWriter printing to w.
func NewLineWriter(w io.Writer) *LineWriter {
	profile := termenv.ANSI
	if os.Getenv("NO_COLOR") != "" {
		profile = termenv.Ascii
	}
	return &LineWriter{
		w:        w,
		output:   termenv.NewOutput(w, termenv.WithProfile(profile)),
		started:  make(map[string]bool),
		finished: make(map[string]bool),
	}
}

// WriteStatus prints the state changes carried by u.
func (l *LineWriter) WriteStatus(u *progrock.StatusUpdate) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, v := range u.GetVertexes() {
		id := v.GetId()
		prefix := l.output.String(fmt.Sprintf("[%s]", v.GetName())).Faint().String()

		if !l.started[id] {
			l.started[id] = true
			if _, err := fmt.Fprintf(l.w, "%s Starting...\n", prefix); err != nil {
				return err
			}
		}

		if v.GetCompleted() == nil || l.finished[id] {
			continue
		}
		l.finished[id] = true

		var took string
		if v.GetStarted() != nil {
			took = v.GetCompleted().AsTime().Sub(v.GetStarted().AsTime()).String()
		}

		var err error
		if msg := v.GetError(); msg != "" {
			symbol := l.output.String("✗").Foreground(termenv.ANSIRed).String()
			if took != "" {
				took = " after " + took
			}
			_, err = fmt.Fprintf(l.w, "%s %s Failed%s: %s\n", prefix, symbol, took, msg)
		} else {
			symbol := l.output.String("✓").Foreground(termenv.ANSIGreen).String()
			if took != "" {
				took = " in " + took
			}
			_, err = fmt.Fprintf(l.w, "%s %s Completed%s\n", prefix, symbol, took)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Close forgets completed vertices. The underlying writer stays open.
func (l *LineWriter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id := range l.finished {
		delete(l.started, id)
		delete(l.finished, id)
	}
	return nil
}
