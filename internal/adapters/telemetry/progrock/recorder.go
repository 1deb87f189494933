// Package progrock reports compile task progress through a progrock recorder.
package progrock

import (
	"context"
	"io"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Notifier = (*Recorder)(nil)

// Recorder implements ports.Notifier by recording one progrock vertex per compile task.
// A vertex starts with the TaskStart notification and completes with the matching TaskFinish.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu       sync.Mutex
	vertices map[string]*progrock.VertexRecorder
}

// New creates a new Recorder rendering task progress to w.
func New(w io.Writer) *Recorder {
	return NewRecorder(NewLineWriter(w))
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:        w,
		rec:      progrock.NewRecorder(w),
		vertices: make(map[string]*progrock.VertexRecorder),
	}
}

// Notify records the task notification n.
func (r *Recorder) Notify(_ context.Context, n domain.Notification) error {
	switch p := n.(type) {
	case domain.TaskStartParams:
		r.start(p)
	case domain.TaskFinishParams:
		r.finish(p)
	}
	return nil
}

func (r *Recorder) start(p domain.TaskStartParams) {
	name := p.Message
	if name == "" {
		name = p.Data.Target.URI
	}
	v := r.rec.Vertex(digest.FromString(p.TaskID.ID), name)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.vertices[p.TaskID.ID] = v
}

func (r *Recorder) finish(p domain.TaskFinishParams) {
	r.mu.Lock()
	v, ok := r.vertices[p.TaskID.ID]
	delete(r.vertices, p.TaskID.ID)
	r.mu.Unlock()

	if !ok {
		return
	}
	if p.Status.OK() {
		v.Done(nil)
		return
	}
	v.Done(zerr.With(zerr.New("compile failed"), "target", p.Data.Target.URI))
}

// Pending returns the number of started tasks without a finish notification.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.vertices)
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.w.Close()
}
