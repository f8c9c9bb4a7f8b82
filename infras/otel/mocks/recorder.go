package mocks

import (
	"context"
	"sync"

	"labplanner/infras/otel"
)

// Recorder hands out scopes that keep every traced error.
type Recorder struct {
	mu     sync.Mutex
	traced []error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, &recordingScope{recorder: r}
}

// Traced returns the errors recorded so far, oldest first.
func (r *Recorder) Traced() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.traced...)
}

func (r *Recorder) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.traced = append(r.traced, err)
}

type recordingScope struct {
	scopeImpl
	recorder *Recorder
}

func (s *recordingScope) TraceError(err error) {
	s.recorder.record(err)
}

func (s *recordingScope) TraceIfError(err error) {
	if err != nil {
		s.recorder.record(err)
	}
}
