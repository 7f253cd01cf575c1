package server

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Submission is one accepted form post.
type Submission struct {
	ID         string         `json:"id"`
	Form       string         `json:"form"`
	Values     map[string]any `json:"values"`
	ReceivedAt time.Time      `json:"receivedAt"`
}

// Sink records accepted submissions. A returned error is reported to the
// client as a failed submission; the form is not re-validated.
type Sink interface {
	Record(ctx context.Context, submission Submission) error
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(ctx context.Context, submission Submission) error

// Record calls the underlying function.
func (fn SinkFunc) Record(ctx context.Context, submission Submission) error {
	return fn(ctx, submission)
}

// MemorySink keeps submissions in memory, in arrival order.
type MemorySink struct {
	mu    sync.Mutex
	items []Submission
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record appends a copy of the submission.
func (s *MemorySink) Record(_ context.Context, submission Submission) error {
	submission.Values = model.CloneValues(submission.Values)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, submission)
	return nil
}

// Submissions returns the recorded submissions for the given form, or all of
// them when form is empty.
func (s *MemorySink) Submissions(form string) []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Submission, 0, len(s.items))
	for _, item := range s.items {
		if form != "" && item.Form != form {
			continue
		}
		item.Values = model.CloneValues(item.Values)
		out = append(out, item)
	}
	return out
}
