// Package contact holds the public inquiry form and its submission lifecycle.
package contact

import (
	"context"
	"sync"
	"time"

	"coal-site/internal/site"
)

const (
	DefaultBudget   = "$5k - $10k"
	DefaultTimeline = "1-3 months"

	// RejectedMessage is shown when a submission fails.
	RejectedMessage = "Something went wrong. Please try again."
)

// FallbackBudgets is offered when no budget options are configured.
var FallbackBudgets = []string{"$2k - $5k", "$5k - $10k", "$10k - $25k", "$25k+"}

var Timelines = []string{"< 1 month", "1-3 months", "3-6 months", "Flexible"}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusSending Status = "sending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type Form struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Budget   string `form:"budget" json:"budget"`
	Timeline string `form:"timeline" json:"timeline"`
	Message  string `form:"message" json:"message"`
}

// NewForm returns an empty form with the default selections.
func NewForm() Form {
	return Form{Budget: DefaultBudget, Timeline: DefaultTimeline}
}

// WithDefaults fills blank selections.
func (f Form) WithDefaults() Form {
	if f.Budget == "" {
		f.Budget = DefaultBudget
	}
	if f.Timeline == "" {
		f.Timeline = DefaultTimeline
	}
	return f
}

func (f Form) Inquiry() site.Inquiry {
	return site.Inquiry{
		Name:     f.Name,
		Email:    f.Email,
		Budget:   f.Budget,
		Timeline: f.Timeline,
		Message:  f.Message,
	}
}

// BudgetChoices returns the labels for the budget selector.
func BudgetChoices(opts []site.BudgetOption) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if d := o.Display(); d != "" {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return append([]string{}, FallbackBudgets...)
	}
	return out
}

// Submitter persists an inquiry.
type Submitter interface {
	SubmitInquiry(ctx context.Context, in site.Inquiry) (site.Inquiry, error)
}

// Submission tracks one visitor's form through idle, sending, success and
// error. Success reverts to idle once the reset delay has passed.
type Submission struct {
	mu         sync.Mutex
	form       Form
	status     Status
	err        error
	succeeded  time.Time
	resetDelay time.Duration
	now        func() time.Time
}

type Option func(*Submission)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Submission) { s.now = now }
}

func NewSubmission(resetDelay time.Duration, opts ...Option) *Submission {
	s := &Submission{
		form:       NewForm(),
		status:     StatusIdle,
		resetDelay: resetDelay,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Restore rebuilds a submission that last succeeded at the given time.
func Restore(resetDelay time.Duration, succeededAt time.Time, opts ...Option) *Submission {
	s := NewSubmission(resetDelay, opts...)
	if !succeededAt.IsZero() {
		s.status = StatusSuccess
		s.succeeded = succeededAt
	}
	return s
}

// Status reports the current state, applying the success timeout.
func (s *Submission) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire()
	return s.status
}

func (s *Submission) expire() {
	if s.status == StatusSuccess && !s.now().Before(s.succeeded.Add(s.resetDelay)) {
		s.status = StatusIdle
	}
}

func (s *Submission) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Submission) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Submission) SucceededAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.succeeded
}

// Set replaces the entered values.
func (s *Submission) Set(f Form) {
	s.mu.Lock()
	s.form = f.WithDefaults()
	s.mu.Unlock()
}

// Submit sends the current form. On success the fields reset to their
// defaults; on failure they are kept and the status becomes error.
func (s *Submission) Submit(ctx context.Context, sub Submitter) error {
	s.mu.Lock()
	s.expire()
	if s.status == StatusSending {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusSending
	s.err = nil
	form := s.form
	s.mu.Unlock()

	_, err := sub.SubmitInquiry(ctx, form.Inquiry())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusError
		s.err = err
		return err
	}
	s.status = StatusSuccess
	s.succeeded = s.now()
	s.form = NewForm()
	return nil
}
