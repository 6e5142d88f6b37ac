package payment

import (
	"context"
	"sync"
	"time"

	"goldmart/internal/domain"
)

type Step string

const (
	StepCollecting Step = "collecting-input"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
	StepFailed     Step = "failed"
)

// Modal is one pay dialog: collecting-input -> processing -> success|failed.
// After success it waits successDelay and then runs onSuccess.
type Modal struct {
	mu           sync.Mutex
	provider     Provider
	successDelay time.Duration
	onSuccess    func(context.Context, Request, Outcome) error
	step         Step
	outcome      Outcome
}

func NewModal(p Provider, successDelay time.Duration, onSuccess func(context.Context, Request, Outcome) error) *Modal {
	return &Modal{provider: p, successDelay: successDelay, onSuccess: onSuccess, step: StepCollecting}
}

func (m *Modal) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

func (m *Modal) Outcome() Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome
}

// Submit validates the input and runs the payment. Invalid input keeps the
// modal collecting; a failed outcome parks it in failed until Reset.
func (m *Modal) Submit(ctx context.Context, r Request) (Outcome, error) {
	m.mu.Lock()
	if m.step != StepCollecting {
		step := m.step
		m.mu.Unlock()
		return Outcome{}, domain.ErrConflict("payment is " + string(step))
	}
	if err := ValidateRequest(r); err != nil {
		m.mu.Unlock()
		return Outcome{}, err
	}
	m.step = StepProcessing
	m.mu.Unlock()

	out, err := m.provider.Pay(ctx, r)
	if err != nil {
		m.finish(StepFailed, Outcome{Status: StatusFailed, Reason: err.Error()})
		return Outcome{}, err
	}
	if !out.Succeeded() {
		m.finish(StepFailed, out)
		return out, nil
	}
	m.finish(StepSuccess, out)

	// The money has moved; a caller that goes away must not stop the callback.
	ctx = context.WithoutCancel(ctx)
	if err := sleep(ctx, m.successDelay); err != nil {
		return out, err
	}
	if m.onSuccess != nil {
		if err := m.onSuccess(ctx, r, out); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Reset reopens a failed modal for another attempt.
func (m *Modal) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.step == StepFailed {
		m.step = StepCollecting
		m.outcome = Outcome{}
	}
}

func (m *Modal) finish(s Step, o Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = s
	m.outcome = o
}
