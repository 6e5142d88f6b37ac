package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Simulator stands in for a payment gateway. Every request passes unless
// Decline names a reason.
type Simulator struct {
	Delay   time.Duration
	Decline func(Request) string
}

func (s *Simulator) Pay(ctx context.Context, r Request) (Outcome, error) {
	if err := ValidateRequest(r); err != nil {
		return Outcome{}, err
	}
	if err := sleep(ctx, s.Delay); err != nil {
		return Outcome{}, err
	}
	if s.Decline != nil {
		if reason := s.Decline(r); reason != "" {
			return Outcome{Status: StatusFailed, Reason: reason}, nil
		}
	}
	return Outcome{Status: StatusSucceeded, Reference: "sim_" + uuid.NewString()}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
