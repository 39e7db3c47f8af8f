package mock

import (
	"context"

	"github.com/jbekker/capescout"
)

var _ capescout.Limiter = (*Limiter)(nil)

// Limiter is a mock implementation of capescout.Limiter.
type Limiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}
