package metrics

import (
	"context"
	"time"
)

// Noop discards everything. Used in tests and when metrics are disabled.
type Noop struct{}

var (
	_ OperationMetrics    = Noop{}
	_ RegistrationMetrics = Noop{}
)

func NewNoop() Noop { return Noop{} }

func (Noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (Noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (Noop) RecordOperationFailure(context.Context, string, string)                 {}
func (Noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (Noop) RecordTransition(context.Context, string)                               {}
func (Noop) SetCounterDrift(int64, int)                                             {}
