package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/pukpuklouis/blackliving-backend/internal/orders"
	"github.com/pukpuklouis/blackliving-backend/pkg/enums"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
)

const defaultPendingPaymentAge = 2 * time.Hour

// stuckPaymentCounter reports orders stuck before payment, grouped by method.
type stuckPaymentCounter interface {
	CountStuckPayments(ctx context.Context, olderThan time.Time) ([]orders.PendingPaymentCount, error)
}

// stuckGauge publishes the per-method stuck counts.
type stuckGauge interface {
	SetStuckPayments(method string, count int)
}

// PendingPaymentJobParams configure the pending payment monitor.
type PendingPaymentJobParams struct {
	Logger  *logger.Logger
	Counter stuckPaymentCounter
	Gauge   stuckGauge
	MaxAge  time.Duration
}

// NewPendingPaymentJob builds the job that surfaces orders stuck in pending
// or initiation_failed payment states. It observes and alerts only; it never
// touches order state.
func NewPendingPaymentJob(params PendingPaymentJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Counter == nil {
		return nil, fmt.Errorf("stuck payment counter required")
	}
	if params.Gauge == nil {
		return nil, fmt.Errorf("stuck payment gauge required")
	}
	maxAge := params.MaxAge
	if maxAge <= 0 {
		maxAge = defaultPendingPaymentAge
	}
	return &pendingPaymentJob{
		logg:    params.Logger,
		counter: params.Counter,
		gauge:   params.Gauge,
		maxAge:  maxAge,
		now:     time.Now,
	}, nil
}

type pendingPaymentJob struct {
	logg    *logger.Logger
	counter stuckPaymentCounter
	gauge   stuckGauge
	maxAge  time.Duration
	now     func() time.Time
}

func (j *pendingPaymentJob) Name() string { return "pending-payment-monitor" }

func (j *pendingPaymentJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.maxAge)
	counts, err := j.counter.CountStuckPayments(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("count stuck payments: %w", err)
	}

	// Zero every gateway method first so counts that dropped to zero
	// do not linger on the gauge.
	for _, method := range []enums.PaymentMethod{
		enums.PaymentMethodCreditCard,
		enums.PaymentMethodVirtualAccount,
		enums.PaymentMethodApplePay,
		enums.PaymentMethodGooglePay,
	} {
		j.gauge.SetStuckPayments(method.String(), 0)
	}

	total := 0
	for _, row := range counts {
		j.gauge.SetStuckPayments(row.Method.String(), row.Count)
		total += row.Count
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"method": row.Method.String(),
			"count":  row.Count,
		})
		j.logg.Warn(logCtx, "orders stuck before payment")
	}

	logCtx := j.logg.WithField(ctx, "total", total)
	j.logg.Info(logCtx, "pending payment sweep complete")
	return nil
}
