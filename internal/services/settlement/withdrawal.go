package settlement

import (
	"context"
	"errors"
	"log"
	"time"

	"pixpay/internal/models"
	"pixpay/internal/repositories"
)

type WithdrawalEngine struct {
	store   repositories.Store
	metrics MetricsCollector
}

func NewWithdrawalEngine(store repositories.Store, metrics MetricsCollector) *WithdrawalEngine {
	if store == nil {
		panic("store is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &WithdrawalEngine{store: store, metrics: metrics}
}

// SettleWithdrawal marks a pending withdrawal paid with the gateway proof.
// Unknown and already paid withdrawals return false, nil and are left untouched.
func (e *WithdrawalEngine) SettleWithdrawal(ctx context.Context, id uint, proof string, isAffiliate bool) (bool, error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordOperationDuration(opSettleWithdrawal, time.Since(start))
	}()

	w, err := e.store.Withdrawals().GetByID(ctx, id, isAffiliate)
	if err != nil {
		if errors.Is(err, repositories.ErrWithdrawalNotFound) {
			e.metrics.RecordOperationResult(opSettleWithdrawal, "not_found")
			return false, nil
		}
		e.metrics.RecordError(opSettleWithdrawal, "lookup")
		return false, err
	}
	if w.Status == models.WithdrawalStatusPaid {
		e.metrics.RecordOperationResult(opSettleWithdrawal, "duplicate")
		log.Printf("[settlement] withdrawal %d (affiliate=%t) already paid, ignoring", id, isAffiliate)
		return false, nil
	}

	ok, err := e.store.Withdrawals().MarkPaid(ctx, id, proof, isAffiliate)
	if err != nil {
		e.metrics.RecordError(opSettleWithdrawal, "update")
		return false, err
	}
	if !ok {
		e.metrics.RecordOperationResult(opSettleWithdrawal, "duplicate")
		return false, nil
	}

	e.metrics.RecordOperationResult(opSettleWithdrawal, "paid")
	log.Printf("[settlement] withdrawal %d (affiliate=%t) paid, proof=%s", id, isAffiliate, proof)
	return true, nil
}
