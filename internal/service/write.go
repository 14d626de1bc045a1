package service

import (
	"context"
	"errors"
	"time"

	"optibill-backend/internal/cache"
	"optibill-backend/internal/domain"
	"optibill-backend/internal/pkg/retry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateOrder stores a new order in the caller's scope, assigning the next
// bill number for its branch. The unique (branch, billNo) index turns a
// concurrent assignment race into ErrConflict, which is retried once with a
// fresh read of the latest bill number.
func (s *Service) CreateOrder(ctx context.Context, scope domain.Scope, o *domain.Order) (*domain.Order, error) {
	if err := validateCreate(o); err != nil {
		return nil, err
	}
	if !scope.Contains(o.BranchID) {
		return nil, domain.ErrForbidden
	}
	if err := o.ComputeTotal(); err != nil {
		return nil, err
	}
	o.ID = uuid.NewString()

	t0 := time.Now()
	err := retry.Do(ctx, s.createRetry,
		func(err error) bool { return errors.Is(err, domain.ErrConflict) },
		func() error {
			latest, err := s.repo.FindLatestByBranch(ctx, o.BranchID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				o.BillNo = 1
			case err != nil:
				return err
			default:
				o.BillNo = latest.BillNo + 1
			}
			return s.repo.Insert(ctx, o)
		})
	if err != nil {
		s.logger.Error("create order failed",
			zap.String("branch_id", o.BranchID),
			zap.Error(err),
		)
		return nil, err
	}
	s.metrics.ObserveWrite("create", msSince(t0))
	s.logger.Info("order created",
		zap.String("branch_id", o.BranchID),
		zap.Int("bill_no", o.BillNo),
	)

	// A new order is pending, so both listing views are stale now.
	s.invalidate(ctx,
		cache.AllOrdersKey(scope),
		cache.PendingOrdersKey(scope),
	)
	return o, nil
}

// UpdateOrder applies a whitelisted partial patch. Any field change could
// move the record in or out of any cached view, so all four keys go.
func (s *Service) UpdateOrder(ctx context.Context, scope domain.Scope, billNo int, patch domain.OrderPatch) (*domain.Order, error) {
	if billNo <= 0 {
		return nil, domain.NewValidationError("billNo", "must be a positive number")
	}
	if scope.IsEmpty() {
		return nil, domain.ErrNotFound
	}
	// Payment fields move only through UpdatePaymentStatus.
	patch.PaymentStatus = nil
	patch.PaymentType = nil

	t0 := time.Now()
	o, err := s.repo.UpdateOne(ctx, scope, billNo, patch, false)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveWrite("update", msSince(t0))

	s.invalidate(ctx,
		cache.AllOrdersKey(scope),
		cache.OrderKey(scope, billNo),
		cache.PendingOrdersKey(scope),
		cache.PendingOrderKey(scope, billNo),
	)
	return o, nil
}

// UpdatePaymentStatus moves a pending order to completed, attaching the
// payment type.
func (s *Service) UpdatePaymentStatus(ctx context.Context, scope domain.Scope, billNo int, status, paymentType string) (*domain.Order, error) {
	if billNo <= 0 {
		return nil, domain.NewValidationError("billNo", "must be a positive number")
	}
	parsedStatus, err := domain.ParsePaymentStatus(status)
	if err != nil {
		return nil, err
	}
	if parsedStatus != domain.PaymentCompleted {
		return nil, domain.NewValidationError("paymentStatus", "only the pending to completed transition is supported")
	}
	parsedType, err := domain.ParsePaymentType(paymentType)
	if err != nil {
		return nil, err
	}
	if scope.IsEmpty() {
		return nil, domain.ErrNotFound
	}

	// Only pending orders transition; completed ones look not-found, same
	// as out-of-scope ones. The pending predicate rides inside the update
	// transaction, so a transition racing another completion cannot
	// overwrite the payment type the winner recorded.
	t0 := time.Now()
	o, err := s.repo.UpdateOne(ctx, scope, billNo, domain.OrderPatch{
		PaymentStatus: &parsedStatus,
		PaymentType:   &parsedType,
	}, true)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveWrite("paymentStatus", msSince(t0))
	s.logger.Info("payment completed",
		zap.String("branch_id", o.BranchID),
		zap.Int("bill_no", billNo),
		zap.String("payment_type", paymentType),
	)

	s.invalidate(ctx,
		cache.PendingOrdersKey(scope),
		cache.PendingOrderKey(scope, billNo),
		cache.OrderKey(scope, billNo),
	)
	return o, nil
}

func (s *Service) DeleteOrder(ctx context.Context, scope domain.Scope, billNo int) error {
	if billNo <= 0 {
		return domain.NewValidationError("billNo", "must be a positive number")
	}
	if scope.IsEmpty() {
		return domain.ErrNotFound
	}

	t0 := time.Now()
	deleted, err := s.repo.DeleteOne(ctx, scope, billNo)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	s.metrics.ObserveWrite("delete", msSince(t0))

	s.invalidate(ctx,
		cache.AllOrdersKey(scope),
		cache.OrderKey(scope, billNo),
		cache.PendingOrdersKey(scope),
		cache.PendingOrderKey(scope, billNo),
	)
	return nil
}

// invalidate purges stale keys after a committed write. Failures are
// logged, never propagated: the write already happened, and staleness is
// bounded by the TTL anyway.
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		cctx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
		err := s.cache.Delete(cctx, key)
		cancel()
		if err != nil {
			s.logger.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.ObserveInvalidation(key, err == nil)
	}

	if s.events != nil {
		if err := s.events.PublishInvalidation(ctx, keys); err != nil {
			s.logger.Warn("invalidation fan-out failed", zap.Error(err))
		}
	}
}

func validateCreate(o *domain.Order) error {
	switch {
	case o == nil:
		return domain.NewValidationError("order", "missing body")
	case o.BranchID == "":
		return domain.NewValidationError("branchId", "required")
	case o.Name == "":
		return domain.NewValidationError("name", "required")
	case o.Contact == "":
		return domain.NewValidationError("contact", "required")
	case o.Date == "":
		return domain.NewValidationError("date", "required")
	}

	if o.PaymentStatus == "" {
		o.PaymentStatus = domain.PaymentPending
	} else if _, err := domain.ParsePaymentStatus(string(o.PaymentStatus)); err != nil {
		return err
	}
	if o.PaymentType != "" {
		if _, err := domain.ParsePaymentType(string(o.PaymentType)); err != nil {
			return err
		}
	}
	return nil
}
