package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"optibill-backend/internal/cache"
	"optibill-backend/internal/domain"
	"optibill-backend/internal/observability"
	"optibill-backend/internal/pkg/retry"

	"go.uber.org/zap"
)

//go:generate mockgen -source internal/service/service.go -destination=internal/service/service_mock_test.go -package=service

// Backend mirrors cache.Backend so mocks can live in this package.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher fans deleted cache keys out to other instances. Only
// needed when the backend is per-process; nil disables it.
type EventPublisher interface {
	PublishInvalidation(ctx context.Context, keys []string) error
}

type Options struct {
	TTL          time.Duration
	CacheTimeout time.Duration
	CreateRetry  retry.Policy
	Events       EventPublisher
}

// Service is the branch-scoped read-through layer in front of the order
// store. Reads consult the cache first and repopulate it on miss; writes go
// to the store and then purge every key the write could have staled. The
// store is the source of truth throughout; the cache is never written in
// place on a mutation.
type Service struct {
	repo    domain.OrderRepository
	cache   Backend
	logger  *zap.Logger
	metrics observability.Metrics
	events  EventPublisher

	ttl          time.Duration
	cacheTimeout time.Duration
	createRetry  retry.Policy
}

func New(repo domain.OrderRepository, backend Backend, logger *zap.Logger, metrics observability.Metrics, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = cache.DefaultTTL
	}
	if opts.CacheTimeout <= 0 {
		opts.CacheTimeout = 200 * time.Millisecond
	}
	if opts.CreateRetry.Attempts < 1 {
		// One retry on a bill-number conflict before giving up.
		opts.CreateRetry = retry.Policy{Attempts: 2, Base: 10 * time.Millisecond, Max: 100 * time.Millisecond}
	}
	return &Service{
		repo:         repo,
		cache:        backend,
		logger:       logger,
		metrics:      metrics,
		events:       opts.Events,
		ttl:          opts.TTL,
		cacheTimeout: opts.CacheTimeout,
		createRetry:  opts.CreateRetry,
	}
}

func (s *Service) ListOrders(ctx context.Context, scope domain.Scope) ([]domain.Order, error) {
	orders, _, err := s.ListOrdersWithStats(ctx, scope)
	return orders, err
}

func (s *Service) ListOrdersWithStats(ctx context.Context, scope domain.Scope) ([]domain.Order, LookupStats, error) {
	return s.list(ctx, "allOrders", cache.AllOrdersKey(scope), scope, false)
}

func (s *Service) ListPendingPayments(ctx context.Context, scope domain.Scope) ([]domain.Order, error) {
	orders, _, err := s.ListPendingPaymentsWithStats(ctx, scope)
	return orders, err
}

func (s *Service) ListPendingPaymentsWithStats(ctx context.Context, scope domain.Scope) ([]domain.Order, LookupStats, error) {
	return s.list(ctx, "pendingPayments", cache.PendingOrdersKey(scope), scope, true)
}

func (s *Service) GetOrderByBillNo(ctx context.Context, scope domain.Scope, billNo int) (*domain.Order, error) {
	o, _, err := s.GetOrderByBillNoWithStats(ctx, scope, billNo)
	return o, err
}

func (s *Service) GetOrderByBillNoWithStats(ctx context.Context, scope domain.Scope, billNo int) (*domain.Order, LookupStats, error) {
	return s.getOne(ctx, "order", cache.OrderKey(scope, billNo), scope, billNo, false)
}

func (s *Service) GetPendingPaymentByBillNo(ctx context.Context, scope domain.Scope, billNo int) (*domain.Order, error) {
	o, _, err := s.GetPendingPaymentByBillNoWithStats(ctx, scope, billNo)
	return o, err
}

func (s *Service) GetPendingPaymentByBillNoWithStats(ctx context.Context, scope domain.Scope, billNo int) (*domain.Order, LookupStats, error) {
	return s.getOne(ctx, "pendingPayment", cache.PendingOrderKey(scope, billNo), scope, billNo, true)
}

// list serves a listing view cache-first. An empty result is a legitimate
// cacheable value: it is stored as [] and served without another store
// round trip.
func (s *Service) list(ctx context.Context, view, key string, scope domain.Scope, onlyPending bool) ([]domain.Order, LookupStats, error) {
	var st LookupStats
	if scope.IsEmpty() {
		return []domain.Order{}, st, nil
	}

	tCache := time.Now()
	if payload, ok := s.cacheGet(ctx, key); ok {
		var orders []domain.Order
		err := json.Unmarshal(payload, &orders)
		if err == nil {
			if orders == nil {
				orders = []domain.Order{}
			}
			st.Source = SourceCache
			st.CacheMs = msSince(tCache)
			s.metrics.IncCacheHit()
			s.metrics.ObserveLookup(view, string(SourceCache), st.CacheMs, 0)
			return orders, st, nil
		}
		s.dropCorrupt(ctx, key, err)
	}
	st.CacheMs = msSince(tCache)
	s.metrics.IncCacheMiss()

	tDB := time.Now()
	orders, err := s.repo.Find(ctx, scope, onlyPending)
	if err != nil {
		s.logger.Error("list query failed",
			zap.String("view", view),
			zap.String("scope", scope.Canonical()),
			zap.Error(err),
		)
		return nil, st, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	st.Source = SourceDB
	st.DBMs = msSince(tDB)

	s.cacheSet(ctx, key, orders)
	s.metrics.ObserveLookup(view, string(SourceDB), st.CacheMs, st.DBMs)
	return orders, st, nil
}

func (s *Service) getOne(ctx context.Context, view, key string, scope domain.Scope, billNo int, onlyPending bool) (*domain.Order, LookupStats, error) {
	var st LookupStats
	if billNo <= 0 {
		return nil, st, domain.NewValidationError("billNo", "must be a positive number")
	}
	if scope.IsEmpty() {
		return nil, st, domain.ErrNotFound
	}

	tCache := time.Now()
	if payload, ok := s.cacheGet(ctx, key); ok {
		var o domain.Order
		err := json.Unmarshal(payload, &o)
		if err == nil {
			st.Source = SourceCache
			st.CacheMs = msSince(tCache)
			s.metrics.IncCacheHit()
			s.metrics.ObserveLookup(view, string(SourceCache), st.CacheMs, 0)
			return &o, st, nil
		}
		s.dropCorrupt(ctx, key, err)
	}
	st.CacheMs = msSince(tCache)
	s.metrics.IncCacheMiss()

	tDB := time.Now()
	o, err := s.repo.FindOne(ctx, scope, billNo, onlyPending)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("lookup failed",
				zap.String("view", view),
				zap.Int("bill_no", billNo),
				zap.Error(err),
			)
		}
		return nil, st, err
	}
	st.Source = SourceDB
	st.DBMs = msSince(tDB)

	s.cacheSet(ctx, key, o)
	s.metrics.ObserveLookup(view, string(SourceDB), st.CacheMs, st.DBMs)
	return o, st, nil
}

// cacheGet treats every cache-layer failure as a miss: the cache is an
// optimization, never a reason to fail a read.
func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	cctx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	defer cancel()

	payload, err := s.cache.Get(cctx, key)
	if err == nil {
		return payload, true
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("cache get failed, falling through to store",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return nil, false
}

// cacheSet is fire-and-forget: a lost cache write must not fail the
// operation that produced the value.
func (s *Service) cacheSet(ctx context.Context, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}

	cctx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	defer cancel()
	if err := s.cache.Set(cctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) dropCorrupt(ctx context.Context, key string, err error) {
	s.logger.Warn("corrupt cache entry, dropping",
		zap.String("key", key),
		zap.Error(err),
	)
	cctx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	defer cancel()
	_ = s.cache.Delete(cctx, key)
}
