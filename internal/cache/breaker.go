package cache

import (
	"context"
	"time"

	"optibill-backend/internal/pkg/breaker"
)

// WithBreaker wraps a backend so a persistently failing cache is
// short-circuited instead of adding its timeout to every read. ErrMiss is
// a normal outcome and counts as success.
func WithBreaker(b Backend, br *breaker.Breaker) Backend {
	return &breakered{next: b, br: br}
}

type breakered struct {
	next Backend
	br   *breaker.Breaker
}

func (c *breakered) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.br.Allow(); err != nil {
		return nil, err
	}
	payload, err := c.next.Get(ctx, key)
	c.report(err)
	return payload, err
}

func (c *breakered) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.br.Allow(); err != nil {
		return err
	}
	err := c.next.Set(ctx, key, payload, ttl)
	c.report(err)
	return err
}

func (c *breakered) Delete(ctx context.Context, key string) error {
	if err := c.br.Allow(); err != nil {
		return err
	}
	err := c.next.Delete(ctx, key)
	c.report(err)
	return err
}

func (c *breakered) report(err error) {
	if err == nil || err == ErrMiss {
		c.br.Success()
		return
	}
	c.br.Failure()
}
