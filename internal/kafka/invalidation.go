package kafka

import (
	"context"
	"errors"
	"time"

	"optibill-backend/internal/cache"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// The in-process cache backend is per instance, so one instance's write
// cannot purge another's entries directly. Writes publish the deleted keys
// here and every instance's consumer applies the deletions locally. With a
// shared backend (redis, firestore) the fan-out is unnecessary.

// Publisher sends deleted cache keys to the invalidation topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
		logger: logger,
	}
}

func (p *Publisher) PublishInvalidation(ctx context.Context, keys []string) error {
	msgs := make([]kafkago.Message, 0, len(keys))
	for _, key := range keys {
		// Keying by the cache key keeps deletions for one key ordered.
		msgs = append(msgs, kafkago.Message{Key: []byte(key), Value: []byte(key)})
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Reader is the slice of kafka-go's reader the consumer needs; tests
// substitute a fake.
type Reader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Consumer applies published key deletions to the local cache backend.
type Consumer struct {
	reader  Reader
	backend cache.Backend
	logger  *zap.Logger
}

func NewConsumer(reader Reader, backend cache.Backend, logger *zap.Logger) *Consumer {
	return &Consumer{reader: reader, backend: backend, logger: logger}
}

// Start consumes until the context is canceled. A failed local delete
// leaves the message uncommitted so it is retried after a short backoff.
func (c *Consumer) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			c.logger.Warn("fetch invalidation message failed, backing off", zap.Error(err))
			sleepWithContext(ctx, 500*time.Millisecond)
			continue
		}

		key := string(msg.Value)
		if err := c.backend.Delete(ctx, key); err != nil {
			c.logger.Warn("apply invalidation failed, will retry",
				zap.String("key", key),
				zap.Error(err),
			)
			sleepWithContext(ctx, 200*time.Millisecond)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Warn("commit failed",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			sleepWithContext(ctx, 200*time.Millisecond)
			continue
		}

		c.logger.Debug("invalidation applied",
			zap.String("key", key),
			zap.Int64("offset", msg.Offset),
		)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
