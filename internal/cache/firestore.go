package cache

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreConfig struct {
	ProjectID  string
	Collection string
}

// Firestore is the managed-service backend: one document per cache key,
// with an expiresAt field checked on read. Pointing the collection's TTL
// policy at expiresAt keeps stale documents from accumulating.
type Firestore struct {
	client     *firestore.Client
	collection string
	logger     *zap.Logger
}

type firestoreEntry struct {
	Payload   []byte    `firestore:"payload"`
	ExpiresAt time.Time `firestore:"expiresAt"`
}

func NewFirestore(client *firestore.Client, cfg FirestoreConfig, logger *zap.Logger) (*Firestore, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client is nil")
	}
	logger.Info("firestore cache backend ready",
		zap.String("project", cfg.ProjectID),
		zap.String("collection", cfg.Collection),
	)
	return &Firestore{client: client, collection: cfg.Collection, logger: logger}, nil
}

func (f *Firestore) Get(ctx context.Context, key string) ([]byte, error) {
	snap, err := f.client.Collection(f.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("firestore get %s: %w", key, err)
	}

	var entry firestoreEntry
	if err := snap.DataTo(&entry); err != nil {
		return nil, fmt.Errorf("firestore decode %s: %w", key, err)
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, ErrMiss
	}
	return entry.Payload, nil
}

func (f *Firestore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	_, err := f.client.Collection(f.collection).Doc(key).Set(ctx, firestoreEntry{
		Payload:   payload,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("firestore set %s: %w", key, err)
	}
	return nil
}

func (f *Firestore) Delete(ctx context.Context, key string) error {
	_, err := f.client.Collection(f.collection).Doc(key).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("firestore delete %s: %w", key, err)
	}
	return nil
}
