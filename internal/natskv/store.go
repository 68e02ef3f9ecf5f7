// Package natskv implements kv.Store on a NATS JetStream key-value bucket.
package natskv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/appetiteclub/pos/internal/kv"
	"github.com/aquamarinepk/aqm"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type Store struct {
	conn   *nats.Conn
	bucket jetstream.KeyValue
	logger aqm.Logger
	config *aqm.Config
}

func NewStore(config *aqm.Config, logger aqm.Logger) *Store {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Store{
		logger: logger,
		config: config,
	}
}

func (s *Store) Start(ctx context.Context) error {
	url := s.config.GetStringOrDef("nats.url", nats.DefaultURL)
	bucket := s.config.GetStringOrDef("nats.kv.bucket", "pos")

	conn, err := nats.Connect(url)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("cannot open JetStream: %w", err)
	}

	kvb, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "POS collections",
		History:     1,
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("cannot open key-value bucket %s: %w", bucket, err)
	}

	s.conn = conn
	s.bucket = kvb

	s.logger.Infof("Connected to NATS KV: %s, bucket: %s", url, bucket)
	return nil
}

func (s *Store) Stop(ctx context.Context) error {
	if s.conn != nil {
		if err := s.conn.Drain(); err != nil {
			return fmt.Errorf("cannot drain NATS connection: %w", err)
		}
		s.logger.Info("Disconnected from NATS KV")
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection string) ([]byte, error) {
	entry, err := s.bucket.Get(ctx, Key(collection))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot get %s: %w", collection, err)
	}
	return entry.Value(), nil
}

func (s *Store) Set(ctx context.Context, collection string, data []byte) error {
	if _, err := s.bucket.Put(ctx, Key(collection), data); err != nil {
		return fmt.Errorf("cannot put %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, collection string) (bool, error) {
	_, err := s.bucket.Get(ctx, Key(collection))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cannot check %s: %w", collection, err)
	}
	return true, nil
}

// Update writes against the revision it read and retries on a stale revision.
func (s *Store) Update(ctx context.Context, collection string, fn kv.UpdateFunc) error {
	return kv.RetryOnConflict(ctx, kv.MaxUpdateAttempts, func(ctx context.Context) error {
		return s.updateOnce(ctx, collection, fn)
	})
}

func (s *Store) updateOnce(ctx context.Context, collection string, fn kv.UpdateFunc) error {
	key := Key(collection)

	var (
		current  []byte
		revision uint64
	)

	entry, err := s.bucket.Get(ctx, key)
	switch {
	case errors.Is(err, jetstream.ErrKeyNotFound):
	case err != nil:
		return fmt.Errorf("cannot get %s: %w", collection, err)
	default:
		current = entry.Value()
		revision = entry.Revision()
	}

	next, err := fn(current)
	if errors.Is(err, kv.ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	if revision == 0 {
		_, err = s.bucket.Create(ctx, key, next)
	} else {
		_, err = s.bucket.Update(ctx, key, next, revision)
	}

	if isConflict(err) {
		return kv.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("cannot update %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection string) error {
	err := s.bucket.Delete(ctx, Key(collection))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("cannot delete %s: %w", collection, err)
	}
	return nil
}

// Key maps a collection name onto the bucket key alphabet, which has no ':'.
func Key(collection string) string {
	return strings.ReplaceAll(collection, ":", ".")
}

func isConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	var apiErr *jetstream.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
	}
	return false
}
