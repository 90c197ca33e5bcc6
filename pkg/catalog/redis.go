package catalog

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	"github.com/matzehuels/jeweler/pkg/observability"
)

const (
	redisBackend = "redis"

	// maxTxRetries bounds optimistic-locking retries in Put.
	maxTxRetries = 8
)

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps one JSON-encoded record per key in Redis. Put uses
// WATCH/MULTI so concurrent writers never replace a better record.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := ping(ctx, pingAttempts, pingDelay, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		client.Close()
		return nil, jerrors.Wrap(jerrors.ErrCodeNetwork, err, "connect to redis at %s", cfg.Addr)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client. The store takes
// ownership and closes it in Close.
func NewRedisStoreFromClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get retrieves the record stored under key.
func (s *RedisStore) Get(ctx context.Context, key Key) (*Record, error) {
	rec, err := s.get(ctx, s.client, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		observability.Catalog().OnCatalogMiss(ctx, redisBackend)
		return nil, NotInCatalog(key)
	}
	observability.Catalog().OnCatalogHit(ctx, redisBackend)
	return rec, nil
}

// Put stores rec if it beats the stored score.
func (s *RedisStore) Put(ctx context.Context, rec Record) (bool, error) {
	rec, err := prepare(rec)
	if err != nil {
		return false, err
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return false, err
	}
	name := rec.Key().String()

	var improved bool
	txf := func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, rec.Key())
		if err != nil {
			return err
		}
		improved = improves(current, rec)
		if !improved {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, name, data, 0)
			return nil
		})
		return err
	}

	for range maxTxRetries {
		err := s.client.Watch(ctx, txf, name)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return false, wrapRedis(err, "put %s", name)
		}
		observability.Catalog().OnCatalogPut(ctx, redisBackend, improved)
		return improved, nil
	}
	return false, jerrors.New(jerrors.ErrCodeNetwork, "put %s: too many concurrent writers", name)
}

// List scans the keys of one length, or of all lengths when length is 0.
func (s *RedisStore) List(ctx context.Context, length int) ([]Record, error) {
	var recs []Record
	iter := s.client.Scan(ctx, 0, lengthPattern(length), 100).Iterator()
	for iter.Next(ctx) {
		key, err := ParseKey(iter.Val())
		if err != nil {
			continue
		}
		rec, err := s.get(ctx, s.client, key)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			recs = append(recs, *rec)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, wrapRedis(err, "scan catalog keys")
	}
	sortRecords(recs)
	return recs, nil
}

// Delete removes the record stored under key.
func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, key.String()).Err(); err != nil {
		return wrapRedis(err, "delete %s", key)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// getter is satisfied by both clients and transactions.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// get reads one record through cmd, returning nil when the key is unset.
func (s *RedisStore) get(ctx context.Context, cmd getter, key Key) (*Record, error) {
	data, err := cmd.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapRedis(err, "get %s", key)
	}
	return decodeRecord(data)
}

func wrapRedis(err error, format string, args ...any) error {
	return jerrors.Wrap(jerrors.ErrCodeNetwork, err, format, args...)
}

// encodeRecord is the wire format shared by the Redis store and exports.
func encodeRecord(rec Record) ([]byte, error) {
	return json.Marshal(rec)
}

func decodeRecord(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeInvalidFormat, err, "decode catalog record")
	}
	return &rec, nil
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
