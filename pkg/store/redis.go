package store

import (
	"context"
	goerrors "errors"
	"io"
	"net"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/etchgrid/pkg/cache"
	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/observability"
)

// DefaultRedisPrefix namespaces sketch keys.
const DefaultRedisPrefix = "etchgrid:sketch:"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string

	// DialTimeout bounds the initial ping. Zero means 5s.
	DialTimeout time.Duration
}

// RedisStore keeps each record under prefix+name and the set of names
// under prefix+"_index".
type RedisStore struct {
	client *redis.Client
	prefix string
	retry  cache.RetryPolicy
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "redis address is required")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultRedisPrefix
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", cfg.Addr)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, retry: cache.DefaultRetryPolicy}
}

func (s *RedisStore) Backend() string { return "redis" }

func (s *RedisStore) key(name string) string { return s.prefix + name }
func (s *RedisStore) indexKey() string       { return s.prefix + "_index" }

func (s *RedisStore) Save(ctx context.Context, rec Record) (err error) {
	defer func() { observability.Store().OnSave(ctx, s.Backend(), rec.Size, err) }()

	rec, err = prepare(rec)
	if err != nil {
		return err
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	err = s.do(ctx, func() error {
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key(rec.Name), data, 0)
			pipe.SAdd(ctx, s.indexKey(), rec.Name)
			return nil
		})
		return err
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "save sketch %q", rec.Name)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (rec Record, err error) {
	defer func() { reportLoad(ctx, s.Backend(), err) }()

	if err := errors.ValidateSketchName(name); err != nil {
		return Record{}, err
	}
	var data []byte
	err = s.do(ctx, func() error {
		var err error
		data, err = s.client.Get(ctx, s.key(name)).Bytes()
		return err
	})
	if goerrors.Is(err, redis.Nil) {
		return Record{}, notFound(name)
	}
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeNetwork, err, "load sketch %q", name)
	}
	return decodeRecord(data)
}

func (s *RedisStore) Delete(ctx context.Context, name string) (err error) {
	defer func() { observability.Store().OnDelete(ctx, s.Backend(), err) }()

	if err := errors.ValidateSketchName(name); err != nil {
		return err
	}
	var removed int64
	err = s.do(ctx, func() error {
		var del *redis.IntCmd
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			del = pipe.Del(ctx, s.key(name))
			pipe.SRem(ctx, s.indexKey(), name)
			return nil
		})
		if err != nil {
			return err
		}
		removed = del.Val()
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete sketch %q", name)
	}
	if removed == 0 {
		return notFound(name)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	err := s.do(ctx, func() error {
		var err error
		names, err = s.client.SMembers(ctx, s.indexKey()).Result()
		return err
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list sketches")
	}
	sort.Strings(names)
	return names, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

// do runs fn under the retry policy, retrying only transport failures.
func (s *RedisStore) do(ctx context.Context, fn func() error) error {
	return s.retry.Do(ctx, func() error {
		err := fn()
		if isTransient(err) {
			return cache.Retryable(err)
		}
		return err
	})
}

func isTransient(err error) bool {
	if err == nil || goerrors.Is(err, redis.Nil) {
		return false
	}
	if goerrors.Is(err, context.Canceled) || goerrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return goerrors.As(err, &netErr) || goerrors.Is(err, io.EOF)
}

var _ Store = (*RedisStore)(nil)
