package kv

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connection errors.
var (
	ErrEmptyConnectionURL = errors.New("kv: empty redis connection URL")
	ErrInvalidURL         = errors.New("kv: failed to parse redis connection URL")
	ErrConnectionFailed   = errors.New("kv: failed to establish redis connection")
	ErrHealthcheckFailed  = errors.New("kv: redis healthcheck failed")
)

// DialOption configures a Redis connection.
type DialOption func(*dialOptions)

type dialOptions struct {
	poolSize      int
	retryAttempts int
	retryInterval time.Duration
	readTimeout   time.Duration
	writeTimeout  time.Duration
	dialTimeout   time.Duration
}

func defaultDialOptions() *dialOptions {
	return &dialOptions{
		poolSize:      5,
		retryAttempts: 3,
		retryInterval: 2 * time.Second,
		readTimeout:   3 * time.Second,
		writeTimeout:  3 * time.Second,
		dialTimeout:   5 * time.Second,
	}
}

// WithPoolSize sets the maximum number of connections in the pool.
// Default: 5
func WithPoolSize(n int) DialOption {
	return func(o *dialOptions) {
		o.poolSize = n
	}
}

// WithRetry configures connection retry behavior.
// Default: 3 attempts, 2 second base interval with linear backoff.
func WithRetry(attempts int, interval time.Duration) DialOption {
	return func(o *dialOptions) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

// WithTimeouts sets dial, read and write timeouts.
// Zero values keep the defaults (5s dial, 3s read and write).
func WithTimeouts(dial, read, write time.Duration) DialOption {
	return func(o *dialOptions) {
		if dial > 0 {
			o.dialTimeout = dial
		}
		if read > 0 {
			o.readTimeout = read
		}
		if write > 0 {
			o.writeTimeout = write
		}
	}
}

// Dial opens a Redis client and verifies it with PING, retrying on failure.
// Supports both redis:// and rediss:// (TLS) URL schemes.
//
// Example:
//
//	client, err := kv.Dial(ctx, "redis://localhost:6379/0",
//	    kv.WithRetry(5, time.Second),
//	)
func Dial(ctx context.Context, url string, opts ...DialOption) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrInvalidURL
	}

	o := defaultDialOptions()
	for _, opt := range opts {
		opt(o)
	}

	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}

	redisOpts.PoolSize = o.poolSize
	redisOpts.ReadTimeout = o.readTimeout
	redisOpts.WriteTimeout = o.writeTimeout
	redisOpts.DialTimeout = o.dialTimeout

	return connect(ctx, redisOpts, o.retryAttempts, o.retryInterval)
}

func connect(ctx context.Context, opts *redis.Options, attempts int, interval time.Duration) (redis.UniversalClient, error) {
	attempts = max(attempts, 1)

	var lastErr error
	for i := range attempts {
		client := redis.NewClient(opts)

		lastErr = client.Ping(ctx).Err()
		if lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		if i == attempts-1 {
			break
		}
		if waitErr := sleep(ctx, time.Duration(i+1)*interval); waitErr != nil {
			return nil, errors.Join(ErrConnectionFailed, waitErr)
		}
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Healthcheck returns a probe that validates Redis connectivity.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown returns a hook that closes the client.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
