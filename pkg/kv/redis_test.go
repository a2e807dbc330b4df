package kv_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/kv"
)

func TestRedis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("get with prefix", func(t *testing.T) {
		t.Parallel()

		client, mock := redismock.NewClientMock()
		mock.ExpectGet("polyglot:lang").SetVal("fr")

		v, err := kv.NewRedis(client, kv.WithPrefix("polyglot")).Get(ctx, "lang")
		require.NoError(t, err)
		require.Equal(t, "fr", v)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		client, mock := redismock.NewClientMock()
		mock.ExpectGet("lang").RedisNil()

		_, err := kv.NewRedis(client).Get(ctx, "lang")
		require.ErrorIs(t, err, kv.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get error is not a miss", func(t *testing.T) {
		t.Parallel()

		client, mock := redismock.NewClientMock()
		mock.ExpectGet("lang").SetErr(errors.New("connection reset"))

		_, err := kv.NewRedis(client).Get(ctx, "lang")
		require.Error(t, err)
		require.NotErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("set without expiration", func(t *testing.T) {
		t.Parallel()

		client, mock := redismock.NewClientMock()
		mock.ExpectSet("polyglot:lang", "en", 0).SetVal("OK")

		require.NoError(t, kv.NewRedis(client, kv.WithPrefix("polyglot")).Set(ctx, "lang", "en"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set error", func(t *testing.T) {
		t.Parallel()

		client, mock := redismock.NewClientMock()
		mock.ExpectSet("lang", "en", 0).SetErr(errors.New("READONLY"))

		require.Error(t, kv.NewRedis(client).Set(ctx, "lang", "en"))
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()

		client, mock := redismock.NewClientMock()
		mock.ExpectDel("lang").SetVal(1)

		require.NoError(t, kv.NewRedis(client).Remove(ctx, "lang"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()

		client, _ := redismock.NewClientMock()
		_, err := kv.NewRedis(client).Get(ctx, "")
		require.ErrorIs(t, err, kv.ErrEmptyKey)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()

		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetVal("PONG")

		require.NoError(t, kv.Healthcheck(client)(context.Background()))
	})

	t.Run("ping fails", func(t *testing.T) {
		t.Parallel()

		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetErr(errors.New("down"))

		err := kv.Healthcheck(client)(context.Background())
		require.ErrorIs(t, err, kv.ErrHealthcheckFailed)
	})

	t.Run("nil client", func(t *testing.T) {
		t.Parallel()

		err := kv.Healthcheck(nil)(context.Background())
		require.ErrorIs(t, err, kv.ErrHealthcheckFailed)
	})
}

func TestDial_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{"empty", "", kv.ErrEmptyConnectionURL},
		{"http scheme", "http://localhost:6379", kv.ErrInvalidURL},
		{"no scheme", "localhost:6379", kv.ErrInvalidURL},
		{"invalid port", "redis://localhost:notaport", kv.ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := kv.Dial(ctx, tt.url)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, client)
		})
	}

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()

		client, err := kv.Dial(ctx, "redis://127.0.0.1:1/0",
			kv.WithRetry(2, time.Millisecond),
			kv.WithTimeouts(100*time.Millisecond, 0, 0),
		)
		require.ErrorIs(t, err, kv.ErrConnectionFailed)
		require.Nil(t, client)
	})
}
