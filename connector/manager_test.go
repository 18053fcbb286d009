package connector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Konsultn-Engineering/sqlcmd/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestOpenSQLite(t *testing.T) {
	conn, err := Open(context.Background(), Config{Driver: "sqlite", StatementCacheSize: 8}, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.IsType(t, &database.SqlConnection{}, conn)
	assert.Equal(t, "sqlite", conn.Dialect().Name())

	cmd, err := conn.CreateCommand()
	require.NoError(t, err)
	defer cmd.Close()
	cmd.SetCommandText("SELECT 40 + 2")
	v, err := cmd.ExecuteScalar(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)

	assert.Equal(t, 1, Stats(conn).OpenConnections)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle"}, nil)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpenInvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), Config{}, nil)
	assert.ErrorIs(t, err, ErrNoDriver)
}

func TestDriversIncludesBuiltins(t *testing.T) {
	assert.Subset(t, Drivers(), []string{"pgx", "postgres", "sqlite"})
}

func flakyProvider(failures int, attempts *int) Provider {
	return ProviderFunc(func(ctx context.Context, cfg Config) (database.Connection, error) {
		*attempts++
		if *attempts <= failures {
			return nil, errors.New("connection refused")
		}
		return SQLiteProvider{}.Connect(ctx, cfg)
	})
}

func TestOpenRetries(t *testing.T) {
	attempts := 0
	Register("flaky-recovers", flakyProvider(2, &attempts))

	core, logs := observer.New(zap.WarnLevel)
	cfg := Config{
		Driver: "flaky-recovers",
		Retry:  RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
	}

	conn, err := Open(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, logs.FilterMessage("connect attempt failed").Len())
}

func TestOpenGivesUp(t *testing.T) {
	attempts := 0
	Register("flaky-down", flakyProvider(100, &attempts))

	cfg := Config{
		Driver: "flaky-down",
		Retry:  RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}

	_, err := Open(context.Background(), cfg, zap.NewNop())
	assert.EqualError(t, err, "connect flaky-down: connection refused")
	assert.Equal(t, 3, attempts)
}

func TestOpenWithoutRetry(t *testing.T) {
	attempts := 0
	Register("flaky-once", flakyProvider(1, &attempts))

	_, err := Open(context.Background(), Config{Driver: "flaky-once"}, nil)
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestOpenCancelled(t *testing.T) {
	attempts := 0
	Register("flaky-cancelled", flakyProvider(100, &attempts))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{
		Driver: "flaky-cancelled",
		Retry:  RetryConfig{MaxRetries: 5, BaseDelay: time.Second},
	}
	_, err := Open(ctx, cfg, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}
