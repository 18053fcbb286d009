package connector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/sqlcmd/database"
	"go.uber.org/zap"
)

// Provider opens a database.Connection for a Config. Open pings the result,
// so providers only need to construct it.
type Provider interface {
	Connect(ctx context.Context, cfg Config) (database.Connection, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, cfg Config) (database.Connection, error)

func (f ProviderFunc) Connect(ctx context.Context, cfg Config) (database.Connection, error) {
	return f(ctx, cfg)
}

type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

var globalManager = &Manager{
	providers: make(map[string]Provider),
}

func init() {
	Register("sqlite", SQLiteProvider{})
	Register("postgres", PostgresProvider{})
	Register("pgx", PostgresProvider{})
}

// Register makes provider available under name, replacing any previous one.
func Register(name string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[strings.ToLower(name)] = provider
}

// Drivers lists the registered provider names in order.
func Drivers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()

	names := make([]string, 0, len(globalManager.providers))
	for name := range globalManager.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(name string) (Provider, error) {
	globalManager.mu.RLock()
	provider, ok := globalManager.providers[strings.ToLower(name)]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, name)
	}
	return provider, nil
}

// Open connects through the provider registered for cfg.Driver and pings the
// connection, retrying failed attempts as configured by cfg.Retry. Each attempt
// is bounded by cfg.ConnectTimeout.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (database.Connection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	provider, err := lookup(cfg.Driver)
	if err != nil {
		return nil, err
	}

	logger = logger.With(zap.String("driver", cfg.Driver))
	conn, err := connectWithRetry(ctx, cfg.Retry, logger, func(ctx context.Context) (database.Connection, error) {
		if cfg.ConnectTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
			defer cancel()
		}

		conn, err := provider.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := conn.Ping(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil
	})
	if err != nil {
		logger.Error("connect failed", zap.Error(err))
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	logger.Info("connected", zap.String("dialect", conn.Dialect().Name()))
	return conn, nil
}
