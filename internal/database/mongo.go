package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ConnectionError reports that the document store could not be reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "mongodb unavailable: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// DialFunc opens and verifies a client.
type DialFunc func(ctx context.Context) (*mongo.Client, error)

// Mongo is the process-wide MongoDB handle. It connects lazily on first use;
// callers that arrive while a connection attempt is in flight wait for that
// attempt instead of starting their own. A failed attempt is not cached, so
// the next call dials again.
type Mongo struct {
	dial    DialFunc
	dbName  string
	timeout time.Duration
	logger  *zap.SugaredLogger

	group singleflight.Group

	mu     sync.RWMutex
	client *mongo.Client
}

// NewMongo returns a handle that dials uri on first use.
func NewMongo(uri, dbName string, timeout time.Duration, logger *zap.SugaredLogger) *Mongo {
	dial := func(ctx context.Context) (*mongo.Client, error) {
		clientOptions := options.Client().ApplyURI(uri)
		clientOptions.SetServerSelectionTimeout(10 * time.Second)

		client, err := mongo.Connect(ctx, clientOptions)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return client, nil
	}
	return NewMongoWithDialer(dial, dbName, timeout, logger)
}

// NewMongoWithDialer is NewMongo with a custom dial step.
func NewMongoWithDialer(dial DialFunc, dbName string, timeout time.Duration, logger *zap.SugaredLogger) *Mongo {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Mongo{dial: dial, dbName: dbName, timeout: timeout, logger: logger}
}

// Client returns the shared client, connecting if needed. ctx only bounds how
// long this caller waits; the attempt itself runs on the handle's timeout.
func (m *Mongo) Client(ctx context.Context) (*mongo.Client, error) {
	if c := m.cached(); c != nil {
		return c, nil
	}

	ch := m.group.DoChan("connect", func() (interface{}, error) {
		if c := m.cached(); c != nil {
			return c, nil
		}

		dialCtx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		m.logger.Infow("connecting to MongoDB", "database", m.dbName)
		c, err := m.dial(dialCtx)
		if err != nil {
			m.logger.Warnw("MongoDB connection failed", "error", err)
			return nil, err
		}

		m.mu.Lock()
		m.client = c
		m.mu.Unlock()
		m.logger.Infow("connected to MongoDB", "database", m.dbName)
		return c, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, &ConnectionError{Err: res.Err}
		}
		return res.Val.(*mongo.Client), nil
	case <-ctx.Done():
		return nil, &ConnectionError{Err: ctx.Err()}
	}
}

// Database returns the configured database on the shared client.
func (m *Mongo) Database(ctx context.Context) (*mongo.Database, error) {
	c, err := m.Client(ctx)
	if err != nil {
		return nil, err
	}
	return c.Database(m.dbName), nil
}

// Disconnect closes the cached client, if any. A later call to Client dials again.
func (m *Mongo) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	c := m.client
	m.client = nil
	m.mu.Unlock()

	if c == nil {
		return nil
	}
	if err := c.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

func (m *Mongo) cached() *mongo.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// IsUnavailable reports whether err means the store could not be reached, as
// opposed to the store rejecting the operation.
func IsUnavailable(err error) bool {
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return true
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected)
}
