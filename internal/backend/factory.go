package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/storage"
	"fintrack/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	amqpClient := f.connectAMQP(config)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	cleanup := func() error {
		var errs []error
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if err := repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
		if len(errs) > 0 {
			return fmt.Errorf("close backend: %v", errs)
		}
		return nil
	}

	return &BackendResult{
		Store:      repo,
		AMQPClient: amqpClient,
		Cleanup:    cleanup,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	st := memory.New()
	amqpClient := f.connectAMQP(config)

	f.logger.Info("Initialized memory backend", "amqp_enabled", amqpClient != nil)

	var cleanup CleanupFunc
	if amqpClient != nil {
		cleanup = amqpClient.Close
	}

	return &BackendResult{
		Store:      st,
		AMQPClient: amqpClient,
		Cleanup:    cleanup,
	}, nil
}

// connectAMQP dials the broker when configured. A broken broker never blocks
// startup, budget alerts just stay off.
func (f *DefaultFactory) connectAMQP(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without budget alerts", "error", err)
		return nil
	}

	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
