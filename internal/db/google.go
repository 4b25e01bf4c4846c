package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgannotate/internal/retry"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// GoogleCloudSQLConnector dials Cloud SQL through the Cloud SQL Go
// Connector with IAM database authentication.
// Close must be called after the pool is closed.
type GoogleCloudSQLConnector struct {
	config   *pgannotate.ConnectionConfig
	logger   pgannotate.Logger
	executor *retry.Executor
	dialer   *cloudsqlconn.Dialer
}

func NewGoogleCloudSQLConnector(cfg *pgannotate.ConnectionConfig, logger pgannotate.Logger) (*GoogleCloudSQLConnector, error) {
	if cfg.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", pgannotate.ErrInvalidConfig)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a username (-U): %w", pgannotate.ErrInvalidConfig)
	}
	return &GoogleCloudSQLConnector{config: cfg, logger: logger, executor: retry.NewDefaultExecutor(logger)}, nil
}

func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	if c.dialer == nil {
		dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
		if err != nil {
			return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w", err)
		}
		c.dialer = dialer
	}

	// The host is ignored by DialFunc but keeps pgx's address parsing happy.
	dsn := fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable application_name=%s",
		"cloudsql", c.config.Username, c.config.Database, pgannotate.ApplicationName)

	pool, err := c.open(ctx, dsn)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return pool, nil
}

func (c *GoogleCloudSQLConnector) open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := c.executor.Execute(ctx, func(ctx context.Context) error {
		poolConfig, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", pgannotate.ErrInvalidConfig)
		}
		poolConfig.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
			return c.dialer.Dial(ctx, c.config.GoogleInstance)
		}
		configurePool(poolConfig, c.logger)

		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, wrapConnectionError(err, c.config.GoogleInstance, 0, c.config.Database)
	}
	return pool, nil
}

// Close releases the Cloud SQL dialer.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer == nil {
		return nil
	}
	err := c.dialer.Close()
	c.dialer = nil
	return err
}
