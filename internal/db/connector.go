package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgannotate/internal/logging"
	"github.com/vvka-141/pgannotate/internal/retry"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

const (
	// DefaultMaxConns bounds the pool; catalog loading uses one batch.
	DefaultMaxConns = 2

	DefaultMinConns = 0

	DefaultMaxConnIdleTime = time.Minute
)

// configurePool applies the pool limits and makes every session read-only.
func configurePool(poolConfig *pgxpool.Config, logger pgannotate.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime

	params := poolConfig.ConnConfig.RuntimeParams
	params["default_transaction_read_only"] = "on"
	if params["application_name"] == "" {
		params["application_name"] = pgannotate.ApplicationName
	}

	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("server notice: %s", notice.Message)
	}
}

// NewConnector returns the connector for cfg.AuthMethod.
// A nil logger discards connector diagnostics.
func NewConnector(cfg *pgannotate.ConnectionConfig, logger pgannotate.Logger) (pgannotate.Connector, error) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	switch cfg.AuthMethod {
	case pgannotate.AuthMethodStandard:
		return NewStandardConnector(cfg, logger), nil
	case pgannotate.AuthMethodAWSIAM:
		provider, err := NewAWSIAMTokenProvider(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), cfg.AWSRegion, cfg.Username)
		if err != nil {
			return nil, err
		}
		return NewTokenConnector(cfg, provider, logger), nil
	case pgannotate.AuthMethodGoogleIAM:
		return NewGoogleCloudSQLConnector(cfg, logger)
	case pgannotate.AuthMethodAzureEntraID:
		provider, err := newAzureTokenProvider(cfg)
		if err != nil {
			return nil, err
		}
		return NewTokenConnector(cfg, provider, logger), nil
	default:
		return nil, fmt.Errorf("auth method %v: %w", cfg.AuthMethod, pgannotate.ErrUnsupportedAuthMethod)
	}
}

// StandardConnector connects with username and password (or .pgpass),
// retrying transient failures.
type StandardConnector struct {
	config   *pgannotate.ConnectionConfig
	logger   pgannotate.Logger
	executor *retry.Executor
}

func NewStandardConnector(cfg *pgannotate.ConnectionConfig, logger pgannotate.Logger) *StandardConnector {
	return &StandardConnector{config: cfg, logger: logger, executor: retry.NewDefaultExecutor(logger)}
}

func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return connect(ctx, c.executor, c.config, c.logger, func(context.Context) (string, error) {
		return BuildConnectionString(c.config), nil
	})
}

// connect opens and pings a pool, retrying transient failures. dsn is
// called once per attempt so token-based connectors get a fresh token.
func connect(
	ctx context.Context,
	executor *retry.Executor,
	cfg *pgannotate.ConnectionConfig,
	logger pgannotate.Logger,
	dsn func(context.Context) (string, error),
) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	err := executor.Execute(ctx, func(ctx context.Context) error {
		connStr, err := dsn(ctx)
		if err != nil {
			return err
		}

		poolConfig, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", pgannotate.ErrInvalidConfig)
		}
		configurePool(poolConfig, logger)

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
		return nil, wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database)
	}

	logger.Verbose("Connected to %s:%d/%s as %s (%s)", cfg.Host, cfg.Port, cfg.Database, cfg.Username, cfg.AuthMethod)
	return pool, nil
}

// wrapConnectionError adds a hint for the common failure causes. The result
// always wraps pgannotate.ErrConnectionFailed as well as err.
func wrapConnectionError(err error, host string, port int, database string) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var hint string
	switch {
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "actively refused"):
		hint = fmt.Sprintf("connection refused to %s\n\nIs PostgreSQL running? Check with: pg_isready -h %s -p %d", addr, host, port)
	case strings.Contains(msg, "no such host"):
		hint = fmt.Sprintf("cannot resolve host %q\n\nCheck the hostname and your DNS settings.", host)
	case strings.Contains(msg, "password authentication failed"):
		hint = fmt.Sprintf("password authentication failed for database %q\n\nCheck $PGPASSWORD, ~/.pgpass or the connection string.", database)
	case strings.Contains(msg, "does not exist"):
		hint = fmt.Sprintf("database %q does not exist\n\nRun your migrations first or point -d at the right database.", database)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		hint = fmt.Sprintf("connection timed out to %s\n\nCheck the host, port and any firewall in between.", addr)
	case strings.Contains(msg, "ssl") || strings.Contains(msg, "tls"):
		hint = "SSL/TLS negotiation failed\n\nCheck --sslmode against the server configuration."
	case strings.Contains(msg, "too many connections"):
		hint = fmt.Sprintf("too many connections to database %q\n\nThe server's max_connections limit is reached.", database)
	default:
		return fmt.Errorf("%w to %s: %w", pgannotate.ErrConnectionFailed, addr, err)
	}

	return fmt.Errorf("%w: %s\n\nOriginal error: %w", pgannotate.ErrConnectionFailed, hint, err)
}
