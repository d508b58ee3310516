package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/yigit/persondata/internal/config"
	"github.com/yigit/persondata/internal/pkg/logger"
)

const connectTimeout = 10 * time.Second

// PostgresDB database connection structure
type PostgresDB struct {
	Pool *pgxpool.Pool
}

// NewPostgresDB creates a new PostgreSQL connection pool
func NewPostgresDB(cfg *config.Config) (*PostgresDB, error) {
	return Connect(cfg.GetPostgresConnectionString(), cfg.Database)
}

// Connect opens a pool against connString using the pool sizing in dbCfg.
func Connect(connString string, dbCfg config.DatabaseConfig) (*PostgresDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	if dbCfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(dbCfg.MaxOpenConns)
	}
	if dbCfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(dbCfg.MaxIdleConns)
	}

	if dbCfg.ConnMaxLifetime != "" {
		maxLifetime, err := time.ParseDuration(dbCfg.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
		}
		poolConfig.MaxConnLifetime = maxLifetime
	}

	// NUMERIC columns scan into shopspring decimals on every connection.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("Unhealthy connection detected")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	logger.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("Connected to PostgreSQL")

	return &PostgresDB{Pool: pool}, nil
}

// SQL exposes the pool through database/sql for the migrator.
func (db *PostgresDB) SQL() *sql.DB {
	return stdlib.OpenDBFromPool(db.Pool)
}

// Health pings the pool.
func (db *PostgresDB) Health(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database not configured")
	}
	return db.Pool.Ping(ctx)
}

// Close closing method
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
