// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/zoenutrition/zoe/internal/infrastructure/config"
	gormModels "github.com/zoenutrition/zoe/internal/infrastructure/persistence/gorm"
	"github.com/zoenutrition/zoe/internal/infrastructure/persistence/migrations"
)

const pingTimeout = 10 * time.Second

// ConnectionManager owns the primary connection and any read replicas
type ConnectionManager struct {
	db      *gorm.DB
	writeDB *sql.DB
	readDBs []*sql.DB
	logger  *zap.Logger
}

// NewConnectionManager connects to the primary, registers read replicas
// and applies pending schema migrations when auto_migrate is set
func NewConnectionManager(cfg *config.Config, log *zap.Logger) (*ConnectionManager, error) {
	log = log.Named("postgres")
	cm := &ConnectionManager{logger: log}

	writeDB, err := openPool(cfg.GetDSN(), cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize primary connection: %w", err)
	}
	cm.writeDB = writeDB

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: writeDB}), &gorm.Config{
		Logger:                 gormModels.NewLogger(log, cfg.Database.LogLevel, cfg.Database.SlowQueryThreshold),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		_ = writeDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	cm.db = db

	if err := cm.registerReplicas(cfg); err != nil {
		log.Warn("Failed to initialize read replicas", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(cfg, log); err != nil {
			_ = cm.Close()
			return nil, err
		}
	}

	log.Info("Database connection manager initialized",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Int("read_replicas", len(cm.readDBs)),
		zap.Duration("slow_query_threshold", cfg.Database.SlowQueryThreshold),
	)

	return cm, nil
}

func openPool(dsn string, cfg config.DatabaseConfig) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid dsn: %w", err)
	}

	db := stdlib.OpenDB(*connConfig)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func (cm *ConnectionManager) registerReplicas(cfg *config.Config) error {
	if len(cfg.Database.ReadReplicas) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, 0, len(cfg.Database.ReadReplicas))
	for _, host := range cfg.Database.ReadReplicas {
		readDB, err := openPool(cfg.DSNFor(host), cfg.Database)
		if err != nil {
			return fmt.Errorf("replica %s: %w", host, err)
		}
		cm.readDBs = append(cm.readDBs, readDB)
		replicas = append(replicas, postgres.New(postgres.Config{Conn: readDB}))
	}

	err := cm.db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}
	return nil
}

func migrate(cfg *config.Config, log *zap.Logger) error {
	m, err := migrations.Open(cfg.GetDSN(), cfg.Database.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

// DB returns the GORM handle
func (cm *ConnectionManager) DB() *gorm.DB {
	return cm.db
}

// SQLDB returns the primary connection pool
func (cm *ConnectionManager) SQLDB() *sql.DB {
	return cm.writeDB
}

// HealthCheck pings the primary; replica failures are only logged
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.writeDB.PingContext(ctx); err != nil {
		return fmt.Errorf("primary database ping failed: %w", err)
	}

	for i, readDB := range cm.readDBs {
		if err := readDB.PingContext(ctx); err != nil {
			cm.logger.Warn("Read replica ping failed",
				zap.Int("replica_index", i),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Close closes all database connections
func (cm *ConnectionManager) Close() error {
	var firstErr error
	if cm.writeDB != nil {
		if err := cm.writeDB.Close(); err != nil {
			cm.logger.Error("Failed to close primary database", zap.Error(err))
			firstErr = err
		}
	}

	for i, readDB := range cm.readDBs {
		if err := readDB.Close(); err != nil {
			cm.logger.Error("Failed to close read replica",
				zap.Int("replica_index", i),
				zap.Error(err),
			)
		}
	}

	return firstErr
}
