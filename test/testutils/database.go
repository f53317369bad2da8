package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/zoenutrition/zoe/internal/domain/food"
	gormrepo "github.com/zoenutrition/zoe/internal/infrastructure/persistence/gorm"
	"github.com/zoenutrition/zoe/internal/infrastructure/persistence/sqlite"
)

// SetupSQLite opens a migrated in-memory database that is closed when
// the test ends
func SetupSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.SetupDatabase(sqlite.MemoryPath, nil)
	require.NoError(t, err, "Failed to open sqlite database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedFoods inserts items through the food repository, assigning IDs.
// The returned slice carries the stored IDs.
func SeedFoods(t *testing.T, db *gorm.DB, items ...food.Item) []food.Item {
	t.Helper()

	repo := gormrepo.NewFoodRepository(db)
	out := make([]food.Item, len(items))
	for i := range items {
		item := items[i]
		require.NoError(t, repo.Create(context.Background(), &item))
		out[i] = item
	}
	return out
}

// PostgresConfig holds test database configuration
type PostgresConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Port     nat.Port
}

// DefaultPostgresConfig returns the default test database configuration
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Image:    "postgres:15-alpine",
		Database: "zoe_test",
		Username: "test_user",
		Password: "test_password",
		Port:     "5432/tcp",
	}
}

// PostgresContainer is a running postgres instance for integration tests
type PostgresContainer struct {
	Container testcontainers.Container
	Host      string
	Port      int
	Config    PostgresConfig
}

// DSN returns the keyword/value connection string
func (p *PostgresContainer) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.Config.Username, p.Config.Password, p.Config.Database)
}

// SetupPostgres starts a postgres container that is terminated when the
// test ends
func SetupPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	cfg := DefaultPostgresConfig()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        cfg.Image,
				ExposedPorts: []string{string(cfg.Port)},
				Env: map[string]string{
					"POSTGRES_DB":       cfg.Database,
					"POSTGRES_USER":     cfg.Username,
					"POSTGRES_PASSWORD": cfg.Password,
				},
				WaitingFor: wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60 * time.Second),
				Tmpfs: map[string]string{
					"/var/lib/postgresql/data": "rw,noexec,nosuid,size=256m",
				},
			},
			Started: true,
		})
	require.NoError(t, err, "Failed to start postgres container")

	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, cfg.Port)
	require.NoError(t, err)

	return &PostgresContainer{
		Container: container,
		Host:      host,
		Port:      port.Int(),
		Config:    cfg,
	}
}
