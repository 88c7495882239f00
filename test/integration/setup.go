package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"toppings-pos/internal/database"
	"toppings-pos/internal/events"
	"toppings-pos/internal/handler"
	"toppings-pos/internal/repository"
	"toppings-pos/internal/router"
	"toppings-pos/internal/seed"
	"toppings-pos/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the schema applied and
// a pool capped at maxConns connections.
func SetupTestDB(t *testing.T, maxConns int32) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.ApplySchema(ctx, pool); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Catalog holds the ids created by SeedCatalog.
type Catalog struct {
	TeaHouse int64
	Bakery   int64

	MilkTea   int64 // tea-house, group "tea", limit 2
	Lemonade  int64 // tea-house, no group
	Croissant int64 // bakery, group "tea"

	Pearls int64 // tea-house "tea"
	Jelly  int64 // tea-house "tea"
	Cream  int64 // bakery "tea"
}

// SeedCatalog imports two projects that share a topping group name.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) Catalog {
	t.Helper()

	tea := "tea"
	feed := &seed.Feed{
		Source: "integration",
		Records: []seed.Record{
			{Kind: seed.KindProduct, Project: "tea-house", Name: "Milk Tea", Price: decimal.RequireFromString("4.50"), Group: &tea, Limit: 2},
			{Kind: seed.KindProduct, Project: "tea-house", Name: "Lemonade", Price: decimal.RequireFromString("3.00")},
			{Kind: seed.KindTopping, Project: "tea-house", Name: "Pearls", Price: decimal.RequireFromString("0.50"), Group: &tea},
			{Kind: seed.KindTopping, Project: "tea-house", Name: "Jelly", Price: decimal.RequireFromString("0.75"), Group: &tea},
			{Kind: seed.KindProduct, Project: "bakery", Name: "Croissant", Price: decimal.RequireFromString("2.20"), Group: &tea, Limit: 1},
			{Kind: seed.KindTopping, Project: "bakery", Name: "Cream", Price: decimal.RequireFromString("0.30"), Group: &tea},
		},
	}

	ctx := context.Background()
	if _, err := seed.NewImporter(pool, zerolog.Nop()).Import(ctx, feed); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	var c Catalog
	lookups := []struct {
		dst   *int64
		query string
		arg   string
	}{
		{&c.TeaHouse, "SELECT project_id FROM project WHERE project_name = $1", "tea-house"},
		{&c.Bakery, "SELECT project_id FROM project WHERE project_name = $1", "bakery"},
		{&c.MilkTea, "SELECT id FROM product WHERE product_name = $1", "Milk Tea"},
		{&c.Lemonade, "SELECT id FROM product WHERE product_name = $1", "Lemonade"},
		{&c.Croissant, "SELECT id FROM product WHERE product_name = $1", "Croissant"},
		{&c.Pearls, "SELECT topping_id FROM topping WHERE topping_name = $1", "Pearls"},
		{&c.Jelly, "SELECT topping_id FROM topping WHERE topping_name = $1", "Jelly"},
		{&c.Cream, "SELECT topping_id FROM topping WHERE topping_name = $1", "Cream"},
	}
	for _, l := range lookups {
		if err := pool.QueryRow(ctx, l.query, l.arg).Scan(l.dst); err != nil {
			t.Fatalf("failed to look up %q: %v", l.arg, err)
		}
	}

	return c
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE items, orders, topping, product, project RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var n int
	if err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

// setupTestServer wires the full HTTP stack against the test database.
func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	catalogRepo := repository.NewCatalogRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	catalogService := service.NewCatalogService(catalogRepo, logger)
	orderService := service.NewOrderService(orderRepo, events.NewNopPublisher(logger), 5*time.Second, logger)

	return router.New(router.Handlers{
		Catalog: handler.NewCatalogHandler(catalogService, logger),
		Order:   handler.NewOrderHandler(orderService, false, logger),
		Health:  handler.NewHealthHandler(testDB.Pool, logger),
	}, router.Options{RequestTimeout: 10 * time.Second}, logger)
}
