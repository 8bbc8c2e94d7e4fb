// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/kiatsakul2905/it-support-FAQ/internal/cache"
	"github.com/kiatsakul2905/it-support-FAQ/internal/database"
	"github.com/kiatsakul2905/it-support-FAQ/internal/handlers"
	"github.com/kiatsakul2905/it-support-FAQ/internal/middleware"
	"github.com/kiatsakul2905/it-support-FAQ/internal/router"
	"github.com/kiatsakul2905/it-support-FAQ/internal/store"
)

// testAdminKey is the shared secret wired into the test router.
const testAdminKey = "test-admin-key"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "itkb")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "itkb")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Valkey client on DB 15, flushed per test so
// cached list responses from one test never leak into another.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: valkey not reachable: %v", err)
	}
	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

// testRouter wires real stores and handlers into the production route
// tree, with a rate limit high enough to stay out of the way.
func testRouter(t *testing.T) (chi.Router, *sql.DB) {
	t.Helper()

	db := testDB(t)
	client := testValkeyClient(t)
	lists := cache.NewListCache(client, time.Minute)

	limiter := middleware.NewRateLimiter(10_000, time.Minute)
	t.Cleanup(limiter.Stop)

	r := router.New(testAdminKey, limiter,
		handlers.NewProblems(store.NewProblemStore(db), lists),
		handlers.NewCategories(store.NewCategoryStore(db), lists),
		handlers.NewTags(store.NewTagStore(db), lists),
		handlers.NewAuth(testAdminKey),
	)
	return r, db
}

// uniqueName returns a collision-free fixture name.
func uniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}
