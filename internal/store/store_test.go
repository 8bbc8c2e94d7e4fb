// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/kiatsakul2905/it-support-FAQ/internal/database"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "itkb")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "itkb")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Reset goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// uniqueName returns a name that won't collide with other test runs.
func uniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// createTestCategory inserts a category directly and registers cleanup.
func createTestCategory(t *testing.T, db *sql.DB, name string) int {
	t.Helper()
	var id int
	err := db.QueryRow(`
		INSERT INTO categories (name, slug, color)
		VALUES ($1, $1, '#00ff41')
		RETURNING id
	`, name).Scan(&id)
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", id) })
	return id
}

// createTestTag inserts a tag directly and registers cleanup.
func createTestTag(t *testing.T, db *sql.DB, name string) int {
	t.Helper()
	var id int
	err := db.QueryRow(`
		INSERT INTO tags (name, slug)
		VALUES ($1, $1)
		RETURNING id
	`, name).Scan(&id)
	if err != nil {
		t.Fatalf("create test tag: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM tags WHERE id = $1", id) })
	return id
}

// cleanupProblem registers deletion of a problem by id.
func cleanupProblem(t *testing.T, db *sql.DB, id int) {
	t.Helper()
	t.Cleanup(func() { db.Exec("DELETE FROM problems WHERE id = $1", id) })
}

// categoryProblemCount reads the denormalized counter for a category.
func categoryProblemCount(t *testing.T, db *sql.DB, id int) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT problem_count FROM categories WHERE id = $1", id).Scan(&n); err != nil {
		t.Fatalf("read problem_count: %v", err)
	}
	return n
}

// tagUsageCount reads the denormalized counter for a tag.
func tagUsageCount(t *testing.T, db *sql.DB, id int) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT usage_count FROM tags WHERE id = $1", id).Scan(&n); err != nil {
		t.Fatalf("read usage_count: %v", err)
	}
	return n
}
