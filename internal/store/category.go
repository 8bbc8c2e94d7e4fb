package store

import (
	"database/sql"
	"fmt"

	"github.com/kiatsakul2905/it-support-FAQ/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, icon, color, description, problem_count, created_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Icon, &c.Color,
		&c.Description, &c.ProblemCount, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories, busiest first. problem_count is the
// denormalized counter the problem mutations maintain, not an aggregate.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + `
		FROM categories
		ORDER BY problem_count DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it. Empty icon and color fall
// back to the schema defaults so callers can omit them.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, icon, color, description)
		VALUES ($1, $2,
		        COALESCE(NULLIF($3, ''), 'folder'),
		        COALESCE(NULLIF($4, ''), '#00ff41'),
		        $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Icon, c.Color, c.Description,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}
