package store

import (
	"database/sql"
	"fmt"

	"github.com/kiatsakul2905/it-support-FAQ/internal/models"
)

// TagStore manages tags in the database.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name, slug, usage_count, created_at`

// List returns all tags, most used first.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT ` + tagColumns + `
		FROM tags
		ORDER BY usage_count DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	items := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.UsageCount, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// Create inserts a new tag and returns it. The unique constraints on name
// and slug surface duplicates as errors.
func (s *TagStore) Create(name, slug string) (*models.Tag, error) {
	t := &models.Tag{}
	err := s.db.QueryRow(`
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		RETURNING `+tagColumns,
		name, slug,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.UsageCount, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return t, nil
}
