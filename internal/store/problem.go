package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/kiatsakul2905/it-support-FAQ/internal/models"
	"github.com/kiatsakul2905/it-support-FAQ/internal/slug"
)

// DefaultLimit is the page size applied when the caller doesn't set one.
const DefaultLimit = 20

// ProblemStore handles all problem-related database operations: the
// filtered listing, single fetch with view counting, and the admin
// mutations with their counter side effects. Every compound mutation
// runs in a single transaction so the denormalized counters on
// categories and tags cannot drift from the rows they summarize.
type ProblemStore struct {
	db *sql.DB
}

// NewProblemStore creates a new ProblemStore with the given database connection.
func NewProblemStore(db *sql.DB) *ProblemStore {
	return &ProblemStore{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx, letting the fetch
// helpers run inside or outside a transaction.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

const problemColumns = `p.id, p.title, p.slug, p.symptoms, p.causes, p.solution,
	p.category_id, p.view_count, p.helpful_count, p.not_helpful_count,
	p.created_at, p.updated_at`

// ListFilters are the optional predicates of the problem listing.
// Zero values mean "not set". All set filters combine with AND.
type ListFilters struct {
	Query    string // case-insensitive substring across title/symptoms/causes/solution
	Category string // category slug, exact match
	Tag      string // tag slug, applied after the paged fetch (see List)
	Sort     string // models.SortViews, models.SortHelpful, anything else = latest
	Limit    int
	Offset   int
}

// List returns one page of problems with categories and tags resolved.
//
// The tag filter intentionally runs AFTER pagination: the page is fetched,
// tags are attached in one batch query, and only then are rows without the
// requested tag dropped. A tag filter combined with limit/offset can
// therefore return fewer than Limit rows even when more match overall.
// This fetch-page → attach-tags → filter order is part of the API contract
// the Thai UI was built against; pushing the predicate into the SQL would
// change which rows land on each page.
func (s *ProblemStore) List(f ListFilters) ([]models.Problem, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	query := `
		SELECT ` + problemColumns + `,
		       c.name, c.slug, c.color
		FROM problems p
		LEFT JOIN categories c ON c.id = p.category_id`

	var conds []string
	var args []any

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		ph := fmt.Sprintf("$%d", len(args))
		conds = append(conds, "(p.title ILIKE "+ph+
			" OR p.symptoms ILIKE "+ph+
			" OR p.causes ILIKE "+ph+
			" OR p.solution ILIKE "+ph+")")
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}

	// Ties break on id so pages are deterministic.
	switch f.Sort {
	case models.SortViews:
		query += "\n\t\tORDER BY p.view_count DESC, p.id DESC"
	case models.SortHelpful:
		query += "\n\t\tORDER BY p.helpful_count DESC, p.id DESC"
	default:
		query += "\n\t\tORDER BY p.created_at DESC, p.id DESC"
	}

	args = append(args, f.Limit)
	query += fmt.Sprintf("\n\t\tLIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	defer rows.Close()

	items := []models.Problem{}
	for rows.Next() {
		var p models.Problem
		var catName, catSlug, catColor sql.NullString
		err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Symptoms, &p.Causes, &p.Solution,
			&p.CategoryID, &p.ViewCount, &p.HelpfulCount, &p.NotHelpfulCount,
			&p.CreatedAt, &p.UpdatedAt,
			&catName, &catSlug, &catColor,
		)
		if err != nil {
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		if catName.Valid {
			p.Category = &models.CategoryRef{
				Name:  catName.String,
				Slug:  catSlug.String,
				Color: catColor.String,
			}
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list problems rows: %w", err)
	}

	if err := attachTags(s.db, items); err != nil {
		return nil, err
	}

	if f.Tag != "" {
		filtered := []models.Problem{}
		for _, p := range items {
			for _, t := range p.Tags {
				if t.Slug == f.Tag {
					filtered = append(filtered, p)
					break
				}
			}
		}
		items = filtered
	}

	return items, nil
}

// attachTags fetches the tag rows for all given problems in one batch
// query and groups them in memory. Problems without tags keep an empty,
// non-nil slice.
func attachTags(q querier, items []models.Problem) error {
	for i := range items {
		items[i].Tags = []models.TagRef{}
	}
	if len(items) == 0 {
		return nil
	}

	ids := make([]int64, len(items))
	index := make(map[int]int, len(items))
	for i, p := range items {
		ids[i] = int64(p.ID)
		index[p.ID] = i
	}

	rows, err := q.Query(`
		SELECT pt.problem_id, t.id, t.name, t.slug
		FROM problem_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.problem_id = ANY($1::int4[])
	`, ids)
	if err != nil {
		return fmt.Errorf("attach tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var problemID int
		var t models.TagRef
		if err := rows.Scan(&problemID, &t.ID, &t.Name, &t.Slug); err != nil {
			return fmt.Errorf("scan problem tag: %w", err)
		}
		if i, ok := index[problemID]; ok {
			items[i].Tags = append(items[i].Tags, t)
		}
	}
	return rows.Err()
}

// findBySlug fetches a single problem with its category and tags resolved.
// Returns nil if not found. Unlike the listing, the embedded category
// includes its icon.
func findBySlug(q querier, slugParam string) (*models.Problem, error) {
	p := &models.Problem{}
	var catName, catSlug, catColor, catIcon sql.NullString
	err := q.QueryRow(`
		SELECT `+problemColumns+`,
		       c.name, c.slug, c.color, c.icon
		FROM problems p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.slug = $1
	`, slugParam).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Symptoms, &p.Causes, &p.Solution,
		&p.CategoryID, &p.ViewCount, &p.HelpfulCount, &p.NotHelpfulCount,
		&p.CreatedAt, &p.UpdatedAt,
		&catName, &catSlug, &catColor, &catIcon,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find problem by slug: %w", err)
	}
	if catName.Valid {
		p.Category = &models.CategoryRef{
			Name:  catName.String,
			Slug:  catSlug.String,
			Color: catColor.String,
			Icon:  catIcon.String,
		}
	}

	single := []models.Problem{*p}
	if err := attachTags(q, single); err != nil {
		return nil, err
	}
	*p = single[0]
	return p, nil
}

// FindBySlug retrieves a problem by slug without touching the view count.
// Returns nil if not found.
func (s *ProblemStore) FindBySlug(slugParam string) (*models.Problem, error) {
	return findBySlug(s.db, slugParam)
}

// GetAndCountView fetches a problem by slug and increments its view count
// by exactly one. The returned ViewCount is the post-increment value.
// Returns nil if not found.
func (s *ProblemStore) GetAndCountView(slugParam string) (*models.Problem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	p, err := findBySlug(tx, slugParam)
	if err != nil || p == nil {
		return p, err
	}

	// Server-side arithmetic so concurrent fetches never lose an increment.
	err = tx.QueryRow(`
		UPDATE problems SET view_count = view_count + 1
		WHERE id = $1
		RETURNING view_count
	`, p.ID).Scan(&p.ViewCount)
	if err != nil {
		return nil, fmt.Errorf("increment view count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit view count: %w", err)
	}
	return p, nil
}

// CreateInput carries the admin-supplied fields for a new problem.
type CreateInput struct {
	Title      string
	Symptoms   string
	Causes     string
	Solution   string
	CategoryID *int
	TagIDs     []int
}

// Create inserts a problem with a freshly derived unique slug, links its
// tags, and bumps the usage and problem counters in one transaction.
func (s *ProblemStore) Create(in CreateInput) (*models.Problem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	newSlug := slug.Unique(in.Title)

	var id int
	err = tx.QueryRow(`
		INSERT INTO problems (title, slug, symptoms, causes, solution, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, in.Title, newSlug, in.Symptoms, in.Causes, in.Solution, in.CategoryID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create problem: %w", err)
	}

	if len(in.TagIDs) > 0 {
		if err := linkTags(tx, id, in.TagIDs); err != nil {
			return nil, err
		}
		if err := adjustTagUsage(tx, in.TagIDs, +1); err != nil {
			return nil, err
		}
	}

	if in.CategoryID != nil {
		if err := adjustProblemCount(tx, *in.CategoryID, +1); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}
	return s.FindBySlug(newSlug)
}

// UpdateInput carries the admin-supplied fields for a problem update.
// TagIDs == nil leaves the tag links untouched; a non-nil (possibly
// empty) slice replaces the full link set.
type UpdateInput struct {
	Title      string
	Symptoms   string
	Causes     string
	Solution   string
	CategoryID *int
	TagIDs     *[]int
}

// Update modifies a problem found by its slug. A changed title gets a
// freshly suffixed slug, so links to the old slug stop resolving; the
// numeric id stays stable for callers that need a durable reference.
// Category and tag counters are rebalanced for whatever moved.
// Returns nil if no problem has the given slug.
func (s *ProblemStore) Update(slugParam string, in UpdateInput) (*models.Problem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	existing, err := findBySlug(tx, slugParam)
	if err != nil || existing == nil {
		return nil, err
	}

	newSlug := existing.Slug
	if in.Title != existing.Title {
		newSlug = slug.Unique(in.Title)
	}

	_, err = tx.Exec(`
		UPDATE problems SET
			title = $1, slug = $2, symptoms = $3, causes = $4, solution = $5,
			category_id = $6, updated_at = NOW()
		WHERE id = $7
	`, in.Title, newSlug, in.Symptoms, in.Causes, in.Solution, in.CategoryID, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("update problem: %w", err)
	}

	// Rebalance the category counters when the problem moved.
	if !intPtrEqual(existing.CategoryID, in.CategoryID) {
		if existing.CategoryID != nil {
			if err := adjustProblemCount(tx, *existing.CategoryID, -1); err != nil {
				return nil, err
			}
		}
		if in.CategoryID != nil {
			if err := adjustProblemCount(tx, *in.CategoryID, +1); err != nil {
				return nil, err
			}
		}
	}

	// Full replace of the tag link set, with usage counters rebalanced
	// for the diff.
	if in.TagIDs != nil {
		oldIDs := make([]int, len(existing.Tags))
		for i, t := range existing.Tags {
			oldIDs[i] = t.ID
		}
		added, removed := diffIDs(oldIDs, *in.TagIDs)

		if _, err := tx.Exec(`DELETE FROM problem_tags WHERE problem_id = $1`, existing.ID); err != nil {
			return nil, fmt.Errorf("clear problem tags: %w", err)
		}
		if err := linkTags(tx, existing.ID, *in.TagIDs); err != nil {
			return nil, err
		}
		if err := adjustTagUsage(tx, removed, -1); err != nil {
			return nil, err
		}
		if err := adjustTagUsage(tx, added, +1); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return s.FindBySlug(newSlug)
}

// Delete removes a problem by slug. The association rows cascade away and
// the category and tag counters are decremented in the same transaction.
// Returns false if no problem has the given slug.
func (s *ProblemStore) Delete(slugParam string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	existing, err := findBySlug(tx, slugParam)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	if _, err := tx.Exec(`DELETE FROM problems WHERE id = $1`, existing.ID); err != nil {
		return false, fmt.Errorf("delete problem: %w", err)
	}

	if existing.CategoryID != nil {
		if err := adjustProblemCount(tx, *existing.CategoryID, -1); err != nil {
			return false, err
		}
	}

	if len(existing.Tags) > 0 {
		tagIDs := make([]int, len(existing.Tags))
		for i, t := range existing.Tags {
			tagIDs[i] = t.ID
		}
		if err := adjustTagUsage(tx, tagIDs, -1); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete: %w", err)
	}
	return true, nil
}

// Rate increments the helpful or not-helpful counter on a problem and
// returns both updated counts. Returns nil if no problem has the slug.
// Vote deduplication is the caller's concern; the server only counts.
func (s *ProblemStore) Rate(slugParam string, helpful bool) (*models.RatingCounts, error) {
	column := "not_helpful_count"
	if helpful {
		column = "helpful_count"
	}

	counts := &models.RatingCounts{}
	err := s.db.QueryRow(`
		UPDATE problems SET `+column+` = `+column+` + 1
		WHERE slug = $1
		RETURNING helpful_count, not_helpful_count
	`, slugParam).Scan(&counts.HelpfulCount, &counts.NotHelpfulCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rate problem: %w", err)
	}
	return counts, nil
}

// linkTags inserts one association row per tag id for the given problem.
func linkTags(tx *sql.Tx, problemID int, tagIDs []int) error {
	if len(tagIDs) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT INTO problem_tags (problem_id, tag_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("prepare link tags: %w", err)
	}
	defer stmt.Close()

	for _, tagID := range tagIDs {
		if _, err := stmt.Exec(problemID, tagID); err != nil {
			return fmt.Errorf("link tag %d: %w", tagID, err)
		}
	}
	return nil
}

// adjustTagUsage shifts usage_count by delta for all given tags at once.
func adjustTagUsage(tx *sql.Tx, tagIDs []int, delta int) error {
	if len(tagIDs) == 0 {
		return nil
	}
	ids := make([]int64, len(tagIDs))
	for i, id := range tagIDs {
		ids[i] = int64(id)
	}
	_, err := tx.Exec(`
		UPDATE tags SET usage_count = usage_count + $1
		WHERE id = ANY($2::int4[])
	`, delta, ids)
	if err != nil {
		return fmt.Errorf("adjust tag usage: %w", err)
	}
	return nil
}

// adjustProblemCount shifts a category's problem_count by delta.
func adjustProblemCount(tx *sql.Tx, categoryID, delta int) error {
	_, err := tx.Exec(`
		UPDATE categories SET problem_count = problem_count + $1
		WHERE id = $2
	`, delta, categoryID)
	if err != nil {
		return fmt.Errorf("adjust problem count: %w", err)
	}
	return nil
}

// diffIDs returns the ids present only in next (added) and only in prev
// (removed). Ids in both sets are untouched.
func diffIDs(prev, next []int) (added, removed []int) {
	prevSet := make(map[int]bool, len(prev))
	for _, id := range prev {
		prevSet[id] = true
	}
	nextSet := make(map[int]bool, len(next))
	for _, id := range next {
		nextSet[id] = true
		if !prevSet[id] {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if !nextSet[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// intPtrEqual compares two *int for equality (both nil or same value).
func intPtrEqual(a, b *int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
