package store

import (
	"strings"
	"testing"

	"github.com/kiatsakul2905/it-support-FAQ/internal/models"
)

func TestProblemStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewProblemStore(db)

	catID := createTestCategory(t, db, uniqueName("test-cat"))
	tagID := createTestTag(t, db, uniqueName("test-tag"))

	created, err := s.Create(CreateInput{
		Title:      "Printer shows offline",
		Symptoms:   "เครื่องพิมพ์ขึ้นสถานะ offline",
		Causes:     "สาย USB หลวมหรือ spooler ค้าง",
		Solution:   "รีสตาร์ท print spooler",
		CategoryID: &catID,
		TagIDs:     []int{tagID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cleanupProblem(t, db, created.ID)

	if created.Slug == "" {
		t.Error("expected non-empty slug")
	}
	if !strings.HasPrefix(created.Slug, "printer-shows-offline-") {
		t.Errorf("slug %q missing title prefix", created.Slug)
	}
	if created.Category == nil || created.Category.Name == "" {
		t.Fatal("expected resolved category")
	}
	if len(created.Tags) != 1 || created.Tags[0].ID != tagID {
		t.Errorf("tags = %+v, want the one linked tag", created.Tags)
	}
	if created.ViewCount != 0 {
		t.Errorf("viewCount = %d, want 0", created.ViewCount)
	}

	found, err := s.FindBySlug(created.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatal("expected to find created problem by slug")
	}

	// Miss returns nil, nil.
	missing, err := s.FindBySlug("no-such-slug-xyz")
	if err != nil {
		t.Fatalf("FindBySlug miss: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown slug")
	}
}

// Thai-only titles produce no ASCII slug base; the suffix alone must
// still give a unique non-empty slug.
func TestProblemStoreCreateThaiTitle(t *testing.T) {
	db := testDB(t)
	s := NewProblemStore(db)

	first, err := s.Create(CreateInput{
		Title: "WiFi ไม่เชื่อมต่อ", Symptoms: "s", Causes: "c", Solution: "f",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cleanupProblem(t, db, first.ID)

	second, err := s.Create(CreateInput{
		Title: "WiFi ไม่เชื่อมต่อ", Symptoms: "s", Causes: "c", Solution: "f",
	})
	if err != nil {
		t.Fatalf("Create duplicate title: %v", err)
	}
	cleanupProblem(t, db, second.ID)

	if first.Slug == "" || second.Slug == "" {
		t.Fatal("slugs must be non-empty")
	}
	if first.Slug == second.Slug {
		t.Errorf("duplicate titles produced identical slug %q", first.Slug)
	}
	if first.Tags == nil || len(first.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil slice", first.Tags)
	}
}

func TestProblemStoreCategoryCounter(t *testing.T) {
	db := testDB(t)
	s := NewProblemStore(db)

	catID := createTestCategory(t, db, uniqueName("counter-cat"))
	if got := categoryProblemCount(t, db, catID); got != 0 {
		t.Fatalf("fresh category problem_count = %d, want 0", got)
	}

	var slugs []string
	for i := 0; i < 3; i++ {
		p, err := s.Create(CreateInput{
			Title: "Counter case", Symptoms: "s", Causes: "c", Solution: "f",
			CategoryID: &catID,
		})
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		cleanupProblem(t, db, p.ID)
		slugs = append(slugs, p.Slug)
	}

	if got := categoryProblemCount(t, db, catID); got != 3 {
		t.Errorf("problem_count after 3 creates = %d, want 3", got)
	}

	deleted, err := s.Delete(slugs[0])
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("Delete reported not found")
	}
	if got := categoryProblemCount(t, db, catID); got != 2 {
		t.Errorf("problem_count after delete = %d, want 2", got)
	}
}

func TestProblemStoreTagUsageCounter(t *testing.T) {
	db := testDB(t)
	s := NewProblemStore(db)

	tagA := createTestTag(t, db, uniqueName("usage-a"))
	tagB := createTestTag(t, db, uniqueName("usage-b"))

	p, err := s.Create(CreateInput{
		Title: "Usage case", Symptoms: "s", Causes: "c", Solution: "f",
		TagIDs: []int{tagA},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cleanupProblem(t, db, p.ID)

	if got := tagUsageCount(t, db, tagA); got != 1 {
		t.Errorf("tagA usage after create = %d, want 1", got)
	}

	// Replace the link set: A removed, B added.
	newTags := []int{tagB}
	updated, err := s.Update(p.Slug, UpdateInput{
		Title: p.Title, Symptoms: p.Symptoms, Causes: p.Causes, Solution: p.Solution,
		TagIDs: &newTags,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := tagUsageCount(t, db, tagA); got != 0 {
		t.Errorf("tagA usage after removal = %d, want 0", got)
	}
	if got := tagUsageCount(t, db, tagB); got != 1 {
		t.Errorf("tagB usage after addition = %d, want 1", got)
	}
	if len(updated.Tags) != 1 || updated.Tags[0].ID != tagB {
		t.Errorf("updated tags = %+v, want only tagB", updated.Tags)
	}

	// Delete decrements the remaining link.
	if _, err := s.Delete(updated.Slug); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := tagUsageCount(t, db, tagB); got != 0 {
		t.Errorf("tagB usage after delete = %d, want 0", got)
	}
}

func TestProblemStoreUpdateSlugRegeneration(t *testing.T) {
	db := testDB(t)
	s := NewProblemStore(db)

	p, err := s.Create(CreateInput{
		Title: "Original title", Symptoms: "s", Causes: "c", Solution: "f",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cleanupProblem(t, db, p.ID)

	// Same title keeps the slug.
	same, err := s.Update(p.Slug, UpdateInput{
		Title: "Original title", Symptoms: "s2", Causes: "c", Solution: "f",
	})
	if err != nil {
		t.Fatalf("Update same title: %v", err)
	}
	if same.Slug != p.Slug {
		t.Errorf("slug changed on same-title update: %q -> %q", p.Slug, same.Slug)
	}
	if same.Symptoms != "s2" {
		t.Errorf("symptoms = %q, want updated value", same.Symptoms)
	}

	// Changed title regenerates the slug; the old one stops resolving.
	renamed, err := s.Update(p.Slug, UpdateInput{
		Title: "Renamed title", Symptoms: "s2", Causes: "c", Solution: "f",
	})
	if err != nil {
		t.Fatalf("Update new title: %v", err)
	}
	if renamed.Slug == p.Slug {
		t.Error("slug should change when title changes")
	}
	if !strings.HasPrefix(renamed.Slug, "renamed-title-") {
		t.Errorf("new slug %q missing new title prefix", renamed.Slug)
	}
	old, err := s.FindBySlug(p.Slug)
	if err != nil {
		t.Fatalf("FindBySlug old: %v", err)
	}
	if old != nil {
		t.Error("old slug should no longer resolve")
	}

	// Updating a missing slug reports not found as nil, nil.
	gone, err := s.Update("no-such-slug-xyz", UpdateInput{Title: "x"})
	if err != nil {
		t.Fatalf("Update missing: %v", err)
	}
	if gone != nil {
		t.Error("expected nil for unknown slug")
	}
}

func TestProblemStoreUpdateCategoryRebalance(t *testing.T) {
	db := testDB(t)
	s := NewProblemStore(db)

	oldCat := createTestCategory(t, db, uniqueName("move-old"))
	newCat := createTestCategory(t, db, uniqueName("move-new"))

	p, err := s.Create(CreateInput{
		Title: "Mover", Symptoms: "s", Causes: "c", Solution: "f",
		CategoryID: &oldCat,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cleanupProblem(t, db, p.ID)

	if _, err := s.Update(p.Slug, UpdateInput{
		Title: p.Title, Symptoms: "s", Causes: "c", Solution: "f",
		CategoryID: &newCat,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := categoryProblemCount(t, db, oldCat); got != 0 {
		t.Errorf("old category problem_count = %d, want 0", got)
	}
	if got := categoryProblemCount(t, db, newCat); got != 1 {
		t.Errorf("new category problem_count = %d, want 1", got)
	}
}

func TestProblemStoreListFilters(t *testing.T) {
	db := testDB(t)
	s := NewProblemStore(db)

	// A marker in the searchable text isolates this test's rows from
	// whatever else is in the shared dev database.
	marker := uniqueName("marker")
	catID := createTestCategory(t, db, uniqueName("list-cat"))
	tagID := createTestTag(t, db, uniqueName("list-tag"))
	var catSlug, tagSlug string
	db.QueryRow("SELECT slug FROM categories WHERE id = $1", catID).Scan(&catSlug)
	db.QueryRow("SELECT slug FROM tags WHERE id = $1", tagID).Scan(&tagSlug)

	mk := func(title string, withCat, withTag bool, views int) models.Problem {
		t.Helper()
		in := CreateInput{
			Title: title, Symptoms: "symptom " + marker, Causes: "c", Solution: "f",
		}
		if withCat {
			in.CategoryID = &catID
		}
		if withTag {
			in.TagIDs = []int{tagID}
		}
		p, err := s.Create(in)
		if err != nil {
			t.Fatalf("Create %q: %v", title, err)
		}
		cleanupProblem(t, db, p.ID)
		if views > 0 {
			db.Exec("UPDATE problems SET view_count = $1 WHERE id = $2", views, p.ID)
		}
		return *p
	}

	mk("Printer A", true, true, 50)
	mk("Printer B", true, false, 10)
	mk("Printer C", false, true, 30)
	mk("Printer D", false, false, 20)
	mk("Printer E", false, false, 40)

	// Free-text filter matches all five rows.
	all, err := s.List(ListFilters{Query: marker})
	if err != nil {
		t.Fatalf("List q: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("List q returned %d rows, want 5", len(all))
	}
	for _, p := range all {
		if p.Tags == nil {
			t.Error("Tags must never be nil")
		}
	}

	// Case-insensitive substring.
	upper, err := s.List(ListFilters{Query: strings.ToUpper(marker)})
	if err != nil {
		t.Fatalf("List upper q: %v", err)
	}
	if len(upper) != 5 {
		t.Errorf("case-insensitive match returned %d rows, want 5", len(upper))
	}

	// Category filter.
	byCat, err := s.List(ListFilters{Query: marker, Category: catSlug})
	if err != nil {
		t.Fatalf("List category: %v", err)
	}
	if len(byCat) != 2 {
		t.Errorf("category filter returned %d rows, want 2", len(byCat))
	}
	for _, p := range byCat {
		if p.Category == nil || p.Category.Slug != catSlug {
			t.Errorf("row %q has category %+v, want slug %s", p.Title, p.Category, catSlug)
		}
	}

	// Tag filter: every returned row carries the tag.
	byTag, err := s.List(ListFilters{Query: marker, Tag: tagSlug})
	if err != nil {
		t.Fatalf("List tag: %v", err)
	}
	if len(byTag) != 2 {
		t.Errorf("tag filter returned %d rows, want 2", len(byTag))
	}
	for _, p := range byTag {
		found := false
		for _, tg := range p.Tags {
			if tg.Slug == tagSlug {
				found = true
			}
		}
		if !found {
			t.Errorf("row %q returned by tag filter without the tag", p.Title)
		}
	}

	// Sorting by views yields a non-increasing sequence.
	byViews, err := s.List(ListFilters{Query: marker, Sort: models.SortViews})
	if err != nil {
		t.Fatalf("List views: %v", err)
	}
	for i := 1; i < len(byViews); i++ {
		if byViews[i].ViewCount > byViews[i-1].ViewCount {
			t.Errorf("views not non-increasing at %d: %d > %d",
				i, byViews[i].ViewCount, byViews[i-1].ViewCount)
		}
	}

	// Pagination caps the page size.
	page, err := s.List(ListFilters{Query: marker, Limit: 2})
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("limit 2 returned %d rows", len(page))
	}

	// Offset walks past rows.
	rest, err := s.List(ListFilters{Query: marker, Limit: 10, Offset: 3})
	if err != nil {
		t.Fatalf("List offset: %v", err)
	}
	if len(rest) != 2 {
		t.Errorf("offset 3 of 5 returned %d rows, want 2", len(rest))
	}
}

// The tag filter runs after pagination, so a page can come back short
// even when more matching rows exist overall.
func TestProblemStoreTagFilterAfterPagination(t *testing.T) {
	db := testDB(t)
	s := NewProblemStore(db)

	marker := uniqueName("pagetag")
	tagID := createTestTag(t, db, uniqueName("page-tag"))
	var tagSlug string
	db.QueryRow("SELECT slug FROM tags WHERE id = $1", tagID).Scan(&tagSlug)

	// Newest row (created last) has no tag; the two older ones do.
	for i, tagged := range []bool{true, true, false} {
		in := CreateInput{
			Title: "Page case", Symptoms: marker, Causes: "c", Solution: "f",
		}
		if tagged {
			in.TagIDs = []int{tagID}
		}
		p, err := s.Create(in)
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		cleanupProblem(t, db, p.ID)
	}

	// Page of 2 newest rows contains one untagged row, which the tag
	// filter then drops: only 1 row comes back despite 2 matching overall.
	got, err := s.List(ListFilters{Query: marker, Tag: tagSlug, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("post-pagination tag filter returned %d rows, want 1", len(got))
	}
}

func TestProblemStoreViewCount(t *testing.T) {
	db := testDB(t)
	s := NewProblemStore(db)

	p, err := s.Create(CreateInput{
		Title: "View counter", Symptoms: "s", Causes: "c", Solution: "f",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cleanupProblem(t, db, p.ID)

	first, err := s.GetAndCountView(p.Slug)
	if err != nil {
		t.Fatalf("GetAndCountView: %v", err)
	}
	if first.ViewCount != 1 {
		t.Errorf("first fetch viewCount = %d, want 1", first.ViewCount)
	}

	second, err := s.GetAndCountView(p.Slug)
	if err != nil {
		t.Fatalf("GetAndCountView: %v", err)
	}
	if second.ViewCount != 2 {
		t.Errorf("second fetch viewCount = %d, want 2", second.ViewCount)
	}

	// FindBySlug must not count a view.
	quiet, err := s.FindBySlug(p.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if quiet.ViewCount != 2 {
		t.Errorf("FindBySlug changed viewCount to %d", quiet.ViewCount)
	}

	missing, err := s.GetAndCountView("no-such-slug-xyz")
	if err != nil {
		t.Fatalf("GetAndCountView miss: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown slug")
	}
}

func TestProblemStoreRate(t *testing.T) {
	db := testDB(t)
	s := NewProblemStore(db)

	p, err := s.Create(CreateInput{
		Title: "Rate case", Symptoms: "s", Causes: "c", Solution: "f",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cleanupProblem(t, db, p.ID)

	counts, err := s.Rate(p.Slug, true)
	if err != nil {
		t.Fatalf("Rate helpful: %v", err)
	}
	if counts.HelpfulCount != 1 || counts.NotHelpfulCount != 0 {
		t.Errorf("counts = %+v, want helpful=1 notHelpful=0", counts)
	}

	counts, err = s.Rate(p.Slug, false)
	if err != nil {
		t.Fatalf("Rate not helpful: %v", err)
	}
	if counts.HelpfulCount != 1 || counts.NotHelpfulCount != 1 {
		t.Errorf("counts = %+v, want helpful=1 notHelpful=1", counts)
	}

	missing, err := s.Rate("no-such-slug-xyz", true)
	if err != nil {
		t.Fatalf("Rate miss: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown slug")
	}
}
