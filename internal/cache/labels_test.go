package cache

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/eindr/labeld/internal/model"
	"github.com/eindr/labeld/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "labeld-cache-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	})

	return db
}

// fixture seeds a language with two translated labels in separate groups.
// Returns the language ID and the two group IDs.
func fixture(t *testing.T, q *store.Queries) (langID, navGroupID, formsGroupID int64) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	lang, err := q.CreateLanguage(ctx, store.CreateLanguageParams{
		Name:      "English",
		LangCode:  "en",
		Direction: model.DirectionLeft,
		IsActive:  1,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateLanguage: %v", err)
	}

	nav, err := q.CreateLabelGroup(ctx, store.CreateLabelGroupParams{GroupName: "navigation", CreatedAt: now})
	if err != nil {
		t.Fatalf("CreateLabelGroup: %v", err)
	}
	forms, err := q.CreateLabelGroup(ctx, store.CreateLabelGroupParams{GroupName: "forms", CreatedAt: now})
	if err != nil {
		t.Fatalf("CreateLabelGroup: %v", err)
	}

	for _, spec := range []struct {
		groupID int64
		code    string
		text    string
	}{
		{nav.ID, "menu_home", "Home"},
		{forms.ID, "submit_button", "Submit"},
	} {
		code, err := q.CreateLabelCode(ctx, store.CreateLabelCodeParams{
			Name:         spec.code,
			LabelGroupID: spec.groupID,
			CreatedAt:    now,
		})
		if err != nil {
			t.Fatalf("CreateLabelCode: %v", err)
		}
		if _, err := q.CreateTranslation(ctx, store.CreateTranslationParams{
			LanguageID: lang.ID,
			LabelID:    code.ID,
			LabelText:  spec.text,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			t.Fatalf("CreateTranslation: %v", err)
		}
	}

	return lang.ID, nav.ID, forms.ID
}

func TestLabelCache_GetLoadsAndCaches(t *testing.T) {
	db := testDB(t)
	q := store.New(db)
	langID, _, _ := fixture(t, q)
	ctx := context.Background()

	backend := NewSimpleMemoryCache(time.Minute)
	defer func() { _ = backend.Close() }()
	lc := NewLabelCache(backend, q, time.Minute)

	labels, err := lc.Get(ctx, langID, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}

	// Second read should come from the cache
	if _, err := lc.Get(ctx, langID, 0); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	stats := backend.Stats()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
}

func TestLabelCache_GetFiltersByGroup(t *testing.T) {
	db := testDB(t)
	q := store.New(db)
	langID, navGroupID, _ := fixture(t, q)
	ctx := context.Background()

	backend := NewSimpleMemoryCache(time.Minute)
	defer func() { _ = backend.Close() }()
	lc := NewLabelCache(backend, q, time.Minute)

	labels, err := lc.Get(ctx, langID, navGroupID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(labels))
	}
	if labels[0].LabelCodeName != "menu_home" {
		t.Errorf("LabelCodeName = %q, want %q", labels[0].LabelCodeName, "menu_home")
	}
}

func TestLabelCache_InvalidateLanguage(t *testing.T) {
	db := testDB(t)
	q := store.New(db)
	langID, navGroupID, _ := fixture(t, q)
	ctx := context.Background()

	backend := NewSimpleMemoryCache(time.Minute)
	defer func() { _ = backend.Close() }()
	lc := NewLabelCache(backend, q, time.Minute)

	if _, err := lc.Get(ctx, langID, 0); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Add a translation behind the cache's back
	now := time.Now()
	code, err := q.CreateLabelCode(ctx, store.CreateLabelCodeParams{
		Name:         "menu_about",
		LabelGroupID: navGroupID,
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateLabelCode: %v", err)
	}
	if _, err := q.CreateTranslation(ctx, store.CreateTranslationParams{
		LanguageID: langID,
		LabelID:    code.ID,
		LabelText:  "About",
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("CreateTranslation: %v", err)
	}

	// Still stale before invalidation
	labels, err := lc.Get(ctx, langID, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("expected stale 2 labels, got %d", len(labels))
	}

	lc.InvalidateLanguage(ctx, langID)

	labels, err = lc.Get(ctx, langID, 0)
	if err != nil {
		t.Fatalf("Get after invalidate: %v", err)
	}
	if len(labels) != 3 {
		t.Errorf("expected 3 labels after invalidate, got %d", len(labels))
	}
}

func TestLabelCache_Refresh(t *testing.T) {
	db := testDB(t)
	q := store.New(db)
	langID, _, _ := fixture(t, q)
	ctx := context.Background()

	backend := NewSimpleMemoryCache(time.Minute)
	defer func() { _ = backend.Close() }()
	lc := NewLabelCache(backend, q, time.Minute)

	if err := lc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// The warmed entry should serve without touching the database
	backend.ResetStats()
	labels, err := lc.Get(ctx, langID, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}
	if stats := backend.Stats(); stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
}
