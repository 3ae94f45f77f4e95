package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eindr/labeld/internal/cache"
	"github.com/eindr/labeld/internal/model"
	"github.com/eindr/labeld/internal/store"
)

// testEnv bundles the pieces handler tests need.
type testEnv struct {
	db      *sql.DB
	queries *store.Queries
	router  chi.Router
}

// passthroughAuth stands in for admin auth in tests.
func passthroughAuth(next http.Handler) http.Handler {
	return next
}

// newTestEnv creates a temp database, a label cache, and a fully routed handler.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	f, err := os.CreateTemp("", "labeld-handler-test-*.db")
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

	queries := store.New(db)
	backend := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = backend.Close() })
	labels := cache.NewLabelCache(backend, queries, time.Minute)

	h := NewHandler(db, labels)
	health := NewHealthHandler(db, "test")

	r := chi.NewRouter()
	MountRoutes(r, h, health, passthroughAuth)

	return &testEnv{db: db, queries: queries, router: r}
}

// do executes a request against the test router.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorded JSON response body into dst.
func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

// createLanguage inserts a language directly through the store.
func (e *testEnv) createLanguage(t *testing.T, name, code string) store.Language {
	t.Helper()
	now := time.Now()
	lang, err := e.queries.CreateLanguage(context.Background(), store.CreateLanguageParams{
		Name:      name,
		LangCode:  code,
		Direction: model.DirectionLeft,
		IsActive:  1,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateLanguage: %v", err)
	}
	return lang
}

// createGroup inserts a label group directly through the store.
func (e *testEnv) createGroup(t *testing.T, name string) store.LabelGroup {
	t.Helper()
	group, err := e.queries.CreateLabelGroup(context.Background(), store.CreateLabelGroupParams{
		GroupName: name,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateLabelGroup: %v", err)
	}
	return group
}

// createCode inserts a label code directly through the store.
func (e *testEnv) createCode(t *testing.T, groupID int64, name string) store.LabelCode {
	t.Helper()
	code, err := e.queries.CreateLabelCode(context.Background(), store.CreateLabelCodeParams{
		Name:         name,
		LabelGroupID: groupID,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateLabelCode: %v", err)
	}
	return code
}

// createTranslation inserts a translation directly through the store.
func (e *testEnv) createTranslation(t *testing.T, langID, labelID int64, text string) store.LanguageLabel {
	t.Helper()
	now := time.Now()
	tr, err := e.queries.CreateTranslation(context.Background(), store.CreateTranslationParams{
		LanguageID: langID,
		LabelID:    labelID,
		LabelText:  text,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateTranslation: %v", err)
	}
	return tr
}
