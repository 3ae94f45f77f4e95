package handler

import (
	"fmt"
	"net/http"
	"testing"
)

func TestSubmitEmail(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/submit-email", map[string]string{
		"email": "reader@example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data EmailResponse `json:"data"`
	}
	decode(t, w, &resp)
	if resp.Data.Email != "reader@example.com" {
		t.Errorf("Email = %q, want %q", resp.Data.Email, "reader@example.com")
	}
	if resp.Data.ID == "" {
		t.Error("ID should be a generated UUID")
	}
}

func TestSubmitEmail_DuplicateIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/submit-email", map[string]string{"email": "reader@example.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("first submit status = %d", w.Code)
	}
	var first struct {
		Data EmailResponse `json:"data"`
	}
	decode(t, w, &first)

	// Same address again, case and whitespace insensitive
	w = env.do(t, http.MethodPost, "/submit-email", map[string]string{"email": "  Reader@Example.com "})
	if w.Code != http.StatusOK {
		t.Fatalf("second submit status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var second struct {
		Data EmailResponse `json:"data"`
	}
	decode(t, w, &second)
	if second.Data.ID != first.Data.ID {
		t.Errorf("resubmission returned different ID: %q vs %q", second.Data.ID, first.Data.ID)
	}
}

func TestSubmitEmail_Invalid(t *testing.T) {
	env := newTestEnv(t)

	for _, email := range []string{"", "not-an-email", "missing@domain"} {
		w := env.do(t, http.MethodPost, "/submit-email", map[string]string{"email": email})
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("email %q: status = %d, want %d", email, w.Code, http.StatusUnprocessableEntity)
		}
	}
}

func TestListEmails(t *testing.T) {
	env := newTestEnv(t)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if w := env.do(t, http.MethodPost, "/submit-email", map[string]string{"email": email}); w.Code != http.StatusCreated {
			t.Fatalf("submit %q: status = %d", email, w.Code)
		}
	}

	w := env.do(t, http.MethodGet, "/api/emails", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []EmailResponse `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	decode(t, w, &resp)
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(resp.Data))
	}
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	lang := env.createLanguage(t, "English", "en")
	nav := env.createGroup(t, "navigation")
	home := env.createCode(t, nav.ID, "menu_home")
	env.createTranslation(t, lang.ID, home.ID, "Home")
	if w := env.do(t, http.MethodPost, "/submit-email", map[string]string{"email": "a@example.com"}); w.Code != http.StatusCreated {
		t.Fatalf("submit email: status = %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data StatsResponse `json:"data"`
	}
	decode(t, w, &resp)
	if resp.Data.Languages != 1 {
		t.Errorf("Languages = %d, want 1", resp.Data.Languages)
	}
	if resp.Data.Translations != 1 {
		t.Errorf("Translations = %d, want 1", resp.Data.Translations)
	}
	if resp.Data.Emails != 1 {
		t.Errorf("Emails = %d, want 1", resp.Data.Emails)
	}
	if resp.Data.Cache == nil {
		t.Fatal("expected cache stats in response")
	}
}

func TestStats_CacheCounters(t *testing.T) {
	env := newTestEnv(t)
	lang := env.createLanguage(t, "English", "en")
	nav := env.createGroup(t, "navigation")
	home := env.createCode(t, nav.ID, "menu_home")
	env.createTranslation(t, lang.ID, home.ID, "Home")

	// One miss to load, one hit from cache
	for i := 0; i < 2; i++ {
		if w := env.do(t, http.MethodGet, fmt.Sprintf("/api/languages/%d/labels", lang.ID), nil); w.Code != http.StatusOK {
			t.Fatalf("list labels: status = %d", w.Code)
		}
	}

	w := env.do(t, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data StatsResponse `json:"data"`
	}
	decode(t, w, &resp)
	if resp.Data.Cache == nil {
		t.Fatal("expected cache stats in response")
	}
	if resp.Data.Cache.Hits != 1 {
		t.Errorf("cache hits = %d, want 1", resp.Data.Cache.Hits)
	}
	if resp.Data.Cache.Misses != 1 {
		t.Errorf("cache misses = %d, want 1", resp.Data.Cache.Misses)
	}
}
