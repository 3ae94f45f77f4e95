package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/eindr/labeld/internal/store"
)

const labelKeyPrefix = "labels:"

// LabelCache provides cached access to resolved label lists, keyed by
// language and label group. Entries are JSON-serialized through the
// underlying Cache so the same code path works for memory and Redis.
type LabelCache struct {
	cache   Cache
	queries *store.Queries
	ttl     time.Duration
}

// NewLabelCache creates a new label cache over the given backend.
func NewLabelCache(backend Cache, queries *store.Queries, ttl time.Duration) *LabelCache {
	return &LabelCache{
		cache:   backend,
		queries: queries,
		ttl:     ttl,
	}
}

// labelKey builds the cache key for a (language, group) pair.
// A group ID of 0 means all groups.
func labelKey(languageID, groupID int64) string {
	return fmt.Sprintf("%s%d:%d", labelKeyPrefix, languageID, groupID)
}

// Get returns the resolved labels for a language, optionally filtered by
// label group (groupID 0 means all groups). Loads from the database on a
// cache miss and stores the result.
func (c *LabelCache) Get(ctx context.Context, languageID, groupID int64) ([]store.ResolvedLabel, error) {
	key := labelKey(languageID, groupID)

	if data, err := c.cache.Get(ctx, key); err == nil {
		var labels []store.ResolvedLabel
		if err := json.Unmarshal(data, &labels); err == nil {
			return labels, nil
		}
		// Corrupt entry, drop it and reload
		_ = c.cache.Delete(ctx, key)
	}

	labels, err := c.queries.ListResolvedLabels(ctx, store.ListResolvedLabelsParams{
		LanguageID:   languageID,
		LabelGroupID: groupID,
	})
	if err != nil {
		return nil, fmt.Errorf("loading labels for language %d: %w", languageID, err)
	}

	if data, err := json.Marshal(labels); err == nil {
		// Cache write failures are not fatal, the loaded value is still valid
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}

	return labels, nil
}

// InvalidateLanguage removes all cached label lists for a language.
// Called after any write that touches the language's translations.
func (c *LabelCache) InvalidateLanguage(ctx context.Context, languageID int64) {
	prefix := fmt.Sprintf("%s%d:", labelKeyPrefix, languageID)
	if err := c.cache.DeleteByPrefix(ctx, prefix); err != nil {
		slog.Warn("label cache invalidation failed", "language_id", languageID, "error", err)
	}
}

// InvalidateAll removes every cached label list. Called after writes that
// can affect any language, such as bulk reconciliation or group changes.
func (c *LabelCache) InvalidateAll(ctx context.Context) {
	if err := c.cache.DeleteByPrefix(ctx, labelKeyPrefix); err != nil {
		slog.Warn("label cache invalidation failed", "error", err)
	}
}

// Refresh reloads the full label list for every active language, warming
// the cache. Used by the scheduler.
func (c *LabelCache) Refresh(ctx context.Context) error {
	languages, err := c.queries.ListActiveLanguages(ctx)
	if err != nil {
		return fmt.Errorf("listing active languages: %w", err)
	}

	for _, lang := range languages {
		key := labelKey(lang.ID, 0)
		labels, err := c.queries.ListResolvedLabels(ctx, store.ListResolvedLabelsParams{
			LanguageID: lang.ID,
		})
		if err != nil {
			return fmt.Errorf("loading labels for language %q: %w", lang.LangCode, err)
		}
		data, err := json.Marshal(labels)
		if err != nil {
			return fmt.Errorf("encoding labels for language %q: %w", lang.LangCode, err)
		}
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			return fmt.Errorf("caching labels for language %q: %w", lang.LangCode, err)
		}
	}

	return nil
}

// Stats returns statistics from the underlying cache backend, if available.
func (c *LabelCache) Stats() (Stats, bool) {
	if sp, ok := c.cache.(StatsProvider); ok {
		return sp.Stats(), true
	}
	return Stats{}, false
}
