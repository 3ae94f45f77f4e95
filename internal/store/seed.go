package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eindr/labeld/internal/model"
)

// Sample data mirroring a minimal catalog: a few languages, the standard
// label groups, and English translations for the navigation group.
var (
	seedLanguages = []struct {
		Name, Code string
	}{
		{"English", "en"},
		{"Spanish", "es"},
		{"French", "fr"},
	}

	seedGroups = []struct {
		Name, Description string
	}{
		{"home", "Homepage labels"},
		{"navigation", "Navigation menu labels"},
		{"forms", "Form labels and buttons"},
		{"errors", "Error messages"},
		{"common", "Common UI elements"},
	}

	seedNavigationLabels = []struct {
		Code, Text string
	}{
		{"menu_home", "Home"},
		{"menu_about", "About"},
		{"menu_contact", "Contact"},
		{"menu_services", "Services"},
	}
)

// Seed populates the catalog with sample data when enabled. It is idempotent:
// if the first seed language already exists, seeding is skipped entirely.
// All inserts run in one transaction so a half-seeded catalog never persists.
func Seed(ctx context.Context, db *sql.DB, enabled bool) error {
	if !enabled {
		return nil
	}

	_, err := New(db).GetLanguageByCode(ctx, seedLanguages[0].Code)
	if err == nil {
		slog.Info("seed data already present, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for seed data: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := New(db).WithTx(tx)
	now := time.Now()

	var english Language
	for _, l := range seedLanguages {
		direction := model.DirectionLeft
		for _, common := range model.CommonLanguages {
			if common.Code == l.Code {
				direction = common.Direction
			}
		}
		lang, err := queries.CreateLanguage(ctx, CreateLanguageParams{
			Name:      l.Name,
			LangCode:  l.Code,
			Direction: direction,
			IsActive:  1,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("seeding language %q: %w", l.Name, err)
		}
		if l.Code == "en" {
			english = lang
		}
	}

	var navigation LabelGroup
	for _, g := range seedGroups {
		group, err := queries.CreateLabelGroup(ctx, CreateLabelGroupParams{
			GroupName:   g.Name,
			Description: g.Description,
			CreatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("seeding label group %q: %w", g.Name, err)
		}
		if g.Name == "navigation" {
			navigation = group
		}
	}

	for _, l := range seedNavigationLabels {
		code, err := queries.CreateLabelCode(ctx, CreateLabelCodeParams{
			Name:         l.Code,
			LabelGroupID: navigation.ID,
			CreatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("seeding label code %q: %w", l.Code, err)
		}
		if _, err := queries.CreateTranslation(ctx, CreateTranslationParams{
			LanguageID: english.ID,
			LabelID:    code.ID,
			LabelText:  l.Text,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("seeding translation %q: %w", l.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}

	slog.Info("seeded sample catalog data",
		"languages", len(seedLanguages),
		"groups", len(seedGroups),
		"labels", len(seedNavigationLabels),
	)
	return nil
}
