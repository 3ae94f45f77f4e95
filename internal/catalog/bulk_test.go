package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eindr/labeld/internal/store"
)

func navigationBatch() []BulkLabel {
	return []BulkLabel{
		{LabelCodeName: "menu_home", LabelText: "Home"},
		{LabelCodeName: "menu_about", LabelText: "About"},
		{LabelCodeName: "menu_contact", LabelText: "Contact"},
	}
}

func TestReconcileBulk_InsertsAll(t *testing.T) {
	f := newFixture(t, testDB(t))
	engine := NewEngine(f.queries)
	ctx := context.Background()

	res, err := engine.ReconcileBulk(ctx, BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels:       navigationBatch(),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalLabels)
	assert.Equal(t, 3, res.SuccessfulInsertions)
	assert.Equal(t, 0, res.SkippedLabels)
	assert.Equal(t, 0, res.FailedInsertions)
	assert.True(t, res.Success)
	assert.Equal(t, "processed 3 labels: 3 inserted", res.Message)

	require.Len(t, res.Results, 3)
	// Results come back in input order.
	assert.Equal(t, "menu_home", res.Results[0].LabelCodeName)
	assert.Equal(t, "menu_about", res.Results[1].LabelCodeName)
	assert.Equal(t, "menu_contact", res.Results[2].LabelCodeName)
	for _, item := range res.Results {
		assert.Equal(t, ActionInserted, item.Action)
		assert.True(t, item.Success)
		assert.NotZero(t, item.TranslationID)
	}
}

func TestReconcileBulk_MissingLanguageRejectsBatch(t *testing.T) {
	f := newFixture(t, testDB(t))
	engine := NewEngine(f.queries)

	res, err := engine.ReconcileBulk(context.Background(), BulkRequest{
		LanguageID:   9999,
		LabelGroupID: f.group.ID,
		Labels:       navigationBatch(),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalLabels)
	assert.Equal(t, 3, res.FailedInsertions)
	assert.Empty(t, res.Results, "no per-item processing on precondition failure")
	assert.False(t, res.Success)
	assert.Equal(t, msgLanguageNotFound, res.Message)

	n, err := f.queries.CountTranslations(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReconcileBulk_MissingGroupRejectsBatch(t *testing.T) {
	f := newFixture(t, testDB(t))
	engine := NewEngine(f.queries)

	res, err := engine.ReconcileBulk(context.Background(), BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: 9999,
		Labels:       navigationBatch(),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.FailedInsertions)
	assert.Empty(t, res.Results)
	assert.Equal(t, msgLabelGroupNotFound, res.Message)
}

func TestReconcileBulk_Idempotence(t *testing.T) {
	f := newFixture(t, testDB(t))
	engine := NewEngine(f.queries)
	ctx := context.Background()

	req := BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels:       navigationBatch(),
	}

	first, err := engine.ReconcileBulk(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 3, first.SuccessfulInsertions)

	second, err := engine.ReconcileBulk(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 0, second.SuccessfulInsertions)
	assert.Equal(t, len(req.Labels), second.SkippedLabels)
	assert.True(t, second.Success)
	for _, item := range second.Results {
		assert.Equal(t, ActionSkipped, item.Action)
	}
}

func TestReconcileBulk_UpdateConvergence(t *testing.T) {
	f := newFixture(t, testDB(t))
	engine := NewEngine(f.queries)
	ctx := context.Background()

	seedReq := BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels:       []BulkLabel{{LabelCodeName: "menu_home", LabelText: "Home"}},
	}
	_, err := engine.ReconcileBulk(ctx, seedReq)
	require.NoError(t, err)

	changed := BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels:       []BulkLabel{{LabelCodeName: "menu_home", LabelText: "Homepage"}},
		AllowUpdates: true,
	}

	res, err := engine.ReconcileBulk(ctx, changed)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, 1, res.SuccessfulUpdates)
	assert.Equal(t, ActionUpdated, res.Results[0].Action)

	got, err := f.queries.GetTranslation(ctx, store.GetTranslationParams{
		LanguageID: f.lang.ID,
		LabelID:    f.code.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Homepage", got.LabelText)

	// The identical call again is a no-op: text no longer differs.
	again, err := engine.ReconcileBulk(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, 0, again.SuccessfulUpdates)
	assert.Equal(t, 1, again.SkippedLabels)
	assert.Equal(t, ActionSkipped, again.Results[0].Action)
}

func TestReconcileBulk_SkipsWithoutAllowUpdates(t *testing.T) {
	f := newFixture(t, testDB(t))
	engine := NewEngine(f.queries)
	ctx := context.Background()

	_, err := engine.ReconcileBulk(ctx, BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels:       []BulkLabel{{LabelCodeName: "menu_home", LabelText: "Home"}},
	})
	require.NoError(t, err)

	res, err := engine.ReconcileBulk(ctx, BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels:       []BulkLabel{{LabelCodeName: "menu_home", LabelText: "Homepage"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, ActionSkipped, res.Results[0].Action)

	// No write happened: the old text survives.
	got, err := f.queries.GetTranslation(ctx, store.GetTranslationParams{
		LanguageID: f.lang.ID,
		LabelID:    f.code.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Home", got.LabelText)
}

func TestReconcileBulk_AutoProvisionsLabelCode(t *testing.T) {
	f := newFixture(t, testDB(t))
	engine := NewEngine(f.queries)
	ctx := context.Background()

	res, err := engine.ReconcileBulk(ctx, BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels:       []BulkLabel{{LabelCodeName: "menu_settings", LabelText: "Settings"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.SuccessfulInsertions)

	code, err := f.queries.GetLabelCodeByNameAndGroup(ctx, store.GetLabelCodeByNameAndGroupParams{
		Name:         "menu_settings",
		LabelGroupID: f.group.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.group.ID, code.LabelGroupID.Int64)

	// Exactly one code was created, scoped to the target group.
	codes, err := f.queries.ListLabelCodesByGroup(ctx, f.group.ID)
	require.NoError(t, err)
	var matches int
	for _, c := range codes {
		if c.Name == "menu_settings" {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
}

func TestReconcileBulk_DuplicateWithinBatch(t *testing.T) {
	f := newFixture(t, testDB(t))
	engine := NewEngine(f.queries)
	ctx := context.Background()

	res, err := engine.ReconcileBulk(ctx, BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels: []BulkLabel{
			{LabelCodeName: "menu_home", LabelText: "Home"},
			{LabelCodeName: "menu_home", LabelText: "Homepage"},
		},
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	assert.Equal(t, ActionInserted, res.Results[0].Action)
	assert.Equal(t, ActionSkipped, res.Results[1].Action)
	assert.Equal(t, 1, res.SuccessfulInsertions)
	assert.Equal(t, 1, res.SkippedLabels)

	// First committed write wins.
	got, err := f.queries.GetTranslation(ctx, store.GetTranslationParams{
		LanguageID: f.lang.ID,
		LabelID:    f.code.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Home", got.LabelText)
}

// faultyInsertStore fails CreateTranslation for one specific label text.
type faultyInsertStore struct {
	Store
	failText string
	err      error
}

func (f *faultyInsertStore) CreateTranslation(ctx context.Context, arg store.CreateTranslationParams) (store.LanguageLabel, error) {
	if arg.LabelText == f.failText {
		return store.LanguageLabel{}, f.err
	}
	return f.Store.CreateTranslation(ctx, arg)
}

func TestReconcileBulk_PartialFailureIsolation(t *testing.T) {
	f := newFixture(t, testDB(t))
	engine := NewEngine(&faultyInsertStore{
		Store:    f.queries,
		failText: "Services",
		err:      errors.New("connection reset"),
	})
	ctx := context.Background()

	res, err := engine.ReconcileBulk(ctx, BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels: []BulkLabel{
			{LabelCodeName: "menu_home", LabelText: "Home"},
			{LabelCodeName: "menu_about", LabelText: "About"},
			{LabelCodeName: "menu_services", LabelText: "Services"},
			{LabelCodeName: "menu_contact", LabelText: "Contact"},
			{LabelCodeName: "menu_blog", LabelText: "Blog"},
		},
	})
	require.NoError(t, err, "a single item failure must not abort the batch")

	assert.Equal(t, 5, res.TotalLabels)
	assert.Equal(t, 4, res.SuccessfulInsertions)
	assert.Equal(t, 1, res.FailedInsertions)
	assert.False(t, res.Success)
	require.Len(t, res.Results, 5)

	failed := res.Results[2]
	assert.Equal(t, "menu_services", failed.LabelCodeName)
	assert.Equal(t, ActionFailed, failed.Action)
	assert.False(t, failed.Success)
	assert.Contains(t, failed.Message, "connection reset")

	// Items after the failed one were still processed.
	assert.Equal(t, ActionInserted, res.Results[3].Action)
	assert.Equal(t, ActionInserted, res.Results[4].Action)
}

// faultyUpdateStore fails UpdateTranslationText unconditionally.
type faultyUpdateStore struct {
	Store
	err error
}

func (f *faultyUpdateStore) UpdateTranslationText(context.Context, store.UpdateTranslationTextParams) (store.LanguageLabel, error) {
	return store.LanguageLabel{}, f.err
}

func TestReconcileBulk_FailedUpdateAction(t *testing.T) {
	f := newFixture(t, testDB(t))
	ctx := context.Background()

	_, err := NewEngine(f.queries).ReconcileBulk(ctx, BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels:       []BulkLabel{{LabelCodeName: "menu_home", LabelText: "Home"}},
	})
	require.NoError(t, err)

	engine := NewEngine(&faultyUpdateStore{Store: f.queries, err: errors.New("database is locked")})
	res, err := engine.ReconcileBulk(ctx, BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels:       []BulkLabel{{LabelCodeName: "menu_home", LabelText: "Homepage"}},
		AllowUpdates: true,
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 1)
	assert.Equal(t, ActionFailedUpdate, res.Results[0].Action)
	assert.Equal(t, 1, res.FailedInsertions)
	assert.False(t, res.Success)
}

func TestReconcileBulk_BatchBounds(t *testing.T) {
	f := newFixture(t, testDB(t))
	engine := NewEngine(f.queries)
	ctx := context.Background()

	_, err := engine.ReconcileBulk(ctx, BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
	})
	assert.ErrorIs(t, err, ErrEmptyBatch)

	labels := make([]BulkLabel, MaxBatchLabels+1)
	for i := range labels {
		labels[i] = BulkLabel{LabelCodeName: "code", LabelText: "text"}
	}
	_, err = engine.ReconcileBulk(ctx, BulkRequest{
		LanguageID:   f.lang.ID,
		LabelGroupID: f.group.ID,
		Labels:       labels,
	})
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		result BulkResult
		want   string
	}{
		{
			"all inserted",
			BulkResult{TotalLabels: 3, SuccessfulInsertions: 3},
			"processed 3 labels: 3 inserted",
		},
		{
			"mixed",
			BulkResult{TotalLabels: 5, SuccessfulInsertions: 2, SuccessfulUpdates: 1, SkippedLabels: 1, FailedInsertions: 1},
			"processed 5 labels: 2 inserted, 1 updated, 1 skipped, 1 failed",
		},
		{
			"all skipped",
			BulkResult{TotalLabels: 2, SkippedLabels: 2},
			"processed 2 labels: 2 skipped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarize(tt.result))
		})
	}
}
