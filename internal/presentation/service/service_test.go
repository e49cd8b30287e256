package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Webys-org/prezentic/backend/demo-services/internal/identity"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/kvstore"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation/store"
)

func newTestService(t *testing.T) (*Service, *kvstore.Memory) {
	t.Helper()
	kv := kvstore.NewMemory()
	svc := NewService(
		store.NewMetadataStore(kv),
		store.NewDocumentStore(kv),
		identity.NewResolver(kv, "demo-user"),
		"https://prezentic.test",
	)
	return svc, kv
}

func sampleDoc() *presentation.Document {
	return &presentation.Document{
		Title: "Intro to Rust",
		Slides: []presentation.Slide{
			{Title: "Welcome", Content: []string{"Why systems programming matters"}},
			{Title: "Ownership", Content: []string{"Borrowing rules", "Lifetimes explained"}},
			{Title: "Wrap up", Content: []string{"Questions welcome"}, Notes: "keep it short"},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := svc.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, sampleDoc(), got)
}

func TestSaveDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)

	list, err := svc.List(ctx, "demo-user")
	require.NoError(t, err)
	require.Len(t, list, 1)

	m := list[0]
	assert.Equal(t, id, m.ID)
	assert.Equal(t, "demo-user", m.UserID)
	assert.Equal(t, "Intro to Rust", m.Title)
	assert.Equal(t, presentation.StatusDraft, m.Status)
	assert.Equal(t, 3, m.TotalSlides)
	assert.False(t, m.IsPublic)
	assert.Equal(t, 0, m.ViewCount)
	assert.Nil(t, m.LastPresentedAt)
	assert.Equal(t, m.CreatedAt, m.UpdatedAt)
	assert.NotEmpty(t, m.Tags)
}

func TestLoadNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Load(context.Background(), "no-such-id")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestViewCountIncrementsPerLoad(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)

	viewCount := func() int {
		list, err := svc.List(ctx, "demo-user")
		require.NoError(t, err)
		require.Len(t, list, 1)
		return list[0].ViewCount
	}

	require.Equal(t, 0, viewCount())

	_, err = svc.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 1, viewCount())

	_, err = svc.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 2, viewCount())

	// a failed load must not touch anything
	_, err = svc.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 2, viewCount())
}

func TestLoadSurvivesMissingMetadata(t *testing.T) {
	svc, kv := newTestService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)

	// wipe the summary collection, leaving the document orphaned
	require.NoError(t, kv.Remove(ctx, store.MetadataKey))

	got, err := svc.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Intro to Rust", got.Title)
}

func TestListFiltersByOwnerAndSorts(t *testing.T) {
	svc, _ := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	svc.now = func() time.Time { return clock }

	aliceCtx := identity.WithOwnerID(context.Background(), "alice")
	bobCtx := identity.WithOwnerID(context.Background(), "bob")

	mk := func(ctx context.Context, title string, at time.Time) string {
		clock = at
		id, err := svc.Save(ctx, &presentation.Document{Title: title})
		require.NoError(t, err)
		return id
	}

	oldest := mk(aliceCtx, "Oldest", base)
	tiedA := mk(aliceCtx, "Tied A", base.Add(time.Hour))
	tiedB := mk(aliceCtx, "Tied B", base.Add(time.Hour))
	newest := mk(aliceCtx, "Newest", base.Add(2*time.Hour))
	mk(bobCtx, "Bob's deck", base.Add(3*time.Hour))

	list, err := svc.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, list, 4)

	// non-increasing updatedAt, ties keep insertion order
	assert.Equal(t, newest, list[0].ID)
	assert.Equal(t, tiedA, list[1].ID)
	assert.Equal(t, tiedB, list[2].ID)
	assert.Equal(t, oldest, list[3].ID)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].UpdatedAt.After(list[i-1].UpdatedAt))
	}
}

func TestUpdateSlidesSyncsTotal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)

	slides := []presentation.Slide{
		{Title: "Only slide", Content: []string{"Condensed"}},
	}
	require.NoError(t, svc.Update(ctx, id, presentation.DocumentPatch{Slides: &slides}))

	list, err := svc.List(ctx, "demo-user")
	require.NoError(t, err)
	require.Equal(t, 1, list[0].TotalSlides)

	got, err := svc.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, slides, got.Slides)
	require.Equal(t, "Intro to Rust", got.Title) // untouched
}

func TestUpdateTitleMirroredToMetadata(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)

	title := "Advanced Rust"
	require.NoError(t, svc.Update(ctx, id, presentation.DocumentPatch{Title: &title}))

	list, err := svc.List(ctx, "demo-user")
	require.NoError(t, err)
	require.Equal(t, "Advanced Rust", list[0].Title)
	require.Equal(t, 3, list[0].TotalSlides) // slides untouched

	got, err := svc.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Advanced Rust", got.Title)
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	pub := presentation.StatusPublished
	require.NoError(t, svc.Update(ctx, id, presentation.DocumentPatch{Status: &pub}))

	list, err := svc.List(ctx, "demo-user")
	require.NoError(t, err)
	require.Equal(t, pub, list[0].Status)
	require.True(t, list[0].UpdatedAt.After(list[0].CreatedAt))
}

func TestUpdateUnknownIDIsSilentNoop(t *testing.T) {
	svc, kv := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)

	before, _, err := kv.Get(ctx, store.MetadataKey)
	require.NoError(t, err)

	title := "Ghost"
	require.NoError(t, svc.Update(ctx, "missing", presentation.DocumentPatch{Title: &title}))

	after, _, err := kv.Get(ctx, store.MetadataKey)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestUpdateOrphanedDocumentStillWritten(t *testing.T) {
	svc, kv := newTestService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)

	// drop the summary record; the document stays behind
	require.NoError(t, kv.Remove(ctx, store.MetadataKey))

	title := "Orphan updated"
	require.NoError(t, svc.Update(ctx, id, presentation.DocumentPatch{Title: &title}))

	got, err := svc.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Orphan updated", got.Title)
}

func TestStatusTransitions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)

	set := func(s presentation.Status) error {
		return svc.Update(ctx, id, presentation.DocumentPatch{Status: &s})
	}

	require.NoError(t, set(presentation.StatusPublished))
	require.NoError(t, set(presentation.StatusArchived))

	// archived never goes back
	require.ErrorIs(t, set(presentation.StatusDraft), ErrInvalidTransition)
	require.ErrorIs(t, set(presentation.StatusPublished), ErrInvalidTransition)
	// same-state stays legal
	require.NoError(t, set(presentation.StatusArchived))
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))
	_, err = svc.Load(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, id))
	_, err = svc.Load(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, "demo-user")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)

	newID, err := svc.Duplicate(ctx, id, "Intro to Rust v2")
	require.NoError(t, err)
	require.NotEqual(t, id, newID)

	dup, err := svc.Load(ctx, newID)
	require.NoError(t, err)
	assert.Equal(t, "Intro to Rust v2", dup.Title)
	assert.Equal(t, sampleDoc().Slides, dup.Slides)

	// default title suffix
	thirdID, err := svc.Duplicate(ctx, id, "")
	require.NoError(t, err)
	third, err := svc.Load(ctx, thirdID)
	require.NoError(t, err)
	assert.Equal(t, "Intro to Rust (Copy)", third.Title)
}

func TestDuplicateMissingPropagatesNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Duplicate(context.Background(), "missing", "")
	require.ErrorIs(t, err, ErrNotFound)
}

// Full dashboard scenario: save, list, load, duplicate, and the duplicate's
// view-count side effect on the original.
func TestDashboardScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, sampleDoc())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list, err := svc.List(ctx, "demo-user")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].TotalSlides)
	assert.Equal(t, presentation.StatusDraft, list[0].Status)
	assert.Equal(t, 0, list[0].ViewCount)

	_, err = svc.Load(ctx, id)
	require.NoError(t, err)

	list, err = svc.List(ctx, "demo-user")
	require.NoError(t, err)
	assert.Equal(t, 1, list[0].ViewCount)

	newID, err := svc.Duplicate(ctx, id, "Intro to Rust v2")
	require.NoError(t, err)
	require.NotEqual(t, id, newID)

	list, err = svc.List(ctx, "demo-user")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, m := range list {
		if m.ID == id {
			// duplication loads the original, so its count went up again
			assert.Equal(t, 2, m.ViewCount)
		}
		if m.ID == newID {
			assert.Equal(t, "Intro to Rust v2", m.Title)
			assert.Equal(t, 0, m.ViewCount)
		}
	}
}

func TestShareURLDeterministic(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	url, err := svc.Share(ctx, "p123", "", "")
	require.NoError(t, err)
	require.Equal(t, "https://prezentic.test/shared/p123?permission=view", url)

	again, err := svc.Share(ctx, "p123", "teammate@example.com", "edit")
	require.NoError(t, err)
	require.Equal(t, "https://prezentic.test/shared/p123?permission=edit", again)
}
