package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/memory"
)

// stepClock returns a time source that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func draftPost(title string) simplecms.ItemFields {
	return simplecms.ItemFields{
		Title:   title,
		Content: "Body of " + title,
		Type:    simplecms.ItemTypePost,
		Status:  simplecms.ItemStatusDraft,
		Author:  "Test Author",
	}
}

func assertStatsConsistent(t *testing.T, s *simplecms.Stats) {
	t.Helper()
	assert.Equal(t, s.Total, s.Published+s.Drafts, "published + drafts must equal total")
	assert.Equal(t, s.Total, s.Pages+s.Posts+s.Announcements, "per-type counts must sum to total")
}

func TestMemoryRepository_ItemOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	t.Run("CreateItem", func(t *testing.T) {
		item, err := repo.CreateItem(ctx, draftPost("First"))
		require.NoError(t, err)
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, "First", item.Title)
		assert.Equal(t, "Test Author", item.Author)
		assert.Equal(t, item.CreatedAt, item.UpdatedAt)
	})

	t.Run("GetItem", func(t *testing.T) {
		created, err := repo.CreateItem(ctx, draftPost("For Get"))
		require.NoError(t, err)

		retrieved, err := repo.GetItem(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, retrieved)
	})

	t.Run("GetItem_NotFound", func(t *testing.T) {
		item, err := repo.GetItem(ctx, "missing")
		assert.Nil(t, item)
		assert.ErrorIs(t, err, simplecms.ErrItemNotFound)
	})

	t.Run("UpdateItem", func(t *testing.T) {
		created, err := repo.CreateItem(ctx, draftPost("Original"))
		require.NoError(t, err)

		title := "Renamed"
		updated, err := repo.UpdateItem(ctx, created.ID, simplecms.ItemPatch{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, created.Content, updated.Content)
		assert.Equal(t, created.Status, updated.Status)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("DeleteItem", func(t *testing.T) {
		created, err := repo.CreateItem(ctx, draftPost("To Delete"))
		require.NoError(t, err)

		require.NoError(t, repo.DeleteItem(ctx, created.ID))

		_, err = repo.GetItem(ctx, created.ID)
		assert.ErrorIs(t, err, simplecms.ErrItemNotFound)
	})
}

func TestMemoryRepository_ListPreservesInsertionOrder(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		item, err := repo.CreateItem(ctx, draftPost(fmt.Sprintf("Item %d", i)))
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}
	require.NoError(t, repo.DeleteItem(ctx, ids[2]))

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)

	var got []string
	for _, item := range items {
		got = append(got, item.ID)
	}
	assert.Equal(t, []string{ids[0], ids[1], ids[3], ids[4]}, got)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := memory.NewSeeded()
	ctx := context.Background()

	item, err := repo.GetItem(ctx, "1")
	require.NoError(t, err)
	item.Title = "mutated by caller"

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	items[0].Status = simplecms.ItemStatusDraft

	fresh, err := repo.GetItem(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Winalum", fresh.Title)
	assert.Equal(t, simplecms.ItemStatusPublished, fresh.Status)
}

func TestMemoryRepository_UniqueIDsAndCreationTimestamps(t *testing.T) {
	repo := memory.NewSeeded()
	ctx := context.Background()

	seen := map[string]bool{"1": true, "2": true, "3": true, "4": true}
	for i := 0; i < 50; i++ {
		item, err := repo.CreateItem(ctx, draftPost(fmt.Sprintf("P%d", i)))
		require.NoError(t, err)
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
		assert.Equal(t, item.CreatedAt, item.UpdatedAt)
	}
	assert.Equal(t, 54, repo.Len())
}

func TestMemoryRepository_IDsSkipSeededValues(t *testing.T) {
	repo := memory.New(memory.WithSeed([]*simplecms.Item{
		{ID: "7", Title: "t", Content: "c", Type: simplecms.ItemTypePage, Status: simplecms.ItemStatusDraft},
		{ID: "slug-id", Title: "t", Content: "c", Type: simplecms.ItemTypePage, Status: simplecms.ItemStatusDraft},
	}))

	item, err := repo.CreateItem(context.Background(), draftPost("next"))
	require.NoError(t, err)
	assert.Equal(t, "8", item.ID)
}

func TestMemoryRepository_UpdateRefreshesUpdatedAt(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := memory.New(memory.WithClock(stepClock(start)))
	ctx := context.Background()

	created, err := repo.CreateItem(ctx, draftPost("Clocked"))
	require.NoError(t, err)

	status := simplecms.ItemStatusPublished
	updated, err := repo.UpdateItem(ctx, created.ID, simplecms.ItemPatch{Status: &status})
	require.NoError(t, err)

	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestMemoryRepository_UpdatedAtNeverMovesBackwards(t *testing.T) {
	times := []time.Time{
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	calls := 0
	repo := memory.New(memory.WithClock(func() time.Time {
		t := times[calls%len(times)]
		calls++
		return t
	}))
	ctx := context.Background()

	created, err := repo.CreateItem(ctx, draftPost("Skewed"))
	require.NoError(t, err)

	title := "Still valid"
	updated, err := repo.UpdateItem(ctx, created.ID, simplecms.ItemPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, created.UpdatedAt, updated.UpdatedAt)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestMemoryRepository_UpdateNotFoundLeavesCollectionUnchanged(t *testing.T) {
	repo := memory.NewSeeded()
	ctx := context.Background()

	before, err := repo.ListItems(ctx)
	require.NoError(t, err)

	title := "ghost"
	status := simplecms.ItemStatusPublished
	item, err := repo.UpdateItem(ctx, "nonexistent-id", simplecms.ItemPatch{Title: &title, Status: &status})
	assert.Nil(t, item)
	assert.ErrorIs(t, err, simplecms.ErrItemNotFound)

	after, err := repo.ListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMemoryRepository_DeleteTwice(t *testing.T) {
	repo := memory.NewSeeded()
	ctx := context.Background()

	require.NoError(t, repo.DeleteItem(ctx, "4"))
	assert.ErrorIs(t, repo.DeleteItem(ctx, "4"), simplecms.ErrItemNotFound)
	assert.Equal(t, 3, repo.Len())
}

func TestMemoryRepository_SeededStatsScenario(t *testing.T) {
	repo := memory.NewSeeded()
	ctx := context.Background()

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &simplecms.Stats{Total: 4, Published: 3, Drafts: 1, Pages: 2, Posts: 1, Announcements: 1}, stats)

	created, err := repo.CreateItem(ctx, draftPost("X"))
	require.NoError(t, err)

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Posts)
	assertStatsConsistent(t, stats)

	published := simplecms.ItemStatusPublished
	_, err = repo.UpdateItem(ctx, created.ID, simplecms.ItemPatch{Status: &published})
	require.NoError(t, err)

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Published)
	assert.Equal(t, 1, stats.Drafts)
	assertStatsConsistent(t, stats)

	require.NoError(t, repo.DeleteItem(ctx, "4"))

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 0, stats.Announcements)
	assertStatsConsistent(t, stats)
}

func TestMemoryRepository_ConcurrentMutations(t *testing.T) {
	repo := memory.NewSeeded()
	ctx := context.Background()

	const workers = 16
	const perWorker = 25

	var wg sync.WaitGroup
	ids := make(chan string, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				item, err := repo.CreateItem(ctx, draftPost(fmt.Sprintf("w%d-%d", w, i)))
				if !assert.NoError(t, err) {
					return
				}
				ids <- item.ID

				published := simplecms.ItemStatusPublished
				_, err = repo.UpdateItem(ctx, item.ID, simplecms.ItemPatch{Status: &published})
				assert.NoError(t, err)

				stats, err := repo.Stats(ctx)
				assert.NoError(t, err)
				assertStatsConsistent(t, stats)
			}
		}(w)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4+workers*perWorker, stats.Total)
	assert.Equal(t, 3+workers*perWorker, stats.Published)
	assertStatsConsistent(t, stats)
}
