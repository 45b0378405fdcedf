package dashboard_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/prossm/basic-web-tts/pkg/dashboard"
	"github.com/prossm/basic-web-tts/pkg/recording"
	"github.com/prossm/basic-web-tts/pkg/recording/memory"

	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) *memory.Store {
	t.Helper()

	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.EnsureProfile(ctx, "alice", "alice@example.com"))
	require.NoError(t, store.EnsureProfile(ctx, "bob", "bob@example.org"))

	ptr := func(v float64) *float64 { return &v }

	put := func(owner, voiceName, text string, created int64, duration *float64) {
		t.Helper()

		rec := recording.New(owner, voiceName, text, "/audio/x.wav", duration)
		rec.Created = created

		require.NoError(t, store.Put(ctx, rec))
	}

	put("alice", "en_US-amy-medium", "good morning sunshine", 100, ptr(3.0))
	put("alice", "en_GB-alan-medium", "the weather report", 200, ptr(7.2))
	put("bob", "en_US-amy-medium", "hello world", 300, nil)
	put("bob", "en_GB-alan-medium", "hello again world", 400, ptr(9.9))
	put("", "en_US-kathleen-low", "anonymous hello", 500, ptr(12.0))

	return store
}

func TestQuerySortsByCreationDescending(t *testing.T) {
	engine := dashboard.New(seed(t))

	entries, pagination, err := engine.Query(context.Background(), dashboard.Filter{}, 1, 50)
	require.NoError(t, err)

	require.Equal(t, 5, pagination.Total)
	require.Equal(t, 1, pagination.TotalPages)
	require.False(t, pagination.HasNext)
	require.False(t, pagination.HasPrev)

	var created []int64

	for _, entry := range entries {
		created = append(created, entry.Created)
	}

	require.Equal(t, []int64{500, 400, 300, 200, 100}, created)

	// anonymous entries carry no email
	require.Empty(t, entries[0].UserEmail)
	require.Equal(t, "bob@example.org", entries[1].UserEmail)
}

func TestQueryPaginationLaw(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.EnsureProfile(ctx, "alice", "alice@example.com"))

	for i := range 23 {
		rec := recording.New("alice", "en_US-amy-medium", fmt.Sprintf("text number %d", i), "/audio/x.wav", nil)
		rec.Created = int64(i)
		require.NoError(t, store.Put(ctx, rec))
	}

	engine := dashboard.New(store)

	const limit = 5

	var all []dashboard.Entry

	page := 1

	for {
		entries, pagination, err := engine.Query(ctx, dashboard.Filter{}, page, limit)
		require.NoError(t, err)

		require.Equal(t, 23, pagination.Total)
		require.Equal(t, 5, pagination.TotalPages)
		require.Equal(t, page > 1, pagination.HasPrev)

		all = append(all, entries...)

		if !pagination.HasNext {
			break
		}

		page++
	}

	require.Len(t, all, 23)

	seen := map[string]bool{}

	for i, entry := range all {
		require.False(t, seen[entry.ID], "entry returned twice")
		seen[entry.ID] = true

		if i > 0 {
			require.GreaterOrEqual(t, all[i-1].Created, entry.Created)
		}
	}

	// a page past the end is empty but keeps the totals
	entries, pagination, err := engine.Query(ctx, dashboard.Filter{}, 9, limit)
	require.NoError(t, err)
	require.Empty(t, entries)
	require.Equal(t, 23, pagination.Total)
	require.False(t, pagination.HasNext)
}

func TestQueryVoiceFilter(t *testing.T) {
	engine := dashboard.New(seed(t))

	entries, pagination, err := engine.Query(context.Background(), dashboard.Filter{Voice: "EN_US-AMY-MEDIUM"}, 1, 50)
	require.NoError(t, err)

	require.Equal(t, 2, pagination.Total)

	for _, entry := range entries {
		require.Equal(t, "en_US-amy-medium", entry.Voice)
	}
}

func TestQuerySearchFilter(t *testing.T) {
	engine := dashboard.New(seed(t))

	_, pagination, err := engine.Query(context.Background(), dashboard.Filter{Search: "HELLO"}, 1, 50)
	require.NoError(t, err)

	require.Equal(t, 3, pagination.Total)
}

func TestQueryEmailFilterExcludesAnonymous(t *testing.T) {
	engine := dashboard.New(seed(t))

	entries, pagination, err := engine.Query(context.Background(), dashboard.Filter{Email: "example"}, 1, 50)
	require.NoError(t, err)

	// both owners match "example", the anonymous partition is excluded
	require.Equal(t, 4, pagination.Total)

	for _, entry := range entries {
		require.NotEmpty(t, entry.UserEmail)
	}

	_, pagination, err = engine.Query(context.Background(), dashboard.Filter{Email: "alice"}, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 2, pagination.Total)
}

func TestQueryDurationBucket(t *testing.T) {
	engine := dashboard.New(seed(t))

	// durations are [3.0, 7.2, nil, 9.9, 12.0]; nil passes vacuously
	entries, pagination, err := engine.Query(context.Background(), dashboard.Filter{Duration: "5-10"}, 1, 50)
	require.NoError(t, err)

	require.Equal(t, 3, pagination.Total)

	for _, entry := range entries {
		if entry.Duration == nil {
			continue
		}

		require.GreaterOrEqual(t, *entry.Duration, 5.0)
		require.Less(t, *entry.Duration, 10.0)
	}
}

func TestQuerySkipsSoftDeleted(t *testing.T) {
	ctx := context.Background()
	store := seed(t)

	recordings, err := store.List(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, store.SoftDelete(ctx, "alice", recordings[0].ID))

	_, pagination, err := dashboard.New(store).Query(ctx, dashboard.Filter{}, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 4, pagination.Total)
}

func TestVoices(t *testing.T) {
	engine := dashboard.New(seed(t))

	voices, err := engine.Voices(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"en_GB-alan-medium", "en_US-amy-medium", "en_US-kathleen-low"}, voices)
}

func TestBucketsPartition(t *testing.T) {
	keys := dashboard.Buckets()
	require.Equal(t, []string{"0-5", "5-10", "10-30", "30-60", "60-300", "300+"}, keys)

	// every duration lands in exactly one bucket
	for _, duration := range []float64{0, 0.1, 4.99, 5, 9.99, 10, 29.9, 30, 59.9, 60, 299.9, 300, 1000} {
		require.NotEmpty(t, dashboard.Bucket(duration), "duration %f", duration)
	}

	require.Equal(t, "0-5", dashboard.Bucket(4.99))
	require.Equal(t, "5-10", dashboard.Bucket(5))
	require.Equal(t, "300+", dashboard.Bucket(300))
}
