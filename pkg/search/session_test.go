package search_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rubiojr/seekr/pkg/core"
	"github.com/rubiojr/seekr/pkg/facets"
	"github.com/rubiojr/seekr/pkg/search"
	"github.com/rubiojr/seekr/pkg/search/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func fastOptions() search.Options {
	opts := search.DefaultOptions()
	opts.SearchDebounce = 20 * time.Millisecond
	opts.FilterDebounce = 20 * time.Millisecond
	return opts
}

func newSession(t *testing.T) (*search.Session, *mocks.MockBackend) {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	sess := search.NewSession(context.Background(), backend, fastOptions())
	t.Cleanup(sess.Close)
	return sess, backend
}

func nextView(t *testing.T, sess *search.Session) search.View {
	t.Helper()
	select {
	case v, ok := <-sess.Updates():
		require.True(t, ok, "updates closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a view")
	}
	return search.View{}
}

func expectNoView(t *testing.T, sess *search.Session, wait time.Duration) {
	t.Helper()
	select {
	case v := <-sess.Updates():
		t.Fatalf("unexpected view: query=%q results=%v", v.Query, ids(v.Results.Results))
	case <-time.After(wait):
	}
}

func expectWork(backend *mocks.MockBackend) {
	backend.EXPECT().CountItems(gomock.Any(), "work").Return(5, nil).AnyTimes()
	backend.EXPECT().SearchItems(gomock.Any(), "work", 100, 0).Return(workHome(), nil).AnyTimes()
}

func TestSessionQueryAndTagFilter(t *testing.T) {
	sess, backend := newSession(t)
	expectWork(backend)

	sess.SetQuery("work")
	v := nextView(t, sess)
	require.NoError(t, v.Err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(v.Results.Results))
	assert.Equal(t, []facets.TagFacet{{Name: "work", Count: 3}, {Name: "home", Count: 2}, {Name: "ops", Count: 1}}, v.Facets)

	sess.SetTagFilter([]string{"home"})
	v = nextView(t, sess)
	assert.Equal(t, []int64{4, 5}, ids(v.Results.Results))
	assert.Equal(t, []string{"home"}, v.Filters.Tags)

	sess.ClearTagFilters()
	v = nextView(t, sess)
	assert.Len(t, v.Results.Results, 5)
}

func TestSessionDebouncesTyping(t *testing.T) {
	sess, backend := newSession(t)
	expectWork(backend)

	for _, text := range []string{"w", "wo", "wor", "work"} {
		sess.SetQuery(text)
	}

	v := nextView(t, sess)
	assert.Equal(t, "work", v.Query)
	expectNoView(t, sess, 100*time.Millisecond)
	assert.Equal(t, []string{"work"}, sess.History())
}

func TestSessionCoalescesFilterChanges(t *testing.T) {
	sess, backend := newSession(t)
	expectWork(backend)

	sess.SetQuery("work")
	nextView(t, sess)

	sess.SetEntityFilter(facets.EntityProjects, false)
	sess.SetTagFilter([]string{"work"})
	sess.SetTagFilter([]string{"work", "home"})

	v := nextView(t, sess)
	assert.Equal(t, []int64{1, 2, 4, 5}, ids(v.Results.Results))
	assert.Equal(t, []facets.Entity{facets.EntityProjects}, v.Filters.Excluded)
	expectNoView(t, sess, 100*time.Millisecond)

	state := sess.Filters()
	assert.False(t, state.EntityEnabled(facets.EntityProjects))
	assert.Equal(t, []string{"home", "work"}, state.TagList())
}

func TestSessionDropsStaleFetch(t *testing.T) {
	sess, backend := newSession(t)

	started := make(chan struct{})
	release := make(chan struct{})
	slow := []core.SearchResult{{ID: 99, Name: "slow"}}

	backend.EXPECT().CountItems(gomock.Any(), "slow").Return(1, nil)
	backend.EXPECT().SearchItems(gomock.Any(), "slow", 100, 0).DoAndReturn(
		func(ctx context.Context, _ string, _, _ int) ([]core.SearchResult, error) {
			close(started)
			<-release
			// Answer even though the fetch was superseded.
			return slow, nil
		})
	backend.EXPECT().CountItems(gomock.Any(), "fast").Return(1, nil)
	backend.EXPECT().SearchItems(gomock.Any(), "fast", 100, 0).Return([]core.SearchResult{{ID: 1, Name: "fast"}}, nil)

	sess.SetQuery("slow")
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("slow fetch never started")
	}

	sess.SetQuery("fast")
	v := nextView(t, sess)
	assert.Equal(t, "fast", v.Query)
	assert.Equal(t, []int64{1}, ids(v.Results.Results))

	close(release)
	expectNoView(t, sess, 150*time.Millisecond)
}

func TestSessionBackendError(t *testing.T) {
	sess, backend := newSession(t)
	dbDown := errors.New("disk I/O error")
	expectWork(backend)
	backend.EXPECT().CountItems(gomock.Any(), "broken").Return(0, dbDown)

	sess.SetQuery("work")
	nextView(t, sess)

	sess.SetTagFilter([]string{"home"})
	nextView(t, sess)

	sess.SetQuery("broken")
	v := nextView(t, sess)
	require.Error(t, v.Err)
	assert.ErrorIs(t, v.Err, dbDown)
	assert.NotEmpty(t, v.Error)
	assert.Empty(t, v.Results.Results)
	assert.Equal(t, "Page 0 of 0", v.PageLabel)

	assert.Equal(t, []string{"home"}, sess.Filters().TagList(), "filters survive errors")
	assert.Equal(t, []string{"broken", "work"}, sess.History())
}

func TestSessionPagination(t *testing.T) {
	sess, backend := newSession(t)
	backend.EXPECT().CountItems(gomock.Any(), "log").Return(250, nil).AnyTimes()
	backend.EXPECT().SearchItems(gomock.Any(), "log", 100, 0).Return(numbered(100, 1), nil)
	backend.EXPECT().SearchItems(gomock.Any(), "log", 100, 100).Return(numbered(100, 101), nil).Times(2)
	backend.EXPECT().SearchItems(gomock.Any(), "log", 100, 200).Return(numbered(50, 201), nil)

	sess.SetQuery("log")
	v := nextView(t, sess)
	assert.Equal(t, "Page 1 of 3 (1-100 of 250)", v.PageLabel)
	assert.False(t, v.HasPrev)

	sess.PrevPage()
	expectNoView(t, sess, 50*time.Millisecond)

	sess.NextPage()
	v = nextView(t, sess)
	assert.Equal(t, "Page 2 of 3 (101-200 of 250)", v.PageLabel)
	assert.Equal(t, int64(101), v.Results.Results[0].ID)

	sess.NextPage()
	v = nextView(t, sess)
	assert.Equal(t, "Page 3 of 3 (201-250 of 250)", v.PageLabel)
	assert.False(t, v.HasNext)

	sess.NextPage()
	expectNoView(t, sess, 50*time.Millisecond)

	sess.PrevPage()
	v = nextView(t, sess)
	assert.Equal(t, 2, v.Page)
}

func TestSessionFilterChangeReturnsToFirstPage(t *testing.T) {
	sess, backend := newSession(t)
	backend.EXPECT().CountItems(gomock.Any(), "log").Return(250, nil).AnyTimes()
	backend.EXPECT().SearchItems(gomock.Any(), "log", 100, 0).Return(numbered(100, 1), nil).Times(2)
	backend.EXPECT().SearchItems(gomock.Any(), "log", 100, 100).Return(numbered(100, 101), nil)

	sess.SetQuery("log")
	nextView(t, sess)
	sess.NextPage()
	v := nextView(t, sess)
	require.Equal(t, 2, v.Page)

	sess.SetEntityFilter(facets.EntityTables, false)
	v = nextView(t, sess)
	assert.Equal(t, 1, v.Page)
}

func TestSessionFilterChangeWhileQueryPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	opts := fastOptions()
	opts.SearchDebounce = 300 * time.Millisecond
	sess := search.NewSession(context.Background(), backend, opts)
	t.Cleanup(sess.Close)

	expectWork(backend)
	backend.EXPECT().CountItems(gomock.Any(), "zzz").Return(0, nil)

	sess.SetQuery("work")
	nextView(t, sess)

	// The tag filter settles before the new query is searched, so it
	// re-renders the results "work" produced.
	sess.SetQuery("zzz")
	sess.SetTagFilter([]string{"home"})
	v := nextView(t, sess)
	assert.Equal(t, "work", v.Query)
	assert.Equal(t, "work", v.Parsed.BaseQuery)
	assert.Equal(t, []int64{4, 5}, ids(v.Results.Results))
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 5, v.Total)
	assert.Equal(t, "Page 1 of 1 (1-5 of 5)", v.PageLabel)

	v = nextView(t, sess)
	assert.Equal(t, "zzz", v.Query)
	assert.Empty(t, v.Results.Results)
	assert.Equal(t, "Page 0 of 0", v.PageLabel)
	assert.Equal(t, []string{"home"}, v.Filters.Tags)
}

func TestSessionSeedViews(t *testing.T) {
	sess, backend := newSession(t)
	backend.EXPECT().RecentItems(gomock.Any(), 100).Return(workHome(), nil)
	backend.EXPECT().ItemsWithTags(gomock.Any(), 1000).Return(workHome()[3:], nil)

	sess.Refresh()
	v := nextView(t, sess)
	assert.Equal(t, search.SeedRecent, v.View)
	assert.Len(t, v.Results.Results, 5)

	sess.ShowSeed(search.SeedTagged)
	v = nextView(t, sess)
	assert.Equal(t, search.SeedTagged, v.View)
	assert.Equal(t, []int64{4, 5}, ids(v.Results.Results))
	assert.Empty(t, sess.History(), "seed views are not queries")
}

func TestSessionRefreshRefetches(t *testing.T) {
	sess, backend := newSession(t)
	backend.EXPECT().CountItems(gomock.Any(), "work").Return(5, nil).Times(2)
	gomock.InOrder(
		backend.EXPECT().SearchItems(gomock.Any(), "work", 100, 0).Return(workHome()[:2], nil),
		backend.EXPECT().SearchItems(gomock.Any(), "work", 100, 0).Return(workHome(), nil),
	)

	sess.SetQuery("work")
	v := nextView(t, sess)
	assert.Len(t, v.Results.Results, 2)

	sess.Refresh()
	v = nextView(t, sess)
	assert.Len(t, v.Results.Results, 5)
	assert.Greater(t, v.Seq, uint64(1))
}

func TestSessionHistory(t *testing.T) {
	sess, backend := newSession(t)
	backend.EXPECT().CountItems(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()

	for _, q := range []string{"ab", "x", "cd", "ab"} {
		sess.SetQuery(q)
		nextView(t, sess)
	}
	assert.Equal(t, []string{"ab", "cd"}, sess.History())

	sess.ClearHistory()
	assert.Empty(t, sess.History())
}

func TestSessionClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	sess := search.NewSession(context.Background(), backend, fastOptions())
	assert.NotEmpty(t, sess.ID())

	sess.SetQuery("never searched")
	sess.Close()
	sess.Close()

	_, ok := <-sess.Updates()
	assert.False(t, ok, "updates must be closed")

	// Calls after Close return without blocking.
	sess.SetQuery("late")
	sess.NextPage()
	assert.Nil(t, sess.History())
}
