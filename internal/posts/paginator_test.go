package posts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeSource serves pages from a fixed post list with the same window
// math as the backend: consecutive pages dovetail on the look-ahead
// item.
type fakeSource struct {
	mu          sync.Mutex
	all         []Post
	snapshotErr error
	pageErr     error
	lastParams  SearchParams
	lastPage    int
	lastLimit   int

	// blockPage stalls the fetch for that page on block, signalling
	// entered first, so tests can order overlapping fetches.
	blockPage int
	block     chan struct{}
	entered   chan struct{}
}

func makePosts(n int) []Post {
	out := make([]Post, n)
	for i := range out {
		out[i] = Post{ID: fmt.Sprintf("p-%02d", i+1), Title: fmt.Sprintf("Aula %02d", i+1)}
	}
	return out
}

func (f *fakeSource) Snapshot(ctx context.Context) ([]Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	return append([]Post(nil), f.all...), nil
}

func (f *fakeSource) Page(ctx context.Context, params SearchParams, page, limit int) ([]Post, error) {
	if f.blockPage != 0 && page == f.blockPage {
		f.entered <- struct{}{}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastParams, f.lastPage, f.lastLimit = params, page, limit
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	step := limit - 1
	if step < 1 {
		step = limit
	}
	offset := (page - 1) * step
	if offset >= len(f.all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.all) {
		end = len(f.all)
	}
	return append([]Post(nil), f.all[offset:end]...), nil
}

func TestInitializeRequestsLookAheadWindow(t *testing.T) {
	src := &fakeSource{all: makePosts(24)}
	p := NewPaginator(src)

	p.Initialize(context.Background())

	require.Equal(t, PageSize+1, src.lastLimit)
	require.Equal(t, 1, src.lastPage)
	require.Len(t, p.Posts(), PageSize)
	require.True(t, p.HasNextPage())
	require.Equal(t, 1, p.Page())
	require.Empty(t, p.Err())
}

func TestLookAheadBoundary(t *testing.T) {
	// Exactly PageSize items: the look-ahead comes back short, so no
	// next page is reported and every item is displayed.
	src := &fakeSource{all: makePosts(PageSize)}
	p := NewPaginator(src)

	p.Initialize(context.Background())

	require.Len(t, p.Posts(), PageSize)
	require.False(t, p.HasNextPage())
}

func TestLookAheadOneOver(t *testing.T) {
	src := &fakeSource{all: makePosts(PageSize + 1)}
	p := NewPaginator(src)

	p.Initialize(context.Background())

	require.Len(t, p.Posts(), PageSize)
	require.True(t, p.HasNextPage())

	p.NextPage(context.Background())

	require.Equal(t, 2, p.Page())
	require.Len(t, p.Posts(), 1)
	require.False(t, p.HasNextPage())
}

func TestNextPageStopsAtLastPage(t *testing.T) {
	src := &fakeSource{all: makePosts(PageSize)}
	p := NewPaginator(src)
	p.Initialize(context.Background())

	before := src.lastPage
	p.NextPage(context.Background())

	// No next page was detected, so no fetch happened.
	require.Equal(t, before, src.lastPage)
	require.Equal(t, 1, p.Page())
}

func TestPrevPageStopsAtPageOne(t *testing.T) {
	src := &fakeSource{all: makePosts(24)}
	p := NewPaginator(src)
	p.Initialize(context.Background())

	p.PrevPage(context.Background())
	require.Equal(t, 1, p.Page())

	p.NextPage(context.Background())
	require.Equal(t, 2, p.Page())

	p.PrevPage(context.Background())
	require.Equal(t, 1, p.Page())
}

func TestSearchResetsToPageOne(t *testing.T) {
	src := &fakeSource{all: makePosts(24)}
	p := NewPaginator(src)
	p.Initialize(context.Background())

	p.NextPage(context.Background())
	require.Equal(t, 2, p.Page())

	params := SearchParams{Search: "aula"}
	p.Search(context.Background(), params)

	require.Equal(t, 1, p.Page())
	require.Equal(t, params, p.Filters())
	require.Equal(t, params, src.lastParams)
	require.True(t, p.HasActiveFilters())
}

func TestPaginationSurvivesFilterChanges(t *testing.T) {
	src := &fakeSource{all: makePosts(24)}
	p := NewPaginator(src)
	p.Initialize(context.Background())

	p.Search(context.Background(), SearchParams{Tag: "matemática"})
	p.NextPage(context.Background())

	require.Equal(t, 2, p.Page())
	require.Equal(t, "matemática", src.lastParams.Tag)
}

func TestFailedFetchKeepsLastGoodPage(t *testing.T) {
	src := &fakeSource{all: makePosts(24)}
	p := NewPaginator(src)
	p.Initialize(context.Background())

	shown := p.Posts()
	require.Len(t, shown, PageSize)

	src.mu.Lock()
	src.pageErr = errors.New("boom")
	src.mu.Unlock()

	p.NextPage(context.Background())

	require.Equal(t, shown, p.Posts())
	require.Equal(t, 1, p.Page())
	require.Equal(t, "Erro ao buscar posts", p.Err())
	require.False(t, p.Loading())
}

func TestSnapshotFailureDoesNotBlockPage(t *testing.T) {
	src := &fakeSource{all: makePosts(24), snapshotErr: errors.New("boom")}
	p := NewPaginator(src)

	p.Initialize(context.Background())

	require.Len(t, p.Posts(), PageSize)
	require.Empty(t, p.FilterOptions())
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	src := &fakeSource{all: makePosts(24)}
	p := NewPaginator(src)
	p.Initialize(context.Background())

	// Stall the page-two fetch after it claimed its generation, run a
	// newer search to completion, then release it. The stale result
	// must not win.
	src.blockPage = 2
	src.block = make(chan struct{})
	src.entered = make(chan struct{})

	done := make(chan struct{})
	go func() {
		p.NextPage(context.Background())
		close(done)
	}()
	<-src.entered

	params := SearchParams{Search: "aula"}
	p.Search(context.Background(), params)

	close(src.block)
	<-done

	require.Equal(t, params, p.Filters())
	require.Equal(t, 1, p.Page())
	require.False(t, p.Loading())
}
