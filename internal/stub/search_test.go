package stub

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pontodeaula/pontoaula/internal/posts"
)

func numberedPosts(n int) []posts.Post {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	out := make([]posts.Post, n)
	for i := range out {
		out[i] = posts.Post{
			ID:        fmt.Sprintf("p-%02d", i+1),
			Title:     fmt.Sprintf("Aula %02d", i+1),
			Content:   "<p>conteúdo</p>",
			Author:    "Ana",
			AuthorID:  "u-1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestParseQueryDefaults(t *testing.T) {
	q := parseQuery(url.Values{})
	require.Equal(t, 1, q.Page)
	require.Zero(t, q.Limit)

	q = parseQuery(url.Values{"page": {"0"}, "limit": {"-3"}})
	require.Equal(t, 1, q.Page)
	require.Zero(t, q.Limit)
}

func TestApplyLookAheadWindowsDovetail(t *testing.T) {
	all := numberedPosts(24)

	// The client asks for 10 items per page of 9. Page one gets items
	// 1-10; page two must start at item 10, not item 11.
	q := query{SortBy: "createdAt", SortOrder: "asc", Page: 1, Limit: 10}
	pageOne := q.apply(all)
	require.Len(t, pageOne, 10)
	require.Equal(t, "p-01", pageOne[0].ID)
	require.Equal(t, "p-10", pageOne[9].ID)

	q.Page = 2
	pageTwo := q.apply(all)
	require.Len(t, pageTwo, 10)
	require.Equal(t, "p-10", pageTwo[0].ID)

	// Page three covers 19-24: short, so the client sees the end.
	q.Page = 3
	pageThree := q.apply(all)
	require.Len(t, pageThree, 6)
	require.Equal(t, "p-19", pageThree[0].ID)

	q.Page = 4
	require.Empty(t, q.apply(all))
}

func TestApplyNoLimitReturnsEverything(t *testing.T) {
	all := numberedPosts(24)
	require.Len(t, query{}.apply(all), 24)
}

func TestApplySearchMatchesTitleAndContent(t *testing.T) {
	all := []posts.Post{
		{ID: "p-1", Title: "Frações", Content: "<p>aula</p>"},
		{ID: "p-2", Title: "Verbos", Content: "<p>sobre frações impróprias</p>"},
		{ID: "p-3", Title: "Células", Content: "<p>biologia</p>"},
	}

	got := query{Search: "FRAÇÕES"}.apply(all)
	require.Len(t, got, 2)
	require.Equal(t, "p-1", got[0].ID)
	require.Equal(t, "p-2", got[1].ID)
}

func TestApplyTagAndAuthorFilters(t *testing.T) {
	all := []posts.Post{
		{ID: "p-1", AuthorID: "u-1", Author: "Ana", Tags: []string{"matemática"}},
		{ID: "p-2", AuthorID: "u-2", Author: "Carlos", Tags: []string{"Matemática"}},
		{ID: "p-3", AuthorID: "u-2", Author: "Carlos", Tags: []string{"história"}},
	}

	byTag := query{Tag: "matemática"}.apply(all)
	require.Len(t, byTag, 2)

	byAuthor := query{AuthorID: "u-2"}.apply(all)
	require.Len(t, byAuthor, 2)

	byName := query{AuthorName: "carl"}.apply(all)
	require.Len(t, byName, 2)

	both := query{Tag: "matemática", AuthorID: "u-2"}.apply(all)
	require.Len(t, both, 1)
	require.Equal(t, "p-2", both[0].ID)
}

func TestSortOrders(t *testing.T) {
	all := numberedPosts(3)

	newest := query{}.apply(all)
	require.Equal(t, "p-03", newest[0].ID)

	oldest := query{SortOrder: "asc"}.apply(all)
	require.Equal(t, "p-01", oldest[0].ID)

	titleAsc := query{SortBy: "title", SortOrder: "asc"}.apply(all)
	require.Equal(t, "Aula 01", titleAsc[0].Title)

	titleDesc := query{SortBy: "title"}.apply(all)
	require.Equal(t, "Aula 03", titleDesc[0].Title)
}
