package posts

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	gets    []string
	posts   []string
	puts    []string
	deletes []string

	lastBody any
	response any
	err      error
}

func (g *fakeGateway) respond(out any) error {
	if g.err != nil {
		return g.err
	}
	if out == nil || g.response == nil {
		return nil
	}
	raw, _ := json.Marshal(g.response)
	return json.Unmarshal(raw, out)
}

func (g *fakeGateway) Get(ctx context.Context, path string, out any) error {
	g.gets = append(g.gets, path)
	return g.respond(out)
}

func (g *fakeGateway) Post(ctx context.Context, path string, body, out any) error {
	g.posts = append(g.posts, path)
	g.lastBody = body
	return g.respond(out)
}

func (g *fakeGateway) Put(ctx context.Context, path string, body, out any) error {
	g.puts = append(g.puts, path)
	g.lastBody = body
	return g.respond(out)
}

func (g *fakeGateway) Delete(ctx context.Context, path string) error {
	g.deletes = append(g.deletes, path)
	return g.respond(nil)
}

func TestSearchFallsBackToPlainListing(t *testing.T) {
	gw := &fakeGateway{response: []Post{{ID: "p-1"}}}
	svc := NewService(gw)

	_, err := svc.Search(context.Background(), SearchParams{}, 0, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"/posts"}, gw.gets)

	_, err = svc.SearchMine(context.Background(), SearchParams{}, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "/posts/mine", gw.gets[1])
}

func TestSearchEncodesFiltersAndPagination(t *testing.T) {
	gw := &fakeGateway{response: []Post{}}
	svc := NewService(gw)

	params := SearchParams{Search: "frações", Tag: "matemática", SortBy: "title", SortOrder: "asc"}
	_, err := svc.Search(context.Background(), params, 2, PageSize+1)
	require.NoError(t, err)

	require.Len(t, gw.gets, 1)
	path := gw.gets[0]
	require.Contains(t, path, "/posts/search?")
	require.Contains(t, path, "page=2")
	require.Contains(t, path, "limit=10")
	require.Contains(t, path, "sortBy=title")
	require.Contains(t, path, "sortOrder=asc")
}

func TestGetServesRepeatsFromCache(t *testing.T) {
	gw := &fakeGateway{response: Post{ID: "p-1", Title: "Aula 01"}}
	svc := NewService(gw)

	first, err := svc.Get(context.Background(), "p-1")
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), "p-1")
	require.NoError(t, err)

	require.Equal(t, first.Title, second.Title)
	// Only the first read hit the backend.
	require.Equal(t, []string{"/posts/p-1"}, gw.gets)
}

func TestUpdateInvalidatesDetailCache(t *testing.T) {
	gw := &fakeGateway{response: Post{ID: "p-1", Title: "Aula 01"}}
	svc := NewService(gw)

	_, err := svc.Get(context.Background(), "p-1")
	require.NoError(t, err)

	gw.response = Post{ID: "p-1", Title: "Aula 01 (rev)"}
	_, err = svc.Update(context.Background(), "p-1", UpdatePayload{Title: "Aula 01 (rev)", Content: "<p>oi</p>"})
	require.NoError(t, err)

	refreshed, err := svc.Get(context.Background(), "p-1")
	require.NoError(t, err)
	require.Equal(t, "Aula 01 (rev)", refreshed.Title)
	require.Len(t, gw.gets, 2)
}

func TestDeleteInvalidatesDetailCache(t *testing.T) {
	gw := &fakeGateway{response: Post{ID: "p-1", Title: "Aula 01"}}
	svc := NewService(gw)

	_, err := svc.Get(context.Background(), "p-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "p-1"))
	require.Equal(t, []string{"/posts/p-1"}, gw.deletes)

	_, err = svc.Get(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, gw.gets, 2)
}

func TestCreateValidatesPayload(t *testing.T) {
	gw := &fakeGateway{response: Post{ID: "p-9"}}
	svc := NewService(gw)

	_, err := svc.Create(context.Background(), CreatePayload{Title: "Aula", Content: "<p>oi</p>"})
	require.NoError(t, err)
	require.Equal(t, []string{"/posts"}, gw.posts)

	cases := []CreatePayload{
		{Content: "<p>oi</p>"},
		{Title: "Aula"},
		{Title: "Aula", Content: "<p>oi</p>", ImageURL: "não-é-url"},
		{Title: "Aula", Content: "<p>oi</p>", VideoURL: "não-é-url"},
	}
	for _, payload := range cases {
		_, err := svc.Create(context.Background(), payload)
		require.Error(t, err)
	}
	require.Len(t, gw.posts, 1)
}

func TestEditedMarker(t *testing.T) {
	now := time.Now()
	post := Post{ID: "p-1", CreatedAt: now}
	require.False(t, post.Edited())

	post.UpdatedAt = now
	require.False(t, post.Edited())

	post.UpdatedAt = now.Add(time.Minute)
	require.True(t, post.Edited())
}
