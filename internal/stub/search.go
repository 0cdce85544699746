package stub

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pontodeaula/pontoaula/internal/posts"
)

// query captures the search endpoint parameters.
type query struct {
	Search     string
	Tag        string
	AuthorID   string
	AuthorName string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

func parseQuery(values url.Values) query {
	q := query{
		Search:     values.Get("search"),
		Tag:        values.Get("tag"),
		AuthorID:   values.Get("authorId"),
		AuthorName: values.Get("authorName"),
		SortBy:     values.Get("sortBy"),
		SortOrder:  values.Get("sortOrder"),
		Page:       1,
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}
	return q
}

// apply filters, sorts and pages the collection. The limit includes
// the client's look-ahead item, so consecutive pages advance by
// limit-1: page N starts at (N-1)*(limit-1) and the extra row only
// signals that another page exists.
func (q query) apply(all []posts.Post) []posts.Post {
	filtered := make([]posts.Post, 0, len(all))
	for _, post := range all {
		if q.Search != "" && !containsFold(post.Title, q.Search) && !containsFold(post.Content, q.Search) {
			continue
		}
		if q.Tag != "" && !hasTag(post.Tags, q.Tag) {
			continue
		}
		if q.AuthorID != "" && post.AuthorID != q.AuthorID {
			continue
		}
		if q.AuthorName != "" && !containsFold(post.Author, q.AuthorName) {
			continue
		}
		filtered = append(filtered, post)
	}

	q.sortPosts(filtered)

	if q.Limit <= 0 {
		return filtered
	}
	step := q.Limit - 1
	if step < 1 {
		step = q.Limit
	}
	offset := (q.Page - 1) * step
	if offset >= len(filtered) {
		return []posts.Post{}
	}
	end := offset + q.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end]
}

func (q query) sortPosts(items []posts.Post) {
	ascending := q.SortOrder == "asc"
	byTitle := q.SortBy == "title"
	sort.SliceStable(items, func(i, j int) bool {
		if byTitle {
			a, b := strings.ToLower(items[i].Title), strings.ToLower(items[j].Title)
			if a == b {
				return false
			}
			if ascending {
				return a < b
			}
			return a > b
		}
		a, b := items[i].CreatedAt, items[j].CreatedAt
		if a.Equal(b) {
			return false
		}
		if ascending {
			return a.Before(b)
		}
		return a.After(b)
	})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}
