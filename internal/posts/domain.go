package posts

import (
	"net/url"
	"strconv"
	"time"
)

// Post is an article as returned by the backend. Content is rich-text
// HTML produced by the editor widget; the client treats it as opaque.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId"`
	Tags      []string  `json:"tags,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	VideoURL  string    `json:"videoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// OwnerID satisfies the policy resource contract. AuthorID never
// changes after creation.
func (p Post) OwnerID() string {
	return p.AuthorID
}

// Edited reports whether the post was changed after creation. A
// distinct UpdatedAt is the sole signal for "updated" display
// semantics.
func (p Post) Edited() bool {
	return !p.UpdatedAt.IsZero() && !p.UpdatedAt.Equal(p.CreatedAt)
}

// SearchParams are the user-controlled post filters. Pagination is
// deliberately not part of this type: page and limit belong to the
// paginator alone.
type SearchParams struct {
	Search     string
	Tag        string
	AuthorID   string
	AuthorName string
	SortBy     string
	SortOrder  string
}

// Active reports whether any filter deviates from the default listing.
func (p SearchParams) Active() bool {
	return p.Search != "" || p.Tag != "" || p.AuthorID != "" ||
		p.AuthorName != "" || p.SortBy != "" || p.SortOrder != ""
}

// Values encodes the filters plus pagination as query parameters,
// omitting empty fields.
func (p SearchParams) Values(page, limit int) url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("search", p.Search)
	set("tag", p.Tag)
	set("authorId", p.AuthorID)
	set("authorName", p.AuthorName)
	set("sortBy", p.SortBy)
	set("sortOrder", p.SortOrder)
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	return values
}
