package posts

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Author is a distinct post author offered as a filter choice.
type Author struct {
	ID   string
	Name string
}

// Options are the selectable filter values derived from the unfiltered
// snapshot.
type Options struct {
	Tags    []string
	Authors []Author
}

// DeriveOptions collects distinct tags and authors from snapshot,
// ordered with Portuguese collation so accented names sort naturally.
func DeriveOptions(snapshot []Post) Options {
	collator := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)

	seenTags := make(map[string]struct{})
	var tags []string
	seenAuthors := make(map[string]struct{})
	var authors []Author

	for _, post := range snapshot {
		for _, tag := range post.Tags {
			if tag == "" {
				continue
			}
			if _, ok := seenTags[tag]; ok {
				continue
			}
			seenTags[tag] = struct{}{}
			tags = append(tags, tag)
		}
		if post.AuthorID == "" {
			continue
		}
		if _, ok := seenAuthors[post.AuthorID]; ok {
			continue
		}
		seenAuthors[post.AuthorID] = struct{}{}
		authors = append(authors, Author{ID: post.AuthorID, Name: post.Author})
	}

	collator.SortStrings(tags)
	sort.SliceStable(authors, func(i, j int) bool {
		return collator.CompareString(authors[i].Name, authors[j].Name) < 0
	})

	return Options{Tags: tags, Authors: authors}
}
