package posts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveOptionsDeduplicates(t *testing.T) {
	snapshot := []Post{
		{ID: "p-1", Author: "Carlos", AuthorID: "u-2", Tags: []string{"história", "matemática"}},
		{ID: "p-2", Author: "Ana", AuthorID: "u-1", Tags: []string{"matemática"}},
		{ID: "p-3", Author: "Carlos", AuthorID: "u-2", Tags: []string{"história"}},
	}

	opts := DeriveOptions(snapshot)

	require.Equal(t, []string{"história", "matemática"}, opts.Tags)
	require.Equal(t, []Author{{ID: "u-1", Name: "Ana"}, {ID: "u-2", Name: "Carlos"}}, opts.Authors)
}

func TestDeriveOptionsPortugueseOrdering(t *testing.T) {
	snapshot := []Post{
		{ID: "p-1", Author: "Úrsula", AuthorID: "u-3", Tags: []string{"química"}},
		{ID: "p-2", Author: "Antônio", AuthorID: "u-2", Tags: []string{"ciências"}},
		{ID: "p-3", Author: "Ana", AuthorID: "u-1", Tags: []string{"Álgebra"}},
	}

	opts := DeriveOptions(snapshot)

	// Accented entries collate next to their base letters instead of
	// after "z".
	require.Equal(t, []string{"Álgebra", "ciências", "química"}, opts.Tags)
	require.Equal(t, []string{"Ana", "Antônio", "Úrsula"},
		[]string{opts.Authors[0].Name, opts.Authors[1].Name, opts.Authors[2].Name})
}

func TestDeriveOptionsSkipsEmptyFields(t *testing.T) {
	snapshot := []Post{
		{ID: "p-1", Author: "Sistema", AuthorID: "", Tags: []string{"", "física"}},
	}

	opts := DeriveOptions(snapshot)

	require.Equal(t, []string{"física"}, opts.Tags)
	require.Empty(t, opts.Authors)
}

func TestDeriveOptionsEmptySnapshot(t *testing.T) {
	opts := DeriveOptions(nil)
	require.Empty(t, opts.Tags)
	require.Empty(t, opts.Authors)
}
