package main

import (
	"strings"
	"testing"

	"bookverse-cli/bookverse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadForms(t *testing.T) {
	in := `Title,Author,tags,extra,pdf_links
Dune,Frank Herbert,"scifi, classic",x,
"Der Prozeß",,,,https://example.com/p.pdf
`
	forms, err := readForms(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, forms, 2)

	assert.Equal(t, bookverse.BookForm{Title: "Dune", Author: "Frank Herbert", Tags: "scifi, classic"}, forms[0])
	assert.Equal(t, bookverse.BookForm{Title: "Der Prozeß", PDFLinks: "https://example.com/p.pdf"}, forms[1])

	nb := forms[0].NewBook()
	assert.Equal(t, []string{"scifi", "classic"}, nb.Tags)
	assert.Nil(t, nb.Image)
}

func TestReadFormsShortRow(t *testing.T) {
	forms, err := readForms(strings.NewReader("title,author,image\nSolo\n"))
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "Solo", forms[0].Title)
	assert.Empty(t, forms[0].Author)
}

func TestReadFormsRejectsBadHeader(t *testing.T) {
	_, err := readForms(strings.NewReader("name,author\nDune,Herbert\n"))
	assert.Error(t, err)

	_, err = readForms(strings.NewReader(""))
	assert.Error(t, err)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcd...", truncateString("abcdefghij", 7))
	assert.Equal(t, "Prozeß...", truncateString("Prozeßordnung", 9))
}
