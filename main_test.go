package main

import (
	"bytes"
	"path/filepath"
	"strconv"
	"testing"

	"bookverse-cli/bookverse"
	"bookverse-cli/bookverse/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes one command line against srv with a fresh session store.
func run(t *testing.T, srv *apitest.Server, dbPath string, args ...string) (string, error) {
	t.Helper()
	root, a := newRootCmd()
	defer a.close()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--api-url", srv.BaseURL(), "--db", dbPath, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestBooksCommand(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	db := filepath.Join(t.TempDir(), "session.db")

	srv.AddBook("Foundation", "Isaac Asimov", []string{"scifi", "classic", "space"}, nil, nil)
	srv.AddBook("Dune", "Frank Herbert", nil, nil, nil)

	out, err := run(t, srv, db, "books")
	require.NoError(t, err)
	assert.Contains(t, out, "Foundation")
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "scifi, classic")
	assert.NotContains(t, out, "space")

	out, err = run(t, srv, db, "books", "asi")
	require.NoError(t, err)
	assert.Contains(t, out, "Foundation")
	assert.NotContains(t, out, "Dune")
}

func TestBookCommandNotFound(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	db := filepath.Join(t.TempDir(), "session.db")

	out, err := run(t, srv, db, "book", "42")
	require.Error(t, err)
	assert.ErrorIs(t, err, bookverse.ErrNotFound)
	assert.Contains(t, out, "Book not found")
}

func TestReviewCommandNeedsLogin(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	db := filepath.Join(t.TempDir(), "session.db")
	id := srv.AddBook("Dune", "Frank Herbert", nil, nil, nil)

	out, err := run(t, srv, db, "review", bookIDString(id), "--rating", "5", "--text", "great")
	require.Error(t, err)
	assert.Contains(t, out, "Please login first")
	assert.Equal(t, 0, srv.Requests("POST", "/books/"+bookIDString(id)+"/reviews"))
}

func TestAdminAddAndDelete(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	db := filepath.Join(t.TempDir(), "session.db")

	out, err := run(t, srv, db, "admin", "add", "--title", "Dune", "--author", "Frank Herbert", "--tags", "scifi, classic")
	require.NoError(t, err)
	assert.Contains(t, out, "Book added successfully!")
	books := srv.Books()
	require.Len(t, books, 1)

	out, err = run(t, srv, db, "admin", "delete", bookIDString(books[0].ID), "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Book deleted successfully!")
	assert.Empty(t, srv.Books())
}

func TestWhoamiAnonymous(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	out, err := run(t, srv, filepath.Join(t.TempDir(), "session.db"), "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not logged in.\n", out)
}

func bookIDString(id int64) string { return strconv.FormatInt(id, 10) }

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "Dune", truncateString("Dune", 10))
	assert.Equal(t, "Found...", truncateString("Foundation", 8))
	assert.Equal(t, "ab", truncateString("abcdef", 2))
}
