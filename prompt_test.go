package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"bookverse-cli/bookverse"
	"bookverse-cli/bookverse/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeInput returns a file that reads input and then EOF.
func pipeInput(t *testing.T, input string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	t.Cleanup(func() { r.Close() })
	return r
}

// newTestApp builds an app on srv whose prompts read input.
func newTestApp(t *testing.T, srv *apitest.Server, input string) (*app, *bytes.Buffer) {
	t.Helper()
	mgr, err := bookverse.NewManager(bookverse.Options{
		APIURL: srv.BaseURL(),
		DBPath: filepath.Join(t.TempDir(), "session.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	var out bytes.Buffer
	return &app{mgr: mgr, p: newPrompter(pipeInput(t, input), &out), out: &out}, &out
}

func TestPasswordKeepsSurroundingSpaces(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(pipeInput(t, "  pass word  \r\n"), &out)

	got, err := p.password("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "  pass word  ", got)
	assert.Equal(t, "Password: ", out.String())

	_, err = p.password("Password: ")
	assert.Error(t, err)
}

func TestLineTrims(t *testing.T) {
	p := newPrompter(pipeInput(t, "  a@b.io \nyes\n"), &bytes.Buffer{})

	got, ok := p.line("Email: ")
	require.True(t, ok)
	assert.Equal(t, "a@b.io", got)
	assert.True(t, p.confirm("Sure?"))
	assert.False(t, p.confirm("Again?"))
}

func TestLoginSendsPasswordAsTyped(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.AddUser("a@b.io", " spaced ", false)
	a, _ := newTestApp(t, srv, " spaced \n")

	cmd := authCmd(a, bookverse.ModeLogin)
	cmd.SetArgs([]string{"a@b.io"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, bookverse.AuthenticatedUser, a.mgr.Session().State())
}

func TestLoginFailsWithoutInput(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	a, _ := newTestApp(t, srv, "")

	cmd := authCmd(a, bookverse.ModeLogin)
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"a@b.io"})
	assert.Error(t, cmd.Execute())

	cmd = authCmd(a, bookverse.ModeLogin)
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
	assert.Equal(t, 0, srv.TotalRequests())
}

func TestReviewCommandRefusesAdmin(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.AddUser("admin@b.io", "pw", true)
	id := srv.AddBook("Dune", "Frank Herbert", nil, nil, nil)
	a, out := newTestApp(t, srv, "")
	res := a.mgr.Session().Authenticate(context.Background(), bookverse.ModeLogin, "admin@b.io", "pw")
	require.Equal(t, bookverse.Ok, res.Outcome)

	cmd := reviewCmd(a)
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{bookIDString(id), "--rating", "5", "--text", "mine"})
	err := cmd.Execute()
	require.ErrorIs(t, err, bookverse.ErrReviewNotAllowed)
	assert.Contains(t, out.String(), "Admins cannot submit reviews.")
	assert.Equal(t, 0, srv.Requests("POST", "/books/"+bookIDString(id)+"/reviews"))
}
