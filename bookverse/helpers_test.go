package bookverse

import (
	"io"
	"log/slog"
	"strconv"
	"testing"

	"bookverse-cli/bookverse/apitest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	server  *apitest.Server
	client  *Client
	storage *MemoryStorage
	session *SessionController
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	client := NewClient(srv.BaseURL(), WithLogger(quietLogger()))
	storage := NewMemoryStorage()
	return &testEnv{
		server:  srv,
		client:  client,
		storage: storage,
		session: NewSessionController(storage, client, quietLogger()),
	}
}

func answer(yes bool) Confirm {
	return func(string) bool { return yes }
}

func idString(id int64) string { return strconv.FormatInt(id, 10) }
