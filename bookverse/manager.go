package bookverse

import (
	"log/slog"
	"time"
)

// Options configures a Manager.
type Options struct {
	APIURL         string
	DBPath         string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Manager wires the API client, durable storage and session controller
// together and hands out pages that share them.
type Manager struct {
	db      *Database
	client  *Client
	session *SessionController
	logger  *slog.Logger
}

// NewManager opens (or creates) the storage at opts.DBPath and restores any
// saved session.
func NewManager(opts Options) (*Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	db, err := NewDatabase(opts.DBPath)
	if err != nil {
		return nil, err
	}
	client := NewClient(opts.APIURL, WithTimeout(opts.RequestTimeout), WithLogger(logger))
	return &Manager{
		db:      db,
		client:  client,
		session: NewSessionController(db, client, logger),
		logger:  logger,
	}, nil
}

// Close closes the underlying database.
func (m *Manager) Close() error { return m.db.Close() }

func (m *Manager) Client() *Client             { return m.client }
func (m *Manager) Session() *SessionController { return m.session }

// ------------------ Pages ------------------

func (m *Manager) AuthDialog() *AuthDialog { return NewAuthDialog(m.session) }

func (m *Manager) CatalogPage() *CatalogPage { return NewCatalogPage(m.client, m.logger) }

func (m *Manager) DetailPage(bookID string) *DetailPage {
	return NewDetailPage(bookID, m.client, m.session, m.logger)
}

func (m *Manager) AdminPage() *AdminPage { return NewAdminPage(m.client, m.logger) }
