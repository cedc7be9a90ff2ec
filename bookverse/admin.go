package bookverse

import (
	"context"
	"log/slog"
	"strings"
)

// AdminAPI is what the book-management page needs from the API.
type AdminAPI interface {
	BookLister
	CreateBook(ctx context.Context, nb NewBook) (*Book, error)
	DeleteBook(ctx context.Context, id string) (string, error)
}

// BookForm holds the raw fields of the add-book form. List fields are
// comma-separated.
type BookForm struct {
	Title    string
	Author   string
	Image    string
	Tags     string
	BuyLinks string
	PDFLinks string
}

// NewBook converts the form into a create payload.
func (f BookForm) NewBook() NewBook {
	return NewBook{
		Title:    f.Title,
		Author:   optional(f.Author),
		Image:    optional(f.Image),
		Tags:     NormalizeList(f.Tags),
		BuyLinks: NormalizeList(f.BuyLinks),
		PDFLinks: NormalizeList(f.PDFLinks),
	}
}

// AdminView is the rendered management list.
type AdminView struct {
	Status      ViewStatus
	Placeholder string
	Books       []BookCard
}

// AdminPage lists, adds and deletes books. It trusts the caller; the API
// does not ask for a token on these endpoints.
type AdminPage struct {
	api    AdminAPI
	logger *slog.Logger
	view   AdminView
}

func NewAdminPage(api AdminAPI, logger *slog.Logger) *AdminPage {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminPage{api: api, logger: logger}
}

// View returns the last rendered list.
func (p *AdminPage) View() AdminView { return p.view }

// Load fetches every book.
func (p *AdminPage) Load(ctx context.Context) AdminView {
	books, err := p.api.ListBooks(ctx)
	switch {
	case err != nil:
		p.logger.Error("load books", "err", err)
		p.view = AdminView{Status: StatusFailed, Placeholder: msgLoadFailed}
	case len(books) == 0:
		p.view = AdminView{Status: StatusEmpty, Placeholder: "No books yet"}
	default:
		cards := make([]BookCard, 0, len(books))
		for i := range books {
			cards = append(cards, newBookCard(&books[i]))
		}
		p.view = AdminView{Status: StatusReady, Books: cards}
	}
	return p.view
}

// Create adds a book and reloads the list.
func (p *AdminPage) Create(ctx context.Context, form BookForm) Result {
	if strings.TrimSpace(form.Title) == "" {
		return failedResult("Title is required", ErrTitleRequired)
	}
	if _, err := p.api.CreateBook(ctx, form.NewBook()); err != nil {
		p.logger.Error("add book", "title", form.Title, "err", err)
		return failedResult(failureMessage(err, "Error adding book"), err)
	}
	p.Load(ctx)
	return okResult("Book added successfully!")
}

// Delete removes a book once confirm agrees, then reloads the list.
func (p *AdminPage) Delete(ctx context.Context, id string, confirm Confirm) Result {
	if confirm == nil || !confirm("Are you sure you want to delete this book?") {
		return cancelledResult()
	}
	if _, err := p.api.DeleteBook(ctx, id); err != nil {
		p.logger.Error("delete book", "id", id, "err", err)
		return failedResult(failureMessage(err, "Error deleting book"), err)
	}
	p.Load(ctx)
	return okResult("Book deleted successfully!")
}
