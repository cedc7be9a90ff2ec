package bookverse

import (
	"context"
	"log/slog"
	"strings"
)

// BookLister fetches the whole collection.
type BookLister interface {
	ListBooks(ctx context.Context) ([]Book, error)
}

// DefaultCategories are the browse buttons of the catalog. Picking one reloads
// the full collection.
var DefaultCategories = []string{"All", "Fiction", "Non-Fiction", "Science", "History"}

// ViewStatus is the state of a list-rendering page.
type ViewStatus int

const (
	StatusLoading ViewStatus = iota
	StatusEmpty
	StatusFailed
	StatusReady
)

const (
	msgLoadingBooks = "Loading books..."
	msgNoBooks      = "No books found"
	msgLoadFailed   = "Failed to load books"
)

// BookCard is one entry of a rendered book list.
type BookCard struct {
	ID      string
	Title   string
	Author  string
	Cover   string
	Rating  string
	Reviews int
	Tags    []string
}

// CatalogView is the rendered catalog. Placeholder is set unless Status is
// StatusReady.
type CatalogView struct {
	Status      ViewStatus
	Placeholder string
	Books       []BookCard
	Query       string
	Category    string
}

// CatalogPage browses the collection and filters it locally.
type CatalogPage struct {
	api    BookLister
	logger *slog.Logger

	books    []Book
	loaded   bool
	query    string
	category string
}

func NewCatalogPage(api BookLister, logger *slog.Logger) *CatalogPage {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogPage{api: api, logger: logger, category: DefaultCategories[0]}
}

// Loading is the view shown while a fetch is in flight.
func (p *CatalogPage) Loading() CatalogView {
	return CatalogView{Status: StatusLoading, Placeholder: msgLoadingBooks, Query: p.query, Category: p.category}
}

// Refresh re-fetches the collection and clears the search query.
func (p *CatalogPage) Refresh(ctx context.Context) CatalogView {
	p.query = ""
	return p.fetch(ctx)
}

// SelectCategory marks name active and reloads the collection.
func (p *CatalogPage) SelectCategory(ctx context.Context, name string) CatalogView {
	p.category = name
	return p.Refresh(ctx)
}

// Search filters the collection by query. The collection is fetched only if
// nothing has been loaded yet.
func (p *CatalogPage) Search(ctx context.Context, query string) CatalogView {
	p.query = strings.TrimSpace(query)
	if !p.loaded {
		return p.fetch(ctx)
	}
	return p.render()
}

func (p *CatalogPage) fetch(ctx context.Context) CatalogView {
	books, err := p.api.ListBooks(ctx)
	if err != nil {
		p.logger.Error("fetch books", "err", err)
		p.books, p.loaded = nil, false
		return CatalogView{Status: StatusFailed, Placeholder: msgLoadFailed, Query: p.query, Category: p.category}
	}
	p.books, p.loaded = books, true
	return p.render()
}

func (p *CatalogPage) render() CatalogView {
	v := CatalogView{Query: p.query, Category: p.category}
	matches := FilterBooks(p.books, p.query)
	if len(matches) == 0 {
		v.Status, v.Placeholder = StatusEmpty, msgNoBooks
		return v
	}
	v.Status = StatusReady
	v.Books = make([]BookCard, 0, len(matches))
	for i := range matches {
		card := newBookCard(&matches[i])
		if len(card.Tags) > 2 {
			card.Tags = card.Tags[:2]
		}
		v.Books = append(v.Books, card)
	}
	return v
}

// FilterBooks keeps books whose title or author contains query, ignoring case.
// An empty query keeps everything.
func FilterBooks(books []Book, query string) []Book {
	if query == "" {
		return books
	}
	var out []Book
	for _, b := range books {
		if ContainsFold(b.Title, query) || (b.Author != "" && ContainsFold(b.Author, query)) {
			out = append(out, b)
		}
	}
	return out
}

func newBookCard(b *Book) BookCard {
	return BookCard{
		ID:      string(b.ID),
		Title:   Clean(b.Title),
		Author:  authorOrUnknown(Clean(b.Author)),
		Cover:   coverURL(b),
		Rating:  FormatRating(b.AverageRating),
		Reviews: b.ReviewCount.Int(),
		Tags:    append([]string(nil), b.Tags...),
	}
}
