package bookverse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DetailAPI is what the book page needs from the API.
type DetailAPI interface {
	GetBook(ctx context.Context, id string) (*Book, error)
	ListReviews(ctx context.Context, bookID string) ([]Review, error)
	SubmitReview(ctx context.Context, token, bookID string, rating int, text string) error
}

const (
	msgBookNotFound = "Book not found"
	msgNoReviews    = "No reviews yet. Be the first to review!"
)

// ReviewView is one rendered review.
type ReviewView struct {
	Email  string
	Rating int
	Stars  string
	Text   string
}

// DetailView is the rendered book page. BuyLink and PDFLink are empty when
// the matching action should be hidden.
type DetailView struct {
	Found       bool
	Placeholder string
	ID          string
	Title       string
	Author      string
	Rating      string
	ReviewCount string
	Cover       string
	Tags        []string
	BuyLink     string
	PDFLink     string

	Reviews            []ReviewView
	ReviewsPlaceholder string
}

// DetailPage shows one book, its reviews, and the review form.
type DetailPage struct {
	api     DetailAPI
	session *SessionController
	logger  *slog.Logger

	bookID      string
	rating      int // 0 means none selected
	view        DetailView
	reviews     []ReviewView
	placeholder string
}

func NewDetailPage(bookID string, api DetailAPI, session *SessionController, logger *slog.Logger) *DetailPage {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailPage{api: api, session: session, logger: logger, bookID: bookID}
}

// BookID returns the book this page shows.
func (p *DetailPage) BookID() string { return p.bookID }

// Load fetches the book and then its reviews.
func (p *DetailPage) Load(ctx context.Context) (DetailView, error) {
	if p.bookID == "" {
		return DetailView{}, ErrMissingBookID
	}

	book, err := p.api.GetBook(ctx, p.bookID)
	if err != nil {
		p.logger.Error("load book", "id", p.bookID, "err", err)
		if !errors.Is(err, ErrNotFound) {
			err = fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		p.view = DetailView{Placeholder: msgBookNotFound}
		return p.view, err
	}

	p.view = DetailView{
		Found:       true,
		ID:          string(book.ID),
		Title:       Clean(book.Title),
		Author:      authorOrUnknown(Clean(book.Author)),
		Rating:      FormatRating(book.AverageRating),
		ReviewCount: fmt.Sprintf("(%d reviews)", book.ReviewCount.Int()),
		Cover:       coverURL(book),
		Tags:        append([]string(nil), book.Tags...),
		BuyLink:     book.BuyLinks.First(),
		PDFLink:     book.PDFLinks.First(),
	}
	p.LoadReviews(ctx)
	return p.View(), nil
}

// View returns the last rendered page.
func (p *DetailPage) View() DetailView {
	v := p.view
	v.Reviews = p.reviews
	v.ReviewsPlaceholder = p.placeholder
	return v
}

// LoadReviews refreshes the review list. Failures are logged and leave the
// previous list in place.
func (p *DetailPage) LoadReviews(ctx context.Context) []ReviewView {
	reviews, err := p.api.ListReviews(ctx, p.bookID)
	if err != nil {
		p.logger.Error("load reviews", "id", p.bookID, "err", err)
		return p.reviews
	}
	if len(reviews) == 0 {
		p.reviews, p.placeholder = nil, msgNoReviews
		return nil
	}
	out := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewView{
			Email:  r.Email,
			Rating: r.Rating,
			Stars:  Stars(r.Rating),
			Text:   Clean(r.Review),
		})
	}
	p.reviews, p.placeholder = out, ""
	return out
}

// SelectRating picks the score for the next review.
func (p *DetailPage) SelectRating(n int) error {
	if n < 1 || n > 5 {
		return ErrInvalidRating
	}
	p.rating = n
	return nil
}

// SelectedRating returns the pending score and whether one is set.
func (p *DetailPage) SelectedRating() (int, bool) { return p.rating, p.rating != 0 }

// SubmitReview posts a review with the selected rating. It needs a non-admin
// session and a rating; otherwise no request is made.
func (p *DetailPage) SubmitReview(ctx context.Context, text string) Result {
	token, user := p.session.Token(), p.session.User()
	if token == "" || user == nil {
		return failedResult("Please login to submit a review", ErrLoginRequired)
	}
	if user.Admin {
		return failedResult("Admins cannot submit reviews", ErrReviewNotAllowed)
	}
	if p.rating == 0 {
		return failedResult("Please select a rating", ErrNoRating)
	}

	if err := p.api.SubmitReview(ctx, token, p.bookID, p.rating, text); err != nil {
		p.logger.Error("submit review", "id", p.bookID, "err", err)
		return failedResult(failureMessage(err, "Error submitting review"), err)
	}

	p.rating = 0
	p.LoadReviews(ctx)
	return okResult("Review submitted successfully!")
}
