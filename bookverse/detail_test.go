package bookverse

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func loggedIn(t *testing.T, env *testEnv, admin bool) {
	t.Helper()
	env.server.AddUser("reader@example.com", "pw", admin)
	if res := env.session.Authenticate(context.Background(), ModeLogin, "reader@example.com", "pw"); res.Outcome != Ok {
		t.Fatalf("login: %+v", res)
	}
}

func TestDetailLoad(t *testing.T) {
	env := newTestEnv(t)
	id := env.server.AddBook("Dune", "", []string{"sci-fi"}, []string{"https://shop.example/dune", "https://other"}, nil)
	page := NewDetailPage(idString(id), env.client, env.session, quietLogger())

	v, err := page.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !v.Found || v.Title != "Dune" || v.Author != "Unknown Author" {
		t.Fatalf("view = %+v", v)
	}
	if v.BuyLink != "https://shop.example/dune" || v.PDFLink != "" {
		t.Fatalf("links = %q %q", v.BuyLink, v.PDFLink)
	}
	if v.ReviewCount != "(0 reviews)" || v.Rating != "0.0" {
		t.Fatalf("rating = %q %q", v.Rating, v.ReviewCount)
	}
	if !strings.HasPrefix(v.Cover, placeholderCover) {
		t.Fatalf("cover = %q", v.Cover)
	}
	if v.ReviewsPlaceholder != "No reviews yet. Be the first to review!" {
		t.Fatalf("reviews placeholder = %q", v.ReviewsPlaceholder)
	}
}

func TestDetailNotFound(t *testing.T) {
	env := newTestEnv(t)
	page := NewDetailPage("999", env.client, env.session, quietLogger())
	v, err := page.Load(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if v.Found || v.Placeholder != "Book not found" {
		t.Fatalf("view = %+v", v)
	}
	if env.server.Requests("GET", "/books/999/reviews") != 0 {
		t.Fatalf("reviews fetched for missing book")
	}
}

func TestDetailMissingID(t *testing.T) {
	env := newTestEnv(t)
	_, err := NewDetailPage("", env.client, env.session, quietLogger()).Load(context.Background())
	if !errors.Is(err, ErrMissingBookID) {
		t.Fatalf("err = %v", err)
	}
	if env.server.TotalRequests() != 0 {
		t.Fatalf("request issued without an id")
	}
}

func TestSubmitReviewWithoutRating(t *testing.T) {
	env := newTestEnv(t)
	loggedIn(t, env, false)
	id := env.server.AddBook("Dune", "Herbert", nil, nil, nil)
	page := NewDetailPage(idString(id), env.client, env.session, quietLogger())

	res := page.SubmitReview(context.Background(), "loved it")
	if res.Outcome != Failed || !errors.Is(res.Err, ErrNoRating) || res.Message != "Please select a rating" {
		t.Fatalf("submit = %+v", res)
	}
	if n := env.server.Requests("POST", "/books/"+idString(id)+"/reviews"); n != 0 {
		t.Fatalf("review posted without rating")
	}
}

func TestSubmitReviewRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	id := env.server.AddBook("Dune", "Herbert", nil, nil, nil)
	page := NewDetailPage(idString(id), env.client, env.session, quietLogger())
	page.SelectRating(4)

	res := page.SubmitReview(context.Background(), "")
	if !errors.Is(res.Err, ErrLoginRequired) {
		t.Fatalf("submit = %+v", res)
	}
	if env.server.TotalRequests() != 0 {
		t.Fatalf("request issued without a session")
	}
}

func TestSubmitReviewRejectsAdmin(t *testing.T) {
	env := newTestEnv(t)
	loggedIn(t, env, true)
	id := env.server.AddBook("Dune", "Herbert", nil, nil, nil)
	page := NewDetailPage(idString(id), env.client, env.session, quietLogger())
	if err := page.SelectRating(5); err != nil {
		t.Fatalf("rating: %v", err)
	}

	res := page.SubmitReview(context.Background(), "mine")
	if res.Outcome != Failed || !errors.Is(res.Err, ErrReviewNotAllowed) {
		t.Fatalf("admin submit = %+v", res)
	}
	if n := env.server.Requests("POST", "/books/"+idString(id)+"/reviews"); n != 0 {
		t.Fatalf("admin review posted %d times", n)
	}
	if env.session.View().ReviewFormVisible {
		t.Fatalf("review form visible for admin")
	}
}

func TestSubmitReview(t *testing.T) {
	env := newTestEnv(t)
	loggedIn(t, env, false)
	id := env.server.AddBook("Dune", "Herbert", nil, nil, nil)
	page := NewDetailPage(idString(id), env.client, env.session, quietLogger())
	ctx := context.Background()
	if _, err := page.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := page.SelectRating(6); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("rating 6: %v", err)
	}
	if err := page.SelectRating(4); err != nil {
		t.Fatalf("rating 4: %v", err)
	}

	res := page.SubmitReview(ctx, "<b>Great</b> read")
	if res.Outcome != Ok {
		t.Fatalf("submit = %+v", res)
	}
	if _, ok := page.SelectedRating(); ok {
		t.Fatalf("rating not reset after submit")
	}
	v := page.View()
	if len(v.Reviews) != 1 || v.Reviews[0].Stars != "****" || v.Reviews[0].Text != "Great read" {
		t.Fatalf("reviews = %+v", v.Reviews)
	}
	if v.ReviewsPlaceholder != "" {
		t.Fatalf("placeholder left after review: %q", v.ReviewsPlaceholder)
	}
	if n := env.server.Requests("GET", "/books/"+idString(id)+"/reviews"); n != 2 {
		t.Fatalf("reviews fetched %d times, want 2", n)
	}
}

func TestSubmitReviewFailureKeepsRating(t *testing.T) {
	env := newTestEnv(t)
	loggedIn(t, env, false)
	page := NewDetailPage("424242", env.client, env.session, quietLogger())
	page.SelectRating(3)

	res := page.SubmitReview(context.Background(), "")
	if res.Outcome != Failed || res.Message != "Book not found" {
		t.Fatalf("submit = %+v", res)
	}
	if r, ok := page.SelectedRating(); !ok || r != 3 {
		t.Fatalf("rating should stay selected, got %d %v", r, ok)
	}
}
