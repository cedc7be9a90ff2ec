// Package apitest runs an in-memory BookVerse API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const signingKey = "apitest-signing-key"

// Book mirrors the server's row shape: list columns are JSON-encoded strings
// and the average rating is a decimal string.
type Book struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        *string `json:"author"`
	Image         *string `json:"image"`
	Tags          *string `json:"tags"`
	BuyLinks      *string `json:"buy_links"`
	PDFLinks      *string `json:"pdf_links"`
	AverageRating string  `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// Review is a stored review.
type Review struct {
	Email  string  `json:"email"`
	Rating int     `json:"rating"`
	Review *string `json:"review"`
}

type account struct {
	hash  []byte
	admin bool
}

// Server is a fake BookVerse API. The zero value is not usable; call New.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]account
	books    []Book
	reviews  map[int64][]Review
	nextID   int64
	requests map[string]int

	lastCreate map[string]any
}

// New starts a server. Call Close when done.
func New() *Server {
	s := &Server{
		accounts: make(map[string]account),
		reviews:  make(map[int64][]Review),
		nextID:   1,
		requests: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.count)
	r.Post("/auth/register", s.register)
	r.Post("/auth/login", s.login)
	r.Get("/books", s.listBooks)
	r.Post("/books", s.createBook)
	r.Get("/books/{id}", s.getBook)
	r.Delete("/books/{id}", s.deleteBook)
	r.Get("/books/{id}/reviews", s.listReviews)
	r.Post("/books/{id}/reviews", s.createReview)

	s.Server = httptest.NewServer(r)
	return s
}

// URL of the API root, suitable for bookverse.NewClient.
func (s *Server) BaseURL() string { return s.Server.URL }

// Requests returns how many times "METHOD /path" was hit.
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// TotalRequests returns the number of requests of any kind.
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.requests {
		n += c
	}
	return n
}

// AddUser registers an account directly.
func (s *Server) AddUser(email, password string, admin bool) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = account{hash: hash, admin: admin}
}

// AddBook stores a book and returns its id. Lists may be nil.
func (s *Server) AddBook(title, author string, tags, buyLinks, pdfLinks []string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := Book{
		ID:            s.nextID,
		Title:         title,
		Author:        nullable(author),
		Tags:          encodeList(tags),
		BuyLinks:      encodeList(buyLinks),
		PDFLinks:      encodeList(pdfLinks),
		AverageRating: "0.0",
	}
	s.nextID++
	s.books = append(s.books, b)
	return b.ID
}

// Books returns a copy of the stored books.
func (s *Server) Books() []Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]Book, 0, len(s.books)), s.books...)
}

// LastCreate returns the raw body of the most recent POST /books.
func (s *Server) LastCreate() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCreate
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// ------------------ Auth ------------------

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Email == "" || c.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	s.mu.Lock()
	_, exists := s.accounts[c.Email]
	s.mu.Unlock()
	if exists {
		writeMessage(w, http.StatusConflict, "User already exists")
		return
	}
	s.AddUser(c.Email, c.Password, false)
	writeMessage(w, http.StatusCreated, "User registered successfully")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[c.Email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(c.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": c.Email,
		"admin": acct.admin,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(signingKey))
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Could not sign token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": signed,
		"user":  map[string]any{"email": c.Email, "admin": acct.admin},
	})
}

// bearerEmail validates the Authorization header and returns the caller.
func bearerEmail(r *http.Request) (string, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return "", false
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(signingKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", false
	}
	email, ok := claims["email"].(string)
	return email, ok
}

// ------------------ Books ------------------

func (s *Server) listBooks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Books())
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	b, ok := s.find(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type newBook struct {
	Title    string   `json:"title"`
	Author   *string  `json:"author"`
	Image    *string  `json:"image"`
	Tags     []string `json:"tags"`
	BuyLinks []string `json:"buy_links"`
	PDFLinks []string `json:"pdf_links"`
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	data, _ := json.Marshal(raw)
	var nb newBook
	if err := json.Unmarshal(data, &nb); err != nil || nb.Title == "" {
		writeMessage(w, http.StatusBadRequest, "Title is required")
		return
	}

	s.mu.Lock()
	s.lastCreate = raw
	b := Book{
		ID:            s.nextID,
		Title:         nb.Title,
		Author:        nb.Author,
		Image:         nb.Image,
		Tags:          encodeList(nb.Tags),
		BuyLinks:      encodeList(nb.BuyLinks),
		PDFLinks:      encodeList(nb.PDFLinks),
		AverageRating: "0.0",
	}
	s.nextID++
	s.books = append(s.books, b)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.books {
		if b.ID == id {
			s.books = append(s.books[:i], s.books[i+1:]...)
			delete(s.reviews, id)
			writeMessage(w, http.StatusOK, "Book deleted")
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Book not found")
}

// ------------------ Reviews ------------------

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	b, ok := s.find(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "Book not found")
		return
	}
	s.mu.Lock()
	reviews := append([]Review{}, s.reviews[b.ID]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	email, ok := bearerEmail(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	b, ok := s.find(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "Book not found")
		return
	}
	var body struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Rating < 1 || body.Rating > 5 {
		writeMessage(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	rev := Review{Email: email, Rating: body.Rating, Review: nullable(body.Review)}
	s.mu.Lock()
	s.reviews[b.ID] = append(s.reviews[b.ID], rev)
	s.updateRatingLocked(b.ID)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rev)
}

func (s *Server) updateRatingLocked(id int64) {
	reviews := s.reviews[id]
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	for i := range s.books {
		if s.books[i].ID == id {
			s.books[i].ReviewCount = len(reviews)
			s.books[i].AverageRating = fmt.Sprintf("%.2f", float64(sum)/float64(len(reviews)))
		}
	}
}

// ------------------ Helpers ------------------

func (s *Server) find(r *http.Request) (Book, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return Book{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

func encodeList(items []string) *string {
	if items == nil {
		return nil
	}
	data, _ := json.Marshal(items)
	s := string(data)
	return &s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
