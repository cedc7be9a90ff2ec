package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bookverse-cli/bookverse"
)

// shell is the interactive client. It keeps one catalog and the last opened
// book around between commands.
type shell struct {
	*app
	ctx     context.Context
	catalog *bookverse.CatalogPage
	detail  *bookverse.DetailPage
}

func runShell(a *app) {
	sh := &shell{
		app:     a,
		ctx:     context.Background(),
		catalog: a.mgr.CatalogPage(),
	}

	unsubscribe := a.mgr.Session().Subscribe(func(v bookverse.View) {
		printHeader(a.out, v)
	})
	defer unsubscribe()

	fmt.Fprintln(a.out, "Welcome to BookVerse!")
	printHeader(a.out, a.mgr.Session().View())
	printHelp(a)

	for {
		cmd, ok := a.p.line("\n> ")
		if !ok {
			break
		}

		switch cmd {
		case "":
		case "help":
			printHelp(a)
		case "login":
			sh.handleAuth(bookverse.ModeLogin)
		case "register":
			sh.handleAuth(bookverse.ModeRegister)
		case "logout":
			printResult(a.out, a.mgr.Session().Logout(a.p.confirm))
		case "whoami":
			printWhoami(a)
		case "list books":
			fmt.Fprintln(a.out, sh.catalog.Loading().Placeholder)
			printCatalog(a.out, sh.catalog.Refresh(sh.ctx))
		case "search book":
			sh.handleSearch()
		case "category":
			sh.handleCategory()
		case "show book":
			sh.handleShowBook()
		case "rate":
			sh.handleRate()
		case "review":
			sh.handleReview()
		case "admin list":
			printAdmin(a.out, a.mgr.AdminPage().Load(sh.ctx))
		case "add book":
			sh.handleAddBook()
		case "delete book":
			sh.handleDeleteBook()
		case "exit":
			fmt.Fprintln(a.out, "Goodbye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command. Type 'help' to see the available commands.")
		}
	}
}

func printHelp(a *app) {
	fmt.Fprintln(a.out, "Available commands:")
	fmt.Fprintln(a.out, "  Account: login, register, logout, whoami")
	fmt.Fprintln(a.out, "  Browse:  list books, search book, category, show book")
	fmt.Fprintln(a.out, "  Review:  rate, review")
	if a.mgr.Session().View().AdminNavVisible {
		fmt.Fprintln(a.out, "  Admin:   admin list, add book, delete book")
	}
	fmt.Fprintln(a.out, "  System:  help, exit")
}

// handleAuth runs the auth dialog until it closes or the user gives up.
func (sh *shell) handleAuth(mode bookverse.AuthMode) {
	d := sh.mgr.AuthDialog()
	d.Open()
	if mode == bookverse.ModeRegister {
		d.Toggle()
	}

	for d.IsOpen() {
		fmt.Fprintf(sh.out, "-- %s --\n", d.Title())
		email, ok := sh.p.line("Email: ")
		if !ok {
			return
		}
		password, err := sh.p.password("Password: ")
		if err != nil {
			fmt.Fprintf(sh.out, "Error reading password: %v\n", err)
			return
		}

		res := d.Submit(sh.ctx, email, password)
		printResult(sh.out, res.Result)
		if !d.IsOpen() {
			return
		}

		next, ok := sh.p.line("Press Enter to continue, 'switch' to change mode or 'cancel': ")
		if !ok {
			return
		}
		switch strings.ToLower(next) {
		case "cancel":
			d.Close()
		case "switch":
			d.Toggle()
		}
	}
}

func (sh *shell) handleSearch() {
	query, ok := sh.p.line("Query: ")
	if !ok {
		return
	}
	printCatalog(sh.out, sh.catalog.Search(sh.ctx, query))
}

func (sh *shell) handleCategory() {
	for i, name := range bookverse.DefaultCategories {
		fmt.Fprintf(sh.out, "  %d. %s\n", i+1, name)
	}
	answer, ok := sh.p.line("Category: ")
	if !ok {
		return
	}
	name := answer
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(bookverse.DefaultCategories) {
		name = bookverse.DefaultCategories[n-1]
	}
	printCatalog(sh.out, sh.catalog.SelectCategory(sh.ctx, name))
}

func (sh *shell) handleShowBook() {
	id, ok := sh.p.line("Book ID: ")
	if !ok {
		return
	}
	page := sh.mgr.DetailPage(id)
	v, err := page.Load(sh.ctx)
	printDetail(sh.out, v, sh.mgr.Session().View())
	if err != nil {
		return
	}
	sh.detail = page
}

// currentBook returns the book opened with 'show book'.
func (sh *shell) currentBook() (*bookverse.DetailPage, bool) {
	if sh.detail == nil {
		fmt.Fprintln(sh.out, "Open a book first with 'show book'.")
		return nil, false
	}
	return sh.detail, true
}

func (sh *shell) handleRate() {
	if !reviewsAllowed(sh.app) {
		return
	}
	page, ok := sh.currentBook()
	if !ok {
		return
	}
	answer, ok := sh.p.line("Rating (1-5): ")
	if !ok {
		return
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		fmt.Fprintf(sh.out, "Invalid rating: %s\n", answer)
		return
	}
	if err := page.SelectRating(n); err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.out, "Selected %s\n", bookverse.Stars(n))
}

func (sh *shell) handleReview() {
	if !reviewsAllowed(sh.app) {
		return
	}
	page, ok := sh.currentBook()
	if !ok {
		return
	}
	text, ok := sh.p.line("Review: ")
	if !ok {
		return
	}

	res := page.SubmitReview(sh.ctx, text)
	if errors.Is(res.Err, bookverse.ErrLoginRequired) {
		sh.handleAuth(bookverse.ModeLogin)
		return
	}
	printResult(sh.out, res)
	if res.Outcome == bookverse.Ok {
		printReviews(sh.out, page.View())
	}
}

func (sh *shell) handleAddBook() {
	var form bookverse.BookForm
	fields := []struct {
		label string
		dst   *string
	}{
		{"Title: ", &form.Title},
		{"Author: ", &form.Author},
		{"Image URL (optional): ", &form.Image},
		{"Tags (comma-separated): ", &form.Tags},
		{"Buy links (comma-separated): ", &form.BuyLinks},
		{"PDF links (comma-separated): ", &form.PDFLinks},
	}
	for _, f := range fields {
		v, ok := sh.p.line(f.label)
		if !ok {
			return
		}
		*f.dst = v
	}

	page := sh.mgr.AdminPage()
	res := page.Create(sh.ctx, form)
	printResult(sh.out, res)
	if res.Outcome == bookverse.Ok {
		printAdmin(sh.out, page.View())
	}
}

func (sh *shell) handleDeleteBook() {
	id, ok := sh.p.line("Book ID: ")
	if !ok {
		return
	}
	printResult(sh.out, sh.mgr.AdminPage().Delete(sh.ctx, id, sh.p.confirm))
}
