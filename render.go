package main

import (
	"fmt"
	"io"
	"strings"

	"bookverse-cli/bookverse"
)

func printHeader(w io.Writer, v bookverse.View) {
	nav := "Books"
	if v.AdminNavVisible {
		nav += " | Admin"
	}
	fmt.Fprintf(w, "[BookVerse] %s    (%s)\n", nav, v.ProfileLabel)
}

// printResult shows the outcome of a user action.
func printResult(w io.Writer, res bookverse.Result) {
	switch res.Outcome {
	case bookverse.Ok:
		fmt.Fprintln(w, res.Message)
	case bookverse.Cancelled:
		fmt.Fprintln(w, "Cancelled.")
	case bookverse.Failed:
		fmt.Fprintf(w, "Error: %s\n", res.Message)
	}
}

func printCatalog(w io.Writer, v bookverse.CatalogView) {
	if v.Status != bookverse.StatusReady {
		fmt.Fprintln(w, v.Placeholder)
		return
	}
	printCards(w, v.Books)
}

func printAdmin(w io.Writer, v bookverse.AdminView) {
	if v.Status != bookverse.StatusReady {
		fmt.Fprintln(w, v.Placeholder)
		return
	}
	printCards(w, v.Books)
}

func printCards(w io.Writer, cards []bookverse.BookCard) {
	fmt.Fprintf(w, "%-6s %-34s %-24s %-7s %s\n", "ID", "Title", "Author", "Rating", "Tags")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, c := range cards {
		fmt.Fprintf(w, "%-6s %-34s %-24s %-7s %s\n",
			c.ID,
			truncateString(c.Title, 34),
			truncateString(c.Author, 24),
			c.Rating,
			strings.Join(c.Tags, ", "))
	}
}

func printDetail(w io.Writer, v bookverse.DetailView, session bookverse.View) {
	if !v.Found {
		fmt.Fprintln(w, v.Placeholder)
		return
	}
	fmt.Fprintf(w, "%s - BookVerse\n", v.Title)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Author:  %s\n", v.Author)
	fmt.Fprintf(w, "Rating:  %s %s\n", v.Rating, v.ReviewCount)
	fmt.Fprintf(w, "Cover:   %s\n", v.Cover)
	if len(v.Tags) > 0 {
		fmt.Fprintf(w, "Tags:    %s\n", strings.Join(v.Tags, ", "))
	}
	if v.BuyLink != "" {
		fmt.Fprintf(w, "Buy:     %s\n", v.BuyLink)
	}
	if v.PDFLink != "" {
		fmt.Fprintf(w, "PDF:     %s\n", v.PDFLink)
	}
	fmt.Fprintln(w)
	printReviews(w, v)
	if session.ReviewFormVisible {
		fmt.Fprintln(w, "\nUse 'rate' then 'review' to add your own.")
	}
}

func printReviews(w io.Writer, v bookverse.DetailView) {
	fmt.Fprintln(w, "Reviews")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if len(v.Reviews) == 0 {
		fmt.Fprintln(w, v.ReviewsPlaceholder)
		return
	}
	for _, r := range v.Reviews {
		fmt.Fprintf(w, "%s  Rating: %s\n", r.Email, r.Stars)
		if r.Text != "" {
			fmt.Fprintf(w, "  %s\n", r.Text)
		}
	}
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
