// Command import_books adds every book listed in a CSV file to a BookVerse
// server. The first row is a header naming the columns: title, author, image,
// tags, buy_links and pdf_links. Only title is required.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"bookverse-cli/bookverse"
	"bookverse-cli/config"

	"github.com/joho/godotenv"
)

var columns = []string{"title", "author", "image", "tags", "buy_links", "pdf_links"}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	apiURL := flag.String("api-url", cfg.APIURL, "API base URL")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: import_books [-api-url URL] books.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	forms, err := readForms(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading CSV: %v\n", err)
		os.Exit(1)
	}

	client := bookverse.NewClient(*apiURL,
		bookverse.WithTimeout(cfg.RequestTimeout),
		bookverse.WithLogger(cfg.NewLogger()))
	ctx := context.Background()

	fmt.Printf("Importing %d books into %s...\n", len(forms), client.BaseURL())

	successCount := 0
	errorCount := 0
	for _, form := range forms {
		fmt.Printf("Importing: %s... ", form.Title)
		if strings.TrimSpace(form.Title) == "" {
			fmt.Println("ERROR - missing title")
			errorCount++
			continue
		}
		book, err := client.CreateBook(ctx, form.NewBook())
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (ID: %s)\n", book.ID)
		successCount++
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Println("\nBooks on the server:")
		v := bookverse.NewAdminPage(client, cfg.NewLogger()).Load(ctx)
		if v.Status != bookverse.StatusReady {
			fmt.Println(v.Placeholder)
			return
		}
		fmt.Printf("%-6s %-50s %-30s\n", "ID", "Title", "Author")
		fmt.Println(strings.Repeat("-", 88))
		for _, c := range v.Books {
			fmt.Printf("%-6s %-50s %-30s\n", c.ID, truncateString(c.Title, 50), truncateString(c.Author, 30))
		}
	}
}

// readForms parses the CSV into add-book forms. Columns are matched by header
// name, case-insensitively, and unknown columns are ignored.
func readForms(r io.Reader) ([]bookverse.BookForm, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty file")
	}

	index := make(map[string]int)
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["title"]; !ok {
		return nil, errors.New("header has no title column")
	}

	forms := make([]bookverse.BookForm, 0, len(records)-1)
	// starts in 1 to skip the header
	for _, row := range records[1:] {
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		forms = append(forms, bookverse.BookForm{
			Title:    get(columns[0]),
			Author:   get(columns[1]),
			Image:    get(columns[2]),
			Tags:     get(columns[3]),
			BuyLinks: get(columns[4]),
			PDFLinks: get(columns[5]),
		})
	}
	return forms, nil
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
