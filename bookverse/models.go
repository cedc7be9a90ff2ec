package bookverse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Book is a catalog entry as returned by the BookVerse API.
// Link and tag lists arrive JSON-encoded inside a string column.
type Book struct {
	ID            ID         `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Image         string     `json:"image"`
	Tags          StringList `json:"tags"`
	BuyLinks      StringList `json:"buy_links"`
	PDFLinks      StringList `json:"pdf_links"`
	AverageRating Number     `json:"average_rating"`
	ReviewCount   Number     `json:"review_count"`
}

// Review is a single rating left by a user.
type Review struct {
	Email  string `json:"email"`
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// User is the identity attached to a session.
type User struct {
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

// NewBook is the create payload. Nil fields are sent as JSON null.
type NewBook struct {
	Title    string   `json:"title"`
	Author   *string  `json:"author"`
	Image    *string  `json:"image"`
	Tags     []string `json:"tags"`
	BuyLinks []string `json:"buy_links"`
	PDFLinks []string `json:"pdf_links"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type reviewRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ID accepts both numeric and string identifiers.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Number decodes numeric values that may be sent as strings (e.g. DECIMAL columns).
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("number %q: %w", s, err)
	}
	*n = Number(f)
	return nil
}

func (n Number) Int() int { return int(n) }

// StringList is a list stored server-side as a JSON-encoded string.
// Plain arrays and null are accepted too.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var encoded string
		if err := json.Unmarshal(b, &encoded); err != nil {
			return err
		}
		if encoded == "" || encoded == "null" {
			*l = nil
			return nil
		}
		b = []byte(encoded)
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	*l = items
	return nil
}

// First returns the first entry, or "" when the list is empty.
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}
