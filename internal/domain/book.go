package domain

import (
	"sort"
	"strings"
)

const (
	formatPlainASCII = "text/plain; charset=us-ascii"
	formatPlain      = "text/plain"
	formatCover      = "image/jpeg"
)

// Person is an author or translator as reported by Gutendex
type Person struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year"`
	DeathYear *int   `json:"death_year"`
}

// Book is a public-domain book and its download formats
type Book struct {
	ID            int               `json:"id"`
	Title         string            `json:"title"`
	Authors       []Person          `json:"authors"`
	Subjects      []string          `json:"subjects"`
	Bookshelves   []string          `json:"bookshelves"`
	Languages     []string          `json:"languages"`
	Formats       map[string]string `json:"formats"`
	DownloadCount int               `json:"download_count"`
}

// TextURL returns the plain-text download URL, preferring the ASCII edition.
// An empty string means no plain-text format exists.
func (b *Book) TextURL() string {
	if u := b.Formats[formatPlainASCII]; u != "" {
		return u
	}
	if u := b.Formats[formatPlain]; u != "" {
		return u
	}

	// Other charsets, in a stable order
	var keys []string
	for k := range b.Formats {
		if strings.HasPrefix(k, formatPlain+";") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if b.Formats[k] != "" {
			return b.Formats[k]
		}
	}
	return ""
}

// CoverImage returns the cover image URL, if the book has one
func (b *Book) CoverImage() string {
	return b.Formats[formatCover]
}

// AuthorNames joins the author names for display
func (b *Book) AuthorNames() string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// BookPage is one page of Gutendex search results
type BookPage struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []Book `json:"results"`
}

// PageView is a single page of a paginated book
type PageView struct {
	BookID     string `json:"book_id"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	Percent    int    `json:"percent"`
	Text       string `json:"text"`
}
