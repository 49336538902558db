// Package reader splits retrieved text into fixed-size pages and tracks
// how far a reader has progressed through them.
package reader

import "strings"

// DefaultPageSize is the number of words on a page
const DefaultPageSize = 300

// Placeholder page texts
const (
	NoPlainTextMessage = "Book text not available in plain text format."
	NoTextMessage      = "Book text not available."
)

// Document is an immutable, paginated text
type Document struct {
	Pages     []string `json:"pages"`
	PageSize  int      `json:"page_size"`
	WordCount int      `json:"word_count"`
}

// Paginate splits rawText on runs of whitespace and groups the words into
// pages of pageSize words, rejoined with single spaces. The last page may be
// shorter. Text with no words yields a document with zero pages.
func Paginate(rawText string, pageSize int) Document {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	words := strings.Fields(rawText)
	pages := len(words) / pageSize
	if len(words)%pageSize != 0 {
		pages++
	}
	doc := Document{
		PageSize:  pageSize,
		WordCount: len(words),
		Pages:     make([]string, 0, pages),
	}

	for start := 0; start < len(words); {
		// remaining words, compared before adding so huge page sizes can't overflow
		end := len(words)
		if end-start > pageSize {
			end = start + pageSize
		}
		doc.Pages = append(doc.Pages, strings.Join(words[start:end], " "))
		start = end
	}

	return doc
}

// Placeholder returns a single-page document carrying an informational message
func Placeholder(message string) Document {
	return Document{
		Pages:     []string{message},
		PageSize:  DefaultPageSize,
		WordCount: len(strings.Fields(message)),
	}
}

// TotalPages returns the number of pages
func (d Document) TotalPages() int {
	return len(d.Pages)
}

// Page returns the text of page n (1-indexed) clamped to the document,
// along with the page number actually returned. An empty document returns
// page 0.
func (d Document) Page(n int) (string, int) {
	if len(d.Pages) == 0 {
		return "", 0
	}
	n = clamp(n, 1, len(d.Pages))
	return d.Pages[n-1], n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
