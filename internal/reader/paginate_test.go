package reader

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate_SplitsIntoFixedSizePages(t *testing.T) {
	doc := Paginate("a b c d e", 2)

	assert.Equal(t, []string{"a b", "c d", "e"}, doc.Pages)
	assert.Equal(t, 3, doc.TotalPages())
	assert.Equal(t, 5, doc.WordCount)
	assert.Equal(t, 2, doc.PageSize)
}

func TestPaginate_CollapsesWhitespace(t *testing.T) {
	doc := Paginate("  one\n\ntwo\tthree   four \r\n", 3)

	assert.Equal(t, []string{"one two three", "four"}, doc.Pages)
}

func TestPaginate_EmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\r\n"} {
		doc := Paginate(text, 10)
		assert.Equal(t, 0, doc.TotalPages(), "text %q", text)
		assert.Equal(t, 0, doc.WordCount)
	}
}

func TestPaginate_DefaultPageSize(t *testing.T) {
	text := strings.Repeat("word ", 601)

	for _, size := range []int{0, -5} {
		doc := Paginate(text, size)
		assert.Equal(t, DefaultPageSize, doc.PageSize)
		assert.Equal(t, 3, doc.TotalPages())
	}
}

func TestPaginate_HugePageSize(t *testing.T) {
	var doc Document
	require.NotPanics(t, func() { doc = Paginate("a b c", math.MaxInt) })

	assert.Equal(t, []string{"a b c"}, doc.Pages)
	assert.Equal(t, math.MaxInt, doc.PageSize)

	text, n := doc.Page(1)
	assert.Equal(t, "a b c", text)
	assert.Equal(t, 1, n)
}

func TestPaginate_PageCountMatchesWordCount(t *testing.T) {
	for words := 1; words <= 40; words++ {
		for size := 1; size <= 7; size++ {
			text := strings.TrimSpace(strings.Repeat("w ", words))
			doc := Paginate(text, size)

			want := (words + size - 1) / size
			require.Equal(t, want, doc.TotalPages(), "words=%d size=%d", words, size)

			// Pages partition the word sequence
			rejoined := strings.Fields(strings.Join(doc.Pages, " "))
			require.Len(t, rejoined, words)
		}
	}
}

func TestPaginate_Deterministic(t *testing.T) {
	text := "It was the best of times, it was the worst of times, it was the age of wisdom"

	assert.Equal(t, Paginate(text, 4).Pages, Paginate(text, 4).Pages)
}

func TestDocument_Page(t *testing.T) {
	doc := Paginate("a b c d e", 2)

	tests := []struct {
		requested int
		wantText  string
		wantPage  int
	}{
		{requested: 1, wantText: "a b", wantPage: 1},
		{requested: 3, wantText: "e", wantPage: 3},
		{requested: 0, wantText: "a b", wantPage: 1},
		{requested: 99, wantText: "e", wantPage: 3},
	}

	for _, tt := range tests {
		text, page := doc.Page(tt.requested)
		assert.Equal(t, tt.wantText, text)
		assert.Equal(t, tt.wantPage, page)
	}

	text, page := Document{}.Page(1)
	assert.Empty(t, text)
	assert.Zero(t, page)
}

func TestPlaceholder(t *testing.T) {
	doc := Placeholder(NoPlainTextMessage)

	assert.Equal(t, 1, doc.TotalPages())
	assert.Equal(t, NoPlainTextMessage, doc.Pages[0])
}
