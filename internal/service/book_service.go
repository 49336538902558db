package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shelfscope/internal/domain"
	"shelfscope/internal/reader"

	"github.com/patrickmn/go-cache"
)

// BookCatalog is the book metadata source
type BookCatalog interface {
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	Search(ctx context.Context, query string) (*domain.BookPage, error)
	Topic(ctx context.Context, topic string) (*domain.BookPage, error)
	Popular(ctx context.Context) (*domain.BookPage, error)
	AuthorBooks(ctx context.Context, author string) (*domain.BookPage, error)
}

type bookService struct {
	catalog  BookCatalog
	texts    domain.Fetcher
	pageSize int
	logger   domain.Logger

	// paginated documents by book ID; a document never changes once built
	documents *cache.Cache
}

func NewBookService(
	catalog BookCatalog,
	texts domain.Fetcher,
	pageSize int,
	cacheTTL time.Duration,
	logger domain.Logger,
) domain.BookService {
	if pageSize <= 0 {
		pageSize = reader.DefaultPageSize
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	return &bookService{
		catalog:   catalog,
		texts:     texts,
		pageSize:  pageSize,
		logger:    logger,
		documents: cache.New(cacheTTL, 2*cacheTTL),
	}
}

func (s *bookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.catalog.GetBook(ctx, id)
}

func (s *bookService) Search(ctx context.Context, query string) (*domain.BookPage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &domain.ValidationError{Field: "search", Message: "search query is required"}
	}
	return s.catalog.Search(ctx, query)
}

// Discover lists books for a topic; an empty topic lists popular books
func (s *bookService) Discover(ctx context.Context, topic string) (*domain.BookPage, error) {
	return s.catalog.Topic(ctx, topic)
}

func (s *bookService) Popular(ctx context.Context) (*domain.BookPage, error) {
	return s.catalog.Popular(ctx)
}

func (s *bookService) Author(ctx context.Context, name string) (*domain.BookPage, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &domain.ValidationError{Field: "author", Message: "author name is required"}
	}
	return s.catalog.AuthorBooks(ctx, name)
}

// OpenBook fetches and paginates a book's text. A book without a plain-text
// format, or with an empty text, opens as a single placeholder page.
func (s *bookService) OpenBook(ctx context.Context, id string) (*reader.Document, error) {
	if cached, ok := s.documents.Get(id); ok {
		return cached.(*reader.Document), nil
	}

	book, err := s.catalog.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	session := reader.NewSession()
	textURL := book.TextURL()
	if textURL == "" {
		s.logger.Warn("Book has no plain text format", "book_id", id)
		_ = session.LoadDocument(reader.Placeholder(reader.NoPlainTextMessage))
	} else {
		text, err := s.texts.FetchText(ctx, textURL)
		if err != nil {
			_ = session.Fail(err)
			s.logger.Error("Failed to fetch book text", err, "book_id", id, "state", session.State().String())
			return nil, fmt.Errorf("fetch text for book %s: %w: %w", id, domain.ErrUpstream, session.Err())
		}
		_ = session.Load(string(text), s.pageSize)
	}

	doc := session.Document()
	s.documents.Set(id, &doc, cache.DefaultExpiration)

	s.logger.Info("Book paginated", "book_id", id, "pages", doc.TotalPages(), "words", doc.WordCount)
	return &doc, nil
}

// ReadPage returns one page of a book, clamped to the book's pages
func (s *bookService) ReadPage(ctx context.Context, id string, page int) (*domain.PageView, error) {
	doc, err := s.OpenBook(ctx, id)
	if err != nil {
		return nil, err
	}

	text, n := doc.Page(page)
	return &domain.PageView{
		BookID:     id,
		Page:       n,
		TotalPages: doc.TotalPages(),
		Percent:    reader.Percent(n, doc.TotalPages()),
		Text:       text,
	}, nil
}
