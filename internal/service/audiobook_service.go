package service

import (
	"context"
	"strings"

	"shelfscope/internal/catalog"
	"shelfscope/internal/domain"

	"golang.org/x/sync/errgroup"
)

// coverLookups bounds concurrent cover searches for one listing
const coverLookups = 4

// AudiobookCatalog is the audiobook source
type AudiobookCatalog interface {
	GetAudiobook(ctx context.Context, id string) (*domain.Audiobook, error)
	SearchTitle(ctx context.Context, title string) ([]domain.Audiobook, error)
	ByGenre(ctx context.Context, genre string) ([]domain.Audiobook, error)
	Recent(ctx context.Context, limit int) ([]domain.Audiobook, error)
}

// CoverFinder looks up cover images by title
type CoverFinder interface {
	CoverURL(ctx context.Context, title string, size catalog.CoverSize) (string, error)
}

type audiobookService struct {
	catalog AudiobookCatalog
	covers  CoverFinder
	logger  domain.Logger
}

func NewAudiobookService(
	catalog AudiobookCatalog,
	covers CoverFinder,
	logger domain.Logger,
) domain.AudiobookService {
	return &audiobookService{
		catalog: catalog,
		covers:  covers,
		logger:  logger,
	}
}

// GetAudiobook returns an audiobook with its sections and a large cover
func (s *audiobookService) GetAudiobook(ctx context.Context, id string) (*domain.Audiobook, error) {
	book, err := s.catalog.GetAudiobook(ctx, id)
	if err != nil {
		return nil, err
	}
	book.CoverURL = s.cover(ctx, book.Title, catalog.CoverLarge)
	return book, nil
}

func (s *audiobookService) Search(ctx context.Context, title string) ([]domain.Audiobook, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "title is required"}
	}
	books, err := s.catalog.SearchTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	s.attachCovers(ctx, books)
	return books, nil
}

func (s *audiobookService) Discover(ctx context.Context, genre string) ([]domain.Audiobook, error) {
	if strings.TrimSpace(genre) == "" {
		return nil, &domain.ValidationError{Field: "genre", Message: "genre is required"}
	}
	books, err := s.catalog.ByGenre(ctx, genre)
	if err != nil {
		return nil, err
	}
	s.attachCovers(ctx, books)
	return books, nil
}

func (s *audiobookService) Recent(ctx context.Context, limit int) ([]domain.Audiobook, error) {
	books, err := s.catalog.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.attachCovers(ctx, books)
	return books, nil
}

// attachCovers fills in medium covers for a listing
func (s *audiobookService) attachCovers(ctx context.Context, books []domain.Audiobook) {
	var g errgroup.Group
	g.SetLimit(coverLookups)

	for i := range books {
		b := &books[i]
		g.Go(func() error {
			b.CoverURL = s.cover(ctx, b.Title, catalog.CoverMedium)
			return nil
		})
	}

	_ = g.Wait()
}

// cover never fails; lookup errors fall back to the placeholder
func (s *audiobookService) cover(ctx context.Context, title string, size catalog.CoverSize) string {
	if s.covers == nil {
		return catalog.PlaceholderCover
	}
	url, err := s.covers.CoverURL(ctx, title, size)
	if err != nil {
		s.logger.Warn("Cover lookup failed", "title", title, "error", err.Error())
		return catalog.PlaceholderCover
	}
	return url
}
