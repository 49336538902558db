package domain

import (
	"context"
	"time"

	"shelfscope/internal/reader"
)

// ReadingListEntry is a book on a user's reading list with its progress watermark
type ReadingListEntry struct {
	ID                 int               `json:"id"`
	Title              string            `json:"title"`
	Authors            []Person          `json:"authors"`
	Formats            map[string]string `json:"formats"`
	Bookshelves        []string          `json:"bookshelves"`
	AddedAt            time.Time         `json:"addedAt"`
	HighestPageReached int               `json:"highestPageReached"`
	TotalPages         int               `json:"totalPages"`
	Progress           int               `json:"progress"`
}

// NewReadingListEntry denormalizes the book metadata needed to render the list
func NewReadingListEntry(book *Book, totalPages int, now time.Time) ReadingListEntry {
	formats := map[string]string{}
	if cover := book.CoverImage(); cover != "" {
		formats[formatCover] = cover
	}
	return ReadingListEntry{
		ID:                 book.ID,
		Title:              book.Title,
		Authors:            book.Authors,
		Formats:            formats,
		Bookshelves:        book.Bookshelves,
		AddedAt:            now,
		HighestPageReached: 1,
		TotalPages:         totalPages,
		Progress:           0,
	}
}

// Validate checks that the entry can be rendered and stored
func (e *ReadingListEntry) Validate() error {
	if e.ID <= 0 {
		return &ValidationError{Field: "id", Message: "book ID must be positive"}
	}
	if e.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if e.TotalPages < 0 {
		return &ValidationError{Field: "totalPages", Message: "total pages cannot be negative"}
	}
	if e.Progress < 0 || e.Progress > 100 {
		return &ValidationError{Field: "progress", Message: "progress must be between 0 and 100"}
	}
	return nil
}

// ListenListEntry is an audiobook on a user's listen list with its playback position
type ListenListEntry struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Authors           []AudioAuthor `json:"authors"`
	CurrentTrackIndex int           `json:"currentTrackIndex"`
	CurrentTime       float64       `json:"currentTime"`
	AddedAt           time.Time     `json:"addedAt"`
}

// NewListenListEntry starts playback at the beginning of the first track
func NewListenListEntry(book *Audiobook, now time.Time) ListenListEntry {
	return ListenListEntry{
		ID:      book.ID,
		Title:   book.Title,
		Authors: book.Authors,
		AddedAt: now,
	}
}

// Validate checks that the entry can be stored
func (e *ListenListEntry) Validate() error {
	if e.ID == "" {
		return &ValidationError{Field: "id", Message: "audiobook ID is required"}
	}
	if e.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if e.CurrentTrackIndex < 0 {
		return &ValidationError{Field: "currentTrackIndex", Message: "track index cannot be negative"}
	}
	if e.CurrentTime < 0 {
		return &ValidationError{Field: "currentTime", Message: "current time cannot be negative"}
	}
	return nil
}

// LibraryRepository persists user documents
type LibraryRepository interface {
	GetUser(uid string, token string) (*UserDocument, error)
	CreateUser(user *UserDocument, token string) error
	UpdateReadingList(uid string, list map[string]ReadingListEntry, token string) error
	UpdateListenList(uid string, list map[string]ListenListEntry, token string) error
}

type LibraryService interface {
	EnsureUser(user *SupabaseUser, token string) (*UserDocument, error)

	GetReadingList(userID string, token string) ([]ReadingListEntry, error)
	GetReadingEntry(userID, bookID string, token string) (*ReadingListEntry, error)
	AddToReadingList(userID string, book *Book, totalPages int, token string) (*ReadingListEntry, error)
	RemoveFromReadingList(userID, bookID string, token string) error
	SaveReadingProgress(userID, bookID string, requestedPage, totalPages int, token string) (*ReadingListEntry, error)

	GetListenList(userID string, token string) ([]ListenListEntry, error)
	GetListenEntry(userID, bookID string, token string) (*ListenListEntry, error)
	AddToListenList(userID string, book *Audiobook, token string) (*ListenListEntry, error)
	RemoveFromListenList(userID, bookID string, token string) error
	SaveListenProgress(userID, bookID string, trackIndex int, player reader.Seekable, token string) (*ListenListEntry, error)
}

type BookService interface {
	GetBook(ctx context.Context, id string) (*Book, error)
	Search(ctx context.Context, query string) (*BookPage, error)
	Discover(ctx context.Context, topic string) (*BookPage, error)
	Popular(ctx context.Context) (*BookPage, error)
	Author(ctx context.Context, name string) (*BookPage, error)
	OpenBook(ctx context.Context, id string) (*reader.Document, error)
	ReadPage(ctx context.Context, id string, page int) (*PageView, error)
}

type AudiobookService interface {
	GetAudiobook(ctx context.Context, id string) (*Audiobook, error)
	Search(ctx context.Context, title string) ([]Audiobook, error)
	Discover(ctx context.Context, genre string) ([]Audiobook, error)
	Recent(ctx context.Context, limit int) ([]Audiobook, error)
}
