package handler

import (
	"context"
	"strconv"
	"sync"
	"time"

	"shelfscope/internal/domain"
	"shelfscope/internal/reader"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type mockAuthService struct {
	user      *domain.SupabaseUser
	err       error
	lastToken string
}

func (m *mockAuthService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	m.lastToken = token
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

type mockBookService struct {
	book     *domain.Book
	page     *domain.BookPage
	doc      *reader.Document
	err      error
	openErr  error
	lastPage int
	lastArg  string
}

func (m *mockBookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	m.lastArg = id
	if m.err != nil {
		return nil, m.err
	}
	return m.book, nil
}

func (m *mockBookService) Search(ctx context.Context, query string) (*domain.BookPage, error) {
	m.lastArg = "search:" + query
	return m.page, m.err
}

func (m *mockBookService) Discover(ctx context.Context, topic string) (*domain.BookPage, error) {
	m.lastArg = "topic:" + topic
	return m.page, m.err
}

func (m *mockBookService) Popular(ctx context.Context) (*domain.BookPage, error) {
	m.lastArg = "popular"
	return m.page, m.err
}

func (m *mockBookService) Author(ctx context.Context, name string) (*domain.BookPage, error) {
	m.lastArg = "author:" + name
	return m.page, m.err
}

func (m *mockBookService) OpenBook(ctx context.Context, id string) (*reader.Document, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.doc, nil
}

func (m *mockBookService) ReadPage(ctx context.Context, id string, page int) (*domain.PageView, error) {
	m.lastPage = page
	if m.err != nil {
		return nil, m.err
	}
	text, p := m.doc.Page(page)
	return &domain.PageView{
		BookID:     id,
		Page:       p,
		TotalPages: m.doc.TotalPages(),
		Percent:    reader.Percent(p, m.doc.TotalPages()),
		Text:       text,
	}, nil
}

type mockAudiobookService struct {
	book    *domain.Audiobook
	books   []domain.Audiobook
	err     error
	lastArg string
	limit   int
}

func (m *mockAudiobookService) GetAudiobook(ctx context.Context, id string) (*domain.Audiobook, error) {
	m.lastArg = id
	if m.err != nil {
		return nil, m.err
	}
	return m.book, nil
}

func (m *mockAudiobookService) Search(ctx context.Context, title string) ([]domain.Audiobook, error) {
	m.lastArg = "title:" + title
	return m.books, m.err
}

func (m *mockAudiobookService) Discover(ctx context.Context, genre string) ([]domain.Audiobook, error) {
	m.lastArg = "genre:" + genre
	return m.books, m.err
}

func (m *mockAudiobookService) Recent(ctx context.Context, limit int) ([]domain.Audiobook, error) {
	m.lastArg = "recent"
	m.limit = limit
	return m.books, m.err
}

// mockLibraryService records the arguments of the last mutating call
type mockLibraryService struct {
	mu sync.Mutex

	doc     *domain.UserDocument
	reading []domain.ReadingListEntry
	listen  []domain.ListenListEntry
	err     error

	lastUserID     string
	lastToken      string
	lastBookID     string
	lastTotalPages int
	lastPage       int
	lastTrack      int
	lastPosition   float64
}

func (m *mockLibraryService) record(userID, bookID, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUserID = userID
	m.lastBookID = bookID
	m.lastToken = token
}

func (m *mockLibraryService) EnsureUser(user *domain.SupabaseUser, token string) (*domain.UserDocument, error) {
	m.record(user.ID, "", token)
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

func (m *mockLibraryService) GetReadingList(userID string, token string) ([]domain.ReadingListEntry, error) {
	m.record(userID, "", token)
	return m.reading, m.err
}

func (m *mockLibraryService) GetReadingEntry(userID, bookID string, token string) (*domain.ReadingListEntry, error) {
	m.record(userID, bookID, token)
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.reading {
		if strconv.Itoa(m.reading[i].ID) == bookID {
			return &m.reading[i], nil
		}
	}
	return nil, domain.ErrNotInList
}

func (m *mockLibraryService) AddToReadingList(userID string, book *domain.Book, totalPages int, token string) (*domain.ReadingListEntry, error) {
	m.record(userID, strconv.Itoa(book.ID), token)
	m.lastTotalPages = totalPages
	if m.err != nil {
		return nil, m.err
	}
	entry := domain.NewReadingListEntry(book, totalPages, fixedTime)
	return &entry, nil
}

func (m *mockLibraryService) RemoveFromReadingList(userID, bookID string, token string) error {
	m.record(userID, bookID, token)
	return m.err
}

func (m *mockLibraryService) SaveReadingProgress(userID, bookID string, requestedPage, totalPages int, token string) (*domain.ReadingListEntry, error) {
	m.record(userID, bookID, token)
	m.lastPage = requestedPage
	m.lastTotalPages = totalPages
	if m.err != nil {
		return nil, m.err
	}
	id, _ := strconv.Atoi(bookID)
	progress := reader.Advance(reader.NewProgress(totalPages), requestedPage)
	return &domain.ReadingListEntry{
		ID:                 id,
		Title:              "Pride and Prejudice",
		HighestPageReached: progress.HighestPageReached,
		TotalPages:         totalPages,
		Progress:           progress.Percent(),
	}, nil
}

func (m *mockLibraryService) GetListenList(userID string, token string) ([]domain.ListenListEntry, error) {
	m.record(userID, "", token)
	return m.listen, m.err
}

func (m *mockLibraryService) GetListenEntry(userID, bookID string, token string) (*domain.ListenListEntry, error) {
	m.record(userID, bookID, token)
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.listen {
		if m.listen[i].ID == bookID {
			return &m.listen[i], nil
		}
	}
	return nil, domain.ErrNotInList
}

func (m *mockLibraryService) AddToListenList(userID string, book *domain.Audiobook, token string) (*domain.ListenListEntry, error) {
	m.record(userID, book.ID, token)
	if m.err != nil {
		return nil, m.err
	}
	entry := domain.NewListenListEntry(book, fixedTime)
	return &entry, nil
}

func (m *mockLibraryService) RemoveFromListenList(userID, bookID string, token string) error {
	m.record(userID, bookID, token)
	return m.err
}

func (m *mockLibraryService) SaveListenProgress(userID, bookID string, trackIndex int, player reader.Seekable, token string) (*domain.ListenListEntry, error) {
	m.record(userID, bookID, token)
	m.lastTrack = trackIndex
	m.lastPosition = player.CurrentPosition()
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ListenListEntry{
		ID:                bookID,
		Title:             "The Adventures of Sherlock Holmes",
		CurrentTrackIndex: trackIndex,
		CurrentTime:       player.CurrentPosition(),
	}, nil
}
