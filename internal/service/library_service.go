package service

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"time"

	"shelfscope/internal/domain"
	"shelfscope/internal/reader"
)

type libraryService struct {
	repo   domain.LibraryRepository
	logger domain.Logger
	now    func() time.Time
}

func NewLibraryService(
	repo domain.LibraryRepository,
	logger domain.Logger,
) domain.LibraryService {
	return &libraryService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// EnsureUser returns the user's document, creating it on first sign-in
func (s *libraryService) EnsureUser(user *domain.SupabaseUser, token string) (*domain.UserDocument, error) {
	doc, err := s.repo.GetUser(user.ID, token)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	doc = domain.NewUserDocument(user, s.now())
	if err := s.repo.CreateUser(doc, token); err != nil {
		return nil, err
	}

	s.logger.Info("Created user document on first sign-in", "user_id", user.ID)
	return doc, nil
}

// GetReadingList returns titled entries, most recently added first
func (s *libraryService) GetReadingList(userID string, token string) ([]domain.ReadingListEntry, error) {
	doc, err := s.repo.GetUser(userID, token)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ReadingListEntry, 0, len(doc.ReadingList))
	for _, e := range doc.ReadingList {
		if e.Title == "" {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AddedAt.Equal(entries[j].AddedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})
	return entries, nil
}

func (s *libraryService) GetReadingEntry(userID, bookID string, token string) (*domain.ReadingListEntry, error) {
	doc, err := s.repo.GetUser(userID, token)
	if err != nil {
		return nil, err
	}
	entry, ok := doc.ReadingList[bookID]
	if !ok {
		return nil, domain.ErrNotInList
	}
	return &entry, nil
}

// AddToReadingList adds a book at page 1. Adding a book already on the list
// keeps its progress.
func (s *libraryService) AddToReadingList(userID string, book *domain.Book, totalPages int, token string) (*domain.ReadingListEntry, error) {
	entry := domain.NewReadingListEntry(book, totalPages, s.now())
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.repo.GetUser(userID, token)
	if err != nil {
		return nil, err
	}

	if doc.ReadingList == nil {
		doc.ReadingList = map[string]domain.ReadingListEntry{}
	}
	key := strconv.Itoa(book.ID)
	if existing, ok := doc.ReadingList[key]; ok {
		return &existing, nil
	}

	doc.ReadingList[key] = entry
	if err := s.repo.UpdateReadingList(userID, doc.ReadingList, token); err != nil {
		return nil, err
	}

	s.logger.Info("Book added to reading list", "user_id", userID, "book_id", key)
	return &entry, nil
}

func (s *libraryService) RemoveFromReadingList(userID, bookID string, token string) error {
	doc, err := s.repo.GetUser(userID, token)
	if err != nil {
		return err
	}
	if _, ok := doc.ReadingList[bookID]; !ok {
		return domain.ErrNotInList
	}

	delete(doc.ReadingList, bookID)
	if err := s.repo.UpdateReadingList(userID, doc.ReadingList, token); err != nil {
		return err
	}

	s.logger.Info("Book removed from reading list", "user_id", userID, "book_id", bookID)
	return nil
}

// SaveReadingProgress moves the stored watermark to requestedPage. The
// stored highest page never goes down. totalPages <= 0 keeps the stored total.
func (s *libraryService) SaveReadingProgress(userID, bookID string, requestedPage, totalPages int, token string) (*domain.ReadingListEntry, error) {
	doc, err := s.repo.GetUser(userID, token)
	if err != nil {
		return nil, err
	}
	entry, ok := doc.ReadingList[bookID]
	if !ok {
		return nil, domain.ErrNotInList
	}

	if totalPages <= 0 {
		totalPages = entry.TotalPages
	}
	highest := entry.HighestPageReached
	if highest < 1 {
		highest = 1
	}

	progress := reader.Advance(reader.Progress{
		CurrentPage:        highest,
		HighestPageReached: highest,
		TotalPages:         totalPages,
	}, requestedPage)

	entry.HighestPageReached = progress.HighestPageReached
	entry.TotalPages = totalPages
	entry.Progress = progress.Percent()
	doc.ReadingList[bookID] = entry

	if err := s.repo.UpdateReadingList(userID, doc.ReadingList, token); err != nil {
		return nil, err
	}

	s.logger.Debug("Reading progress saved", "user_id", userID, "book_id", bookID, "highest_page", entry.HighestPageReached, "progress", entry.Progress)
	return &entry, nil
}

// GetListenList returns titled entries, most recently added first
func (s *libraryService) GetListenList(userID string, token string) ([]domain.ListenListEntry, error) {
	doc, err := s.repo.GetUser(userID, token)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ListenListEntry, 0, len(doc.ListenList))
	for _, e := range doc.ListenList {
		if e.Title == "" {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AddedAt.Equal(entries[j].AddedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})
	return entries, nil
}

func (s *libraryService) GetListenEntry(userID, bookID string, token string) (*domain.ListenListEntry, error) {
	doc, err := s.repo.GetUser(userID, token)
	if err != nil {
		return nil, err
	}
	entry, ok := doc.ListenList[bookID]
	if !ok {
		return nil, domain.ErrNotInList
	}
	return &entry, nil
}

func (s *libraryService) AddToListenList(userID string, book *domain.Audiobook, token string) (*domain.ListenListEntry, error) {
	entry := domain.NewListenListEntry(book, s.now())
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.repo.GetUser(userID, token)
	if err != nil {
		return nil, err
	}
	if doc.ListenList == nil {
		doc.ListenList = map[string]domain.ListenListEntry{}
	}
	if existing, ok := doc.ListenList[book.ID]; ok {
		return &existing, nil
	}

	doc.ListenList[book.ID] = entry
	if err := s.repo.UpdateListenList(userID, doc.ListenList, token); err != nil {
		return nil, err
	}

	s.logger.Info("Audiobook added to listen list", "user_id", userID, "audiobook_id", book.ID)
	return &entry, nil
}

func (s *libraryService) RemoveFromListenList(userID, bookID string, token string) error {
	doc, err := s.repo.GetUser(userID, token)
	if err != nil {
		return err
	}
	if _, ok := doc.ListenList[bookID]; !ok {
		return domain.ErrNotInList
	}

	delete(doc.ListenList, bookID)
	if err := s.repo.UpdateListenList(userID, doc.ListenList, token); err != nil {
		return err
	}

	s.logger.Info("Audiobook removed from listen list", "user_id", userID, "audiobook_id", bookID)
	return nil
}

// SaveListenProgress stores the track being played and the player's position in it
func (s *libraryService) SaveListenProgress(userID, bookID string, trackIndex int, player reader.Seekable, token string) (*domain.ListenListEntry, error) {
	if trackIndex < 0 {
		return nil, &domain.ValidationError{Field: "track_index", Message: "track index cannot be negative"}
	}
	if player == nil {
		return nil, &domain.ValidationError{Field: "current_time", Message: "playback position is required"}
	}

	doc, err := s.repo.GetUser(userID, token)
	if err != nil {
		return nil, err
	}
	entry, ok := doc.ListenList[bookID]
	if !ok {
		return nil, domain.ErrNotInList
	}

	position := player.CurrentPosition()
	if math.IsNaN(position) || math.IsInf(position, 0) || position < 0 {
		position = 0
	}

	entry.CurrentTrackIndex = trackIndex
	entry.CurrentTime = position
	doc.ListenList[bookID] = entry

	if err := s.repo.UpdateListenList(userID, doc.ListenList, token); err != nil {
		return nil, err
	}

	s.logger.Debug("Listen progress saved", "user_id", userID, "audiobook_id", bookID, "track", trackIndex, "position", reader.FormatTime(position))
	return &entry, nil
}
