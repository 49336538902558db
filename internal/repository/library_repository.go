package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"shelfscope/internal/domain"
)

const usersTable = "users"

// LibraryRepository stores user documents in the Supabase users table.
// The reading and listen lists are jsonb columns keyed by content ID.
type LibraryRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

type userRow struct {
	UID         string                             `json:"uid"`
	DisplayName string                             `json:"display_name"`
	Email       string                             `json:"email"`
	PhotoURL    string                             `json:"photo_url"`
	CreatedAt   string                             `json:"created_at"`
	ReadingList map[string]domain.ReadingListEntry `json:"reading_list"`
	ListenList  map[string]domain.ListenListEntry  `json:"listen_list"`
}

// NewLibraryRepository creates a new Supabase library repository
func NewLibraryRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.LibraryRepository {
	return &LibraryRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// GetUser loads a user document. A missing row is domain.ErrUserNotFound.
func (r *LibraryRepository) GetUser(uid string, token string) (*domain.UserDocument, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}

	data, _, err := client.From(usersTable).
		Select("*", "", false).
		Eq("uid", uid).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	doc, err := decodeUserRows(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// CreateUser inserts a new user document
func (r *LibraryRepository) CreateUser(user *domain.UserDocument, token string) error {
	if err := user.Validate(); err != nil {
		return err
	}

	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}

	_, _, err = client.From(usersTable).Insert(toUserRow(user), false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("User document created", "user_id", user.UID)
	return nil
}

// UpdateReadingList replaces the reading list column
func (r *LibraryRepository) UpdateReadingList(uid string, list map[string]domain.ReadingListEntry, token string) error {
	if list == nil {
		list = map[string]domain.ReadingListEntry{}
	}
	return r.updateColumn(uid, "reading_list", list, token)
}

// UpdateListenList replaces the listen list column
func (r *LibraryRepository) UpdateListenList(uid string, list map[string]domain.ListenListEntry, token string) error {
	if list == nil {
		list = map[string]domain.ListenListEntry{}
	}
	return r.updateColumn(uid, "listen_list", list, token)
}

func (r *LibraryRepository) updateColumn(uid, column string, value interface{}, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}

	data := map[string]interface{}{column: value}
	_, _, err = client.From(usersTable).Update(data, "", "").Eq("uid", uid).Execute()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}

	r.logger.Debug("User list updated", "user_id", uid, "column", column)
	return nil
}

func decodeUserRows(data []byte) (*domain.UserDocument, error) {
	var rows []userRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrUserNotFound
	}

	row := rows[0]
	doc := &domain.UserDocument{
		UID:         row.UID,
		DisplayName: row.DisplayName,
		Email:       row.Email,
		PhotoURL:    row.PhotoURL,
		CreatedAt:   parseTimestamp(row.CreatedAt),
		ReadingList: row.ReadingList,
		ListenList:  row.ListenList,
	}
	if doc.ReadingList == nil {
		doc.ReadingList = map[string]domain.ReadingListEntry{}
	}
	if doc.ListenList == nil {
		doc.ListenList = map[string]domain.ListenListEntry{}
	}
	return doc, nil
}

func toUserRow(doc *domain.UserDocument) userRow {
	row := userRow{
		UID:         doc.UID,
		DisplayName: doc.DisplayName,
		Email:       doc.Email,
		PhotoURL:    doc.PhotoURL,
		CreatedAt:   doc.CreatedAt.UTC().Format(time.RFC3339Nano),
		ReadingList: doc.ReadingList,
		ListenList:  doc.ListenList,
	}
	if row.ReadingList == nil {
		row.ReadingList = map[string]domain.ReadingListEntry{}
	}
	if row.ListenList == nil {
		row.ListenList = map[string]domain.ListenListEntry{}
	}
	return row
}

// parseTimestamp accepts the timestamp formats PostgREST returns
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999-07"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
