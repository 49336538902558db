package domain

import (
	"strings"
	"time"
)

// SupabaseUser represents a user from Supabase Auth
type SupabaseUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	CreatedAt    string                 `json:"created_at"`
	UpdatedAt    string                 `json:"updated_at"`
}

// DisplayName picks the name the identity provider reported for the user
func (u *SupabaseUser) DisplayName() string {
	for _, key := range []string{"full_name", "name", "user_name"} {
		if v, ok := u.UserMetadata[key].(string); ok && v != "" {
			return v
		}
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// PhotoURL returns the avatar reported by the identity provider, if any
func (u *SupabaseUser) PhotoURL() string {
	for _, key := range []string{"avatar_url", "picture"} {
		if v, ok := u.UserMetadata[key].(string); ok {
			return v
		}
	}
	return ""
}

// UserDocument is the per-user record holding the reading and listen lists
type UserDocument struct {
	UID         string                      `json:"uid"`
	DisplayName string                      `json:"displayName"`
	Email       string                      `json:"email"`
	PhotoURL    string                      `json:"photoURL"`
	CreatedAt   time.Time                   `json:"createdAt"`
	ReadingList map[string]ReadingListEntry `json:"readingList"`
	ListenList  map[string]ListenListEntry  `json:"listenList"`
}

// NewUserDocument builds the document created on a user's first sign-in
func NewUserDocument(user *SupabaseUser, now time.Time) *UserDocument {
	return &UserDocument{
		UID:         user.ID,
		DisplayName: user.DisplayName(),
		Email:       user.Email,
		PhotoURL:    user.PhotoURL(),
		CreatedAt:   now,
		ReadingList: map[string]ReadingListEntry{},
		ListenList:  map[string]ListenListEntry{},
	}
}

// Validate checks the fields the store requires
func (d *UserDocument) Validate() error {
	if d.UID == "" {
		return &ValidationError{Field: "uid", Message: "user ID is required"}
	}
	if d.Email != "" && !strings.Contains(d.Email, "@") {
		return &ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}
