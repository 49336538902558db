package service

import (
	"context"
	"errors"
	"sync"

	"shelfscope/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// MockLogger records log lines
type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) add(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, line)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.add("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	if err == nil {
		m.add("ERROR: " + msg)
		return
	}
	m.add("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.add("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.add("WARN: " + msg)
}

// MockSupabaseClient for testing
type MockSupabaseClient struct {
	mu          sync.Mutex
	validations int
}

func NewMockSupabaseClient() *MockSupabaseClient {
	return &MockSupabaseClient{}
}

func (m *MockSupabaseClient) Initialize() error {
	return nil
}

func (m *MockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	m.mu.Lock()
	m.validations++
	m.mu.Unlock()

	if token == "valid-token" {
		return &domain.SupabaseUser{
			ID:    "user-123",
			Email: "test@example.com",
		}, nil
	}

	if token == "invalid-token" {
		return nil, errors.New("invalid token")
	}

	return nil, errors.New("token validation failed")
}

func (m *MockSupabaseClient) DB() *supabase.Client {
	return nil
}

func (m *MockSupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	return nil, nil
}

// mockLibraryRepo keeps user documents in memory
type mockLibraryRepo struct {
	users       map[string]*domain.UserDocument
	created     int
	readingSave int
	listenSave  int
	failWith    error
}

func newMockLibraryRepo() *mockLibraryRepo {
	return &mockLibraryRepo{users: make(map[string]*domain.UserDocument)}
}

func (m *mockLibraryRepo) GetUser(uid string, token string) (*domain.UserDocument, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	doc, ok := m.users[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	// Hand out a copy, like a real store would
	cp := *doc
	cp.ReadingList = make(map[string]domain.ReadingListEntry, len(doc.ReadingList))
	for k, v := range doc.ReadingList {
		cp.ReadingList[k] = v
	}
	cp.ListenList = make(map[string]domain.ListenListEntry, len(doc.ListenList))
	for k, v := range doc.ListenList {
		cp.ListenList[k] = v
	}
	return &cp, nil
}

func (m *mockLibraryRepo) CreateUser(user *domain.UserDocument, token string) error {
	m.created++
	m.users[user.UID] = user
	return nil
}

func (m *mockLibraryRepo) UpdateReadingList(uid string, list map[string]domain.ReadingListEntry, token string) error {
	m.readingSave++
	m.users[uid].ReadingList = list
	return nil
}

func (m *mockLibraryRepo) UpdateListenList(uid string, list map[string]domain.ListenListEntry, token string) error {
	m.listenSave++
	m.users[uid].ListenList = list
	return nil
}

// mockFetcher serves canned text bodies by URL
type mockFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	err    error
	calls  int
}

func (m *mockFetcher) FetchText(ctx context.Context, target string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	body, ok := m.bodies[target]
	if !ok {
		return nil, errors.New("no such body")
	}
	return []byte(body), nil
}

func (m *mockFetcher) FetchJSON(ctx context.Context, target string) ([]byte, error) {
	return m.FetchText(ctx, target)
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
