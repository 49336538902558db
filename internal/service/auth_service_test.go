package service

import (
	"errors"
	"testing"

	"shelfscope/internal/domain"
)

func TestAuthService_ValidateToken(t *testing.T) {
	client := NewMockSupabaseClient()
	logger := NewMockLogger()

	service := NewAuthService(client, logger)

	// Test valid token
	user, err := service.ValidateToken("valid-token")
	if err != nil {
		t.Errorf("Expected no error for valid token, got %v", err)
	}

	if user.ID != "user-123" {
		t.Errorf("Expected user ID 'user-123', got '%s'", user.ID)
	}

	if user.Email != "test@example.com" {
		t.Errorf("Expected user email 'test@example.com', got '%s'", user.Email)
	}

	// Test invalid token
	_, err = service.ValidateToken("invalid-token")
	if err == nil {
		t.Fatal("Expected error for invalid token")
	}

	expectedError := "invalid token: invalid token"
	if err.Error() != expectedError {
		t.Errorf("Expected error message '%s', got '%s'", expectedError, err.Error())
	}

	// Test empty token
	_, err = service.ValidateToken("")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestAuthService_CachesValidTokens(t *testing.T) {
	client := NewMockSupabaseClient()
	service := NewAuthService(client, NewMockLogger())

	for i := 0; i < 3; i++ {
		if _, err := service.ValidateToken("valid-token"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if client.validations != 1 {
		t.Fatalf("expected one Supabase validation, got %d", client.validations)
	}

	// Failures are not cached
	service.ValidateToken("invalid-token")
	service.ValidateToken("invalid-token")
	if client.validations != 3 {
		t.Fatalf("expected failed validations to be retried, got %d", client.validations)
	}
}
