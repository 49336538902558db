package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"shelfscope/internal/domain"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantType   ErrorType
		wantStatus int
	}{
		{
			name:       "validation",
			err:        &domain.ValidationError{Field: "book_id", Message: "book ID is required"},
			wantType:   ErrorTypeValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrapped book not found",
			err:        fmt.Errorf("gutendex: %w", domain.ErrBookNotFound),
			wantType:   ErrorTypeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "not in list",
			err:        domain.ErrNotInList,
			wantType:   ErrorTypeConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid token",
			err:        domain.ErrInvalidToken,
			wantType:   ErrorTypeUnauthorized,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "upstream",
			err:        fmt.Errorf("librivox: %w", domain.ErrUpstream),
			wantType:   ErrorTypeUpstream,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unknown",
			err:        stderrors.New("boom"),
			wantType:   ErrorTypeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err, "request failed")
			if got.Type != tt.wantType {
				t.Errorf("FromError() type = %s, want %s", got.Type, tt.wantType)
			}
			if got.StatusCode != tt.wantStatus {
				t.Errorf("FromError() status = %d, want %d", got.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestFromError_PassesAppErrorThrough(t *testing.T) {
	original := NewValidationError("page must be a number")
	wrapped := fmt.Errorf("handler: %w", original)

	if got := FromError(wrapped, "ignored"); got != original {
		t.Fatalf("expected the wrapped AppError to be returned unchanged")
	}
}

func TestGetStatusCode(t *testing.T) {
	if got := GetStatusCode(NewNotFoundError("missing")); got != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got)
	}
	if got := GetStatusCode(stderrors.New("plain")); got != http.StatusInternalServerError {
		t.Fatalf("expected 500 for plain errors, got %d", got)
	}
	if !IsType(fmt.Errorf("x: %w", NewConflictError("c")), ErrorTypeConflict) {
		t.Fatalf("expected IsType to see through wrapping")
	}
}

func TestAppError_Error(t *testing.T) {
	err := NewValidationError("invalid page", "page=abc")
	if err.Error() != "validation: invalid page (page=abc)" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
	if NewInternalError("oops", nil).Error() != "internal: oops" {
		t.Fatalf("unexpected error string without details")
	}
}
