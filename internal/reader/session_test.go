package reader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_LoadAndAdvance(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateLoading, s.State())

	_, err := s.Advance(2)
	assert.ErrorIs(t, err, ErrNotReady)

	require.NoError(t, s.Load("a b c d e", 2))
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, NewProgress(3), s.Progress())

	p, err := s.Advance(3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.HighestPageReached)

	text, page, err := s.CurrentPage()
	require.NoError(t, err)
	assert.Equal(t, "e", text)
	assert.Equal(t, 3, page)
}

func TestSession_EmptyTextBecomesPlaceholder(t *testing.T) {
	s := NewSession()

	require.NoError(t, s.Load("   ", 300))

	assert.Equal(t, 1, s.Document().TotalPages())
	text, _, err := s.CurrentPage()
	require.NoError(t, err)
	assert.Equal(t, NoTextMessage, text)
}

func TestSession_ErrorAndRetry(t *testing.T) {
	s := NewSession()
	fetchErr := errors.New("upstream 503")

	require.NoError(t, s.Fail(fetchErr))
	assert.Equal(t, StateError, s.State())
	assert.Equal(t, fetchErr, s.Err())

	_, err := s.Advance(1)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, s.Load("text", 1), ErrInvalidTransition)

	require.NoError(t, s.Retry())
	assert.Equal(t, StateLoading, s.State())
	assert.Nil(t, s.Err())

	require.NoError(t, s.Load("one two", 1))
	assert.Equal(t, StateReady, s.State())
}

func TestSession_InvalidTransitions(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.Retry(), ErrInvalidTransition)

	require.NoError(t, s.Load("a", 1))
	assert.ErrorIs(t, s.Fail(errors.New("late")), ErrInvalidTransition)
	assert.ErrorIs(t, s.Load("b", 1), ErrInvalidTransition)
	assert.ErrorIs(t, s.Retry(), ErrInvalidTransition)
}

func TestSession_Resume(t *testing.T) {
	s := NewSession()
	_, err := s.Resume(2)
	assert.ErrorIs(t, err, ErrNotReady)

	require.NoError(t, s.Load("a b c d e f", 2))
	p, err := s.Resume(2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.CurrentPage)

	// Going back keeps the watermark
	p, err = s.Advance(1)
	require.NoError(t, err)
	assert.Equal(t, 2, p.HighestPageReached)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "error", StateError.String())
}
