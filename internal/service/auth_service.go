package service

import (
	"fmt"
	"time"

	"shelfscope/internal/domain"

	"github.com/patrickmn/go-cache"
)

const tokenCacheTTL = 30 * time.Second

type authService struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger

	// validated tokens, so every request does not round-trip to Supabase Auth
	tokens *cache.Cache
}

func NewAuthService(
	supabaseClient domain.SupabaseClient,
	logger domain.Logger,
) domain.AuthService {
	return &authService{
		supabaseClient: supabaseClient,
		logger:         logger,
		tokens:         cache.New(tokenCacheTTL, 2*tokenCacheTTL),
	}
}

// ValidateToken validates a token and returns user info
func (s *authService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	if cached, ok := s.tokens.Get(token); ok {
		return cached.(*domain.SupabaseUser), nil
	}

	user, err := s.supabaseClient.ValidateToken(token)
	if err != nil {
		s.logger.Error("Failed to validate token with Supabase", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	s.tokens.Set(token, user, cache.DefaultExpiration)
	return user, nil
}
