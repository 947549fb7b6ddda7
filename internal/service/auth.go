package service

import (
	"context"
	"fmt"

	"github.com/z3st/habits-api/internal/models"
	"github.com/z3st/habits-api/pkg/supabase"
)

type authService struct {
	client *supabase.Client
}

// NewAuthService creates a new auth service
func NewAuthService(client *supabase.Client) AuthService {
	return &authService{client: client}
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	token, err := s.client.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return toAuthResponse(token), nil
}

func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	token, err := s.client.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	return toAuthResponse(token), nil
}

func toAuthResponse(token *supabase.TokenResponse) *models.AuthResponse {
	return &models.AuthResponse{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		User: models.User{
			ID:    token.User.ID,
			Email: token.User.Email,
		},
	}
}
