package service

import (
	"errors"
	"fmt"

	"github.com/rl1809/production-records/internal/port"
)

var ErrMissingUsername = errors.New("username is required")

// AuthService backs /register and /login. Neither checks credentials:
// registration stores nothing and login trusts the supplied username.
type AuthService struct {
	issuer port.TokenIssuer
}

func NewAuthService(issuer port.TokenIssuer) *AuthService {
	return &AuthService{issuer: issuer}
}

func (s *AuthService) Register(username, password string) (string, error) {
	if username == "" {
		return "", ErrMissingUsername
	}
	return fmt.Sprintf("%s registered successfully", username), nil
}

// Login issues an access token for username. The password is ignored.
func (s *AuthService) Login(username, password string) (string, error) {
	if username == "" {
		return "", ErrMissingUsername
	}

	token, _, err := s.issuer.Issue(username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

func (s *AuthService) Authenticate(token string) (string, error) {
	return s.issuer.Verify(token)
}
