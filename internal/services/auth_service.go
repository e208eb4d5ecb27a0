package services

import (
	"errors"
	"strings"

	"github.com/yukikurage/workstream-api/internal/directory"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccessMismatch     = errors.New("account does not have the requested access")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	dir *directory.Directory
}

// NewAuthService creates a new AuthService.
func NewAuthService(dir *directory.Directory) *AuthService {
	return &AuthService{
		dir: dir,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
	// Access optionally pins the portal the user is logging into.
	Access directory.Access
}

// Login verifies credentials and returns the authenticated account.
func (s *AuthService) Login(input LoginInput) (directory.Account, error) {
	account, ok := s.dir.FindByUsername(input.Username)
	if !ok {
		return directory.Account{}, ErrInvalidCredentials
	}

	password := strings.TrimSpace(input.Password)
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return directory.Account{}, ErrInvalidCredentials
	}

	if input.Access != "" && input.Access != account.Access {
		return directory.Account{}, ErrAccessMismatch
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (s *AuthService) GetAccount(id string) (directory.Account, error) {
	account, ok := s.dir.Account(id)
	if !ok {
		return directory.Account{}, ErrAccountNotFound
	}
	return account, nil
}
