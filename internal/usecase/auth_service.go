package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/topcornerhq/topcorner/internal/domain/user"
	"github.com/topcornerhq/topcorner/internal/platform/id"
)

// TokenIssuer mints session tokens for authenticated principals.
type TokenIssuer interface {
	IssueToken(principal user.Principal) (string, error)
}

type AuthService struct {
	userRepo user.Repository
	tokens   TokenIssuer
	idgen    id.Generator
}

func NewAuthService(userRepo user.Repository, tokens TokenIssuer, idgen id.Generator) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		idgen:    idgen,
	}
}

type SignupInput struct {
	FullName string
	Username string
	Email    string
	Password string
}

// Signup registers a new user with the default point balance. The
// password is stored only as a bcrypt hash.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (user.User, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Signup")
	defer span.End()

	input.FullName = strings.TrimSpace(input.FullName)
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if _, exists, err := s.userRepo.GetByEmail(ctx, input.Email); err != nil {
		return user.User{}, "", fmt.Errorf("check email uniqueness: %w", err)
	} else if exists {
		return user.User{}, "", fmt.Errorf("%w: a user already exists with this email", ErrInvalidInput)
	}
	if _, exists, err := s.userRepo.GetByUsername(ctx, input.Username); err != nil {
		return user.User{}, "", fmt.Errorf("check username uniqueness: %w", err)
	} else if exists {
		return user.User{}, "", fmt.Errorf("%w: username is already taken", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	candidate := user.User{
		ID:           s.idgen.NewID(),
		FullName:     input.FullName,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Points:       user.DefaultPoints,
	}
	if err := candidate.Validate(); err != nil {
		return user.User{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.userRepo.Create(ctx, candidate)
	if err != nil {
		return user.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(created)
	if err != nil {
		return user.User{}, "", err
	}

	return created, token, nil
}

// Login verifies the password against the stored bcrypt hash.
// bcrypt.CompareHashAndPassword is constant-time over the hash.
func (s *AuthService) Login(ctx context.Context, email, password string) (user.User, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return user.User{}, "", fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	found, exists, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return user.User{}, "", fmt.Errorf("get user by email: %w", err)
	}
	if !exists {
		return user.User{}, "", fmt.Errorf("%w: user=%s", ErrNotFound, email)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)); err != nil {
		return user.User{}, "", fmt.Errorf("%w: wrong password", ErrUnauthorized)
	}

	token, err := s.issueToken(found)
	if err != nil {
		return user.User{}, "", err
	}

	return found, token, nil
}

func (s *AuthService) issueToken(u user.User) (string, error) {
	token, err := s.tokens.IssueToken(user.Principal{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	})
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}
	return token, nil
}
