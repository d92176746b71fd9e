package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

const minPasswordLen = 6

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=100"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
}

type UserView struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role"`
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserView  `json:"user"`
}

type AuthService struct {
	users  domain.UserStore
	hasher domain.PasswordHasher
	tokens domain.TokenIssuer
}

func NewAuthService(u domain.UserStore, h domain.PasswordHasher, t domain.TokenIssuer) *AuthService {
	return &AuthService{users: u, hasher: h, tokens: t}
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func userView(u domain.User) UserView {
	return UserView{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role}
}

// Register creates a Customer account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName, in.LastName = strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if err := validateInput(in); err != nil {
		return AuthResult{}, err
	}
	u, err := s.createUser(ctx, in, domain.RoleCustomer)
	if err != nil {
		return AuthResult{}, err
	}
	log.Info().Int64("user_id", u.ID).Msg("user registered")
	return s.signIn(u)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, role domain.Role) (domain.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		return domain.User{}, domain.StoreFailure(err)
	}
	return u, nil
}

// Login checks credentials. Unknown emails, wrong passwords and inactive
// accounts all fail with the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, domain.StoreFailure(err)
	}
	if !u.IsActive {
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, u.ID, now); err != nil {
		log.Warn().Err(err).Int64("user_id", u.ID).Msg("last login update failed")
	}
	u.LastLogin = &now
	return s.signIn(u)
}

func (s *AuthService) signIn(u domain.User) (AuthResult, error) {
	tok, exp, err := s.tokens.Issue(u)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: tok, ExpiresAt: exp, User: userView(u)}, nil
}

// EnsureAdmin creates the admin account unless the email is already taken.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, first, last string) (domain.User, bool, error) {
	email = normalizeEmail(email)
	if u, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return u, false, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, false, domain.StoreFailure(err)
	}
	if len(password) < minPasswordLen {
		return domain.User{}, false, domain.ErrValidation.With("admin password must be at least %d characters", minPasswordLen)
	}
	u, err := s.createUser(ctx, RegisterInput{Email: email, Password: password, FirstName: first, LastName: last}, domain.RoleAdmin)
	if err != nil {
		return domain.User{}, false, err
	}
	return u, true, nil
}
