package service

import (
	"context"
	"errors"
	"strings"

	"github.com/crucial707/asset-tracker/internal/apperr"
	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Authenticate for any unknown email or
// wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore persists users.
type UserStore interface {
	UserLookup
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, u models.User) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Count(ctx context.Context) (int, error)
}

// UserService manages the users assets can be assigned to.
type UserService struct {
	users UserStore

	// HashCost is the bcrypt cost for new passwords.
	HashCost int
	NewID    func() uuid.UUID
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users, HashCost: bcrypt.DefaultCost, NewID: uuid.New}
}

func (s *UserService) Create(ctx context.Context, in models.UserInput) (models.User, error) {
	if err := in.Validate(); err != nil {
		return models.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.HashCost)
	if err != nil {
		return models.User{}, err
	}
	return s.users.Create(ctx, models.User{
		ID:           s.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		Department:   in.Department,
		Phone:        in.Phone,
		PasswordHash: string(hash),
	})
}

// Update applies an admin edit to user id. A new password is re-hashed.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch models.UserPatch) (models.User, error) {
	if err := apperr.NewValidationError(patch.Validate()); err != nil {
		return models.User{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	patch.Apply(&u)
	if patch.Password.Set {
		hash, err := bcrypt.GenerateFromPassword([]byte(patch.Password.Value), s.HashCost)
		if err != nil {
			return models.User{}, err
		}
		u.PasswordHash = string(hash)
	}
	return s.users.Update(ctx, u)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns one page of users and the total user count.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Authenticate checks an email/password pair.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, apperr.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if u.PasswordHash == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// EnsureAdmin creates in as an admin when no users exist yet, so a fresh
// database can be logged into. It reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, in models.UserInput) (bool, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	in.Role = models.RoleAdmin
	if _, err := s.Create(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}
