package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pizza-storefront/internal/models"
)

var ErrBadCredentials = errors.New("invalid email or password")

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, name, phone string) error
	AddAddress(ctx context.Context, userID string, a *models.Address) error
	UpdateAddress(ctx context.Context, userID string, a *models.Address) error
	DeleteAddress(ctx context.Context, userID, addressID string) error
	CreateSession(ctx context.Context, userID string) (string, error)
	DeleteSession(ctx context.Context, token string) error
}

type AccountService struct {
	users UserStore
}

func NewAccountService(users UserStore) *AccountService {
	return &AccountService{users: users}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates the user and logs them straight in.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if in.Name == "" || in.Email == "" || in.Phone == "" {
		return nil, "", models.ValidationError("name, email and phone are required")
	}
	if len(in.Password) < 6 {
		return nil, "", models.ValidationError("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Addresses:    []models.Address{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.users.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrBadCredentials
	}

	token, err := s.users.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.users.DeleteSession(ctx, token)
}

func (s *AccountService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID, name, phone string) (*models.User, error) {
	if err := s.users.UpdateProfile(ctx, userID, name, phone); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *AccountService) AddAddress(ctx context.Context, userID string, a *models.Address) (*models.User, error) {
	if a.Type == "" || a.Street == "" || a.City == "" || a.State == "" || a.Pincode == "" {
		return nil, models.ValidationError("type, street, city, state and pincode are required")
	}
	if err := s.users.AddAddress(ctx, userID, a); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *AccountService) UpdateAddress(ctx context.Context, userID string, a *models.Address) (*models.User, error) {
	if err := s.users.UpdateAddress(ctx, userID, a); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *AccountService) DeleteAddress(ctx context.Context, userID, addressID string) (*models.User, error) {
	if err := s.users.DeleteAddress(ctx, userID, addressID); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}
