package devapi

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"routehub-client/internal/dto"
	"routehub-client/internal/response"
)

// UserService defines registration and sign-in
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type userServiceImpl struct {
	userRepo UserRepository
	issuer   *TokenIssuer
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo UserRepository, issuer *TokenIssuer) UserService {
	return &userServiceImpl{userRepo: userRepo, issuer: issuer}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*User, error) {
	email := strings.TrimSpace(req.Email)
	userName := strings.TrimSpace(req.UserName)

	exists, err := s.userRepo.Exists(ctx, email, userName)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check user", err.Error())
	}
	if exists {
		return nil, response.NewAppError(response.ErrCodeConflict, "A user with this email or username already exists", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to hash password", err.Error())
	}

	user := &User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		UserName:     userName,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create user", err.Error())
	}
	return user, nil
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewValidationError("Invalid email or password")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find user", err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, response.NewValidationError("Invalid email or password")
	}

	token, expiresAt, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to issue token", err.Error())
	}

	return &dto.LoginResponse{
		Token:          token,
		ExpirationTime: dto.NewTime(expiresAt),
		User:           toUserProfile(user),
	}, nil
}
