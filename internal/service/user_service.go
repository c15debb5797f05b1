package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/mapper"
	"github.com/logfrete/freight-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles user management and authentication
type UserService struct {
	userRepo *repository.UserRepository
	issuer   *auth.TokenIssuer
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(userRepo *repository.UserRepository, issuer *auth.TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		issuer:   issuer,
		logger:   logger,
	}
}

// Login authenticates a user by username or email and issues an access token
func (s *UserService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("user_type", string(user.UserType)),
	)

	return &domain.LoginResponse{
		Token:                 token,
		User:                  mapper.ToUserDTO(user),
		RequirePasswordChange: user.RequirePasswordChange,
	}, nil
}

// ChangePassword changes the caller's own password
func (s *UserService) ChangePassword(ctx context.Context, req *domain.ChangePasswordRequest) error {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.RequirePasswordChange = false

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// Create creates a user. Carrier users must be bound to a carrier name;
// staff users must not carry one.
func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserDTO, error) {
	if !req.UserType.IsValid() {
		return nil, ErrInvalidInput
	}
	if req.UserType == domain.UserTypeCarrier && req.CarrierName == "" {
		return nil, ErrCarrierNameRequired
	}

	carrierName := req.CarrierName
	if req.UserType != domain.UserTypeCarrier {
		carrierName = ""
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		FullName:              req.FullName,
		Username:              req.Username,
		Email:                 req.Email,
		PasswordHash:          string(hash),
		UserType:              req.UserType,
		CarrierName:           carrierName,
		Active:                true,
		RequirePasswordChange: req.RequirePasswordChange,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("user_type", string(user.UserType)),
	)

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// GetByID returns a user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// List returns all users
func (s *UserService) List(ctx context.Context) ([]domain.UserDTO, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos, nil
}

// Update updates a user
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.UserType != nil {
		if !req.UserType.IsValid() {
			return nil, ErrInvalidInput
		}
		user.UserType = *req.UserType
	}
	if req.CarrierName != nil {
		user.CarrierName = *req.CarrierName
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if user.UserType == domain.UserTypeCarrier && user.CarrierName == "" {
		return nil, ErrCarrierNameRequired
	}
	if user.UserType != domain.UserTypeCarrier {
		user.CarrierName = ""
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
