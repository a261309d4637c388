// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// WelcomeSender greets new customers
type WelcomeSender interface {
	SendWelcomeEmail(ctx context.Context, userEmail, userName string) error
}

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	welcome         WelcomeSender
	logger          logrus.FieldLogger
	now             func() time.Time
}

// NewService creates a new user service. welcome may be nil.
func NewService(db *gorm.DB, cfg *config.Config, welcome WelcomeSender, logger logrus.FieldLogger) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		welcome:         welcome,
		logger:          logger,
		now:             time.Now,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"max=100"`
	Phone           string `json:"phone" binding:"max=50"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents profile changes
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
}

// UpdateCredentialsRequest changes the sign-in email and password
type UpdateCredentialsRequest struct {
	NewEmail        string `json:"new_email" binding:"required,email"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *User     `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	ExpiresIn   int64     `json:"expires_in"`
}

// Register creates a new customer account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	email := NormalizeEmail(req.Email)
	taken, err := s.emailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := User{
		Email:       email,
		Password:    hashedPassword,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Phone:       strings.TrimSpace(req.Phone),
		IsActive:    true,
		LastLoginAt: &now,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("Customer registered")

	if s.welcome != nil {
		if err := s.welcome.SendWelcomeEmail(ctx, user.Email, user.GetDisplayName()); err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to send welcome email")
		}
	}

	return s.issue(&user)
}

// Login authenticates any active user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// AdminLogin authenticates a user and requires the admin flag
func (s *Service) AdminLogin(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		s.logger.WithField("user_id", user.ID).Warn("Non-admin attempted admin sign-in")
		return nil, ErrNotAdmin
	}
	return s.issue(user)
}

// GetByID returns an active user
func (s *Service) GetByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateProfile changes name and phone
func (s *Service) UpdateProfile(ctx context.Context, id uint, req *UpdateProfileRequest) (*User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetByID(ctx, id)
}

// UpdateCredentials replaces the sign-in email and password. The new password
// must match its confirmation.
func (s *Service) UpdateCredentials(ctx context.Context, id uint, req *UpdateCredentialsRequest) (*User, error) {
	if req.NewPassword != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.NewEmail)
	taken, err := s.emailTaken(ctx, email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"email":    email,
		"password": hashedPassword,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update credentials: %w", err)
	}

	s.logger.WithField("user_id", id).Info("Credentials updated")
	return s.GetByID(ctx, id)
}

// EnsureAdmin creates the admin account when no user owns the email yet
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (*User, bool, error) {
	email = NormalizeEmail(email)

	var existing User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up admin: %w", err)
	}

	hashedPassword, err := s.passwordManager.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	admin := User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: "Admin",
		IsActive:  true,
		IsAdmin:   true,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create admin: %w", err)
	}
	return &admin, true, nil
}

func (s *Service) authenticate(ctx context.Context, req *LoginRequest) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", NormalizeEmail(req.Email), true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.passwordManager.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}
	user.LastLoginAt = &now
	return &user, nil
}

func (s *Service) emailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (s *Service) issue(user *User) (*AuthResponse, error) {
	token, expiresAt, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresAt:   expiresAt,
		ExpiresIn:   int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}
