package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/apex/log"

	"crimesafenet/models"
	"crimesafenet/repository"
	"crimesafenet/utils"
)

// AuthService handles registration and login. Password storage is bcrypt;
// sessions are stateless signed tokens.
type AuthService struct {
	users         *repository.UserRepository
	jwtSecret     []byte
	tokenTTLHours int
}

// NewAuthService creates a new auth service
func NewAuthService(users *repository.UserRepository, jwtSecret string, tokenTTLHours int) *AuthService {
	return &AuthService{
		users:         users,
		jwtSecret:     []byte(jwtSecret),
		tokenTTLHours: tokenTTLHours,
	}
}

// Register creates a user and returns a signed token for it.
func (s *AuthService) Register(req *models.RegisterRequest) (*models.AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be citizen or officer", ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if req.Location != "" {
		user.Location = sql.NullString{String: req.Location, Valid: true}
	}
	if req.Phone != "" {
		user.Phone = sql.NullString{String: req.Phone, Valid: true}
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.tokenTTLHours)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	log.WithField("user_id", user.ID).Infof("registered %s %s", user.Role, user.Email)

	return &models.AuthResponse{
		Message: "Registration successful",
		Token:   token,
		User:    userView(user),
	}, nil
}

// Login verifies credentials and returns a signed token. Absent users and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := utils.CheckPassword(req.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.tokenTTLHours)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    userView(user),
	}, nil
}

func userView(u *models.User) models.UserView {
	v := models.UserView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
	if u.Location.Valid {
		v.Location = u.Location.String
	}
	return v
}
