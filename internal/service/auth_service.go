package service

import (
	"errors"

	"grocery-tracker-ws/internal/model"
	"grocery-tracker-ws/internal/repository"
	"grocery-tracker-ws/pkg/jwt"
	"grocery-tracker-ws/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type AuthService interface {
	Register(email, password, fullName string) (*LoginResponse, error)
	Login(email, password string) (*LoginResponse, error)
	ChangePassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*model.UserResponse, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(email, password, fullName string) (*LoginResponse, error) {
	user := &model.User{
		Email:    email,
		FullName: fullName,
	}
	if errs := validator.ValidateStruct(user); len(errs) > 0 {
		return nil, errors.New("a valid email and full name are required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if existing, err := s.userRepo.FindByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) ChangePassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrInvalidCredentials
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.userRepo.Update(user)
}

func (s *authService) ValidateToken(tokenString string) (*model.UserResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	resp := user.ToResponse()
	return &resp, nil
}
