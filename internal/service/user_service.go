package service

import (
	"context"
	"errors"
	"time"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload issued at login and checked by the auth
// middleware.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name     string
	Phone    string
	Email    string
	Password string
	Role     entity.UserRole
}

type ProfilePatch struct {
	Name  *string
	Phone *string
	Email *string
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*entity.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	ListUsers(ctx context.Context, page, limit int) (*repository.ListUsersResult, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       logger.Logger
}

func NewUserService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration, log logger.Logger) UserService {
	return &userService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	if input.Name == "" || input.Phone == "" || input.Email == "" || input.Password == "" {
		return nil, validationf("please provide all required fields")
	}

	role := input.Role
	if role == "" {
		role = entity.RoleBuyer
	}
	switch role {
	case entity.RoleAdmin, entity.RoleSeller, entity.RoleBuyer:
	default:
		return nil, validationf("invalid role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     input.Name,
		Phone:    input.Phone,
		Email:    input.Email,
		Password: string(hash),
		Role:     role,
		IsAdmin:  role == entity.RoleAdmin,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, conflictf("user already exists")
		}
		s.log.Errorf("Register: failed to create user: %v", err)
		return nil, err
	}
	s.log.Infof("registered user %s role=%s", user.ID.Hex(), user.Role)
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	if email == "" || password == "" {
		return nil, "", validationf("please provide both email and password")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", validationf("user does not exist")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", validationf("invalid credentials")
	}

	token, err := s.issueToken(user.ID.Hex())
	if err != nil {
		s.log.Errorf("Login: failed to sign token for user %s: %v", user.ID.Hex(), err)
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *userService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidID):
			return nil, validationf("invalid user id")
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFoundf("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*entity.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, conflictf("email already in use")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return validationf("current and new password are required")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return validationf("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, id, string(hash))
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) (*repository.ListUsersResult, error) {
	return s.userRepo.List(ctx, repository.ListUsersParams{Page: page, Limit: limit})
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return forbiddenf("admin accounts cannot be deleted")
	}
	return s.userRepo.Delete(ctx, id)
}
