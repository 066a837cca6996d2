package repository

import (
	"context"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
)

type ListUsersParams struct {
	Page  int
	Limit int
}

type ListUsersResult struct {
	Users      []entity.User
	TotalCount int64
	TotalPages int
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (string, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) (*ListUsersResult, error)
}
