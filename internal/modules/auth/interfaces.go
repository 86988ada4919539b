package auth

import (
	"context"

	"russify/internal/domain"
)

// UserRepository is the part of the user store auth needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}
