package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 読み取り専用。見つからなければ ErrNotFound。
type ManagerRepository interface {
	FindByEmail(ctx context.Context, email string) (model.Manager, error)
}
