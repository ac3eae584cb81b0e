package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
)

type ManagerGormRepository struct {
	db *gorm.DB
}

func NewManagerGormRepository(db *gorm.DB) *ManagerGormRepository {
	return &ManagerGormRepository{db: db}
}

// emailで1件取得（大文字小文字は区別しない）
func (r *ManagerGormRepository) FindByEmail(ctx context.Context, email string) (model.Manager, error) {
	var m model.Manager
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error
	if err != nil {
		return model.Manager{}, translateError(err)
	}
	return m, nil
}
