package repository

import (
	"context"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"

	"gorm.io/gorm"
)

type ContactGormRepository struct {
	db *gorm.DB
}

func NewContactGormRepository(db *gorm.DB) *ContactGormRepository {
	return &ContactGormRepository{db: db}
}

func (r *ContactGormRepository) Create(ctx context.Context, c model.Contact) (model.Contact, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Contact{}, err
	}
	return c, nil
}
