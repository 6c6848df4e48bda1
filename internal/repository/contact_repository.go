package repository

import (
	"context"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
)

type ContactRepository interface {
	Create(ctx context.Context, c model.Contact) (model.Contact, error)
}
