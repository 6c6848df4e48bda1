package usecase

import (
	"context"
	"strings"

	"github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/domain/model"
	repo "github.com/SangeethKumarPG/hhh-perfume-backend-api/internal/repository"
)

type ContactUsecase struct {
	contacts repo.ContactRepository
}

func NewContactUsecase(contacts repo.ContactRepository) *ContactUsecase {
	return &ContactUsecase{contacts: contacts}
}

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// 入力チェックはhandler（validator）で済んでいる前提
func (u *ContactUsecase) Submit(ctx context.Context, in ContactInput) (model.Contact, error) {
	c, err := u.contacts.Create(ctx, model.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: in.Message,
	})
	if err != nil {
		return model.Contact{}, internalError(err)
	}
	return c, nil
}
