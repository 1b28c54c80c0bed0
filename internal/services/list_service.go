package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ottica-backend/internal/models"
	"ottica-backend/internal/repository"
	"ottica-backend/internal/store"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ListService manages the two small administrative lists: sellers and the
// daily-closure recipients.
type ListService struct {
	Store store.Store
	Views *repository.Views
}

func NewListService(st store.Store, views *repository.Views) *ListService {
	return &ListService{Store: st, Views: views}
}

// AddSeller creates a seller; names are unique case-insensitively
func (s *ListService) AddSeller(ctx context.Context, nome string) (*models.Seller, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, errors.New("nome del venditore obbligatorio")
	}
	for _, existing := range s.Views.Sellers.Snapshot() {
		if strings.EqualFold(existing.Nome, nome) {
			return nil, fmt.Errorf("venditore %q già presente", nome)
		}
	}

	seller := &models.Seller{Nome: nome}
	fields, err := store.FieldsOf(seller)
	if err != nil {
		return nil, err
	}
	id, err := s.Store.Create(ctx, models.CollectionVenditori, fields)
	if err != nil {
		return nil, err
	}
	seller.ID = id
	return seller, nil
}

// DeleteSeller removes a seller by id
func (s *ListService) DeleteSeller(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, models.CollectionVenditori, id)
}

// AddEmail creates a closure-report recipient
func (s *ListService) AddEmail(ctx context.Context, nomeContatto, email string) (*models.AdminEmail, error) {
	nomeContatto = strings.TrimSpace(nomeContatto)
	email = strings.TrimSpace(email)
	if nomeContatto == "" {
		return nil, errors.New("nome contatto obbligatorio")
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("indirizzo email non valido: %q", email)
	}

	contact := &models.AdminEmail{NomeContatto: nomeContatto, Email: email}
	fields, err := store.FieldsOf(contact)
	if err != nil {
		return nil, err
	}
	id, err := s.Store.Create(ctx, models.CollectionEmails, fields)
	if err != nil {
		return nil, err
	}
	contact.ID = id
	return contact, nil
}

// DeleteEmail removes a recipient by id
func (s *ListService) DeleteEmail(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, models.CollectionEmails, id)
}
