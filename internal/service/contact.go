package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

type contactService struct {
	repo   ContactRepository
	logger *logrus.Logger
}

func NewContactService(repo ContactRepository, logger *logrus.Logger) ContactService {
	return &contactService{
		repo:   repo,
		logger: logger,
	}
}

// CreateContact сохраняет экстренный контакт
func (s *contactService) CreateContact(ctx context.Context, contact *models.Contact) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "contact",
		"method":  "CreateContact",
		"user_id": contact.UserID,
	})

	if contact.UserID == "" || contact.Name == "" || contact.Phone == "" {
		return fmt.Errorf("service: userId, name and phone are required: %w", ErrValidation)
	}
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		log.WithError(err).Error("Failed to create contact in repository")
		return fmt.Errorf("service: could not create contact: %w", err)
	}
	log.WithField("contact_id", contact.ID).Info("Contact created successfully")
	return nil
}

// ListContacts возвращает контакты пользователя, пустой userID - все контакты
func (s *contactService) ListContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	contacts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to list contacts")
		return nil, fmt.Errorf("service: could not list contacts: %w", err)
	}
	return contacts, nil
}

// DeleteContact удаляет контакт
func (s *contactService) DeleteContact(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.WithError(err).WithField("contact_id", id).Warn("Failed to delete contact")
		return fmt.Errorf("service: could not delete contact: %w", err)
	}
	return nil
}
