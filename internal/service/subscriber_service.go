package service

import (
	"fmt"
	"net/mail"
	"strings"

	"courtwatch/internal/entities"
	apperrors "courtwatch/internal/errors"
	"courtwatch/internal/repository"
)

// SubscriberService validates and manages the recipient list.
type SubscriberService struct {
	Repo *repository.SubscriberRepository
}

func NewSubscriberService(repo *repository.SubscriberRepository) *SubscriberService {
	return &SubscriberService{Repo: repo}
}

func (s *SubscriberService) List() ([]entities.Subscriber, error) {
	return s.Repo.List()
}

func (s *SubscriberService) Subscribe(email string) (*entities.Subscriber, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.ErrBadRequest(fmt.Sprintf("invalid email address %q", email))
	}
	return s.Repo.Add(email)
}

func (s *SubscriberService) Unsubscribe(email string) error {
	return s.Repo.Remove(strings.TrimSpace(strings.ToLower(email)))
}
