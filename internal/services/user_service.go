package services

import (
	"context"
	"fmt"

	"farmmarket/internal/models"
	"farmmarket/internal/repositories"

	"github.com/google/uuid"
)

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	// Update applies the non-nil fields. Privileged roles cannot be assigned
	// through this path.
	Update(ctx context.Context, id uuid.UUID, update *models.UserUpdate) error
	// Delete removes the user together with its event associations.
	Delete(ctx context.Context, id uuid.UUID) error

	AddEvent(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	RemoveEvent(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	ListEvents(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type userService struct {
	userRepo  repositories.UserRepository
	eventRepo repositories.UserEventRepository
}

func NewUserService(userRepo repositories.UserRepository, eventRepo repositories.UserEventRepository) UserService {
	return &userService{
		userRepo:  userRepo,
		eventRepo: eventRepo,
	}
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, update *models.UserUpdate) error {
	if update == nil || update.Empty() {
		return fmt.Errorf("%w: at least one field is required", repositories.ErrValidation)
	}
	if update.Role != nil && update.Role.Privileged() {
		return fmt.Errorf("%w: role %s cannot be assigned through update", repositories.ErrValidation, *update.Role)
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.UpdateFields(ctx, id, update)
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) AddEvent(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return false, err
	}
	return s.eventRepo.Add(ctx, userID, eventID)
}

func (s *userService) RemoveEvent(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return false, err
	}
	return s.eventRepo.Remove(ctx, userID, eventID)
}

func (s *userService) ListEvents(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListEvents(ctx, userID)
}
