package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"farmmarket/internal/caching"
	"farmmarket/internal/models"
	"farmmarket/internal/repositories"

	"github.com/google/uuid"
)

const hierarchyCacheTTL = 10 * time.Minute

type CategoryService interface {
	// Create inserts the category together with its attributes as one atomic
	// unit. New categories start unapproved.
	Create(ctx context.Context, name string, parentID *uuid.UUID, attributes []*models.Attribute) (*models.Category, error)
	// Update rewrites the category row and appends the supplied attributes;
	// attributes already on the category are kept.
	Update(ctx context.Context, id uuid.UUID, name string, parentID *uuid.UUID, isApproved bool, attributes []*models.Attribute) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, limit, offset int) ([]*models.Category, error)
	ListAttributes(ctx context.Context, categoryID uuid.UUID) ([]*models.Attribute, error)
	GetHierarchy(ctx context.Context, id uuid.UUID) (*models.CategoryNode, error)
	// RewarmHierarchies refreshes the cached subtree of every root category.
	RewarmHierarchies(ctx context.Context) error
}

type categoryService struct {
	categoryRepo  repositories.CategoryRepository
	attributeRepo repositories.AttributeRepository
	cacheSvc      caching.CacheService
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, attributeRepo repositories.AttributeRepository, cacheSvc caching.CacheService) CategoryService {
	return &categoryService{
		categoryRepo:  categoryRepo,
		attributeRepo: attributeRepo,
		cacheSvc:      cacheSvc,
	}
}

func (s *categoryService) Create(ctx context.Context, name string, parentID *uuid.UUID, attributes []*models.Attribute) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", repositories.ErrValidation)
	}
	if parentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *parentID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("parent category: %w", repositories.ErrNotFound)
			}
			return nil, err
		}
	}

	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		ParentID: parentID,
	}
	if err := s.categoryRepo.CreateWithAttributes(ctx, category, attributes); err != nil {
		return nil, err
	}
	s.invalidateHierarchies(ctx)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, name string, parentID *uuid.UUID, isApproved bool, attributes []*models.Attribute) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", repositories.ErrValidation)
	}
	if parentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *parentID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("parent category: %w", repositories.ErrNotFound)
			}
			return nil, err
		}
	}

	category := &models.Category{
		ID:         id,
		Name:       name,
		ParentID:   parentID,
		IsApproved: isApproved,
	}
	if err := s.categoryRepo.UpdateWithAttributes(ctx, category, attributes); err != nil {
		return nil, err
	}
	s.invalidateHierarchies(ctx)
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateHierarchies(ctx)
	return nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx, limit, offset)
}

func (s *categoryService) ListAttributes(ctx context.Context, categoryID uuid.UUID) ([]*models.Attribute, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.attributeRepo.ListByCategory(ctx, categoryID)
}

func (s *categoryService) GetHierarchy(ctx context.Context, id uuid.UUID) (*models.CategoryNode, error) {
	if cached, err := s.cacheSvc.GetHierarchy(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("hierarchy cache read for %s: %v", id, err)
	}

	node, err := s.categoryRepo.GetHierarchy(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetHierarchy(ctx, node, hierarchyCacheTTL); err != nil {
		log.Printf("hierarchy cache write for %s: %v", id, err)
	}
	return node, nil
}

func (s *categoryService) RewarmHierarchies(ctx context.Context) error {
	categories, err := s.categoryRepo.List(ctx, 1000, 0)
	if err != nil {
		return err
	}
	for _, category := range categories {
		if category.ParentID != nil {
			continue
		}
		node, err := s.categoryRepo.GetHierarchy(ctx, category.ID)
		if err != nil {
			return fmt.Errorf("rewarm %s: %w", category.ID, err)
		}
		if err := s.cacheSvc.SetHierarchy(ctx, node, hierarchyCacheTTL); err != nil {
			return fmt.Errorf("rewarm %s: %w", category.ID, err)
		}
	}
	return nil
}

// Cache errors never fail a mutation that already committed.
func (s *categoryService) invalidateHierarchies(ctx context.Context) {
	if err := s.cacheSvc.InvalidateHierarchies(ctx); err != nil {
		log.Printf("hierarchy cache invalidation: %v", err)
	}
}
