package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog_service/internal/domain"
	"catalog_service/pkg/slug"

	"github.com/sirupsen/logrus"
)

type CategoryUseCase interface {
	ListActiveCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, caller *domain.Identity, name string, parentID *int) (*domain.Category, error)
	UpdateCategory(ctx context.Context, caller *domain.Identity, id int, name string, parentID *int) (*domain.Category, error)
	DeactivateCategory(ctx context.Context, caller *domain.Identity, id int) error
}

type categoryUseCase struct {
	categoryRepo domain.CategoryRepository
	log          *logrus.Logger
}

var _ CategoryUseCase = (*categoryUseCase)(nil)

func NewCategoryUseCase(repo domain.CategoryRepository, logger *logrus.Logger) CategoryUseCase {
	return &categoryUseCase{
		categoryRepo: repo,
		log:          logger,
	}
}

func (uc *categoryUseCase) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := uc.categoryRepo.ListActiveCategories(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list categories: %v", err)
		return nil, err
	}
	return categories, nil
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, caller *domain.Identity, name string, parentID *int) (*domain.Category, error) {
	if err := caller.RequireAdmin(); err != nil {
		uc.log.Warn("Use Case: Non-admin attempted to create a category")
		return nil, err
	}
	category, err := uc.prepare(ctx, 0, name, parentID)
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create category '%s' (slug %s)", category.Name, category.Slug)
	created, err := uc.categoryRepo.CreateCategory(ctx, category)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to create category '%s': %v", category.Name, err)
		return nil, err
	}
	return created, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, caller *domain.Identity, id int, name string, parentID *int) (*domain.Category, error) {
	if err := caller.RequireAdmin(); err != nil {
		uc.log.Warnf("Use Case: Non-admin attempted to update category %d", id)
		return nil, err
	}
	if _, err := uc.categoryRepo.GetCategoryByID(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Category %d not found for update: %v", id, err)
		return nil, err
	}
	category, err := uc.prepare(ctx, id, name, parentID)
	if err != nil {
		return nil, err
	}
	category.ID = id

	updated, err := uc.categoryRepo.UpdateCategory(ctx, category)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update category %d: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Category %d updated", id)
	return updated, nil
}

func (uc *categoryUseCase) DeactivateCategory(ctx context.Context, caller *domain.Identity, id int) error {
	if err := caller.RequireAdmin(); err != nil {
		uc.log.Warnf("Use Case: Non-admin attempted to deactivate category %d", id)
		return err
	}
	if id <= 0 {
		return fmt.Errorf("%w: invalid category ID", domain.ErrInvalidInput)
	}
	if err := uc.categoryRepo.DeactivateCategory(ctx, id); err != nil {
		uc.log.Errorf("Use Case: Failed to deactivate category %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Category %d deactivated", id)
	return nil
}

// prepare validates the editable fields of a category. A parent id of zero is
// treated as no parent. selfID is zero for new categories.
func (uc *categoryUseCase) prepare(ctx context.Context, selfID int, name string, parentID *int) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		uc.log.Warn("Use Case: Category name is empty")
		return nil, fmt.Errorf("%w: category name cannot be empty", domain.ErrInvalidInput)
	}
	s := slug.Make(name)
	if s == "" {
		return nil, fmt.Errorf("%w: category name must contain letters or digits", domain.ErrInvalidInput)
	}

	category := &domain.Category{Name: name, Slug: s, IsActive: true}
	if parentID == nil || *parentID == 0 {
		return category, nil
	}

	pid := *parentID
	if pid == selfID {
		return nil, fmt.Errorf("%w: category cannot be its own parent", domain.ErrInvalidParent)
	}
	if _, err := uc.categoryRepo.GetCategoryByID(ctx, pid); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Parent category %d does not exist", pid)
			return nil, fmt.Errorf("%w: category %d does not exist", domain.ErrInvalidParent, pid)
		}
		return nil, err
	}
	category.ParentID = &pid
	return category, nil
}
