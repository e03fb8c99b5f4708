package domain

import "context"

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *Category) (*Category, error)
	GetCategoryByID(ctx context.Context, id int) (*Category, error)
	GetActiveCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	UpdateCategory(ctx context.Context, category *Category) (*Category, error)
	DeactivateCategory(ctx context.Context, id int) error
	ListActiveCategories(ctx context.Context) ([]Category, error)
	ListChildIDs(ctx context.Context, parentID int) ([]int, error)
}
