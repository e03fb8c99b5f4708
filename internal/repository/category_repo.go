package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresCategoryRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCategoryRepository(db *sql.DB, logger *logrus.Logger) domain.CategoryRepository {
	return &postgresCategoryRepository{
		db:  db,
		log: logger,
	}
}

const categoryColumns = `id, name, slug, parent_id, is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var (
		c      domain.Category
		parent sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &parent, &c.IsActive); err != nil {
		return nil, err
	}
	if parent.Valid {
		p := int(parent.Int64)
		c.ParentID = &p
	}
	return &c, nil
}

func nullableID(id *int) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func (r *postgresCategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `INSERT INTO categories (name, slug, parent_id, is_active) VALUES ($1, $2, $3, TRUE)
		RETURNING ` + categoryColumns
	created, err := scanCategory(r.db.QueryRowContext(ctx, query, category.Name, category.Slug, nullableID(category.ParentID)))
	if err != nil {
		err = translatePqError(err)
		if errors.Is(err, domain.ErrConflict) {
			r.log.Warnf("Repository: Attempted to create category with duplicate slug: %s", category.Slug)
			return nil, fmt.Errorf("category with slug '%s' %w", category.Slug, domain.ErrConflict)
		}
		r.log.Errorf("Repository: Failed to create category '%s': %v", category.Name, err)
		return nil, fmt.Errorf("could not create category: %w", err)
	}
	r.log.Infof("Repository: Category created successfully with ID: %d, Slug: %s", created.ID, created.Slug)
	return created, nil
}

func (r *postgresCategoryRepository) GetCategoryByID(ctx context.Context, id int) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Category with ID %d not found", id)
			return nil, fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get category by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get category by id: %w", err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) GetActiveCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1 AND is_active = TRUE`
	category, err := scanCategory(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Active category with slug '%s' not found", slug)
			return nil, fmt.Errorf("category '%s' %w", slug, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get category by slug '%s': %v", slug, err)
		return nil, fmt.Errorf("could not get category by slug: %w", err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `UPDATE categories SET name = $1, slug = $2, parent_id = $3 WHERE id = $4
		RETURNING ` + categoryColumns
	updated, err := scanCategory(r.db.QueryRowContext(ctx, query,
		category.Name, category.Slug, nullableID(category.ParentID), category.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Category with ID %d not found for update", category.ID)
			return nil, fmt.Errorf("category with id %d %w", category.ID, domain.ErrNotFound)
		}
		err = translatePqError(err)
		if errors.Is(err, domain.ErrConflict) {
			r.log.Warnf("Repository: Attempted to update category ID %d with duplicate slug: %s", category.ID, category.Slug)
			return nil, fmt.Errorf("category with slug '%s' %w", category.Slug, domain.ErrConflict)
		}
		r.log.Errorf("Repository: Failed to update category ID %d: %v", category.ID, err)
		return nil, fmt.Errorf("could not update category: %w", err)
	}
	r.log.Infof("Repository: Category updated successfully with ID: %d", updated.ID)
	return updated, nil
}

func (r *postgresCategoryRepository) DeactivateCategory(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE categories SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to deactivate category ID %d: %v", id, err)
		return fmt.Errorf("could not deactivate category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deactivating category ID %d: %v", id, err)
		return fmt.Errorf("could not confirm category deactivation: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to deactivate non-existent category ID %d", id)
		return fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
	}

	r.log.Infof("Repository: Category deactivated with ID: %d", id)
	return nil
}

func (r *postgresCategoryRepository) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE is_active = TRUE ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Errorf("Repository: Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan category row: %v", err)
			return nil, fmt.Errorf("could not scan category: %w", err)
		}
		categories = append(categories, *category)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during categories list iteration: %v", err)
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	r.log.Debugf("Repository: Retrieved %d active categories", len(categories))
	return categories, nil
}

func (r *postgresCategoryRepository) ListChildIDs(ctx context.Context, parentID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM categories WHERE parent_id = $1 ORDER BY id ASC`, parentID)
	if err != nil {
		r.log.Errorf("Repository: Failed to list children of category %d: %v", parentID, err)
		return nil, fmt.Errorf("could not list child categories: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("could not scan child category id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating child categories: %w", err)
	}
	return ids, nil
}
