package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

const productColumns = `id, name, description, price, slug, category_id, image_url, rating, is_active`

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Slug,
		&p.CategoryID, &p.ImageURL, &p.Rating, &p.IsActive)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `INSERT INTO products (name, description, price, slug, category_id, image_url, rating, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + productColumns
	created, err := scanProduct(r.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Slug,
		product.CategoryID, product.ImageURL, product.Rating, product.IsActive))
	if err != nil {
		err = translatePqError(err)
		r.log.Errorf("Repository: Failed to create product '%s': %v", product.Name, err)
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("product with slug '%s' %w", product.Slug, domain.ErrConflict)
		}
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Repository: Product created successfully with ID: %d, Slug: %s", created.ID, created.Slug)
	return created, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %d not found", id)
			return nil, fmt.Errorf("product with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with slug '%s' not found", slug)
			return nil, fmt.Errorf("product '%s' %w", slug, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get product by slug '%s': %v", slug, err)
		return nil, fmt.Errorf("could not get product by slug: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, slug string, product *domain.Product) (*domain.Product, error) {
	query := `UPDATE products
		SET name = $1, description = $2, price = $3, slug = $4, category_id = $5, image_url = $6
		WHERE slug = $7
		RETURNING ` + productColumns
	updated, err := scanProduct(r.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Slug,
		product.CategoryID, product.ImageURL, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with slug '%s' not found for update", slug)
			return nil, fmt.Errorf("product '%s' %w", slug, domain.ErrNotFound)
		}
		err = translatePqError(err)
		r.log.Errorf("Repository: Failed to update product '%s': %v", slug, err)
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("product with slug '%s' %w", product.Slug, domain.ErrConflict)
		}
		return nil, fmt.Errorf("could not update product: %w", err)
	}
	r.log.Infof("Repository: Product updated successfully with ID: %d", updated.ID)
	return updated, nil
}

func (r *postgresProductRepository) DeactivateProduct(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE products SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to deactivate product ID %d: %v", id, err)
		return fmt.Errorf("could not deactivate product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm product deactivation: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to deactivate non-existent product ID %d", id)
		return fmt.Errorf("product with id %d %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Repository: Product deactivated with ID: %d", id)
	return nil
}

func (r *postgresProductRepository) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE ORDER BY id ASC`
	return r.queryProducts(ctx, query)
}

func (r *postgresProductRepository) ListActiveProductsByCategories(ctx context.Context, categoryIDs []int) ([]domain.Product, error) {
	if len(categoryIDs) == 0 {
		return []domain.Product{}, nil
	}
	ids := make([]int64, len(categoryIDs))
	for i, id := range categoryIDs {
		ids[i] = int64(id)
	}
	query := `SELECT ` + productColumns + ` FROM products
		WHERE is_active = TRUE AND category_id = ANY($1)
		ORDER BY id ASC`
	return r.queryProducts(ctx, query, pq.Array(ids))
}

func (r *postgresProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("could not scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during products list iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	r.log.Debugf("Repository: Retrieved %d products", len(products))
	return products, nil
}
