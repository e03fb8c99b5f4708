// domain/product.go
package domain

import "context"

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)

	// UpdateProduct rewrites the product currently stored under slug.
	UpdateProduct(ctx context.Context, slug string, product *Product) (*Product, error)

	DeactivateProduct(ctx context.Context, id int) error
	ListActiveProducts(ctx context.Context) ([]Product, error)
	ListActiveProductsByCategories(ctx context.Context, categoryIDs []int) ([]Product, error)
}

// BlobStore keeps uploaded product images.
type BlobStore interface {
	Put(ctx context.Context, data []byte, suggestedName string) (url string, err error)
	Get(ctx context.Context, url string) ([]byte, error)
	// Delete removes the blob behind url. Deleting an unknown blob is not an
	// error.
	Delete(ctx context.Context, url string) error
}
