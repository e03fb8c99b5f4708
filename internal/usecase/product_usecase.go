package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog_service/internal/domain"
	"catalog_service/pkg/slug"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

type ProductUseCase interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByCategorySlug(ctx context.Context, categorySlug string) ([]domain.Product, error)
	GetProductBySlug(ctx context.Context, productSlug string) (*domain.Product, error)
	CreateProduct(ctx context.Context, caller *domain.Identity, fields domain.ProductFields, image *domain.Image) (*domain.Product, error)
	UpdateProduct(ctx context.Context, caller *domain.Identity, productSlug string, fields domain.ProductFields, image *domain.Image) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, caller *domain.Identity, id int) error
	ExportProducts(ctx context.Context, caller *domain.Identity) ([]ProductExportRow, error)
	GetImage(ctx context.Context, name string) ([]byte, error)
}

// ProductExportRow is one line of the admin product export.
type ProductExportRow struct {
	Product      domain.Product
	CategoryName string
}

type productUseCase struct {
	productRepo    domain.ProductRepository
	categoryRepo   domain.CategoryRepository
	blobs          domain.BlobStore
	maxUploadBytes int64
	log            *logrus.Logger
}

var _ ProductUseCase = (*productUseCase)(nil)

func NewProductUseCase(
	productRepo domain.ProductRepository,
	categoryRepo domain.CategoryRepository,
	blobs domain.BlobStore,
	maxUploadBytes int64,
	logger *logrus.Logger,
) ProductUseCase {
	return &productUseCase{
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		blobs:          blobs,
		maxUploadBytes: maxUploadBytes,
		log:            logger,
	}
}

func (uc *productUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := uc.productRepo.ListActiveProducts(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list products: %v", err)
		return nil, err
	}
	return products, nil
}

// ListProductsByCategorySlug returns active products of the category and of
// all its direct children, deactivated children included. Grandchildren are
// not included.
func (uc *productUseCase) ListProductsByCategorySlug(ctx context.Context, categorySlug string) ([]domain.Product, error) {
	category, err := uc.categoryRepo.GetActiveCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	childIDs, err := uc.categoryRepo.ListChildIDs(ctx, category.ID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list children of category %d: %v", category.ID, err)
		return nil, err
	}

	ids := append([]int{category.ID}, childIDs...)
	uc.log.Debugf("Use Case: Listing products of categories %v", ids)
	return uc.productRepo.ListActiveProductsByCategories(ctx, ids)
}

func (uc *productUseCase) GetProductBySlug(ctx context.Context, productSlug string) (*domain.Product, error) {
	product, err := uc.productRepo.GetProductBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("product '%s' %w", productSlug, domain.ErrNotFound)
	}
	return product, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, caller *domain.Identity, fields domain.ProductFields, image *domain.Image) (*domain.Product, error) {
	if err := caller.RequireAdmin(); err != nil {
		uc.log.Warn("Use Case: Non-admin attempted to create a product")
		return nil, err
	}
	if image == nil {
		return nil, fmt.Errorf("%w: product image is required", domain.ErrInvalidInput)
	}
	product, err := uc.validateFields(ctx, fields)
	if err != nil {
		return nil, err
	}
	if err := uc.validateImage(image); err != nil {
		return nil, err
	}

	url, err := uc.blobs.Put(ctx, image.Data, image.Filename)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to store image for product '%s': %v", product.Name, err)
		return nil, err
	}
	product.ImageURL = url
	product.Rating = 0
	product.IsActive = true

	created, err := uc.productRepo.CreateProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to create product '%s': %v", product.Name, err)
		uc.discardImage(ctx, url)
		return nil, err
	}
	uc.log.Infof("Use Case: Product %d '%s' created", created.ID, created.Slug)
	return created, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, caller *domain.Identity, productSlug string, fields domain.ProductFields, image *domain.Image) (*domain.Product, error) {
	if err := caller.RequireAdmin(); err != nil {
		uc.log.Warnf("Use Case: Non-admin attempted to update product '%s'", productSlug)
		return nil, err
	}
	existing, err := uc.productRepo.GetProductBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}
	product, err := uc.validateFields(ctx, fields)
	if err != nil {
		return nil, err
	}

	product.ImageURL = existing.ImageURL
	if image != nil {
		if err := uc.validateImage(image); err != nil {
			return nil, err
		}
		url, err := uc.blobs.Put(ctx, image.Data, image.Filename)
		if err != nil {
			uc.log.Errorf("Use Case: Failed to store image for product '%s': %v", productSlug, err)
			return nil, err
		}
		product.ImageURL = url
	}

	updated, err := uc.productRepo.UpdateProduct(ctx, productSlug, product)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update product '%s': %v", productSlug, err)
		if product.ImageURL != existing.ImageURL {
			uc.discardImage(ctx, product.ImageURL)
		}
		return nil, err
	}
	uc.log.Infof("Use Case: Product %d updated, slug %s -> %s", updated.ID, productSlug, updated.Slug)
	return updated, nil
}

func (uc *productUseCase) DeactivateProduct(ctx context.Context, caller *domain.Identity, id int) error {
	if err := caller.RequireAdmin(); err != nil {
		uc.log.Warnf("Use Case: Non-admin attempted to deactivate product %d", id)
		return err
	}
	if err := uc.productRepo.DeactivateProduct(ctx, id); err != nil {
		uc.log.Errorf("Use Case: Failed to deactivate product %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product %d deactivated", id)
	return nil
}

func (uc *productUseCase) ExportProducts(ctx context.Context, caller *domain.Identity) ([]ProductExportRow, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	products, err := uc.productRepo.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryRepo.ListActiveCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	rows := make([]ProductExportRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, ProductExportRow{Product: p, CategoryName: names[p.CategoryID]})
	}
	uc.log.Infof("Use Case: Exporting %d products for admin %d", len(rows), caller.ID)
	return rows, nil
}

// discardImage removes a blob stored for a product row that was never
// written.
func (uc *productUseCase) discardImage(ctx context.Context, url string) {
	if err := uc.blobs.Delete(ctx, url); err != nil {
		uc.log.Warnf("Use Case: Failed to remove orphaned image %s: %v", url, err)
	}
}

func (uc *productUseCase) GetImage(ctx context.Context, name string) ([]byte, error) {
	return uc.blobs.Get(ctx, name)
}

func (uc *productUseCase) validateFields(ctx context.Context, fields domain.ProductFields) (*domain.Product, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty", domain.ErrInvalidInput)
	}
	s := slug.Make(name)
	if s == "" {
		return nil, fmt.Errorf("%w: product name must contain letters or digits", domain.ErrInvalidInput)
	}
	if fields.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}
	if _, err := uc.categoryRepo.GetCategoryByID(ctx, fields.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %d does not exist", domain.ErrInvalidInput, fields.CategoryID)
		}
		return nil, err
	}
	return &domain.Product{
		Name:        name,
		Description: strings.TrimSpace(fields.Description),
		Price:       fields.Price,
		Slug:        s,
		CategoryID:  fields.CategoryID,
	}, nil
}

func (uc *productUseCase) validateImage(image *domain.Image) error {
	if len(image.Data) == 0 {
		return fmt.Errorf("%w: product image is empty", domain.ErrInvalidInput)
	}
	if uc.maxUploadBytes > 0 && int64(len(image.Data)) > uc.maxUploadBytes {
		return fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidInput, uc.maxUploadBytes)
	}
	mt := mimetype.Detect(image.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		uc.log.Warnf("Use Case: Rejected upload '%s' of type %s", image.Filename, mt.String())
		return fmt.Errorf("%w: file is not an image (%s)", domain.ErrInvalidInput, mt.String())
	}
	return nil
}
