package grpc

import (
	"context"
	"errors"
	"strings"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type CatalogHandler struct {
	productUseCase  usecase.ProductUseCase
	categoryUseCase usecase.CategoryUseCase
	log             *logrus.Logger
}

var _ CatalogServer = (*CatalogHandler)(nil)

func NewCatalogHandler(puc usecase.ProductUseCase, cuc usecase.CategoryUseCase, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		productUseCase:  puc,
		categoryUseCase: cuc,
		log:             logger,
	}
}

func categoryFields(cat *domain.Category) map[string]any {
	var parentID any
	if cat.ParentID != nil {
		parentID = *cat.ParentID
	}
	return map[string]any{
		"id":        cat.ID,
		"name":      cat.Name,
		"slug":      cat.Slug,
		"parent_id": parentID,
		"is_active": cat.IsActive,
	}
}

func productFields(prod *domain.Product) map[string]any {
	return map[string]any{
		"id":          prod.ID,
		"name":        prod.Name,
		"description": prod.Description,
		"price":       prod.Price,
		"slug":        prod.Slug,
		"category_id": prod.CategoryID,
		"image_url":   prod.ImageURL,
		"rating":      prod.Rating,
		"is_active":   prod.IsActive,
	}
}

func (h *CatalogHandler) ListCategories(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	h.log.Info("gRPC Handler: Received ListCategories request")
	categories, err := h.categoryUseCase.ListActiveCategories(ctx)
	if err != nil {
		h.log.Errorf("gRPC Handler: ListCategories use case error: %v", err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}

	items := make([]any, 0, len(categories))
	for i := range categories {
		items = append(items, categoryFields(&categories[i]))
	}
	return h.toList("ListCategories", items)
}

func (h *CatalogHandler) ListProducts(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	categorySlug := strings.TrimSpace(req.GetValue())
	h.log.Infof("gRPC Handler: Received ListProducts request: Category=%q", categorySlug)

	var (
		products []domain.Product
		err      error
	)
	if categorySlug == "" {
		products, err = h.productUseCase.ListProducts(ctx)
	} else {
		products, err = h.productUseCase.ListProductsByCategorySlug(ctx, categorySlug)
	}
	if err != nil {
		h.log.Warnf("gRPC Handler: ListProducts use case error for category %q: %v", categorySlug, err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}

	items := make([]any, 0, len(products))
	for i := range products {
		items = append(items, productFields(&products[i]))
	}
	return h.toList("ListProducts", items)
}

func (h *CatalogHandler) GetProductBySlug(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	productSlug := strings.TrimSpace(req.GetValue())
	h.log.Infof("gRPC Handler: Received GetProductBySlug request: Slug=%s", productSlug)
	if productSlug == "" {
		return nil, status.Error(codes.InvalidArgument, "Product slug cannot be empty")
	}

	product, err := h.productUseCase.GetProductBySlug(ctx, productSlug)
	if err != nil {
		h.log.Warnf("gRPC Handler: GetProductBySlug use case error for slug %s: %v", productSlug, err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}

	out, err := structpb.NewStruct(productFields(product))
	if err != nil {
		h.log.Errorf("gRPC Handler: Failed to encode product %d: %v", product.ID, err)
		return nil, status.Error(codes.Internal, "Internal server error")
	}
	return out, nil
}

func (h *CatalogHandler) toList(method string, items []any) (*structpb.ListValue, error) {
	out, err := structpb.NewList(items)
	if err != nil {
		h.log.Errorf("gRPC Handler: Failed to encode %s response: %v", method, err)
		return nil, status.Error(codes.Internal, "Internal server error")
	}
	h.log.Infof("gRPC Handler: %s returned %d items", method, len(items))
	return out, nil
}

func mapDomainErrorToGrpcStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidParent),
		errors.Is(err, domain.ErrInvalidOperation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Errorf(codes.Internal, "Internal server error: %v", err)
	}
}
