package delivery

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	useCase        usecase.ProductUseCase
	maxUploadBytes int64
	log            *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, maxUploadBytes int64, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase:        uc,
		maxUploadBytes: maxUploadBytes,
		log:            logger,
	}
}

type productForm struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
	Price       int64  `form:"price" binding:"required"`
	Category    int    `form:"category" binding:"required"`
}

func (f productForm) fields() domain.ProductFields {
	return domain.ProductFields{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		CategoryID:  f.Category,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter, authenticated gin.HandlerFunc) {
	products := router.Group("/products")
	{
		products.GET("/", h.ListProducts)
		products.GET("/:category_slug", h.ListProductsByCategory)
		products.GET("/detail/:product_slug", h.GetProduct)
		products.POST("/create", authenticated, h.CreateProduct)
		products.PUT("/detail/:product_slug", authenticated, h.UpdateProduct)
		products.DELETE("/delete/:product_id", authenticated, h.DeactivateProduct)
	}
	router.GET("/static/:name", h.ServeImage)
	router.GET("/admin/products/export", authenticated, h.ExportProducts)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.useCase.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "list products", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", products)
}

func (h *ProductHandler) ListProductsByCategory(c *gin.Context) {
	slug := c.Param("category_slug")
	products, err := h.useCase.ListProductsByCategorySlug(c.Request.Context(), slug)
	if err != nil {
		respondError(c, h.log, fmt.Sprintf("list products of category '%s'", slug), err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	slug := c.Param("product_slug")
	product, err := h.useCase.GetProductBySlug(c.Request.Context(), slug)
	if err != nil {
		respondError(c, h.log, fmt.Sprintf("get product '%s'", slug), err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warnf("Handler: Failed to bind form for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	image, err := h.readImage(c)
	if err != nil {
		respondError(c, h.log, "create product", err)
		return
	}

	product, err := h.useCase.CreateProduct(c.Request.Context(), identityFrom(c), form.fields(), image)
	if err != nil {
		respondError(c, h.log, "create product", err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	slug := c.Param("product_slug")
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warnf("Handler: Failed to bind form for update product '%s': %v", slug, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	image, err := h.readImage(c)
	if err != nil {
		respondError(c, h.log, "update product", err)
		return
	}

	product, err := h.useCase.UpdateProduct(c.Request.Context(), identityFrom(c), slug, form.fields(), image)
	if err != nil {
		respondError(c, h.log, fmt.Sprintf("update product '%s'", slug), err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product update is successful", product)
}

func (h *ProductHandler) DeactivateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("product_id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID")
		return
	}
	if err := h.useCase.DeactivateProduct(c.Request.Context(), identityFrom(c), id); err != nil {
		respondError(c, h.log, fmt.Sprintf("deactivate product %d", id), err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product delete is successful", nil)
}

func (h *ProductHandler) ServeImage(c *gin.Context) {
	data, err := h.useCase.GetImage(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, h.log, "serve image", err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}

// readImage returns the uploaded "file" part, or nil when the request carries
// none.
func (h *ProductHandler) readImage(c *gin.Context) (*domain.Image, error) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: could not read uploaded file: %v", domain.ErrInvalidInput, err)
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidInput, h.maxUploadBytes)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("could not read uploaded file: %w", err)
	}
	return &domain.Image{Data: data, Filename: header.Filename}, nil
}
