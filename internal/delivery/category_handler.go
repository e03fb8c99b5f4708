package delivery

import (
	"fmt"
	"net/http"
	"strconv"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CategoryHandler struct {
	useCase usecase.CategoryUseCase
	log     *logrus.Logger
}

func NewCategoryHandler(uc usecase.CategoryUseCase, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		useCase: uc,
		log:     logger,
	}
}

type categoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int   `json:"parent_id"`
}

func (h *CategoryHandler) RegisterRoutes(router gin.IRouter, authenticated gin.HandlerFunc) {
	categories := router.Group("/category")
	{
		categories.GET("/all_categories", h.ListCategories)
		categories.POST("/create", authenticated, h.CreateCategory)
		categories.PUT("/update_category/:category_id", authenticated, h.UpdateCategory)
		categories.DELETE("/delete", authenticated, h.DeactivateCategory)
	}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.ListActiveCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "list categories", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", categories)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for create category: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.useCase.CreateCategory(c.Request.Context(), identityFrom(c), req.Name, req.ParentID)
	if err != nil {
		respondError(c, h.log, "create category", err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Category created successfully", category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("category_id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for update category %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.useCase.UpdateCategory(c.Request.Context(), identityFrom(c), id, req.Name, req.ParentID)
	if err != nil {
		respondError(c, h.log, fmt.Sprintf("update category %d", id), err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Category update is successful", category)
}

func (h *CategoryHandler) DeactivateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("category_id"))
	if err != nil {
		respondError(c, h.log, "deactivate category", fmt.Errorf("%w: invalid category ID", domain.ErrInvalidInput))
		return
	}
	if err := h.useCase.DeactivateCategory(c.Request.Context(), identityFrom(c), id); err != nil {
		respondError(c, h.log, fmt.Sprintf("deactivate category %d", id), err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Category delete is successful", nil)
}
