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

type CartHandler struct {
	cart     usecase.CartUseCase
	checkout usecase.CheckoutUseCase
	log      *logrus.Logger
}

func NewCartHandler(cart usecase.CartUseCase, checkout usecase.CheckoutUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		cart:     cart,
		checkout: checkout,
		log:      logger,
	}
}

type cartUpdateRequest struct {
	ProductID int     `json:"product_id" binding:"required"`
	Radius    float64 `json:"radius"`
	Quantity  string  `json:"quantity" binding:"required"`
}

func (h *CartHandler) RegisterRoutes(router gin.IRouter, authenticated gin.HandlerFunc) {
	cart := router.Group("/cart", authenticated)
	{
		cart.POST("/update", h.UpdateCart)
		cart.GET("/get", h.GetCart)
		cart.DELETE("/delete/:product_id/:radius", h.RemoveFromCart)
		cart.POST("/checkout", h.Checkout)
	}
}

func (h *CartHandler) UpdateCart(c *gin.Context) {
	var req cartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for cart update: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	direction, err := domain.ParseDirection(req.Quantity)
	if err != nil {
		respondError(c, h.log, "cart update", fmt.Errorf("%w: quantity must be '+' or '-'", err))
		return
	}

	item, err := h.cart.Adjust(c.Request.Context(), identityFrom(c), req.ProductID, req.Radius, direction)
	if err != nil {
		respondError(c, h.log, "cart update", err)
		return
	}
	if item == nil {
		SuccessResponse(c, http.StatusOK, "Product removed from cart", nil)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart updated successfully", item)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	lines, err := h.cart.List(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, h.log, "get cart", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", lines)
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID")
		return
	}
	radius, err := strconv.ParseFloat(c.Param("radius"), 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid radius")
		return
	}

	if err := h.cart.Remove(c.Request.Context(), identityFrom(c), productID, radius); err != nil {
		respondError(c, h.log, "remove from cart", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product removed from cart", nil)
}

func (h *CartHandler) Checkout(c *gin.Context) {
	summary, err := h.checkout.Checkout(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, h.log, "checkout", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order placed successfully", summary)
}
