package handlers

import (
	"log"
	"net/http"

	request "restaurant_payments/internal/adapter/http/dto/request"
	response "restaurant_payments/internal/adapter/http/dto/response"
	"restaurant_payments/internal/usecase"

	"github.com/gin-gonic/gin"
)

// OrderHandler serves the order endpoints used by the order-taking and
// kitchen collaborators.

type OrderHandler struct {
	usecase usecase.IOrderUseCase
}

func NewOrderHandler(uc usecase.IOrderUseCase) *OrderHandler {
	return &OrderHandler{usecase: uc}
}

// CreateOrder godoc
// @Summary      Create an order with a fixed total
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      request.CreateOrderRequest  true  "Order"
// @Success      201    {object}  response.OrderResponse
// @Failure      400    {object}  pkg.HTTPError
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var payload request.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, mapBindError(err))
		return
	}

	o, err := h.usecase.CreateOrder(c.Request.Context(), payload.TotalAmount, payload.OrderStatus())
	if err != nil {
		log.Printf("[order][handler] create failed err=%v", err)
		writeError(c, mapReconciliationError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromOrder(o))
}

// GetOrder godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.OrderResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapReconciliationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(o))
}

// UpdateOrderStatus godoc
// @Summary      Move an order through the kitchen workflow
// @Description  completed and cancelled are terminal. A paid order moved to served is completed at once.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path      string                            true  "Order ID"
// @Param        status  body      request.UpdateOrderStatusRequest  true  "New status"
// @Success      200     {object}  response.OrderResponse
// @Failure      400     {object}  pkg.HTTPError
// @Failure      404     {object}  pkg.HTTPError
// @Failure      409     {object}  pkg.HTTPError
// @Failure      503     {object}  pkg.HTTPError
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var payload request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	o, err := h.usecase.UpdateStatus(c.Request.Context(), orderID, payload.OrderStatus())
	if err != nil {
		log.Printf("[order][handler] status update failed order_id=%s err=%v", orderID, err)
		writeError(c, mapReconciliationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(o))
}
