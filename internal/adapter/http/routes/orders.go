package routes

import (
	"restaurant_payments/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathOrders = "/orders"
)

func addOrderRoutes(rg *gin.RouterGroup, orderHandler *handlers.OrderHandler, paymentHandler *handlers.PaymentHandler) {
	orders := rg.Group(PathOrders)
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
	}

	{
		orders.POST("/:id/payments", paymentHandler.CreatePayment)
		orders.GET("/:id/payments", paymentHandler.ListPayments)
		orders.GET("/:id/payments/:payment_id", paymentHandler.GetPayment)
		orders.POST("/:id/payments/:payment_id/refund", paymentHandler.RefundPayment)
		orders.POST("/:id/validate-payment", paymentHandler.ValidatePayment)
		orders.POST("/:id/split-payment", paymentHandler.SplitPayment)
		orders.GET("/:id/payment-summary", paymentHandler.GetPaymentSummary)
	}
}
