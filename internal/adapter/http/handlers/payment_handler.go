package handlers

import (
	"log"
	"net/http"

	request "restaurant_payments/internal/adapter/http/dto/request"
	response "restaurant_payments/internal/adapter/http/dto/response"
	"restaurant_payments/internal/usecase"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes the reconciliation engine over HTTP.

type PaymentHandler struct {
	usecase usecase.IReconciliationUseCase
}

func NewPaymentHandler(uc usecase.IReconciliationUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// CreatePayment godoc
// @Summary      Record a payment against an order
// @Description  Validates and records the payment and updates the order's payment status atomically. A repeated transaction_id returns the original payment with 200.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Order ID"
// @Param        payment  body      request.CreatePaymentRequest    true  "Payment"
// @Success      201      {object}  response.PaymentResultResponse
// @Success      200      {object}  response.PaymentResultResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      404      {object}  pkg.HTTPError
// @Failure      409      {object}  pkg.HTTPError
// @Failure      422      {object}  pkg.HTTPError
// @Failure      503      {object}  pkg.HTTPError
// @Router       /orders/{id}/payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	orderID := c.Param("id")
	log.Printf("[reconcile][handler] create payment start order_id=%s", orderID)

	var payload request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[reconcile][handler] invalid payload order_id=%s err=%v", orderID, err)
		writeError(c, mapBindError(err))
		return
	}

	result, err := h.usecase.SubmitPayment(c.Request.Context(), usecase.SubmitPaymentCommand{
		OrderID:           orderID,
		Amount:            payload.Amount,
		Method:            payload.Method(),
		ExternalReference: payload.TransactionID,
		Details:           payload.PaymentDetails,
	})
	if err != nil {
		log.Printf("[reconcile][handler] create payment failed order_id=%s err=%v", orderID, err)
		writeError(c, mapReconciliationError(err))
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	log.Printf("[reconcile][handler] create payment success order_id=%s payment_id=%s duplicate=%t", orderID, result.Payment.ID, result.Duplicate)
	c.JSON(status, response.FromPaymentResult(result))
}

// ListPayments godoc
// @Summary      List an order's payments
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {array}   response.PaymentResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /orders/{id}/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	orderID := c.Param("id")

	payments, err := h.usecase.ListPayments(c.Request.Context(), orderID)
	if err != nil {
		log.Printf("[reconcile][handler] list payments failed order_id=%s err=%v", orderID, err)
		writeError(c, mapReconciliationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPayments(payments))
}

// GetPayment godoc
// @Summary      Get one payment of an order
// @Tags         payments
// @Produce      json
// @Param        id          path      string  true  "Order ID"
// @Param        payment_id  path      string  true  "Payment ID"
// @Success      200         {object}  response.PaymentResponse
// @Failure      404         {object}  pkg.HTTPError
// @Router       /orders/{id}/payments/{payment_id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	orderID, paymentID := c.Param("id"), c.Param("payment_id")

	p, err := h.usecase.GetPayment(c.Request.Context(), orderID, paymentID)
	if err != nil {
		writeError(c, mapReconciliationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(p))
}

// RefundPayment godoc
// @Summary      Refund a completed payment
// @Description  Marks the payment refunded and re-derives the order's payment status.
// @Tags         payments
// @Produce      json
// @Param        id          path      string  true  "Order ID"
// @Param        payment_id  path      string  true  "Payment ID"
// @Success      200         {object}  response.PaymentResultResponse
// @Failure      404         {object}  pkg.HTTPError
// @Failure      409         {object}  pkg.HTTPError
// @Failure      503         {object}  pkg.HTTPError
// @Router       /orders/{id}/payments/{payment_id}/refund [post]
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	orderID, paymentID := c.Param("id"), c.Param("payment_id")
	log.Printf("[reconcile][handler] refund start order_id=%s payment_id=%s", orderID, paymentID)

	result, err := h.usecase.RefundPayment(c.Request.Context(), orderID, paymentID)
	if err != nil {
		log.Printf("[reconcile][handler] refund failed order_id=%s payment_id=%s err=%v", orderID, paymentID, err)
		writeError(c, mapReconciliationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentResult(result))
}

// ValidatePayment godoc
// @Summary      Dry-run a payment amount
// @Description  Advisory check against the current ledger. Overpayment is a warning, a settled order is an error.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Order ID"
// @Param        payment  body      request.ValidatePaymentRequest  true  "Candidate amount"
// @Success      200      {object}  response.ValidationResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      404      {object}  pkg.HTTPError
// @Router       /orders/{id}/validate-payment [post]
func (h *PaymentHandler) ValidatePayment(c *gin.Context) {
	orderID := c.Param("id")

	var payload request.ValidatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, mapBindError(err))
		return
	}

	result, err := h.usecase.ValidatePayment(c.Request.Context(), orderID, payload.Amount)
	if err != nil {
		writeError(c, mapReconciliationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromValidation(result))
}

// SplitPayment godoc
// @Summary      Split the remaining balance into several payments
// @Description  equal divides the remaining amount among number_of_payers with the rounding remainder on the last share; custom takes split_amounts that must add up to the remaining amount. All shares are recorded in one atomic step.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id     path      string                       true  "Order ID"
// @Param        split  body      request.SplitPaymentRequest  true  "Split"
// @Success      201    {object}  response.SplitPaymentResponse
// @Failure      400    {object}  pkg.HTTPError
// @Failure      404    {object}  pkg.HTTPError
// @Failure      422    {object}  pkg.HTTPError
// @Failure      503    {object}  pkg.HTTPError
// @Router       /orders/{id}/split-payment [post]
func (h *PaymentHandler) SplitPayment(c *gin.Context) {
	orderID := c.Param("id")
	log.Printf("[reconcile][handler] split start order_id=%s", orderID)

	var payload request.SplitPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[reconcile][handler] invalid split payload order_id=%s err=%v", orderID, err)
		writeError(c, mapBindError(err))
		return
	}

	result, err := h.usecase.SplitPayment(c.Request.Context(), usecase.SplitPaymentCommand{
		OrderID:        orderID,
		SplitType:      usecase.SplitType(payload.Type()),
		NumberOfPayers: payload.NumberOfPayers,
		SplitAmounts:   payload.SplitAmounts,
		Method:         payload.Method(),
		Details:        payload.PaymentDetails,
	})
	if err != nil {
		log.Printf("[reconcile][handler] split failed order_id=%s err=%v", orderID, err)
		writeError(c, mapReconciliationError(err))
		return
	}
	log.Printf("[reconcile][handler] split success order_id=%s payments=%d", orderID, len(result.Payments))
	c.JSON(http.StatusCreated, response.FromSplitResult(result))
}

// GetPaymentSummary godoc
// @Summary      Payment summary of an order
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.PaymentSummaryResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /orders/{id}/payment-summary [get]
func (h *PaymentHandler) GetPaymentSummary(c *gin.Context) {
	orderID := c.Param("id")

	summary, err := h.usecase.GetPaymentSummary(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, mapReconciliationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromSummary(summary))
}
