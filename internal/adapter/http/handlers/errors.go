package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"restaurant_payments/internal/domain/money"
	"restaurant_payments/internal/domain/reconciliation"
	"restaurant_payments/internal/usecase"
	"restaurant_payments/internal/usecase/interfaces"
	"restaurant_payments/pkg"

	"github.com/gin-gonic/gin"
)

// retryAfterSeconds is sent with transient errors.
const retryAfterSeconds = 1

var errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)

func mapReconciliationError(err error) *pkg.AppError {
	var mismatch *reconciliation.SplitMismatchError
	switch {
	case errors.As(err, &mismatch):
		return pkg.NewDomainError("SPLIT_MISMATCH",
			fmt.Sprintf("Split amounts sum to %s but the amount to split is %s (difference %s)", mismatch.Sum, mismatch.Total, mismatch.Difference),
			err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidAmount), errors.Is(err, money.ErrInvalidAmount), errors.Is(err, usecase.ErrInvalidOrderTotal):
		return pkg.NewDomainError("INVALID_AMOUNT", "Amount must be a positive value with at most two decimals", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidSplitCount):
		return pkg.NewDomainError("INVALID_SPLIT_COUNT", fmt.Sprintf("Split needs between 1 and %d shares of at least 0.01", reconciliation.MaxSplitShares), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidPaymentMethod):
		return pkg.NewDomainErrorSimple("INVALID_PAYMENT_METHOD", "payment_method must be cash, card or digital_wallet", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidSplitType):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "split_type must be equal or custom", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidOrderStatus):
		return pkg.NewDomainErrorSimple("INVALID_ORDER_STATUS", "Unknown order status", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidOrderID), errors.Is(err, usecase.ErrInvalidPaymentID):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrOrderAlreadyPaid):
		return pkg.NewDomainErrorSimple("ORDER_ALREADY_PAID", "Order is already fully paid", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrPaymentNotConfirmed):
		return pkg.NewDomainError("PAYMENT_NOT_CONFIRMED", "Payment could not be confirmed with the provider", err, http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrOrderCancelled):
		return pkg.NewDomainErrorSimple("ORDER_CANCELLED", "Order is cancelled", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentNotRefundable):
		return pkg.NewDomainError("PAYMENT_NOT_REFUNDABLE", "Only completed payments can be refunded", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidStatusTransition):
		return pkg.NewDomainErrorSimple("INVALID_STATUS_TRANSITION", "Order status transition not allowed", http.StatusConflict)
	case errors.Is(err, interfaces.ErrOrderLockTimeout):
		return pkg.NewTransientError("ORDER_LOCK_TIMEOUT", "Order is busy, retry shortly", err, http.StatusServiceUnavailable)
	case errors.Is(err, interfaces.ErrConcurrentModification):
		return pkg.NewTransientError("CONCURRENT_MODIFICATION", "Order changed concurrently, retry shortly", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

// mapBindError keeps unparseable amounts distinguishable from other bad bodies.
func mapBindError(err error) *pkg.AppError {
	if errors.Is(err, money.ErrInvalidAmount) {
		return mapReconciliationError(err)
	}
	return errInvalidRequest
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	if appErr.Retryable {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
