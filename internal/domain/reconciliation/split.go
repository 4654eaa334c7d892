package reconciliation

import (
	"errors"
	"fmt"
	"math"

	"restaurant_payments/internal/domain/money"
)

// MaxSplitShares bounds one split so all shares fit a single storage
// transaction together with the order update.
const MaxSplitShares = 50

var (
	ErrInvalidSplitCount = money.ErrInvalidSplitCount
	ErrSplitMismatch     = errors.New("split amounts do not match total")
)

// overflowSum stands in for a share sum too large for int64.
const overflowSum = money.Money(math.MaxInt64)

// SplitMismatchError reports how far custom shares are from the total.
// Difference is sum(shares) - total; both saturate at overflowSum.
type SplitMismatchError struct {
	Total      money.Money
	Sum        money.Money
	Difference money.Money
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("split amounts sum to %s but total is %s (difference %s)", e.Sum, e.Total, e.Difference)
}

func (e *SplitMismatchError) Unwrap() error {
	return ErrSplitMismatch
}

// EqualSplit divides total among n payers; the last payer absorbs the
// rounding remainder.
func EqualSplit(total money.Money, n int) ([]money.Money, error) {
	if n < 1 || n > MaxSplitShares {
		return nil, fmt.Errorf("%w: %d payers (allowed 1..%d)", ErrInvalidSplitCount, n, MaxSplitShares)
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: nothing to split", ErrInvalidAmount)
	}
	if total.Cents() < int64(n) {
		return nil, fmt.Errorf("%w: %d payers cannot share %s", ErrInvalidSplitCount, n, total)
	}
	return total.Split(n)
}

// CustomSplit accepts caller-supplied shares when every share is positive
// and they add up to total.
func CustomSplit(total money.Money, amounts []money.Money) ([]money.Money, error) {
	if len(amounts) == 0 || len(amounts) > MaxSplitShares {
		return nil, fmt.Errorf("%w: %d shares (allowed 1..%d)", ErrInvalidSplitCount, len(amounts), MaxSplitShares)
	}
	for i, a := range amounts {
		if !a.IsPositive() {
			return nil, fmt.Errorf("%w: share %d is %s", ErrInvalidAmount, i+1, a)
		}
	}

	sum, ok := money.SumChecked(amounts...)
	if !ok {
		return nil, &SplitMismatchError{Total: total, Sum: overflowSum, Difference: overflowSum}
	}
	if diff := sum.Sub(total); diff.Abs() > money.Tolerance {
		return nil, &SplitMismatchError{Total: total, Sum: sum, Difference: diff}
	}

	out := make([]money.Money, len(amounts))
	copy(out, amounts)
	return out, nil
}
