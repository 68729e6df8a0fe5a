package money

import (
	"errors"
	"fmt"
	"math"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var ErrOverflow = errors.New("amount out of range")

var maxMinor = decimal.NewFromInt(math.MaxInt64)

func FormatMinor(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	whole := value / 100
	frac := value % 100
	formatted := fmt.Sprintf("%d.%02d", whole, frac)
	if negative {
		return "-" + formatted
	}
	return formatted
}

// FormatUSD renders cents the way the views show money, e.g. "$9,800.00".
func FormatUSD(value int64) string {
	return gomoney.New(value, gomoney.USD).Display()
}

// MulMinor multiplies a per-unit amount in cents by a quantity. The product is
// exact; ErrOverflow is returned when it does not fit in an int64.
func MulMinor(unitMinor, quantity int64) (int64, error) {
	product := decimal.NewFromInt(unitMinor).Mul(decimal.NewFromInt(quantity))
	if product.Abs().GreaterThan(maxMinor) {
		return 0, ErrOverflow
	}
	return product.IntPart(), nil
}

// AddMinor adds two cent amounts, returning ErrOverflow instead of wrapping.
func AddMinor(a, b int64) (int64, error) {
	sum := decimal.NewFromInt(a).Add(decimal.NewFromInt(b))
	if sum.Abs().GreaterThan(maxMinor) {
		return 0, ErrOverflow
	}
	return sum.IntPart(), nil
}

// DecimalToMinor converts a major-unit decimal (dollars) into cents using
// banker's rounding.
func DecimalToMinor(value decimal.Decimal) (int64, error) {
	minor := value.Shift(2).RoundBank(0)
	if minor.Abs().GreaterThan(maxMinor) {
		return 0, ErrOverflow
	}
	return minor.IntPart(), nil
}

func IsDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
