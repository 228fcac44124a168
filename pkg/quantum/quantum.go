// Package quantum 把人类可读的金额换算为签名消息中使用的整数 quantum
package quantum

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
)

// Rounding 舍入方式
type Rounding int

const (
	// RoundExact 不允许舍入, 精度超出 resolution 时报错
	RoundExact Rounding = iota
	// RoundDown 向零舍入
	RoundDown
	// RoundUp 远离零舍入
	RoundUp
	// RoundHalfEven 银行家舍入
	RoundHalfEven
)

func (r Rounding) String() string {
	switch r {
	case RoundExact:
		return "exact"
	case RoundDown:
		return "down"
	case RoundUp:
		return "up"
	case RoundHalfEven:
		return "half_even"
	default:
		return "unknown"
	}
}

// ParseRounding 解析舍入方式
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(s) {
	case "", "exact":
		return RoundExact, nil
	case "down":
		return RoundDown, nil
	case "up":
		return RoundUp, nil
	case "half_even", "bank":
		return RoundHalfEven, nil
	default:
		return 0, errors.ErrInvalidRequest.WithField("rounding").WithMessagef("unknown rounding %q", s)
	}
}

// ParseAmount 严格解析十进制金额, 不接受指数形式
func ParseAmount(name, s string) (decimal.Decimal, error) {
	if s == "" || strings.ContainsAny(s, "eE+ \t") {
		return decimal.Zero, errors.ErrInvalidDecimalEncoding.WithField(name).
			WithMessagef("invalid amount %q", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrap(errors.ErrInvalidDecimalEncoding.WithField(name), err)
	}
	return d, nil
}

// ToQuantums 计算 amount × resolution 并按 mode 舍入为 int64
func ToQuantums(name string, amount decimal.Decimal, resolution int64, mode Rounding) (int64, error) {
	b, err := round(name, amount, resolution, mode)
	if err != nil {
		return 0, err
	}
	if !b.IsInt64() {
		return 0, errors.ErrValueOutOfRange.WithField(name).WithMessage("value does not fit in int64")
	}
	return b.Int64(), nil
}

// ToUnsignedQuantums 同 ToQuantums, 但拒绝负数, 结果范围为 uint64 (fee, amount)
func ToUnsignedQuantums(name string, amount decimal.Decimal, resolution int64, mode Rounding) (uint64, error) {
	if amount.IsNegative() {
		return 0, errors.ErrValueOutOfRange.WithField(name).WithMessage("negative amount")
	}
	b, err := round(name, amount, resolution, mode)
	if err != nil {
		return 0, err
	}
	if !b.IsUint64() {
		return 0, errors.ErrValueOutOfRange.WithField(name).WithMessage("value does not fit in uint64")
	}
	return b.Uint64(), nil
}

// round 计算 amount × resolution 并按 mode 取整
func round(name string, amount decimal.Decimal, resolution int64, mode Rounding) (*big.Int, error) {
	if resolution <= 0 {
		return nil, errors.ErrValueOutOfRange.WithField("resolution").WithMessage("resolution must be positive")
	}

	shifted := amount.Mul(decimal.NewFromInt(resolution))
	var rounded decimal.Decimal
	switch mode {
	case RoundExact:
		if !shifted.IsInteger() {
			return nil, errors.ErrValueOutOfRange.WithField(name).
				WithMessagef("%s is not a multiple of 1/%d", amount.String(), resolution)
		}
		rounded = shifted
	case RoundDown:
		rounded = shifted.RoundDown(0)
	case RoundUp:
		rounded = shifted.RoundUp(0)
	case RoundHalfEven:
		rounded = shifted.RoundBank(0)
	default:
		return nil, errors.ErrInvalidRequest.WithField("rounding").WithMessagef("unknown rounding %d", int(mode))
	}
	return rounded.BigInt(), nil
}

// FromQuantums quantum 转回人类可读金额
func FromQuantums(q int64, resolution int64) decimal.Decimal {
	return decimal.NewFromInt(q).Div(decimal.NewFromInt(resolution))
}
