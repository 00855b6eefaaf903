package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount 金额字符串无法解析
var ErrInvalidAmount = errors.New("invalid amount")

// Format 金额展示格式（千分位、小数点、小数位数）
type Format struct {
	ThousandSep string
	DecimalSep  string
	Decimals    int32
}

// DefaultFormat 智利比索展示格式：无小数，"." 作千分位
var DefaultFormat = Format{
	ThousandSep: ".",
	DecimalSep:  ",",
	Decimals:    0,
}

// Normalize 补齐缺省字段
func (f Format) Normalize() Format {
	if f.DecimalSep == "" {
		f.DecimalSep = ","
		if f.ThousandSep == "," {
			f.DecimalSep = "."
		}
	}
	if f.Decimals < 0 {
		f.Decimals = 0
	}
	return f
}

// ParseDisplay 解析展示价格，例如 "8.900" -> 8900
func ParseDisplay(raw string, f Format) (decimal.Decimal, error) {
	f = f.Normalize()
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if f.ThousandSep != "" {
		s = strings.ReplaceAll(s, f.ThousandSep, "")
	}
	if f.DecimalSep != "." {
		s = strings.Replace(s, f.DecimalSep, ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return d, nil
}

// FormatDisplay 按展示格式输出金额，例如 20900 -> "20.900"
func FormatDisplay(amount decimal.Decimal, f Format) string {
	f = f.Normalize()
	rounded := amount.Round(f.Decimals)
	negative := rounded.IsNegative()
	fixed := rounded.Abs().StringFixed(f.Decimals)

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	out := groupDigits(intPart, f.ThousandSep)
	if fracPart != "" {
		out += f.DecimalSep + fracPart
	}
	if negative {
		return "-" + out
	}
	return out
}

// FromMinorUnits Store API 金额为最小货币单位字符串，需除以 10^minorUnit
func FromMinorUnits(amount string, minorUnit int) (decimal.Decimal, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if minorUnit > 0 {
		d = d.Shift(-int32(minorUnit))
	}
	return d, nil
}

// FormatMinorUnits 最小货币单位 -> 展示字符串
func FormatMinorUnits(amount string, minorUnit int, f Format) (string, error) {
	d, err := FromMinorUnits(amount, minorUnit)
	if err != nil {
		return "", err
	}
	return FormatDisplay(d, f), nil
}

func groupDigits(digits string, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
