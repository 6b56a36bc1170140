// Package money implements integer-cent currency arithmetic for the
// round-up ledger. All amounts are carried as Cents; floats appear only
// at the display boundary.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Cents is a currency amount in hundredths of a dollar.
type Cents int64

var ErrInvalidAmount = errors.New("invalid amount")

// Dollars returns the dollar value as a float64 for display purposes.
// Use Cents for calculations to avoid floating-point precision issues.
func (c Cents) Dollars() float64 {
	return float64(c) / 100.0
}

// String formats the amount as a plain decimal, e.g. "12.07".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Accepts both dot and comma
// separators. Negative and zero amounts are rejected.
func ParseDecimalToCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return Cents(cents), nil
}

// RoundedUp returns the amount rounded up to the next whole dollar.
// Whole-dollar amounts round to themselves.
func RoundedUp(amount Cents) Cents {
	if amount <= 0 {
		return 0
	}
	if rem := amount % 100; rem != 0 {
		return amount + (100 - rem)
	}
	return amount
}

// Roundup returns the spare change between the amount and the next whole
// dollar. The result is always in [0, 100) cents: zero for whole-dollar
// purchases, never negative.
func Roundup(amount Cents) Cents {
	if amount <= 0 {
		return 0
	}
	return RoundedUp(amount) - amount
}
