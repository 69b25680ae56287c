package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents (AUD).
type Money int64

// MaxAmount is the largest amount accepted from input. It keeps cart sums far
// from int64 overflow.
const MaxAmount Money = 10_000_000_000 * 100

// Dollars builds a Money from whole currency units.
func Dollars(units int64) Money {
	return Money(units * 100)
}

// ParseAmount parses a free-text amount as typed into a form. Blank input is
// absent and yields nil; anything else must be a finite number.
func ParseAmount(raw string) (*Money, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}
	m, err := fromFloat(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, raw)
	}
	return &m, nil
}

// MulRate multiplies by a rate, rounding half away from zero to the cent.
func (m Money) MulRate(rate float64) Money {
	return Money(math.Round(float64(m) * rate))
}

// String formats the amount the way the storefront shows it, e.g. $1,234.50.
func (m Money) String() string {
	cents := int64(m)
	var b strings.Builder
	if cents < 0 {
		b.WriteByte('-')
		cents = -cents
	}
	b.WriteByte('$')
	digits := strconv.FormatInt(cents/100, 10)
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	fmt.Fprintf(&b, ".%02d", cents%100)
	return b.String()
}

// Decimal renders the amount as a plain two-decimal number, e.g. 1234.50.
func (m Money) Decimal() string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	v, err := fromFloat(f)
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(data))
	}
	*m = v
	return nil
}

// fromFloat converts dollars to cents. The bound is checked on the float so
// the conversion cannot wrap.
func fromFloat(dollars float64) (Money, error) {
	if math.IsNaN(dollars) || math.Abs(dollars) > float64(MaxAmount/100) {
		return 0, fmt.Errorf("%w: amount must not exceed %s", ErrInvalidAmount, MaxAmount)
	}
	return Money(math.Round(dollars * 100)), nil
}

// FormNumber is a numeric form field kept as typed. JSON clients may send it
// either as a number or as a string; blank means "not provided".
type FormNumber string

func (n *FormNumber) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*n = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	*n = FormNumber(s)
	return nil
}

// Amount parses the field, see ParseAmount.
func (n FormNumber) Amount() (*Money, error) {
	return ParseAmount(string(n))
}

func moneyPtr(m Money) *Money {
	return &m
}
