package models

import (
	"errors"
	"fmt"
	"strings"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// DecimalScale is the number of fractional digits every credit column carries.
const DecimalScale = 5

var ErrInvalidDecimal = errors.New("invalid decimal")

// Decimal is a nullable fixed-point number rounded to DecimalScale places.
// The zero value is NULL.
type Decimal struct {
	v decimal.NullDecimal
}

// NewDecimal rounds d half away from zero to DecimalScale places.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{v: decimal.NullDecimal{Decimal: d.Round(DecimalScale), Valid: true}}
}

// DecimalFromInt builds a whole-number decimal.
func DecimalFromInt(i int64) Decimal {
	return NewDecimal(decimal.NewFromInt(i))
}

// ParseDecimal parses a plain decimal string such as "19", "-0.5" or "3.17".
// Exponent notation is rejected.
func ParseDecimal(s string) (Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Decimal{}, fmt.Errorf("%w: empty string", ErrInvalidDecimal)
	}
	if strings.ContainsAny(s, "eE") {
		return Decimal{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	return NewDecimal(d), nil
}

// MustDecimal is ParseDecimal for literals known to be valid.
func MustDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Valid reports whether the value is non-NULL.
func (d Decimal) Valid() bool { return d.v.Valid }

// IsPositive is false for NULL.
func (d Decimal) IsPositive() bool { return d.v.Valid && d.v.Decimal.IsPositive() }

// Add treats NULL operands as zero and always yields a valid result.
func (d Decimal) Add(o Decimal) Decimal {
	return NewDecimal(d.v.Decimal.Add(o.v.Decimal))
}

// Equal compares value and nullness.
func (d Decimal) Equal(o Decimal) bool {
	return d.v.Valid == o.v.Valid && d.v.Decimal.Equal(o.v.Decimal)
}

// String renders the canonical form: trailing zeros trimmed, at least one
// fractional digit. NULL renders as the empty string.
func (d Decimal) String() string {
	if !d.v.Valid {
		return ""
	}
	s := d.v.Decimal.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Quo divides d by o and rounds half away from zero to places fractional
// digits. Division by zero (or NULL) yields zero.
func (d Decimal) Quo(o Decimal, places int) Decimal {
	if !o.v.Valid || o.v.Decimal.IsZero() {
		return DecimalFromInt(0)
	}
	places = min(places, DecimalScale)
	return NewDecimal(d.v.Decimal.DivRound(o.v.Decimal, int32(places)))
}

// ScanNumeric lets pgx scan numeric columns straight into a Decimal.
func (d *Decimal) ScanNumeric(v pgtype.Numeric) error {
	if v.Valid && (v.NaN || v.InfinityModifier != pgtype.Finite) {
		return fmt.Errorf("%w: non-finite numeric", ErrInvalidDecimal)
	}
	var nd pgxdecimal.NullDecimal
	if err := nd.ScanNumeric(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDecimal, err)
	}
	if !nd.Valid {
		*d = Decimal{}
		return nil
	}
	*d = NewDecimal(nd.Decimal)
	return nil
}

// NumericValue lets pgx encode a Decimal as a query argument.
func (d Decimal) NumericValue() (pgtype.Numeric, error) {
	if !d.v.Valid {
		return pgtype.Numeric{}, nil
	}
	return pgxdecimal.Decimal(d.v.Decimal).NumericValue()
}
