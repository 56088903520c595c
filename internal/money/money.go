// Package money converts monetary amounts to integer minor units and back.
//
// All amounts are persisted as minor units (1/100 of the display unit).
// Decimal values only exist at the boundaries of the application.
package money

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MinorUnits is an amount in 1/100 of the display unit.
type MinorUnits int64

// Decimal returns the amount in display units.
func (m MinorUnits) Decimal() decimal.Decimal {
	return FromMinorUnits(m)
}

func (m MinorUnits) String() string {
	return m.Decimal().StringFixed(2)
}

// Scan writes the value from the database.
func (m *MinorUnits) Scan(value interface{}) error {
	var n sql.NullInt64
	if err := n.Scan(value); err != nil {
		return fmt.Errorf("scanning minor units: %w", err)
	}

	*m = MinorUnits(n.Int64)
	return nil
}

// Value returns the value for the SQL driver to write to the database.
func (m MinorUnits) Value() (driver.Value, error) {
	return int64(m), nil
}

// GormDataType defines the data type used by gorm the type.
func (MinorUnits) GormDataType() string {
	return "integer"
}

// Codec renders amounts with a locale specific printer to decide
// which minor unit candidate represents an amount.
type Codec struct {
	printer *message.Printer
}

// NewCodec returns a Codec that formats amounts for the given language.
func NewCodec(tag language.Tag) Codec {
	return Codec{printer: message.NewPrinter(tag)}
}

var defaultCodec = NewCodec(language.English)

// ToMinorUnits converts an amount to minor units using the English codec.
func ToMinorUnits(amount decimal.Decimal) MinorUnits {
	return defaultCodec.ToMinorUnits(amount)
}

// FromMinorUnits converts minor units to an amount.
func FromMinorUnits(m MinorUnits) decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// FromNullable converts a nullable stored value. NULL decodes to zero.
func FromNullable(n sql.NullInt64) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	return FromMinorUnits(MinorUnits(n.Int64))
}

// ToMinorUnits converts amount to minor units.
//
// The candidates ceil(x*100), trunc(x)*100 and floor(x*100) are tried in
// that order. The first one that renders to the same display string as
// the amount itself wins. If none does, the floor candidate is returned.
func (c Codec) ToMinorUnits(amount decimal.Decimal) MinorUnits {
	canonical := c.Format(amount)
	scaled := amount.Shift(2)

	floor := MinorUnits(scaled.Floor().IntPart())
	candidates := []MinorUnits{
		MinorUnits(scaled.Ceil().IntPart()),
		MinorUnits(amount.Truncate(0).Shift(2).IntPart()),
		floor,
	}

	for _, candidate := range candidates {
		if c.Format(FromMinorUnits(candidate)) == canonical {
			return candidate
		}
	}

	return floor
}

// Format renders an amount with two fraction digits.
//
// The amount is rounded half to even on the exact decimal before it is
// localized, so the printer never sees more than two fraction digits.
func (c Codec) Format(amount decimal.Decimal) string {
	rounded := amount.RoundBank(2)
	return c.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(2)))
}
