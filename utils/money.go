package utils

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyFormatter renders an amount given in minor units (cents)
type MoneyFormatter interface {
	FormatMoney(minorUnits int64) string
}

// DefaultCurrencySymbol prefixes fallback-formatted amounts
const DefaultCurrencySymbol = "$"

// NewMoneyFormatter returns the storefront formatter for a currency code and
// symbol, or nil when amounts should use the default fallback format
func NewMoneyFormatter(currency, symbol string) MoneyFormatter {
	switch strings.ToUpper(strings.TrimSpace(currency)) {
	case "COP":
		return COPFormatter{}
	}
	if symbol != "" && symbol != DefaultCurrencySymbol {
		return FallbackFormatter{Symbol: symbol}
	}
	return nil
}

// FormatMoney delegates to f when present and falls back to FormatMinorUnits
// with the default symbol otherwise
func FormatMoney(f MoneyFormatter, minorUnits int64) string {
	if f != nil {
		return f.FormatMoney(minorUnits)
	}
	return FormatMinorUnits(DefaultCurrencySymbol, minorUnits)
}

// FallbackFormatter renders amounts with a fixed symbol and two decimals
type FallbackFormatter struct {
	Symbol string
}

func (f FallbackFormatter) FormatMoney(minorUnits int64) string {
	return FormatMinorUnits(f.Symbol, minorUnits)
}

// FormatMinorUnits formats minor units as symbol + units with two decimals, e.g. "$65.00"
func FormatMinorUnits(symbol string, minorUnits int64) string {
	amount := decimal.New(minorUnits, -2)
	if amount.IsNegative() {
		return "-" + symbol + amount.Neg().StringFixed(2)
	}
	return symbol + amount.StringFixed(2)
}

// COPFormatter renders Colombian peso amounts without decimals, e.g. "$12.500".
// Centavos are not shown, so amounts round half away from zero to whole pesos.
type COPFormatter struct{}

func (COPFormatter) FormatMoney(minorUnits int64) string {
	return FormatCOP(decimal.New(minorUnits, -2).Round(0).IntPart())
}

// FormatCOP formats an integer amount (in COP) as a string like "$12.500".
// Uses dot as thousands separator (common in Colombia).
func FormatCOP(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	if len(s) <= 3 {
		if neg {
			return "-$" + s
		}
		return "$" + s
	}

	var b strings.Builder
	// Pre-allocate: digits + separators + $
	b.Grow(len(s) + len(s)/3 + 2)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}

	return b.String()
}
