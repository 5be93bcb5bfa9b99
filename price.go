package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice parses a displayed or machine-readable price such as
// "₺1.250,00", "1,250.00" or "1250.00".
//
// Everything except digits and the separators "." and "," is dropped. The
// last separator is the decimal separator unless exactly three digits
// follow it and no separator of the other kind precedes it; all remaining
// separators group thousands.
// Returns EINVALID if no digits remain.
func ParsePrice(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ".,")
	if cleaned == "" {
		return decimal.Zero, Errorf(EINVALID, "no price in %q", s)
	}

	intPart, fracPart := cleaned, ""
	if i := strings.LastIndexAny(cleaned, ".,"); i >= 0 {
		other := "."
		if cleaned[i] == '.' {
			other = ","
		}
		tail := cleaned[i+1:]
		if len(tail) != 3 || strings.Contains(cleaned[:i], other) {
			intPart, fracPart = cleaned[:i], tail
		}
	}
	intPart = strings.NewReplacer(".", "", ",", "").Replace(intPart)
	if intPart == "" {
		intPart = "0"
	}

	num := intPart
	if fracPart != "" {
		num += "." + fracPart
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, Errorf(EINVALID, "invalid price %q", s)
	}
	return d, nil
}

// NormalizeCurrency maps a currency code or symbol to the stored form.
// The Turkish lira is always stored as "TL"; an empty value defaults to
// DefaultCurrency.
func NormalizeCurrency(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "", "TRY", "TL", "₺", "YTL":
		return DefaultCurrency
	}
	return s
}
