package pdp

import (
	"strconv"
	"strings"

	"stockwatch/lib/jsontree"
)

// moneyFields converts a commercetools-style money object
// {centAmount, fractionDigits, currencyCode} into a decimal price
// string and currency code. Either return may be empty when the
// corresponding field is missing or malformed.
func moneyFields(value jsontree.Value) (price string, currency string) {
	if c, ok := value.Get("currencyCode"); ok {
		currency = c.Str()
	}

	cent, ok := value.Get("centAmount")
	if !ok {
		return price, currency
	}
	num, ok := cent.Number()
	if !ok {
		return price, currency
	}
	amount, err := num.Int64()
	if err != nil {
		return price, currency
	}

	digits := int64(2)
	if fd, ok := value.Get("fractionDigits"); ok {
		if n, ok := fd.Number(); ok {
			if d, err := n.Int64(); err == nil && d >= 0 && d <= 12 {
				digits = d
			}
		}
	}

	return FormatMinorUnits(amount, int(digits)), currency
}

// FormatMinorUnits renders an integer amount of minor units as a
// decimal string with exactly digits fractional places, so
// (129900, 2) becomes "1299.00". Integer math avoids the rounding
// drift a float division would introduce.
func FormatMinorUnits(amount int64, digits int) string {
	// magnitude as uint64 so MinInt64 negates cleanly
	sign := ""
	magnitude := uint64(amount)
	if amount < 0 {
		sign = "-"
		magnitude = -magnitude
	}
	s := strconv.FormatUint(magnitude, 10)
	if digits <= 0 {
		return sign + s
	}
	if len(s) <= digits {
		s = strings.Repeat("0", digits-len(s)+1) + s
	}
	cut := len(s) - digits
	return sign + s[:cut] + "." + s[cut:]
}
