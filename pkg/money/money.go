// Package money parses contract amounts into integer cents so deposit and
// total comparisons never go through floating point.
package money

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ErrOutOfRange is an amount or product that does not fit in Cents.
var ErrOutOfRange = fmt.Errorf("%w: out of range", ErrInvalidAmount)

// maxWhole is the largest whole-unit amount whose cents fit in an int64.
const maxWhole = (math.MaxInt64 - 99) / 100

var reAmount = regexp.MustCompile(`^(-?)(\d+)(?:\.(\d{1,2}))?$`)

// Cents is an amount in hundredths of a currency unit.
type Cents int64

// Parse accepts "1700", "1,700.5", "$1700.00" and similar. More than two
// decimal places is rejected rather than silently rounded.
func Parse(s string) (Cents, error) {
	clean := strings.NewReplacer(",", "", "$", "", " ", "").Replace(strings.TrimSpace(s))
	m := reAmount.FindStringSubmatch(clean)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	whole, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || whole > maxWhole {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}
	frac := m[3]
	if len(frac) == 1 {
		frac += "0"
	}
	var cents int64
	if frac != "" {
		cents, _ = strconv.ParseInt(frac, 10, 64)
	}
	total := whole*100 + cents
	if m[1] == "-" {
		total = -total
	}
	return Cents(total), nil
}

// Percent returns c * pct / 100 rounded half away from zero to the cent.
// pct must not be negative.
func (c Cents) Percent(pct int64) (Cents, error) {
	if pct < 0 {
		return 0, fmt.Errorf("%w: negative percentage %d", ErrInvalidAmount, pct)
	}
	v := int64(c)
	if pct > 0 {
		limit := (math.MaxInt64 - 50) / pct
		if v > limit || v < -limit {
			return 0, fmt.Errorf("%w: %s * %d%%", ErrOutOfRange, c, pct)
		}
	}
	n := v * pct
	if n >= 0 {
		return Cents((n + 50) / 100), nil
	}
	return Cents((n - 50) / 100), nil
}

// String formats with exactly two decimals and no grouping, e.g. "850.00".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
