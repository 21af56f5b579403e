package market

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePoints converts raw points to CommodityPoints. Points whose value does
// not parse as a decimal are left out and reported in the returned error list
// instead of being coerced to zero.
func ParsePoints(raw []RawPoint) ([]CommodityPoint, []error) {
	out := make([]CommodityPoint, 0, len(raw))
	var errs []error
	for _, p := range raw {
		d, err := decimal.NewFromString(strings.TrimSpace(p.Value))
		if err != nil {
			errs = append(errs, fmt.Errorf("point %s: value %q: %w", p.Date, p.Value, err))
			continue
		}
		f, _ := d.Float64()
		out = append(out, CommodityPoint{Date: p.Date, Value: f})
	}
	return out, errs
}
