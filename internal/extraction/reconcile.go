package extraction

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yachiey/ocr-final/internal/currency"
	"github.com/yachiey/ocr-final/internal/entity"
)

// Tolerance is the absolute epsilon for all totals comparisons, in currency
// units. It is absolute, not relative: at very large transaction amounts a
// cents-level mismatch can exceed sub-unit rounding noise. Known limitation,
// kept as-is pending domain confirmation.
const Tolerance = 0.05

var tolerance = decimal.NewFromFloat(Tolerance)

// Reconcile cross-checks and repairs the totals of a decoded extraction,
// then backfills currency and reconstructs FullText. Item list and the
// other sections pass through unchanged. Reconcile is idempotent: applied
// to its own output it changes nothing.
//
// The model output is unreliable rather than malicious: fields arrive
// swapped, duplicated, or absent. The rules below encode the accounting
// cross-checks (including VAT-inclusive totals used in jurisdictions like
// the Philippines) instead of trusting the model's arithmetic.
func Reconcile(res *entity.Extraction, defaultCurrency string) *entity.Extraction {
	itemSum := decimal.Zero
	for _, it := range res.Items {
		switch {
		case it.TotalPrice != nil:
			itemSum = itemSum.Add(decimal.NewFromFloat(*it.TotalPrice))
		case it.UnitPrice != nil:
			itemSum = itemSum.Add(decimal.NewFromFloat(*it.UnitPrice))
		}
	}

	subtotal := toDecimal(res.Totals.Subtotal)
	tax := toDecimal(res.Totals.Tax)
	vatAmount := toDecimal(res.Totals.VATAmount)
	vatableSales := toDecimal(res.Totals.VATableSales)
	total := toDecimal(res.Totals.Total)

	// Consolidated tax: prefer the generic tax field over the VAT amount.
	effectiveTax := decimal.Zero
	if tax != nil {
		effectiveTax = *tax
	} else if vatAmount != nil {
		effectiveTax = *vatAmount
	}

	if total != nil && subtotal != nil {
		switch {
		case approx(*total, subtotal.Add(effectiveTax)):
			// Already consistent: total = subtotal + tax.
		case approx(*total, *subtotal) && effectiveTax.IsPositive():
			// The model likely wrote the final total into both fields.
			// VATable sales, when it checks out, is the true pre-tax figure.
			if vatableSales != nil && vatableSales.IsPositive() &&
				approx(*total, vatableSales.Add(effectiveTax)) {
				subtotal = vatableSales
			}
		case total.LessThan(*subtotal) && approx(*subtotal, total.Add(effectiveTax)):
			// The model swapped the two fields.
			total, subtotal = subtotal, total
		}
	}

	if total == nil {
		if subtotal != nil {
			t := subtotal.Add(effectiveTax)
			total = &t
		} else if itemSum.IsPositive() {
			t := itemSum.Add(effectiveTax)
			total = &t
		}
	}

	if subtotal == nil {
		if total != nil {
			s := total.Sub(effectiveTax)
			subtotal = &s
		} else if itemSum.IsPositive() {
			s := itemSum
			subtotal = &s
		}
	}

	// VAT-inclusive override: when VATable sales + VAT matches the total,
	// VATable sales is the authoritative pre-tax amount regardless of what
	// the repairs above concluded.
	if vatableSales != nil && vatAmount != nil && total != nil &&
		approx(*total, vatableSales.Add(*vatAmount)) {
		subtotal = vatableSales
	}

	res.Totals.Subtotal = toFloat(subtotal)
	res.Totals.Total = toFloat(total)

	if strings.TrimSpace(res.Totals.Currency) == "" {
		addr := ""
		if res.Merchant.Address != nil {
			addr = *res.Merchant.Address
		}
		res.Totals.Currency = currency.Infer(addr, defaultCurrency)
	}

	if len(res.Lines) > 0 {
		res.FullText = strings.Join(res.Lines, "\n")
	}

	return res
}

func approx(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(tolerance)
}

func toDecimal(p *float64) *decimal.Decimal {
	if p == nil {
		return nil
	}
	d := decimal.NewFromFloat(*p)
	return &d
}

func toFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}
