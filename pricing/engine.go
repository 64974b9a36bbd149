// Package pricing implements the commission pricing rules: per-item modifier
// math, the order-wide multiplier, add-on extras and the deposit split. All
// functions are pure; amounts are plain currency units (THB).
package pricing

import "commission-manager/models"

const (
	// AIFileSurcharge is added when the client wants the editable source file.
	AIFileSurcharge = 300
	// Unit prices for prop add-ons.
	SmallPropPrice = 10
	LargePropPrice = 20
)

// Multipliers is the fixed set of usage-rights tiers an order can carry.
var Multipliers = []float64{1, 1.5, 2}

// ValidMultiplier reports whether m is one of the allowed multiplier values.
func ValidMultiplier(m float64) bool {
	for _, v := range Multipliers {
		if m == v {
			return true
		}
	}
	return false
}

// ItemPrice computes the price of a single line item before the order
// multiplier. A custom price replaces the base price but the full-body
// doubling and AI-file surcharge still apply on top of it.
func ItemPrice(item models.LineItem) float64 {
	base := item.BasePrice
	if item.CustomPrice != nil {
		base = *item.CustomPrice
	}

	amount := base
	if item.IsFullBody {
		amount *= 2
	}
	if item.HasAIFile {
		amount += AIFileSurcharge
	}
	return amount
}

// AddOnsTotal computes the add-on contribution of an order.
func AddOnsTotal(addOns models.AddOns) float64 {
	return float64(addOns.PropSmall)*SmallPropPrice +
		float64(addOns.PropLarge)*LargePropPrice +
		addOns.CustomDesignPrice
}

// OrderTotal computes the full order price. Multiplier-exempt items contribute
// unmultiplied; everything else scales with the order multiplier.
func OrderTotal(items []models.LineItem, multiplier float64, addOns models.AddOns) float64 {
	total := 0.0
	for _, item := range items {
		price := ItemPrice(item)
		if item.NoMultiplier {
			total += price
		} else {
			total += price * multiplier
		}
	}
	return total + AddOnsTotal(addOns)
}

// Split halves a total into deposit and balance. Both halves are computed
// independently from the total, mirroring how the studio has always quoted
// the 50/50 split.
func Split(total float64) (deposit, balance float64) {
	return total / 2, total / 2
}

// Breakdown computes the full per-item pricing detail for a draft or frozen
// order. The receipt and the live quote both render from this.
func Breakdown(items []models.LineItem, multiplier float64, addOns models.AddOns) *models.PriceBreakdown {
	b := &models.PriceBreakdown{
		Items: make([]models.ItemPriceDetail, 0, len(items)),
	}

	for _, item := range items {
		unit := ItemPrice(item)
		line := unit
		if !item.NoMultiplier {
			line = unit * multiplier
		}
		b.Items = append(b.Items, models.ItemPriceDetail{
			ItemID:     item.ID,
			Name:       item.Name,
			SubType:    item.SubType,
			UnitPrice:  unit,
			Multiplied: !item.NoMultiplier,
			LineTotal:  line,
		})
		b.ItemsSubtotal += line
	}

	b.AddOnsSubtotal = AddOnsTotal(addOns)
	b.Total = b.ItemsSubtotal + b.AddOnsSubtotal
	b.Deposit, b.Balance = Split(b.Total)
	return b
}
