package models

// ItemPriceDetail is the resolved price for a single line item within a quote
// or receipt.
type ItemPriceDetail struct {
	ItemID     string  `json:"itemId"`
	Name       string  `json:"name"`
	SubType    string  `json:"subType,omitempty"`
	UnitPrice  float64 `json:"unitPrice"`  // item price before the order multiplier
	Multiplied bool    `json:"multiplied"` // false for multiplier-exempt items
	LineTotal  float64 `json:"lineTotal"`  // contribution to the order total
}

// PriceBreakdown is the complete pricing calculation result for a draft or a
// frozen order.
type PriceBreakdown struct {
	Items          []ItemPriceDetail `json:"items"`
	ItemsSubtotal  float64           `json:"itemsSubtotal"`
	AddOnsSubtotal float64           `json:"addOnsSubtotal"`
	Total          float64           `json:"total"`
	Deposit        float64           `json:"deposit"`
	Balance        float64           `json:"balance"`
}

// MonthlyRevenue is one (month, year) revenue bucket over the archive.
type MonthlyRevenue struct {
	Month int     `json:"month"`
	Year  int     `json:"year"`
	Total float64 `json:"total"`
}
