package model

// Bounds that keep price × quantity well inside int.
const (
	MaxQuantity = 999
	MaxPrice    = 10_000_000
)

// MenuItem is one available row of the catalog.
type MenuItem struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     int    `json:"price"`
	Available bool   `json:"available"`
}

// OrderLineItem is a priced, quantified match of a catalog item in one utterance.
// JSON field names follow the payload the kitchen webhook expects.
type OrderLineItem struct {
	ItemName  string `json:"item"`
	Category  string `json:"category"`
	UnitPrice int    `json:"price"`
	Quantity  int    `json:"qty"`
	LineTotal int    `json:"total"`
}

// NewLineItem computes the line total from price and quantity.
func NewLineItem(item MenuItem, qty int) OrderLineItem {
	return OrderLineItem{
		ItemName:  item.Name,
		Category:  item.Category,
		UnitPrice: item.Price,
		Quantity:  qty,
		LineTotal: item.Price * qty,
	}
}
