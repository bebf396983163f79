package types

// ProductSnapshot freezes the product attributes shown on an order item at
// purchase time. Later product edits must never change what the buyer sees
// on a historical order.
type ProductSnapshot struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category,omitempty"`
	VariantName *string `json:"variant_name,omitempty"`
}
