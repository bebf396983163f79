package types

import "strings"

// Address is stored as jsonb on orders; it is a point-in-time snapshot of
// where an order ships or bills, not a normalized address record.
type Address struct {
	FullName   string  `json:"full_name,omitempty"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	Phone      *string `json:"phone,omitempty"`
}

// IsZero reports whether no address fields are populated.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Line1) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.PostalCode) == ""
}
