package types

import "strings"

// ShippingAddress is the checkout destination, stored as jsonb on orders.
type ShippingAddress struct {
	City        string `json:"city"`
	District    string `json:"district"`
	PostalCode  string `json:"postalCode"`
	AddressLine string `json:"addressLine"`
}

// IsZero reports whether no destination has been chosen yet.
func (a ShippingAddress) IsZero() bool {
	return strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.District) == "" &&
		strings.TrimSpace(a.PostalCode) == "" &&
		strings.TrimSpace(a.AddressLine) == ""
}
