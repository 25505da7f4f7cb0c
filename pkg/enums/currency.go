package enums

// Currency represents supported monetary denominations. The storefront only
// sells in New Taiwan dollars today.
type Currency string

const (
	CurrencyTWD Currency = "TWD"
)

var validCurrencies = []Currency{
	CurrencyTWD,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}
