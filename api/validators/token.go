package validators

import (
	"net/http"
	"strings"
)

// CartTokenHeader carries the session cart identifier between storefront and API.
const CartTokenHeader = "X-Cart-Token"

// CartToken extracts the session cart token from the request. An empty token
// is valid: the cart service mints a fresh one on first use.
func CartToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(CartTokenHeader))
}
