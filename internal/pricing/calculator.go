package pricing

import (
	"strings"

	"github.com/pukpuklouis/blackliving-backend/pkg/types"
)

// Calculate returns the shipping fee in cents for a cart subtotal shipped to
// the given destination. The base fee is waived once the subtotal reaches the
// free-shipping threshold. Remote zone surcharges are charged on top and are
// never waived, even when the base fee is.
//
// Zone matching is bidirectional substring containment on the city, and on
// the district too when the zone names one. Only the first matching zone in
// list order applies; later matches are ignored rather than summed.
func Calculate(subtotalCents int, cfg types.LogisticsConfig, addr *types.ShippingAddress) int {
	fee := 0
	if subtotalCents < cfg.FreeShippingThresholdCents {
		fee = cfg.BaseFeeCents
	}

	if addr == nil || addr.IsZero() {
		return fee
	}

	for _, zone := range cfg.RemoteZones {
		if !matchesRegion(addr.City, zone.City) {
			continue
		}
		if zone.District != "" && !matchesRegion(addr.District, zone.District) {
			continue
		}
		fee += zone.SurchargeCents
		break
	}

	return fee
}

// matchesRegion reports containment in either direction so that "花蓮" matches
// "花蓮縣" and vice versa. Empty values never match.
func matchesRegion(addrValue, zoneValue string) bool {
	addrValue = strings.TrimSpace(addrValue)
	zoneValue = strings.TrimSpace(zoneValue)
	if addrValue == "" || zoneValue == "" {
		return false
	}
	return strings.Contains(addrValue, zoneValue) || strings.Contains(zoneValue, addrValue)
}
