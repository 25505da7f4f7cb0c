package types

import pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"

// RemoteZone names a city/district combination that incurs a shipping surcharge.
type RemoteZone struct {
	City           string `json:"city"`
	District       string `json:"district,omitempty"`
	SurchargeCents int    `json:"surcharge"`
}

// LogisticsConfig is the logistic_settings payload consumed by the fee calculator.
type LogisticsConfig struct {
	BaseFeeCents               int          `json:"baseFee"`
	FreeShippingThresholdCents int          `json:"freeShippingThreshold"`
	RemoteZones                []RemoteZone `json:"remoteZones,omitempty"`
}

// Validate enforces the non-negativity invariants on the stored configuration.
func (c LogisticsConfig) Validate() error {
	if c.BaseFeeCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "base fee must be non-negative")
	}
	if c.FreeShippingThresholdCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "free shipping threshold must be non-negative")
	}
	for _, zone := range c.RemoteZones {
		if zone.City == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "remote zone city is required")
		}
		if zone.SurchargeCents < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "remote zone surcharge must be non-negative")
		}
	}
	return nil
}
