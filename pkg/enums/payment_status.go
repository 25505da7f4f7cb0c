package enums

import "fmt"

// PaymentStatus tracks how far an order got through the payment flow.
// initiation_failed is the explicit resting state for orders whose creation
// succeeded but whose gateway initiation did not; there is no automatic
// retry or cancellation from this state.
type PaymentStatus string

const (
	PaymentStatusUnpaid           PaymentStatus = "unpaid"
	PaymentStatusPending          PaymentStatus = "pending"
	PaymentStatusInitiationFailed PaymentStatus = "initiation_failed"
	PaymentStatusPaid             PaymentStatus = "paid"
	PaymentStatusFailed           PaymentStatus = "failed"
	PaymentStatusRefunded         PaymentStatus = "refunded"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusUnpaid,
	PaymentStatusPending,
	PaymentStatusInitiationFailed,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
