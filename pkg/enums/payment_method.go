package enums

import "fmt"

// PaymentMethod is how the buyer chose to pay at checkout.
type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
	PaymentMethodVirtualAccount PaymentMethod = "virtual_account"
	PaymentMethodApplePay       PaymentMethod = "apple_pay"
	PaymentMethodGooglePay      PaymentMethod = "google_pay"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCreditCard,
	PaymentMethodVirtualAccount,
	PaymentMethodApplePay,
	PaymentMethodGooglePay,
	PaymentMethodBankTransfer,
	PaymentMethodCashOnDelivery,
}

// gatewayMethods are the methods that chain into payment initiation after
// order creation; everything else settles out of band.
var gatewayMethods = map[PaymentMethod]struct{}{
	PaymentMethodCreditCard:     {},
	PaymentMethodVirtualAccount: {},
	PaymentMethodApplePay:       {},
	PaymentMethodGooglePay:      {},
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// RequiresGateway reports whether the method is in the payment-initiation allow-list.
func (m PaymentMethod) RequiresGateway() bool {
	_, ok := gatewayMethods[m]
	return ok
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
