// Package domain defines the core entities of the cart recovery pipeline.
package domain

import (
	"github.com/wapas/voicerelay/internal/phone"
)

// DefaultCustomerName substitutes for checkouts without a customer first name.
const DefaultCustomerName = "Customer"

// DefaultCurrency substitutes for checkouts without a currency code.
const DefaultCurrency = "INR"

// CheckoutEvent is one abandoned-checkout payload as received from Shopify,
// reduced to the fields the pipeline consumes.
type CheckoutEvent struct {
	// ID is the checkout identifier, already coerced to string form.
	// Empty when the payload carried none.
	ID string
	// CustomerPhone is the raw phone from the customer record.
	CustomerPhone string
	// CustomerFirstName is the customer's first name, may be empty.
	CustomerFirstName string
	// ShippingPhone is the raw phone from the shipping address.
	ShippingPhone string
	// ShippingProvince is the state/province from the shipping address.
	ShippingProvince string
	// TotalPrice is the cart amount as a decimal string.
	TotalPrice string
	// Currency is the cart currency code.
	Currency string
	// AbandonedCheckoutURL links back to the recoverable checkout.
	AbandonedCheckoutURL string
}

// CustomerContact is the contactable customer derived from a checkout event.
type CustomerContact struct {
	// Phone is the normalized 12-digit phone number.
	Phone string
	// Name is the customer's display name.
	Name string
	// Province is the shipping region used for language resolution, may be empty.
	Province string
	// CheckoutID governs duplicate suppression; empty disables the dedup check.
	CheckoutID string
	// CheckoutURL links back to the recoverable checkout.
	CheckoutURL string
	// Amount is the cart total as a decimal string.
	Amount string
	// Currency is the cart currency code.
	Currency string
}

// ExtractContact derives the contactable customer from a checkout event.
// Phone priority is the customer record first, then the shipping address.
// It returns nil when neither yields a valid normalized number; callers must
// treat that as a benign terminal state, not an error.
func ExtractContact(event *CheckoutEvent) *CustomerContact {
	raw := event.CustomerPhone
	if raw == "" {
		raw = event.ShippingPhone
	}
	if raw == "" {
		return nil
	}

	normalized, ok := phone.Clean(raw)
	if !ok {
		return nil
	}

	name := event.CustomerFirstName
	if name == "" {
		name = DefaultCustomerName
	}

	currency := event.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	amount := event.TotalPrice
	if amount == "" {
		amount = "0"
	}

	return &CustomerContact{
		Phone:       normalized,
		Name:        name,
		Province:    event.ShippingProvince,
		CheckoutID:  event.ID,
		CheckoutURL: event.AbandonedCheckoutURL,
		Amount:      amount,
		Currency:    currency,
	}
}
