// Package dto provides data transfer objects for the Shopify webhook payload.
package dto

import (
	"encoding/json"

	"github.com/wapas/voicerelay/internal/recovery/domain"
)

// CheckoutRequest is the abandoned-checkout webhook payload as Shopify sends
// it, reduced to the fields the pipeline consumes. The id arrives as a JSON
// number too large for float64 round-tripping, so it binds as json.Number.
type CheckoutRequest struct {
	ID                   json.Number      `json:"id"`
	TotalPrice           string           `json:"total_price"`
	Currency             string           `json:"currency"`
	AbandonedCheckoutURL string           `json:"abandoned_checkout_url"`
	Customer             *Customer        `json:"customer"`
	ShippingAddress      *ShippingAddress `json:"shipping_address"`
}

// Customer is the customer record embedded in the checkout payload.
type Customer struct {
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
}

// ShippingAddress is the shipping address embedded in the checkout payload.
type ShippingAddress struct {
	Phone    string `json:"phone"`
	Province string `json:"province"`
}

// ToDomain converts the payload into a domain checkout event. Absent nested
// objects yield empty fields; the pipeline decides what is usable.
func (r *CheckoutRequest) ToDomain() *domain.CheckoutEvent {
	event := &domain.CheckoutEvent{
		ID:                   r.ID.String(),
		TotalPrice:           r.TotalPrice,
		Currency:             r.Currency,
		AbandonedCheckoutURL: r.AbandonedCheckoutURL,
	}

	if r.Customer != nil {
		event.CustomerPhone = r.Customer.Phone
		event.CustomerFirstName = r.Customer.FirstName
	}

	if r.ShippingAddress != nil {
		event.ShippingPhone = r.ShippingAddress.Phone
		event.ShippingProvince = r.ShippingAddress.Province
	}

	return event
}
