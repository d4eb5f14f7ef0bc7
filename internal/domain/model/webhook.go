package model

import "encoding/json"

// Webhook event types the platform currently delivers. Unknown types must be
// acknowledged, not rejected, so new platform events never cause redelivery
// storms.
const (
	EventCheckoutCompleted    = "checkout.completed"
	EventSubscriptionActive   = "subscription.active"
	EventSubscriptionPaid     = "subscription.paid"
	EventSubscriptionCanceled = "subscription.canceled"
	EventSubscriptionPastDue  = "subscription.past_due"
	EventRefundCreated        = "refund.created"
)

// WebhookEvent is the platform's event envelope. Object's shape depends on
// EventType, so it stays raw until dispatch.
type WebhookEvent struct {
	ID        string          `json:"id"`
	EventType string          `json:"eventType"`
	Object    json.RawMessage `json:"object"`
}

// CheckoutObject is the payload of checkout.* events.
type CheckoutObject struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"` // minor units
	Currency   string `json:"currency"`
	ProductID  string `json:"product_id"`
}

// SubscriptionObject is the payload of subscription.* events.
type SubscriptionObject struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
}

// RefundObject is the payload of refund.* events.
type RefundObject struct {
	ID         string `json:"id"`
	CheckoutID string `json:"checkout_id"`
	Amount     int64  `json:"amount"` // minor units refunded
	Currency   string `json:"currency"`
}
