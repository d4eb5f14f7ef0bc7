package model

import "strings"

type CheckoutStatus string

const (
	CheckoutStatusPending   CheckoutStatus = "pending"   // session created, customer has not finished
	CheckoutStatusOpen      CheckoutStatus = "open"      // hosted page opened, payment in flight
	CheckoutStatusPaid      CheckoutStatus = "paid"      // settled; entitlement may be granted
	CheckoutStatusCompleted CheckoutStatus = "completed" // settled; platform synonym for paid
	CheckoutStatusExpired   CheckoutStatus = "expired"   // session lapsed without payment
	CheckoutStatusFailed    CheckoutStatus = "failed"    // payment attempted and declined
	CheckoutStatusUnknown   CheckoutStatus = "unknown"   // anything the platform adds later
)

// NormalizeCheckoutStatus maps the platform's status vocabulary onto ours.
// The platform is free to introduce new values; those come back as unknown.
func NormalizeCheckoutStatus(raw string) CheckoutStatus {
	switch CheckoutStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case CheckoutStatusPending:
		return CheckoutStatusPending
	case CheckoutStatusOpen:
		return CheckoutStatusOpen
	case CheckoutStatusPaid:
		return CheckoutStatusPaid
	case CheckoutStatusCompleted:
		return CheckoutStatusCompleted
	case CheckoutStatusExpired:
		return CheckoutStatusExpired
	case CheckoutStatusFailed:
		return CheckoutStatusFailed
	default:
		return CheckoutStatusUnknown
	}
}

// Paid reports whether the status is a terminal success. This is the only
// state from which an entitlement may be granted.
func (s CheckoutStatus) Paid() bool {
	return s == CheckoutStatusPaid || s == CheckoutStatusCompleted
}

// InFlight reports whether the checkout may still transition to paid.
func (s CheckoutStatus) InFlight() bool {
	return s == CheckoutStatusPending || s == CheckoutStatusOpen
}

// CheckoutSession is the platform-issued session handed back to the mobile
// client. Immutable once issued; expiry is tracked platform-side only.
type CheckoutSession struct {
	ID          string // opaque, platform-assigned
	CheckoutURL string // hosted checkout page
	ProductID   string
}

// Checkout is the server-side truth about one purchase attempt, reduced to
// the whitelisted fields the client is allowed to see. Optional fields are
// pointers because the platform omits them until payment settles.
type Checkout struct {
	ID          string
	Status      CheckoutStatus
	Amount      *int64  // minor units
	Currency    *string
	CustomerID  *string
	ProductID   *string
	ProductName *string
}
