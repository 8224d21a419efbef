// Package stripe wraps the pieces of the Stripe SDK the webhook handler
// needs. The service never calls out to Stripe; billing data flows in one
// direction, from webhook events into registration rows.
package stripe

import (
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/dugsihub/dugsi/internal/model"
)

type Config struct {
	WebhookSecret string
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Configured reports whether webhook signature verification is possible.
func (c *Client) Configured() bool {
	return c.cfg.WebhookSecret != ""
}

// ConstructWebhookEvent verifies the signature and returns the parsed event.
func (c *Client) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.cfg.WebhookSecret)
}

// subscriptionStatuses maps Stripe's status strings onto the enumeration the
// classifier understands. The sets coincide today; the map guards against SDK
// additions leaking through as undefined values.
var subscriptionStatuses = map[stripe.SubscriptionStatus]model.SubscriptionStatus{
	stripe.SubscriptionStatusIncomplete:        model.SubIncomplete,
	stripe.SubscriptionStatusIncompleteExpired: model.SubIncompleteExpired,
	stripe.SubscriptionStatusTrialing:          model.SubTrialing,
	stripe.SubscriptionStatusActive:            model.SubActive,
	stripe.SubscriptionStatusPastDue:           model.SubPastDue,
	stripe.SubscriptionStatusCanceled:          model.SubCanceled,
	stripe.SubscriptionStatusUnpaid:            model.SubUnpaid,
	stripe.SubscriptionStatusPaused:            model.SubPaused,
}

// MapSubscriptionStatus converts a Stripe subscription status. Unknown
// statuses return ok=false and must be ignored by callers.
func MapSubscriptionStatus(s stripe.SubscriptionStatus) (model.SubscriptionStatus, bool) {
	mapped, ok := subscriptionStatuses[s]
	return mapped, ok
}

// SubscriptionAmount extracts the recurring amount in cents from a
// subscription's first item price. Returns nil when the subscription carries
// no priced items.
func SubscriptionAmount(sub *stripe.Subscription) *int64 {
	if sub == nil || sub.Items == nil {
		return nil
	}
	for _, item := range sub.Items.Data {
		if item != nil && item.Price != nil {
			amount := item.Price.UnitAmount
			if item.Quantity > 1 {
				amount *= item.Quantity
			}
			return &amount
		}
	}
	return nil
}

// SubscriptionIDFromInvoice extracts the subscription id from an invoice's
// parent details.
func SubscriptionIDFromInvoice(invoice *stripe.Invoice) string {
	if invoice != nil && invoice.Parent != nil &&
		invoice.Parent.SubscriptionDetails != nil &&
		invoice.Parent.SubscriptionDetails.Subscription != nil {
		return invoice.Parent.SubscriptionDetails.Subscription.ID
	}
	return ""
}
