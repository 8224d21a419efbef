package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/dugsihub/dugsi/internal/model"
	"github.com/dugsihub/dugsi/internal/store"
	dugsistripe "github.com/dugsihub/dugsi/internal/stripe"
	"github.com/dugsihub/dugsi/internal/websocket"
)

// WebhookHandler ingests Stripe events and keeps registration billing fields
// current. This is the only place billing data enters the system.
type WebhookHandler struct {
	stripeClient *dugsistripe.Client
	regStore     *store.RegistrationStore
	eventStore   *store.StripeEventStore
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewWebhookHandler(
	sc *dugsistripe.Client,
	rs *store.RegistrationStore,
	es *store.StripeEventStore,
	hub *websocket.Hub,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		stripeClient: sc,
		regStore:     rs,
		eventStore:   es,
		hub:          hub,
		logger:       logger,
	}
}

func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	event, err := h.stripeClient.ConstructWebhookEvent(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	// Stripe retries deliveries until it sees a 2xx; skip events we have
	// already applied.
	seen, err := h.eventStore.AlreadyProcessed(event.ID)
	if err != nil {
		h.logger.Error("check event", "event_id", event.ID, "error", err)
	}
	if seen {
		w.WriteHeader(http.StatusOK)
		return
	}

	changed := false
	switch event.Type {
	case "checkout.session.completed":
		changed = h.handleCheckoutCompleted(event)
	case "invoice.paid":
		changed = h.handleInvoice(event, model.SubActive)
	case "invoice.payment_failed":
		changed = h.handleInvoice(event, model.SubPastDue)
	case "customer.subscription.updated":
		changed = h.handleSubscriptionUpdated(event)
	case "customer.subscription.deleted":
		changed = h.handleSubscriptionDeleted(event)
	}

	if err := h.eventStore.MarkProcessed(event.ID, string(event.Type)); err != nil {
		h.logger.Error("mark event processed", "event_id", event.ID, "error", err)
	}

	if changed && h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("families", "changed", "", map[string]any{
			"reason": string(event.Type),
		}))
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) handleCheckoutCompleted(event stripe.Event) bool {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		h.logger.Error("unmarshal checkout session", "error", err)
		return false
	}

	if sess.CustomerDetails == nil || sess.CustomerDetails.Email == "" {
		h.logger.Warn("checkout session missing email", "event_id", event.ID)
		return false
	}
	if sess.Subscription == nil {
		return false
	}

	custID := ""
	if sess.Customer != nil {
		custID = sess.Customer.ID
	}

	n, err := h.regStore.AttachSubscriptionByEmail(sess.CustomerDetails.Email, custID, sess.Subscription.ID)
	if err != nil {
		h.logger.Error("attach subscription", "error", err)
		return false
	}
	if n == 0 {
		h.logger.Warn("no registrations match checkout email")
		return false
	}

	h.logger.Info("checkout completed", "registrations", n, "subscription_id", sess.Subscription.ID)
	return true
}

func (h *WebhookHandler) handleInvoice(event stripe.Event, status model.SubscriptionStatus) bool {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		h.logger.Error("unmarshal invoice", "error", err)
		return false
	}

	subID := dugsistripe.SubscriptionIDFromInvoice(&invoice)
	if subID == "" {
		return false
	}

	update := store.BillingUpdate{SubscriptionStatus: &status}
	if invoice.PeriodStart > 0 {
		start := time.Unix(invoice.PeriodStart, 0).UTC()
		update.PeriodStart = &start
	}
	if invoice.PeriodEnd > 0 {
		end := time.Unix(invoice.PeriodEnd, 0).UTC()
		update.PeriodEnd = &end
	}
	if invoice.AmountPaid > 0 {
		update.SubscriptionAmount = &invoice.AmountPaid
	}

	n, err := h.regStore.ApplyBillingBySubscription(subID, update)
	if err != nil {
		h.logger.Error("apply invoice", "subscription_id", subID, "error", err)
		return false
	}
	return n > 0
}

func (h *WebhookHandler) handleSubscriptionUpdated(event stripe.Event) bool {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		h.logger.Error("unmarshal subscription", "error", err)
		return false
	}

	update := store.BillingUpdate{
		SubscriptionAmount: dugsistripe.SubscriptionAmount(&stripeSub),
	}
	if status, ok := dugsistripe.MapSubscriptionStatus(stripeSub.Status); ok {
		update.SubscriptionStatus = &status
	}
	if stripeSub.Customer != nil {
		update.StripeCustomerID = &stripeSub.Customer.ID
	}

	n, err := h.regStore.ApplyBillingBySubscription(stripeSub.ID, update)
	if err != nil {
		h.logger.Error("apply subscription update", "subscription_id", stripeSub.ID, "error", err)
		return false
	}
	return n > 0
}

func (h *WebhookHandler) handleSubscriptionDeleted(event stripe.Event) bool {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		h.logger.Error("unmarshal subscription", "error", err)
		return false
	}

	status := model.SubCanceled
	n, err := h.regStore.ApplyBillingBySubscription(stripeSub.ID, store.BillingUpdate{
		SubscriptionStatus: &status,
	})
	if err != nil {
		h.logger.Error("apply subscription delete", "subscription_id", stripeSub.ID, "error", err)
		return false
	}
	if n > 0 {
		h.logger.Info("subscription canceled", "subscription_id", stripeSub.ID, "registrations", n)
	}
	return n > 0
}
