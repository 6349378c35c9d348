// Package coordinate wires the event bus to the state layer and the
// views. It is deliberately free of business rules: every binding
// either translates one user-intent event into one AppData call, or
// translates one change event into one re-render of the affected view.
// Anything that needs to decide more than "which view to refresh"
// belongs in internal/state.
package coordinate

import (
	"log"

	"webstall/internal/event"
	"webstall/internal/model"
	"webstall/internal/state"
)

// Remote is the asynchronous shop API boundary. Implementations must
// not block: they start the operation and later deliver the result
// back into the event loop as catalog:loaded / catalog:failed or
// order:placed / order:failed. The coordinator itself never spawns
// goroutines and never blocks the dispatch thread.
type Remote interface {
	FetchCatalog()
	PlaceOrder(order model.Order)
}

// Render targets. Each view receives everything it needs as arguments
// and never reads AppData itself.
type (
	// CatalogView shows the item grid and the basket counter.
	CatalogView interface {
		Render(items []model.Item, basketCount int)
	}
	// PreviewView shows one inspected item.
	PreviewView interface {
		Render(item model.Item)
	}
	// BasketView shows the basketed items and their total.
	BasketView interface {
		Render(items []model.Item, total int64)
	}
	// DeliveryFormView shows the payment/address checkout step.
	DeliveryFormView interface {
		Render(order model.Order, errs model.FormErrors)
	}
	// ContactFormView shows the email/phone checkout step.
	ContactFormView interface {
		Render(order model.Order, errs model.FormErrors)
	}
	// SuccessView shows the order confirmation.
	SuccessView interface {
		Render(receipt model.Receipt)
	}
)

// Views bundles the render targets handed to New.
type Views struct {
	Catalog  CatalogView
	Preview  PreviewView
	Basket   BasketView
	Delivery DeliveryFormView
	Contacts ContactFormView
	Success  SuccessView
}

// Coordinator owns the binding table. Construct once at startup,
// call Register, and drop it at shutdown; bindings are never removed
// or reordered afterwards.
type Coordinator struct {
	bus    *event.Bus
	data   *state.AppData
	views  Views
	remote Remote
	logf   func(format string, args ...any)
}

// New builds a coordinator over explicitly injected collaborators.
// logf receives boundary failures; nil means log.Printf.
func New(bus *event.Bus, data *state.AppData, views Views, remote Remote, logf func(string, ...any)) *Coordinator {
	if logf == nil {
		logf = log.Printf
	}
	return &Coordinator{bus: bus, data: data, views: views, remote: remote, logf: logf}
}

// binding is one row of the table: a topic and the handler for it.
// The name is for table readability and tests only.
type binding struct {
	name   string
	topic  event.Topic
	handle event.Handler
}

// bindings returns the authoritative binding table. Registration order
// is table order, and the bus dispatches in registration order, so
// this slice is the single place that fixes handler ordering. This is
// a method (not a package var) because the handlers close over the
// coordinator's collaborators.
func (c *Coordinator) bindings() []binding {
	return []binding{
		// Shop API completions.
		{
			name:  "catalogLoaded",
			topic: event.TopicCatalogLoaded,
			handle: func(ev event.Event) {
				c.data.SetCatalog(ev.(event.CatalogLoaded).Items)
			},
		},
		{
			name:  "catalogFailed",
			topic: event.TopicCatalogFailed,
			handle: func(ev event.Event) {
				// Recovered at the boundary: report and keep state as is.
				c.logf("coordinate: catalog fetch failed: %v", ev.(event.CatalogFailed).Err)
			},
		},

		// User intents -> state mutations.
		{
			name:  "cardSelected",
			topic: event.TopicCardSelected,
			handle: func(ev event.Event) {
				c.data.SelectPreview(ev.(event.CardSelected).ID)
			},
		},
		{
			name:  "basketToggled",
			topic: event.TopicBasketToggled,
			handle: func(ev event.Event) {
				c.data.ToggleBasket(ev.(event.BasketToggled).ID)
			},
		},
		{
			name:  "paymentChanged",
			topic: event.TopicPaymentChanged,
			handle: func(ev event.Event) {
				c.data.SetPaymentMethod(ev.(event.PaymentChanged).Method)
			},
		},
		{
			name:  "fieldChanged",
			topic: event.TopicFieldChanged,
			handle: func(ev event.Event) {
				fc := ev.(event.FieldChanged)
				c.data.SetOrderField(fc.Field, fc.Value)
			},
		},
		{
			name:  "modalClosed",
			topic: event.TopicModalClosed,
			handle: func(event.Event) {
				// Abandoned checkout: the draft dies with the modal.
				c.data.ResetOrder()
			},
		},
		{
			name:  "successDismissed",
			topic: event.TopicSuccessDismissed,
			handle: func(event.Event) {
				c.data.ClearBasket()
			},
		},

		// Navigation intents -> renders from current state.
		{
			name:  "basketOpened",
			topic: event.TopicBasketOpened,
			handle: func(event.Event) {
				c.views.Basket.Render(c.data.BasketItems(), c.data.BasketTotal())
			},
		},
		{
			name:  "orderOpened",
			topic: event.TopicOrderOpened,
			handle: func(event.Event) {
				c.views.Delivery.Render(c.data.Order(), c.data.DeliveryErrors())
			},
		},
		{
			name:  "orderSubmitted",
			topic: event.TopicOrderSubmitted,
			handle: func(event.Event) {
				c.views.Contacts.Render(c.data.Order(), c.data.ContactErrors())
			},
		},

		// Checkout submission.
		{
			name:  "contactsSubmitted",
			topic: event.TopicContactsSubmitted,
			handle: func(event.Event) {
				// The submit control is only enabled once both groups
				// validated clean; FinalizeOrder itself does not check.
				c.data.FinalizeOrder()
				c.remote.PlaceOrder(c.data.Order())
			},
		},
		{
			name:  "orderPlaced",
			topic: event.TopicOrderPlaced,
			handle: func(ev event.Event) {
				c.views.Success.Render(ev.(event.OrderPlaced).Receipt)
				c.data.ResetOrder()
			},
		},
		{
			name:  "orderFailed",
			topic: event.TopicOrderFailed,
			handle: func(ev event.Event) {
				// Single failed attempt; state stays untouched so the
				// user can retry manually.
				c.logf("coordinate: order submission failed: %v", ev.(event.OrderFailed).Err)
			},
		},

		// State changes -> view refreshes.
		{
			name:  "catalogChanged",
			topic: event.TopicCatalogChanged,
			handle: func(event.Event) {
				c.views.Catalog.Render(c.data.Catalog(), c.data.BasketCount())
			},
		},
		{
			name:  "previewChanged",
			topic: event.TopicPreviewChanged,
			handle: func(ev event.Event) {
				c.views.Preview.Render(ev.(event.PreviewChanged).Item)
			},
		},
		{
			name:  "basketChanged",
			topic: event.TopicBasketChanged,
			handle: func(event.Event) {
				// Full catalog refresh: membership markers and the
				// counter both derive from basket state.
				c.views.Catalog.Render(c.data.Catalog(), c.data.BasketCount())
			},
		},
		{
			name:  "deliveryErrorsChanged",
			topic: event.TopicDeliveryErrorsChanged,
			handle: func(ev event.Event) {
				c.views.Delivery.Render(c.data.Order(), ev.(event.DeliveryErrorsChanged).Errors)
			},
		},
		{
			name:  "contactErrorsChanged",
			topic: event.TopicContactErrorsChanged,
			handle: func(ev event.Event) {
				c.views.Contacts.Render(c.data.Order(), ev.(event.ContactErrorsChanged).Errors)
			},
		},
	}
}

// Register subscribes every binding, in table order. Call exactly once.
func (c *Coordinator) Register() {
	for _, b := range c.bindings() {
		c.bus.Subscribe(b.topic, b.handle)
	}
}
