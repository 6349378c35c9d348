// Package event is the typed publish/subscribe layer of the app.
// Every event is a struct carrying its full payload; topics form a
// closed set, so handlers type-switch instead of trusting shapes at
// runtime. Dispatch is synchronous on the caller's goroutine.
package event

import "webstall/internal/model"

// Topic identifies one event kind. Each topic has exactly one payload
// type (the struct whose Topic method returns it).
type Topic string

const (
	// Change events, emitted by the state layer after a mutation.
	TopicCatalogChanged        Topic = "catalog:changed"
	TopicPreviewChanged        Topic = "preview:changed"
	TopicBasketChanged         Topic = "basket:changed"
	TopicDeliveryErrorsChanged Topic = "deliveryErrors:changed"
	TopicContactErrorsChanged  Topic = "contactErrors:changed"

	// Intent events, emitted by views describing user actions.
	TopicCardSelected      Topic = "card:selected"
	TopicBasketToggled     Topic = "basket:toggle"
	TopicBasketOpened      Topic = "basket:open"
	TopicOrderOpened       Topic = "order:open"
	TopicPaymentChanged    Topic = "payment:change"
	TopicFieldChanged      Topic = "field:change"
	TopicOrderSubmitted    Topic = "order:submit"
	TopicContactsSubmitted Topic = "contacts:submit"
	TopicModalClosed       Topic = "modal:close"
	TopicSuccessDismissed  Topic = "success:dismiss"

	// Boundary events, emitted when an async shop API call completes.
	TopicCatalogLoaded Topic = "catalog:loaded"
	TopicCatalogFailed Topic = "catalog:failed"
	TopicOrderPlaced   Topic = "order:placed"
	TopicOrderFailed   Topic = "order:failed"
)

// Event is implemented by every payload struct in this package.
type Event interface {
	Topic() Topic
}

// CatalogChanged signals that the catalog was replaced wholesale.
type CatalogChanged struct{}

// PreviewChanged carries the item now open in the preview modal.
type PreviewChanged struct {
	Item model.Item
}

// BasketChanged signals that some item's basket membership flipped or
// the basket was cleared.
type BasketChanged struct{}

// DeliveryErrorsChanged carries the full recomputed error map for the
// payment/address group. Emitted on every delivery-group write, even
// when the map is unchanged.
type DeliveryErrorsChanged struct {
	Errors model.FormErrors
}

// ContactErrorsChanged is the email/phone counterpart of
// DeliveryErrorsChanged.
type ContactErrorsChanged struct {
	Errors model.FormErrors
}

// CardSelected is the user opening an item preview.
type CardSelected struct {
	ID string
}

// BasketToggled is the user flipping an item in or out of the basket.
type BasketToggled struct {
	ID string
}

// BasketOpened is the user opening the basket panel.
type BasketOpened struct{}

// OrderOpened is the user starting checkout from the basket.
type OrderOpened struct{}

// PaymentChanged is the user pressing one of the two exclusive payment
// buttons. Separate from FieldChanged because it is not a text input.
type PaymentChanged struct {
	Method model.PaymentMethod
}

// FieldChanged is one edit of a checkout text field. A single handler
// subscribed to TopicFieldChanged covers every field of both forms;
// Form tells it which step the field belongs to.
type FieldChanged struct {
	Form  model.Form
	Field model.Field
	Value string
}

// OrderSubmitted is the user advancing from the delivery step to the
// contacts step.
type OrderSubmitted struct{}

// ContactsSubmitted is the user submitting the finished checkout form.
type ContactsSubmitted struct{}

// ModalClosed is the user abandoning whatever modal is open.
type ModalClosed struct{}

// SuccessDismissed is the user closing the order confirmation.
type SuccessDismissed struct{}

// CatalogLoaded delivers a fetched catalog into the event loop.
type CatalogLoaded struct {
	Items []model.Item
}

// CatalogFailed reports a failed catalog fetch.
type CatalogFailed struct {
	Err error
}

// OrderPlaced delivers a successful order submission.
type OrderPlaced struct {
	Receipt model.Receipt
}

// OrderFailed reports a failed order submission. State is left as it
// was; the user retries manually.
type OrderFailed struct {
	Err error
}

func (CatalogChanged) Topic() Topic        { return TopicCatalogChanged }
func (PreviewChanged) Topic() Topic        { return TopicPreviewChanged }
func (BasketChanged) Topic() Topic         { return TopicBasketChanged }
func (DeliveryErrorsChanged) Topic() Topic { return TopicDeliveryErrorsChanged }
func (ContactErrorsChanged) Topic() Topic  { return TopicContactErrorsChanged }
func (CardSelected) Topic() Topic          { return TopicCardSelected }
func (BasketToggled) Topic() Topic         { return TopicBasketToggled }
func (BasketOpened) Topic() Topic          { return TopicBasketOpened }
func (OrderOpened) Topic() Topic           { return TopicOrderOpened }
func (PaymentChanged) Topic() Topic        { return TopicPaymentChanged }
func (FieldChanged) Topic() Topic          { return TopicFieldChanged }
func (OrderSubmitted) Topic() Topic        { return TopicOrderSubmitted }
func (ContactsSubmitted) Topic() Topic     { return TopicContactsSubmitted }
func (ModalClosed) Topic() Topic           { return TopicModalClosed }
func (SuccessDismissed) Topic() Topic      { return TopicSuccessDismissed }
func (CatalogLoaded) Topic() Topic         { return TopicCatalogLoaded }
func (CatalogFailed) Topic() Topic         { return TopicCatalogFailed }
func (OrderPlaced) Topic() Topic           { return TopicOrderPlaced }
func (OrderFailed) Topic() Topic           { return TopicOrderFailed }
