// Package state holds the central mutable application state: the
// catalog, basket membership, the checkout draft, and per-group
// validation errors. Every write goes through a method here, and every
// mutating method announces itself on the bus; nothing else in the app
// touches this data directly.
package state

import (
	"webstall/internal/event"
	"webstall/internal/model"
)

// Validation messages, keyed by field. Fixed strings, no format or
// cross-field checks; emptiness is the only rule.
const (
	msgPaymentRequired = "payment method is required"
	msgAddressRequired = "address is required"
	msgEmailRequired   = "email is required"
	msgPhoneRequired   = "phone is required"
)

// AppData is the application state object. All methods are synchronous
// and leave the state consistent before any emit they trigger returns,
// so re-entrant emit-during-handle chains observe settled state.
type AppData struct {
	bus *event.Bus

	items          []model.Item
	preview        string // item id, "" when nothing is previewed
	order          model.Order
	deliveryErrors model.FormErrors
	contactErrors  model.FormErrors
}

// New returns empty state bound to bus.
func New(bus *event.Bus) *AppData {
	return &AppData{
		bus:            bus,
		deliveryErrors: model.FormErrors{},
		contactErrors:  model.FormErrors{},
	}
}

// SetCatalog replaces the catalog wholesale. Basket membership and
// preview selection die with the old list.
func (a *AppData) SetCatalog(items []model.Item) {
	a.items = items
	a.preview = ""
	a.bus.Emit(event.CatalogChanged{})
}

// Catalog returns a copy of the items in catalog order. Callers get a
// snapshot; mutating it does not touch state.
func (a *AppData) Catalog() []model.Item {
	out := make([]model.Item, len(a.items))
	copy(out, a.items)
	return out
}

// ItemByID returns the item and whether it exists.
func (a *AppData) ItemByID(id string) (model.Item, bool) {
	for i := range a.items {
		if a.items[i].ID == id {
			return a.items[i], true
		}
	}
	return model.Item{}, false
}

// SelectPreview marks the item as the one under inspection and emits
// preview:changed with it. Unknown ids are a silent no-op; they cannot
// occur through the UI.
func (a *AppData) SelectPreview(id string) {
	item, ok := a.ItemByID(id)
	if !ok {
		return
	}
	a.preview = id
	a.bus.Emit(event.PreviewChanged{Item: item})
}

// Preview returns the previewed item, if any.
func (a *AppData) Preview() (model.Item, bool) {
	if a.preview == "" {
		return model.Item{}, false
	}
	return a.ItemByID(a.preview)
}

// ToggleBasket flips basket membership for the item with the given id.
// Unknown ids are a silent no-op (defensive only).
func (a *AppData) ToggleBasket(id string) {
	for i := range a.items {
		if a.items[i].ID == id {
			a.items[i].InBasket = !a.items[i].InBasket
			a.bus.Emit(event.BasketChanged{})
			return
		}
	}
}

// BasketItems returns the basketed items in catalog order.
func (a *AppData) BasketItems() []model.Item {
	var out []model.Item
	for _, it := range a.items {
		if it.InBasket {
			out = append(out, it)
		}
	}
	return out
}

// BasketCount returns how many items are in the basket.
func (a *AppData) BasketCount() int {
	n := 0
	for _, it := range a.items {
		if it.InBasket {
			n++
		}
	}
	return n
}

// BasketTotal sums the prices of basketed items. Priceless items are
// excluded from the sum entirely (not counted as zero): they may sit
// in a basket but are never orderable.
func (a *AppData) BasketTotal() int64 {
	var total int64
	for _, it := range a.items {
		if it.InBasket && !it.Priceless() {
			total += *it.Price
		}
	}
	return total
}

// ClearBasket removes every item from the basket.
func (a *AppData) ClearBasket() {
	for i := range a.items {
		a.items[i].InBasket = false
	}
	a.bus.Emit(event.BasketChanged{})
}

// SetOrderField writes one checkout field and revalidates the group it
// belongs to. The group's full error map is recomputed and emitted on
// every call, even when unchanged; consumers must be idempotent.
// Unknown fields are ignored.
func (a *AppData) SetOrderField(field model.Field, value string) {
	switch field {
	case model.FieldPayment:
		a.order.Payment = model.PaymentMethod(value)
	case model.FieldAddress:
		a.order.Address = value
	case model.FieldEmail:
		a.order.Email = value
	case model.FieldPhone:
		a.order.Phone = value
	default:
		return
	}

	switch field.Form() {
	case model.FormDelivery:
		a.validateDelivery()
	case model.FormContacts:
		a.validateContacts()
	}
}

// SetPaymentMethod sets the payment method and revalidates the
// delivery group. Exists because payment is chosen with two exclusive
// buttons, not a text input.
func (a *AppData) SetPaymentMethod(method model.PaymentMethod) {
	a.order.Payment = method
	a.validateDelivery()
}

// validateDelivery recomputes the payment/address error map wholesale
// and always emits, fixed checking order: payment, then address.
func (a *AppData) validateDelivery() {
	errs := model.FormErrors{}
	if a.order.Payment == model.PaymentUnset {
		errs[model.FieldPayment] = msgPaymentRequired
	}
	if a.order.Address == "" {
		errs[model.FieldAddress] = msgAddressRequired
	}
	a.deliveryErrors = errs
	a.bus.Emit(event.DeliveryErrorsChanged{Errors: errs})
}

// validateContacts recomputes the email/phone error map wholesale and
// always emits, fixed checking order: email, then phone.
func (a *AppData) validateContacts() {
	errs := model.FormErrors{}
	if a.order.Email == "" {
		errs[model.FieldEmail] = msgEmailRequired
	}
	if a.order.Phone == "" {
		errs[model.FieldPhone] = msgPhoneRequired
	}
	a.contactErrors = errs
	a.bus.Emit(event.ContactErrorsChanged{Errors: errs})
}

// DeliveryErrors returns the current payment/address error map.
func (a *AppData) DeliveryErrors() model.FormErrors {
	return a.deliveryErrors
}

// ContactErrors returns the current email/phone error map.
func (a *AppData) ContactErrors() model.FormErrors {
	return a.contactErrors
}

// DeliveryValid reports whether the payment/address group has no
// errors as of its last recomputation.
func (a *AppData) DeliveryValid() bool {
	return len(a.deliveryErrors) == 0
}

// ContactsValid reports whether the email/phone group has no errors as
// of its last recomputation.
func (a *AppData) ContactsValid() bool {
	return len(a.contactErrors) == 0
}

// FinalizeOrder snapshots the basket into the draft: Total becomes the
// current basket total and Items the ids of basketed items with a real
// price, in basket order. It does not validate; callers gate on both
// groups being valid first.
func (a *AppData) FinalizeOrder() {
	total := a.BasketTotal()
	a.order.Total = &total
	a.order.Items = nil
	for _, it := range a.BasketItems() {
		if it.Priceless() {
			continue
		}
		a.order.Items = append(a.order.Items, it.ID)
	}
}

// Order returns the current draft.
func (a *AppData) Order() model.Order {
	return a.order
}

// ResetOrder restores the draft to empty defaults: all text fields
// empty, payment unset, Items empty, Total nil ("no total yet").
// Called after a successful submission and when checkout is abandoned.
func (a *AppData) ResetOrder() {
	a.order = model.Order{}
	a.deliveryErrors = model.FormErrors{}
	a.contactErrors = model.FormErrors{}
}
