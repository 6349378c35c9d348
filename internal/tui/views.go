package tui

import (
	"webstall/internal/model"
)

// The view types below are the render targets handed to the
// coordinator. Each one only stores what it was last told to show; the
// App reads these snapshots when drawing. None of them touch AppData.

// catalogView holds the item grid and the basket counter. Both refresh
// together: membership markers and the counter derive from the same
// basket state.
type catalogView struct {
	items       []model.Item
	basketCount int
}

func (v *catalogView) Render(items []model.Item, basketCount int) {
	v.items = items
	v.basketCount = basketCount
}

// previewView holds the item open in the preview modal.
type previewView struct {
	item model.Item
	open bool
}

func (v *previewView) Render(item model.Item) {
	v.item = item
	v.open = true
}

func (v *previewView) close() {
	v.open = false
}

// basketView holds the basketed items and their total.
type basketView struct {
	items []model.Item
	total int64
}

func (v *basketView) Render(items []model.Item, total int64) {
	v.items = items
	v.total = total
}

// orderable reports whether the basket can proceed to checkout: at
// least one item that actually costs something.
func (v *basketView) orderable() bool {
	return v.total > 0
}

// deliveryFormView holds the payment/address step.
type deliveryFormView struct {
	order model.Order
	errs  model.FormErrors
}

func (v *deliveryFormView) Render(order model.Order, errs model.FormErrors) {
	v.order = order
	v.errs = errs
}

// valid gates the "next" control. Checked against the order itself,
// not just the error map, so an untouched form starts disabled.
func (v *deliveryFormView) valid() bool {
	return len(v.errs) == 0 && v.order.Payment != model.PaymentUnset && v.order.Address != ""
}

// contactFormView holds the email/phone step.
type contactFormView struct {
	order model.Order
	errs  model.FormErrors
}

func (v *contactFormView) Render(order model.Order, errs model.FormErrors) {
	v.order = order
	v.errs = errs
}

func (v *contactFormView) valid() bool {
	return len(v.errs) == 0 && v.order.Email != "" && v.order.Phone != ""
}

// successView holds the receipt of the last placed order.
type successView struct {
	receipt model.Receipt
}

func (v *successView) Render(receipt model.Receipt) {
	v.receipt = receipt
}
