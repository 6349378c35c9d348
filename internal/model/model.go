// Package model holds the storefront domain types shared by the state
// layer, the shop API client, and the views. Everything here is plain
// data; behavior lives in internal/state.
package model

// Category classifies a catalog item. The set is fixed on our side but
// the wire value is kept verbatim, so an unknown category still renders
// (unstyled) instead of failing the catalog load.
type Category string

const (
	CategorySoftSkill  Category = "soft-skill"
	CategoryHardSkill  Category = "hard-skill"
	CategoryAdditional Category = "additional"
	CategoryButton     Category = "button"
	CategoryOther      Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySoftSkill, CategoryHardSkill, CategoryAdditional, CategoryButton, CategoryOther:
		return true
	}
	return false
}

// Item is one catalog entry. Price nil means the item is priceless:
// not for sale, excluded from totals and from finalized orders.
// InBasket is the only mutable field; it flips in place via
// AppData.ToggleBasket.
type Item struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
	Price       *int64   `json:"price"`
	InBasket    bool     `json:"-"`
}

// Priceless reports whether the item has no sale price.
func (i Item) Priceless() bool {
	return i.Price == nil
}

// PaymentMethod is the checkout payment selector value.
type PaymentMethod string

const (
	PaymentUnset PaymentMethod = ""
	PaymentCard  PaymentMethod = "card"
	PaymentCash  PaymentMethod = "cash"
)

// Form identifies which checkout step a field-change event belongs to.
type Form string

const (
	FormDelivery Form = "delivery"
	FormContacts Form = "contacts"
)

// Field names one editable order field.
type Field string

const (
	FieldPayment Field = "payment"
	FieldAddress Field = "address"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
)

// Form returns the checkout step the field belongs to, or "" for an
// unknown field.
func (f Field) Form() Form {
	switch f {
	case FieldPayment, FieldAddress:
		return FormDelivery
	case FieldEmail, FieldPhone:
		return FormContacts
	}
	return ""
}

// Order is the checkout draft. Total stays nil until FinalizeOrder
// computes it and goes back to nil on ResetOrder; Items is populated
// only by FinalizeOrder, never by field setters.
type Order struct {
	Payment PaymentMethod `json:"payment"`
	Address string        `json:"address"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone"`
	Total   *int64        `json:"total"`
	Items   []string      `json:"items"`
}

// FormErrors maps an order field to a human-readable message.
// An empty map means the group is valid.
type FormErrors map[Field]string

// Receipt is the shop API's answer to a submitted order.
type Receipt struct {
	ID    string `json:"id"`
	Total int64  `json:"total"`
}

// PriceOf returns v as a nullable price. Convenience for literals in
// seeds and tests.
func PriceOf(v int64) *int64 {
	return &v
}
