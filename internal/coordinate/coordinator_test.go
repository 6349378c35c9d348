package coordinate

import (
	"errors"
	"testing"

	"webstall/internal/event"
	"webstall/internal/model"
	"webstall/internal/state"
)

// recordingViews captures render calls for assertions.
type recordingViews struct {
	catalogRenders  [][]model.Item
	counterRenders  []int
	previewRenders  []model.Item
	basketRenders   []basketRender
	deliveryRenders []formRender
	contactRenders  []formRender
	successRenders  []model.Receipt
}

type basketRender struct {
	items []model.Item
	total int64
}

type formRender struct {
	order model.Order
	errs  model.FormErrors
}

func (v *recordingViews) Render(items []model.Item, basketCount int) {
	v.catalogRenders = append(v.catalogRenders, items)
	v.counterRenders = append(v.counterRenders, basketCount)
}

type previewRecorder struct{ v *recordingViews }

func (p previewRecorder) Render(item model.Item) { p.v.previewRenders = append(p.v.previewRenders, item) }

type basketRecorder struct{ v *recordingViews }

func (b basketRecorder) Render(items []model.Item, total int64) {
	b.v.basketRenders = append(b.v.basketRenders, basketRender{items, total})
}

type deliveryRecorder struct{ v *recordingViews }

func (d deliveryRecorder) Render(order model.Order, errs model.FormErrors) {
	d.v.deliveryRenders = append(d.v.deliveryRenders, formRender{order, errs})
}

type contactsRecorder struct{ v *recordingViews }

func (c contactsRecorder) Render(order model.Order, errs model.FormErrors) {
	c.v.contactRenders = append(c.v.contactRenders, formRender{order, errs})
}

type successRecorder struct{ v *recordingViews }

func (s successRecorder) Render(r model.Receipt) { s.v.successRenders = append(s.v.successRenders, r) }

// fakeRemote completes synchronously by emitting back into the bus,
// which also exercises re-entrant dispatch through the coordinator.
type fakeRemote struct {
	bus        *event.Bus
	items      []model.Item
	receipt    model.Receipt
	placeErr   error
	placed     []model.Order
	fetchCalls int
}

func (r *fakeRemote) FetchCatalog() {
	r.fetchCalls++
	r.bus.Emit(event.CatalogLoaded{Items: r.items})
}

func (r *fakeRemote) PlaceOrder(order model.Order) {
	r.placed = append(r.placed, order)
	if r.placeErr != nil {
		r.bus.Emit(event.OrderFailed{Err: r.placeErr})
		return
	}
	r.bus.Emit(event.OrderPlaced{Receipt: r.receipt})
}

func catalogFixture() []model.Item {
	return []model.Item{
		{ID: "a", Title: "+1 hour a day", Price: model.PriceOf(100)},
		{ID: "b", Title: "Backend anti-stress", Price: nil},
		{ID: "c", Title: "Framerate detector", Price: model.PriceOf(250)},
	}
}

func newHarness(t *testing.T) (*event.Bus, *state.AppData, *recordingViews, *fakeRemote) {
	t.Helper()
	bus := event.NewBus(func(string, ...any) {})
	data := state.New(bus)
	rec := &recordingViews{}
	remote := &fakeRemote{bus: bus, items: catalogFixture(), receipt: model.Receipt{ID: "r1", Total: 100}}
	views := Views{
		Catalog:  rec,
		Preview:  previewRecorder{rec},
		Basket:   basketRecorder{rec},
		Delivery: deliveryRecorder{rec},
		Contacts: contactsRecorder{rec},
		Success:  successRecorder{rec},
	}
	New(bus, data, views, remote, func(string, ...any) {}).Register()
	return bus, data, rec, remote
}

func TestIntentBindingsCallExactlyOneMutation(t *testing.T) {
	bus, data, _, _ := newHarness(t)
	bus.Emit(event.CatalogLoaded{Items: catalogFixture()})

	tests := []struct {
		name  string
		emit  event.Event
		check func(t *testing.T)
	}{
		{
			name: "card_selected_sets_preview",
			emit: event.CardSelected{ID: "a"},
			check: func(t *testing.T) {
				if item, ok := data.Preview(); !ok || item.ID != "a" {
					t.Fatalf("preview not set, got %v %v", item, ok)
				}
			},
		},
		{
			name: "basket_toggle_flips_membership",
			emit: event.BasketToggled{ID: "c"},
			check: func(t *testing.T) {
				if data.BasketCount() != 1 {
					t.Fatalf("BasketCount() = %d, want 1", data.BasketCount())
				}
			},
		},
		{
			name: "payment_change_sets_method",
			emit: event.PaymentChanged{Method: model.PaymentCash},
			check: func(t *testing.T) {
				if data.Order().Payment != model.PaymentCash {
					t.Fatalf("payment = %q, want cash", data.Order().Payment)
				}
			},
		},
		{
			name: "field_change_writes_field",
			emit: event.FieldChanged{Form: model.FormContacts, Field: model.FieldEmail, Value: "x@y.z"},
			check: func(t *testing.T) {
				if data.Order().Email != "x@y.z" {
					t.Fatalf("email = %q, want x@y.z", data.Order().Email)
				}
			},
		},
		{
			name: "modal_close_resets_draft",
			emit: event.ModalClosed{},
			check: func(t *testing.T) {
				if o := data.Order(); o.Payment != model.PaymentUnset || o.Email != "" {
					t.Fatalf("draft not reset: %+v", o)
				}
			},
		},
		{
			name: "success_dismiss_clears_basket",
			emit: event.SuccessDismissed{},
			check: func(t *testing.T) {
				if data.BasketCount() != 0 {
					t.Fatalf("basket not cleared")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus.Emit(tt.emit)
			tt.check(t)
		})
	}
}

func TestChangeBindingsRenderTheAffectedView(t *testing.T) {
	bus, _, rec, _ := newHarness(t)

	bus.Emit(event.CatalogLoaded{Items: catalogFixture()})
	if len(rec.catalogRenders) != 1 {
		t.Fatalf("catalog renders = %d, want 1", len(rec.catalogRenders))
	}

	bus.Emit(event.CardSelected{ID: "b"})
	if len(rec.previewRenders) != 1 || rec.previewRenders[0].ID != "b" {
		t.Fatalf("preview renders = %v", rec.previewRenders)
	}

	bus.Emit(event.BasketToggled{ID: "a"})
	// basket:changed refreshes the catalog view, not the basket panel.
	if len(rec.basketRenders) != 0 {
		t.Fatalf("basket panel rendered without basket:open")
	}
	if len(rec.catalogRenders) != 2 {
		t.Fatalf("catalog renders = %d, want 2 after a toggle", len(rec.catalogRenders))
	}
	if last := rec.counterRenders[len(rec.counterRenders)-1]; last != 1 {
		t.Fatalf("counter = %d, want 1", last)
	}

	bus.Emit(event.BasketOpened{})
	if len(rec.basketRenders) != 1 || rec.basketRenders[0].total != 100 {
		t.Fatalf("basket renders = %+v, want one render with total 100", rec.basketRenders)
	}
}

func TestCatalogRendersCarryMembershipSnapshots(t *testing.T) {
	bus, data, rec, _ := newHarness(t)
	bus.Emit(event.CatalogLoaded{Items: catalogFixture()})

	bus.Emit(event.BasketToggled{ID: "a"})
	last := rec.catalogRenders[len(rec.catalogRenders)-1]
	if !last[0].InBasket {
		t.Fatalf("catalog render after toggle does not show membership: %+v", last[0])
	}

	// Each render is an independent snapshot, not a window into state.
	last[0].InBasket = false
	if data.BasketCount() != 1 {
		t.Fatalf("mutating a rendered snapshot changed state")
	}

	bus.Emit(event.BasketToggled{ID: "c"})
	next := rec.catalogRenders[len(rec.catalogRenders)-1]
	if !next[0].InBasket || !next[2].InBasket {
		t.Fatalf("fresh render lost membership: %+v", next)
	}
}

func TestErrorGroupRendersStaySeparate(t *testing.T) {
	bus, _, rec, _ := newHarness(t)
	bus.Emit(event.CatalogLoaded{Items: catalogFixture()})

	bus.Emit(event.FieldChanged{Form: model.FormDelivery, Field: model.FieldAddress, Value: ""})
	bus.Emit(event.FieldChanged{Form: model.FormContacts, Field: model.FieldPhone, Value: ""})

	if len(rec.deliveryRenders) != 1 {
		t.Fatalf("delivery renders = %d, want 1", len(rec.deliveryRenders))
	}
	if len(rec.contactRenders) != 1 {
		t.Fatalf("contact renders = %d, want 1", len(rec.contactRenders))
	}
	if _, ok := rec.deliveryRenders[0].errs[model.FieldPhone]; ok {
		t.Fatalf("contact error leaked into delivery render: %v", rec.deliveryRenders[0].errs)
	}
}

func TestContactsSubmitFinalizesThenPlaces(t *testing.T) {
	bus, _, rec, remote := newHarness(t)
	bus.Emit(event.CatalogLoaded{Items: catalogFixture()})
	bus.Emit(event.BasketToggled{ID: "a"})
	bus.Emit(event.BasketToggled{ID: "b"}) // priceless rides along

	bus.Emit(event.ContactsSubmitted{})

	if len(remote.placed) != 1 {
		t.Fatalf("PlaceOrder calls = %d, want 1", len(remote.placed))
	}
	o := remote.placed[0]
	if o.Total == nil || *o.Total != 100 {
		t.Fatalf("placed total = %v, want 100", o.Total)
	}
	if len(o.Items) != 1 || o.Items[0] != "a" {
		t.Fatalf("placed items = %v, want [a]", o.Items)
	}
	if len(rec.successRenders) != 1 || rec.successRenders[0].ID != "r1" {
		t.Fatalf("success renders = %v, want receipt r1", rec.successRenders)
	}
}

func TestFailedPlacementLeavesStateUntouched(t *testing.T) {
	bus, data, rec, remote := newHarness(t)
	remote.placeErr = errors.New("shop api: 502")
	bus.Emit(event.CatalogLoaded{Items: catalogFixture()})
	bus.Emit(event.BasketToggled{ID: "a"})
	bus.Emit(event.FieldChanged{Form: model.FormDelivery, Field: model.FieldAddress, Value: "5 High St"})

	bus.Emit(event.ContactsSubmitted{})

	if len(rec.successRenders) != 0 {
		t.Fatalf("success rendered on failure")
	}
	if data.Order().Address != "5 High St" {
		t.Fatalf("draft was reset on failure: %+v", data.Order())
	}
	if data.BasketCount() != 1 {
		t.Fatalf("basket changed on failure")
	}
}

func TestBindingTableOrderIsStable(t *testing.T) {
	bus := event.NewBus(func(string, ...any) {})
	data := state.New(bus)
	rec := &recordingViews{}
	views := Views{
		Catalog:  rec,
		Preview:  previewRecorder{rec},
		Basket:   basketRecorder{rec},
		Delivery: deliveryRecorder{rec},
		Contacts: contactsRecorder{rec},
		Success:  successRecorder{rec},
	}
	c := New(bus, data, views, &fakeRemote{bus: bus}, func(string, ...any) {})

	a := c.bindings()
	b := c.bindings()
	if len(a) != len(b) {
		t.Fatalf("binding table size changed between calls: %d vs %d", len(a), len(b))
	}
	seen := map[string]bool{}
	for i := range a {
		if a[i].name != b[i].name || a[i].topic != b[i].topic {
			t.Fatalf("binding %d changed between calls: %s vs %s", i, a[i].name, b[i].name)
		}
		if seen[a[i].name] {
			t.Fatalf("duplicate binding name %q", a[i].name)
		}
		seen[a[i].name] = true
	}
}
