// Package tui is the terminal storefront. The App model owns the
// Bubble Tea event loop; every user action is translated into a bus
// event, and everything drawn comes from the view snapshots the
// coordinator rendered into. The App never mutates AppData directly.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"webstall/internal/api"
	"webstall/internal/config"
	"webstall/internal/coordinate"
	"webstall/internal/event"
	"webstall/internal/model"
)

// App ties the event loop, the render targets and the shop remote
// together into one Bubble Tea model.
type App struct {
	ctx context.Context
	bus *event.Bus
	cfg config.Config

	catalog  *catalogView
	preview  *previewView
	basket   *basketView
	delivery *deliveryFormView
	contacts *contactFormView
	success  *successView

	remote *shopRemote

	modal        modalState
	cursor       int
	basketCursor int

	searching bool
	search    textinput.Model

	address      textinput.Model
	email        textinput.Model
	phone        textinput.Model
	contactFocus int // 0 email, 1 phone

	status     string
	submitting bool

	// queued collects the async commands the remote scheduled while a
	// bus emit was running; Update drains it before returning.
	queued []tea.Cmd
}

type modalState string

const (
	modalNone     modalState = ""
	modalPreview  modalState = "preview"
	modalBasket   modalState = "basket"
	modalDelivery modalState = "delivery"
	modalContacts modalState = "contacts"
	modalSuccess  modalState = "success"
)

// New builds the app model. Wire its Views and Remote into the
// coordinator before starting the program.
func New(ctx context.Context, cfg config.Config, bus *event.Bus, client *api.Client) *App {
	a := &App{
		ctx:      ctx,
		bus:      bus,
		cfg:      cfg,
		catalog:  &catalogView{},
		preview:  &previewView{},
		basket:   &basketView{},
		delivery: &deliveryFormView{},
		contacts: &contactFormView{},
		success:  &successView{},
	}
	a.remote = &shopRemote{
		ctx:     ctx,
		client:  client,
		enqueue: func(cmd tea.Cmd) { a.queued = append(a.queued, cmd) },
	}

	a.search = textinput.New()
	a.search.Placeholder = "search"
	a.search.CharLimit = 64

	a.address = textinput.New()
	a.address.Placeholder = "delivery address"
	a.email = textinput.New()
	a.email.Placeholder = "email"
	a.phone = textinput.New()
	a.phone.Placeholder = "phone"
	return a
}

// Views returns the render targets for coordinator wiring.
func (a *App) Views() coordinate.Views {
	return coordinate.Views{
		Catalog:  a.catalog,
		Preview:  a.preview,
		Basket:   a.basket,
		Delivery: a.delivery,
		Contacts: a.contacts,
		Success:  a.success,
	}
}

// Remote returns the async shop boundary for coordinator wiring.
func (a *App) Remote() coordinate.Remote {
	return a.remote
}

func (a *App) Init() tea.Cmd {
	a.status = "loading catalog..."
	a.remote.FetchCatalog()
	return a.drainQueued()
}

// emit publishes ev and returns whatever async work the dispatch
// scheduled through the remote.
func (a *App) emit(ev event.Event) tea.Cmd {
	a.bus.Emit(ev)
	return a.drainQueued()
}

func (a *App) drainQueued() tea.Cmd {
	if len(a.queued) == 0 {
		return nil
	}
	cmds := a.queued
	a.queued = nil
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleCatalogKey(m)

	case catalogLoadedMsg:
		a.status = ""
		a.cursor = 0
		return a, a.emit(event.CatalogLoaded{Items: m.items})
	case catalogFailedMsg:
		a.status = "error: " + m.err.Error()
		return a, a.emit(event.CatalogFailed{Err: m.err})
	case orderPlacedMsg:
		a.submitting = false
		a.status = ""
		a.modal = modalSuccess
		a.blurInputs()
		return a, a.emit(event.OrderPlaced{Receipt: m.receipt})
	case orderFailedMsg:
		a.submitting = false
		a.status = "error: " + m.err.Error()
		return a, a.emit(event.OrderFailed{Err: m.err})
	}
	return a, nil
}

func (a *App) handleCatalogKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searching {
		switch m.Type {
		case tea.KeyEsc:
			a.searching = false
			a.search.SetValue("")
			a.search.Blur()
			a.cursor = 0
			return a, nil
		case tea.KeyEnter:
			a.searching = false
			a.search.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(m)
		a.cursor = 0
		return a, cmd
	}

	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "/":
		a.searching = true
		a.search.Focus()
		return a, textinput.Blink
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.visibleItems())-1 {
			a.cursor++
		}
	case "enter":
		if it, ok := a.itemUnderCursor(); ok {
			a.modal = modalPreview
			return a, a.emit(event.CardSelected{ID: it.ID})
		}
	case " ":
		if it, ok := a.itemUnderCursor(); ok {
			return a, a.emit(event.BasketToggled{ID: it.ID})
		}
	case "b":
		a.modal = modalBasket
		a.basketCursor = 0
		return a, a.emit(event.BasketOpened{})
	case "R":
		a.status = "loading catalog..."
		a.remote.FetchCatalog()
		return a, a.drainQueued()
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalPreview:
		return a.handlePreviewKey(m)
	case modalBasket:
		return a.handleBasketKey(m)
	case modalDelivery:
		return a.handleDeliveryKey(m)
	case modalContacts:
		return a.handleContactsKey(m)
	case modalSuccess:
		switch m.String() {
		case "enter", "esc", " ":
			a.modal = modalNone
			return a, a.emit(event.SuccessDismissed{})
		case "q", "ctrl+c":
			return a, tea.Quit
		}
	}
	return a, nil
}

func (a *App) handlePreviewKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.modal = modalNone
		a.preview.close()
		return a, a.emit(event.ModalClosed{})
	case " ", "enter":
		id := a.preview.item.ID
		cmd := a.emit(event.BasketToggled{ID: id})
		// Re-select so the preview snapshot picks up the flipped
		// membership before the next draw.
		return a, tea.Batch(cmd, a.emit(event.CardSelected{ID: id}))
	case "b":
		a.modal = modalBasket
		a.basketCursor = 0
		a.preview.close()
		return a, a.emit(event.BasketOpened{})
	}
	return a, nil
}

func (a *App) handleBasketKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.modal = modalNone
		return a, a.emit(event.ModalClosed{})
	case "up", "k":
		if a.basketCursor > 0 {
			a.basketCursor--
		}
	case "down", "j":
		if a.basketCursor < len(a.basket.items)-1 {
			a.basketCursor++
		}
	case " ", "x", "backspace":
		if len(a.basket.items) == 0 {
			return a, nil
		}
		id := a.basket.items[a.basketCursor].ID
		if a.basketCursor >= len(a.basket.items)-1 && a.basketCursor > 0 {
			a.basketCursor--
		}
		// Removal re-renders the basket through basket:open so the
		// panel reflects the new contents immediately.
		cmd := a.emit(event.BasketToggled{ID: id})
		return a, tea.Batch(cmd, a.emit(event.BasketOpened{}))
	case "enter", "o":
		if !a.basket.orderable() {
			a.status = "nothing to order"
			return a, nil
		}
		a.modal = modalDelivery
		cmd := a.emit(event.OrderOpened{})
		a.syncDeliveryInputs()
		return a, tea.Batch(cmd, textinput.Blink)
	}
	return a, nil
}

func (a *App) handleDeliveryKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		a.modal = modalNone
		a.blurInputs()
		return a, a.emit(event.ModalClosed{})
	case tea.KeyTab:
		// Two exclusive payment buttons; tab flips between them.
		next := model.PaymentCard
		if a.delivery.order.Payment == model.PaymentCard {
			next = model.PaymentCash
		}
		return a, a.emit(event.PaymentChanged{Method: next})
	case tea.KeyEnter:
		if !a.delivery.valid() {
			a.status = firstError(a.delivery.errs, model.FieldPayment, model.FieldAddress)
			return a, nil
		}
		a.status = ""
		a.modal = modalContacts
		cmd := a.emit(event.OrderSubmitted{})
		a.syncContactInputs()
		return a, tea.Batch(cmd, textinput.Blink)
	}

	before := a.address.Value()
	var cmd tea.Cmd
	a.address, cmd = a.address.Update(m)
	if a.address.Value() != before {
		return a, tea.Batch(cmd, a.emit(event.FieldChanged{
			Form:  model.FormDelivery,
			Field: model.FieldAddress,
			Value: a.address.Value(),
		}))
	}
	return a, cmd
}

func (a *App) handleContactsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		a.modal = modalNone
		a.blurInputs()
		return a, a.emit(event.ModalClosed{})
	case tea.KeyTab, tea.KeyShiftTab:
		a.contactFocus = 1 - a.contactFocus
		a.syncContactFocus()
		return a, textinput.Blink
	case tea.KeyEnter:
		if a.submitting {
			return a, nil
		}
		if !a.contacts.valid() {
			a.status = firstError(a.contacts.errs, model.FieldEmail, model.FieldPhone)
			return a, nil
		}
		a.submitting = true
		a.status = "placing order..."
		return a, a.emit(event.ContactsSubmitted{})
	}

	input := &a.email
	field := model.FieldEmail
	if a.contactFocus == 1 {
		input = &a.phone
		field = model.FieldPhone
	}
	before := input.Value()
	var cmd tea.Cmd
	*input, cmd = input.Update(m)
	if input.Value() != before {
		return a, tea.Batch(cmd, a.emit(event.FieldChanged{
			Form:  model.FormContacts,
			Field: field,
			Value: input.Value(),
		}))
	}
	return a, cmd
}

func (a *App) syncDeliveryInputs() {
	a.address.SetValue(a.delivery.order.Address)
	a.address.CursorEnd()
	a.address.Focus()
	a.email.Blur()
	a.phone.Blur()
}

func (a *App) syncContactInputs() {
	a.email.SetValue(a.contacts.order.Email)
	a.phone.SetValue(a.contacts.order.Phone)
	a.contactFocus = 0
	a.address.Blur()
	a.syncContactFocus()
}

func (a *App) syncContactFocus() {
	if a.contactFocus == 0 {
		a.email.Focus()
		a.phone.Blur()
	} else {
		a.phone.Focus()
		a.email.Blur()
	}
}

func (a *App) blurInputs() {
	a.address.Blur()
	a.email.Blur()
	a.phone.Blur()
}

// visibleItems applies the search filter to the rendered catalog.
func (a *App) visibleItems() []model.Item {
	return filterItems(a.catalog.items, a.search.Value())
}

func (a *App) itemUnderCursor() (model.Item, bool) {
	items := a.visibleItems()
	if len(items) == 0 || a.cursor >= len(items) {
		return model.Item{}, false
	}
	return items[a.cursor], true
}

// firstError picks the message to surface, in field display order.
func firstError(errs model.FormErrors, order ...model.Field) string {
	for _, f := range order {
		if msg, ok := errs[f]; ok {
			return msg
		}
	}
	for _, msg := range errs {
		return msg
	}
	return "form is incomplete"
}

// async remote

// shopRemote implements coordinate.Remote over the HTTP client. Calls
// never block the dispatch thread: each schedules a command and the
// completion re-enters the loop as a typed message.
type shopRemote struct {
	ctx     context.Context
	client  *api.Client
	enqueue func(tea.Cmd)
}

func (r *shopRemote) FetchCatalog() {
	r.enqueue(func() tea.Msg {
		items, err := r.client.FetchCatalog(r.ctx)
		if err != nil {
			return catalogFailedMsg{err}
		}
		return catalogLoadedMsg{items}
	})
}

func (r *shopRemote) PlaceOrder(order model.Order) {
	r.enqueue(func() tea.Msg {
		receipt, err := r.client.SubmitOrder(r.ctx, order)
		if err != nil {
			return orderFailedMsg{err}
		}
		return orderPlacedMsg{receipt}
	})
}

// messages
type catalogLoadedMsg struct{ items []model.Item }

type catalogFailedMsg struct{ err error }

type orderPlacedMsg struct{ receipt model.Receipt }

type orderFailedMsg struct{ err error }

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	priceStyle    = lipgloss.NewStyle().Bold(true)
	categoryStyle = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func (a *App) View() string {
	body := a.renderCatalog()
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return body
}

func (a *App) renderCatalog() string {
	title := titleStyle.Render(fmt.Sprintf("WebStall    basket: %d", a.catalog.basketCount))
	out := title + "\n"
	if a.searching || a.search.Value() != "" {
		out += a.search.View() + "\n"
	}
	items := a.visibleItems()
	if len(items) == 0 {
		if len(a.catalog.items) == 0 {
			out += "(catalog is empty)\n"
		} else {
			out += "(no items match)\n"
		}
	}
	for i, it := range items {
		marker := " "
		if i == a.cursor && a.modal == modalNone {
			marker = "▶"
		}
		inBasket := " "
		if it.InBasket {
			inBasket = selectedStyle.Render("●")
		}
		out += fmt.Sprintf("%s %s %-36s %-12s %s\n",
			marker, inBasket, it.Title,
			categoryStyle.Render(string(it.Category)),
			a.formatPrice(it.Price))
	}
	out += "[enter] View  [space] Toggle basket  [b] Basket  [/] Search  [R] Reload  [q] Quit"
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalPreview:
		it := a.preview.item
		out := titleStyle.Render(it.Title) + "\n"
		out += categoryStyle.Render(string(it.Category)) + "  " + priceStyle.Render(a.formatPrice(it.Price)) + "\n"
		if it.Description != "" {
			out += it.Description + "\n"
		}
		action := "[space] Add to basket"
		if it.InBasket {
			action = "[space] Remove from basket"
		}
		return out + action + "  [b] Basket  [esc] Close"
	case modalBasket:
		out := titleStyle.Render("Basket") + "\n"
		if len(a.basket.items) == 0 {
			out += "(empty)\n"
		}
		for i, it := range a.basket.items {
			marker := " "
			if i == a.basketCursor {
				marker = "▶"
			}
			out += fmt.Sprintf("%s %-36s %s\n", marker, it.Title, a.formatPrice(it.Price))
		}
		out += fmt.Sprintf("Total: %s\n", priceStyle.Render(a.formatPrice(&a.basket.total)))
		return out + "[enter] Checkout  [space] Remove  [esc] Close"
	case modalDelivery:
		out := titleStyle.Render("Checkout 1/2: delivery") + "\n"
		out += "Payment: " + a.renderPaymentButtons() + "  (tab to switch)\n"
		out += "Address: " + a.address.View() + "\n"
		out += a.renderErrors(a.delivery.errs, model.FieldPayment, model.FieldAddress)
		return out + "[enter] Next  [esc] Cancel"
	case modalContacts:
		out := titleStyle.Render("Checkout 2/2: contacts") + "\n"
		out += "Email: " + a.email.View() + "\n"
		out += "Phone: " + a.phone.View() + "\n"
		out += a.renderErrors(a.contacts.errs, model.FieldEmail, model.FieldPhone)
		return out + "[tab] Switch field  [enter] Place order  [esc] Cancel"
	case modalSuccess:
		out := titleStyle.Render("Order placed") + "\n"
		out += fmt.Sprintf("Order %s\nCharged %s\n", a.success.receipt.ID, a.formatPrice(&a.success.receipt.Total))
		return out + "[enter] Back to catalog"
	}
	return ""
}

func (a *App) renderPaymentButtons() string {
	card, cash := "[ card ]", "[ cash ]"
	switch a.delivery.order.Payment {
	case model.PaymentCard:
		card = selectedStyle.Render("[*card ]")
	case model.PaymentCash:
		cash = selectedStyle.Render("[*cash ]")
	}
	return card + " " + cash
}

func (a *App) renderErrors(errs model.FormErrors, fields ...model.Field) string {
	var out strings.Builder
	for _, f := range fields {
		if msg, ok := errs[f]; ok {
			out.WriteString(errorStyle.Render(msg) + "\n")
		}
	}
	return out.String()
}

// formatPrice renders a nullable price with the configured currency
// label; nil means the item is display-only.
func (a *App) formatPrice(p *int64) string {
	if p == nil {
		return "priceless"
	}
	label := a.cfg.UI.CurrencyLabel
	if label == "" {
		label = "synapses"
	}
	return fmt.Sprintf("%d %s", *p, label)
}
