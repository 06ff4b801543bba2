// Package ledger implements the in-memory invoice ledger: a single mutable
// draft invoice, an append-only list of saved invoice snapshots, and the
// derived-total arithmetic over both.
//
// The ledger owns no I/O and never touches disk; its state lives for one
// session. All operations are synchronous and the ledger is not safe for
// concurrent use — callers introducing multiple goroutines must add their
// own synchronization.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thisnaeem/invoicing-app/internal/logger"
	"github.com/thisnaeem/invoicing-app/pkg/models"
)

const dueDateOffset = 30 * 24 * time.Hour

// Ledger holds the current draft, the saved invoice list and the session
// settings. Exactly one draft exists at any time; saved invoices are
// snapshots whose content never changes after save (only their status may
// be advanced through SetStatus).
type Ledger struct {
	settings models.Settings
	draft    models.Invoice
	saved    []models.Invoice
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for invoice numbering and dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a ledger with the given settings and an initialized draft.
func New(settings models.Settings, opts ...Option) *Ledger {
	l := &Ledger{
		settings: settings,
		now:      time.Now,
		log:      logger.WithComponent("ledger"),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.draft = l.newDraft()
	return l
}

// newDraft builds a fresh draft invoice. The sequence component of the
// invoice number is derived from the current saved count, which is enough
// for a single-user session but would collide under concurrent saves.
func (l *Ledger) newDraft() models.Invoice {
	now := l.now()
	return models.Invoice{
		InvoiceNumber: fmt.Sprintf("INV-%d-%03d", now.Year(), len(l.saved)+1),
		IssueDate:     now,
		DueDate:       now.Add(dueDateOffset),
		Items:         []models.InvoiceItem{},
		Status:        models.StatusDraft,
	}
}

// Draft returns a copy of the current draft.
func (l *Ledger) Draft() models.Invoice {
	return l.draft.Clone()
}

// ResetDraft discards the current draft and starts a new one.
func (l *Ledger) ResetDraft() {
	l.draft = l.newDraft()
	l.log.Debug().Str("invoice_number", l.draft.InvoiceNumber).Msg("Draft reset")
}

// Settings returns the current settings record.
func (l *Ledger) Settings() models.Settings {
	return l.settings
}

// UpdateSettings replaces the settings record wholesale.
func (l *Ledger) UpdateSettings(s models.Settings) {
	l.settings = s
	l.log.Debug().
		Str("currency", s.Currency).
		Float64("tax_rate", s.TaxRate).
		Msg("Settings updated")
}

// AddItem appends an empty line item (quantity 1, rate 0) to the draft and
// returns its generated ID. There is no limit on item count.
func (l *Ledger) AddItem() string {
	item := models.InvoiceItem{
		ID:       uuid.NewString(),
		Quantity: 1,
	}
	l.draft.Items = append(l.draft.Items, item)
	return item.ID
}

// RemoveItem removes the draft item with the given ID, preserving the order
// of the remaining items. Unknown IDs are a silent no-op.
func (l *Ledger) RemoveItem(id string) {
	for i, it := range l.draft.Items {
		if it.ID == id {
			l.draft.Items = append(l.draft.Items[:i], l.draft.Items[i+1:]...)
			return
		}
	}
}

// UpdateItemDescription sets the description of the item with the given ID.
// Unknown IDs are a silent no-op.
func (l *Ledger) UpdateItemDescription(id, description string) {
	if it := l.findItem(id); it != nil {
		it.Description = description
	}
}

// UpdateItemQuantity sets the quantity of the item with the given ID from
// raw user input, applying CoerceNumber. Unknown IDs are a silent no-op.
func (l *Ledger) UpdateItemQuantity(id, raw string) {
	if it := l.findItem(id); it != nil {
		it.Quantity = CoerceNumber(raw)
	}
}

// UpdateItemRate sets the rate of the item with the given ID from raw user
// input, applying CoerceNumber. Unknown IDs are a silent no-op.
func (l *Ledger) UpdateItemRate(id, raw string) {
	if it := l.findItem(id); it != nil {
		it.Rate = CoerceNumber(raw)
	}
}

func (l *Ledger) findItem(id string) *models.InvoiceItem {
	for i := range l.draft.Items {
		if l.draft.Items[i].ID == id {
			return &l.draft.Items[i]
		}
	}
	return nil
}

// UpdateCustomer sets the draft's customer name.
func (l *Ledger) UpdateCustomer(name string) {
	l.draft.CustomerName = name
}

// UpdateNotes sets the draft's notes.
func (l *Ledger) UpdateNotes(notes string) {
	l.draft.Notes = notes
}

// UpdateIssueDate sets the draft's issue date.
func (l *Ledger) UpdateIssueDate(t time.Time) {
	l.draft.IssueDate = t
}

// UpdateDueDate sets the draft's due date.
func (l *Ledger) UpdateDueDate(t time.Time) {
	l.draft.DueDate = t
}

// Subtotal returns the draft's subtotal.
func (l *Ledger) Subtotal() float64 {
	return l.draft.Subtotal()
}

// Tax returns the tax due on the draft at the current settings rate.
func (l *Ledger) Tax() float64 {
	return l.draft.Tax(l.settings.TaxRate)
}

// Total returns the draft's total at the current settings rate.
func (l *Ledger) Total() float64 {
	return l.draft.Total(l.settings.TaxRate)
}

// SaveDraft validates the draft and, on success, appends an immutable
// snapshot of it to the saved list and starts a fresh draft. On validation
// failure the saved list and the draft are left untouched. The returned
// Notice always describes the outcome in user-facing terms; err is non-nil
// exactly when validation failed.
func (l *Ledger) SaveDraft() (Notice, error) {
	if strings.TrimSpace(l.draft.CustomerName) == "" {
		l.log.Warn().Str("invoice_number", l.draft.InvoiceNumber).Msg("Save rejected: no customer name")
		return Notice{Kind: NoticeValidationError, Message: MsgCustomerNameMissing},
			newValidationError("customer_name", MsgCustomerNameMissing, ErrCustomerNameRequired)
	}
	if len(l.draft.Items) == 0 {
		l.log.Warn().Str("invoice_number", l.draft.InvoiceNumber).Msg("Save rejected: no items")
		return Notice{Kind: NoticeValidationError, Message: MsgItemMissing},
			newValidationError("items", MsgItemMissing, ErrItemRequired)
	}

	saved := l.draft.Clone()
	saved.ID = uuid.NewString()
	l.saved = append(l.saved, saved)
	l.draft = l.newDraft()

	l.log.Info().
		Str("invoice_id", saved.ID).
		Str("invoice_number", saved.InvoiceNumber).
		Str("customer", saved.CustomerName).
		Int("items", len(saved.Items)).
		Float64("total", saved.Total(l.settings.TaxRate)).
		Msg("Invoice saved")

	return Notice{Kind: NoticeSuccess, Message: MsgInvoiceSaved}, nil
}

// Invoices returns a copy of the saved invoice list in insertion order.
func (l *Ledger) Invoices() []models.Invoice {
	out := make([]models.Invoice, len(l.saved))
	for i, inv := range l.saved {
		out[i] = inv.Clone()
	}
	return out
}

// Search returns the saved invoices whose customer name or invoice number
// contains term (case-insensitive) and whose status matches the filter.
// StatusAll passes every status. Insertion order is preserved and the
// ledger is never modified.
func (l *Ledger) Search(term string, status models.Status) []models.Invoice {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := []models.Invoice{}
	for _, inv := range l.saved {
		if status != models.StatusAll && inv.Status != status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(inv.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), needle) {
			continue
		}
		out = append(out, inv.Clone())
	}
	return out
}

// FindByNumber returns the saved invoice with the given invoice number.
func (l *Ledger) FindByNumber(number string) (models.Invoice, error) {
	for _, inv := range l.saved {
		if strings.EqualFold(inv.InvoiceNumber, number) {
			return inv.Clone(), nil
		}
	}
	return models.Invoice{}, ErrInvoiceNotFound
}

// SetStatus advances the status of the saved invoice with the given ID.
// Status is the only field of a saved invoice that may change; StatusAll is
// rejected as it is a filter value, not a storable status.
func (l *Ledger) SetStatus(id string, status models.Status) error {
	switch status {
	case models.StatusDraft, models.StatusSent, models.StatusPaid, models.StatusOverdue:
	default:
		return ErrInvalidStatus
	}
	for i := range l.saved {
		if l.saved[i].ID == id {
			l.saved[i].Status = status
			l.log.Info().
				Str("invoice_number", l.saved[i].InvoiceNumber).
				Str("status", string(status)).
				Msg("Invoice status updated")
			return nil
		}
	}
	return ErrInvoiceNotFound
}
