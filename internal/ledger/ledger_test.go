package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thisnaeem/invoicing-app/pkg/models"
)

var testTime = time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(
		models.Settings{Currency: "USD", TaxRate: 10, CompanyName: "Test Co"},
		WithClock(func() time.Time { return testTime }),
	)
}

// saveInvoice saves a one-item invoice for the given customer.
func saveInvoice(t *testing.T, l *Ledger, customer string) models.Invoice {
	t.Helper()
	l.UpdateCustomer(customer)
	id := l.AddItem()
	l.UpdateItemDescription(id, "services")
	l.UpdateItemRate(id, "100")
	_, err := l.SaveDraft()
	require.NoError(t, err)
	saved := l.Invoices()
	return saved[len(saved)-1]
}

func TestInitialDraft(t *testing.T) {
	l := newTestLedger(t)
	draft := l.Draft()

	assert.Equal(t, "INV-2026-001", draft.InvoiceNumber)
	assert.Equal(t, testTime, draft.IssueDate)
	assert.Equal(t, testTime.Add(30*24*time.Hour), draft.DueDate)
	assert.Empty(t, draft.Items)
	assert.Empty(t, draft.Notes)
	assert.Equal(t, models.StatusDraft, draft.Status)
	assert.Empty(t, draft.ID, "draft has no identifier until save")
}

func TestAddItemDefaults(t *testing.T) {
	l := newTestLedger(t)

	id1 := l.AddItem()
	id2 := l.AddItem()
	require.NotEqual(t, id1, id2)

	items := l.Draft().Items
	require.Len(t, items, 2)
	assert.Equal(t, id1, items[0].ID)
	assert.Empty(t, items[0].Description)
	assert.InDelta(t, 1, items[0].Quantity, 1e-9)
	assert.Zero(t, items[0].Rate)
}

func TestRemoveItem(t *testing.T) {
	l := newTestLedger(t)
	id1 := l.AddItem()
	id2 := l.AddItem()
	id3 := l.AddItem()

	l.RemoveItem(id2)

	items := l.Draft().Items
	require.Len(t, items, 2)
	assert.Equal(t, id1, items[0].ID, "order preserved after removal")
	assert.Equal(t, id3, items[1].ID)

	// Unknown ID is a no-op, not an error.
	l.RemoveItem("missing")
	assert.Len(t, l.Draft().Items, 2)
}

func TestUpdateItem(t *testing.T) {
	l := newTestLedger(t)
	id := l.AddItem()

	l.UpdateItemDescription(id, "Consulting")
	l.UpdateItemQuantity(id, "2")
	l.UpdateItemRate(id, "$1,500.50")

	it := l.Draft().Items[0]
	assert.Equal(t, "Consulting", it.Description)
	assert.InDelta(t, 2, it.Quantity, 1e-9)
	assert.InDelta(t, 1500.50, it.Rate, 1e-9)

	// Non-numeric input coerces to 0.
	l.UpdateItemQuantity(id, "lots")
	assert.Zero(t, l.Draft().Items[0].Quantity)

	// Unknown ID is a no-op.
	l.UpdateItemRate("missing", "99")
	assert.InDelta(t, 1500.50, l.Draft().Items[0].Rate, 1e-9)
}

func TestDraftTotals(t *testing.T) {
	l := newTestLedger(t)

	id1 := l.AddItem()
	l.UpdateItemQuantity(id1, "2")
	l.UpdateItemRate(id1, "10.00")
	id2 := l.AddItem()
	l.UpdateItemRate(id2, "5.00")

	assert.InDelta(t, 25.00, l.Subtotal(), 1e-9)
	assert.InDelta(t, 2.50, l.Tax(), 1e-9)
	assert.InDelta(t, 27.50, l.Total(), 1e-9)
}

func TestSaveDraftValidation(t *testing.T) {
	t.Run("empty customer name", func(t *testing.T) {
		l := newTestLedger(t)
		l.AddItem()

		notice, err := l.SaveDraft()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCustomerNameRequired))
		assert.Equal(t, NoticeValidationError, notice.Kind)
		assert.Equal(t, MsgCustomerNameMissing, notice.Message)
		assert.Empty(t, l.Invoices(), "saved list must be unchanged")

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "customer_name", vErr.Field)
	})

	t.Run("whitespace customer name", func(t *testing.T) {
		l := newTestLedger(t)
		l.UpdateCustomer("   ")
		l.AddItem()

		_, err := l.SaveDraft()
		assert.True(t, errors.Is(err, ErrCustomerNameRequired))
	})

	t.Run("no items", func(t *testing.T) {
		l := newTestLedger(t)
		l.UpdateCustomer("Acme Corp")

		notice, err := l.SaveDraft()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrItemRequired))
		assert.Equal(t, MsgItemMissing, notice.Message)
		assert.Empty(t, l.Invoices())
	})

	t.Run("failed save keeps the draft", func(t *testing.T) {
		l := newTestLedger(t)
		l.AddItem()

		_, err := l.SaveDraft()
		require.Error(t, err)
		assert.Equal(t, "INV-2026-001", l.Draft().InvoiceNumber)
		assert.Len(t, l.Draft().Items, 1)
	})
}

func TestSaveDraftSuccess(t *testing.T) {
	l := newTestLedger(t)
	l.UpdateCustomer("Acme Corp")
	l.UpdateNotes("Net 30")
	id := l.AddItem()
	l.UpdateItemDescription(id, "Consulting")
	l.UpdateItemQuantity(id, "10")
	l.UpdateItemRate(id, "150")

	notice, err := l.SaveDraft()
	require.NoError(t, err)
	assert.Equal(t, NoticeSuccess, notice.Kind)
	assert.Equal(t, MsgInvoiceSaved, notice.Message)

	saved := l.Invoices()
	require.Len(t, saved, 1)
	assert.NotEmpty(t, saved[0].ID)
	assert.Equal(t, "INV-2026-001", saved[0].InvoiceNumber)
	assert.Equal(t, "Acme Corp", saved[0].CustomerName)
	assert.Equal(t, "Net 30", saved[0].Notes)
	assert.Equal(t, models.StatusDraft, saved[0].Status)
	require.Len(t, saved[0].Items, 1)
	assert.InDelta(t, 1500, saved[0].Subtotal(), 1e-9)

	// The fresh draft picks up the next sequence number.
	draft := l.Draft()
	assert.Equal(t, "INV-2026-002", draft.InvoiceNumber)
	assert.Empty(t, draft.Items)
	assert.Empty(t, draft.CustomerName)
	assert.Empty(t, draft.Notes)
}

func TestSequenceAcrossSaves(t *testing.T) {
	l := newTestLedger(t)

	saveInvoice(t, l, "First")
	saveInvoice(t, l, "Second")
	saveInvoice(t, l, "Third")

	saved := l.Invoices()
	require.Len(t, saved, 3)
	assert.Equal(t, "INV-2026-001", saved[0].InvoiceNumber)
	assert.Equal(t, "INV-2026-002", saved[1].InvoiceNumber)
	assert.Equal(t, "INV-2026-003", saved[2].InvoiceNumber)
	assert.Equal(t, "INV-2026-004", l.Draft().InvoiceNumber)
}

func TestSavedSnapshotIsolation(t *testing.T) {
	l := newTestLedger(t)
	saveInvoice(t, l, "Acme Corp")

	// Mutating the next draft must not affect the saved snapshot.
	l.UpdateCustomer("Someone Else")
	l.AddItem()
	assert.Equal(t, "Acme Corp", l.Invoices()[0].CustomerName)
	assert.Len(t, l.Invoices()[0].Items, 1)

	// Mutating the returned copy must not affect ledger state.
	snapshot := l.Invoices()
	snapshot[0].Items[0].Rate = 9999
	assert.InDelta(t, 100, l.Invoices()[0].Items[0].Rate, 1e-9)
}

func TestSearchAndFilter(t *testing.T) {
	l := newTestLedger(t)
	first := saveInvoice(t, l, "Acme Corp")
	second := saveInvoice(t, l, "Globex")
	third := saveInvoice(t, l, "acme industries")

	require.NoError(t, l.SetStatus(second.ID, models.StatusPaid))
	require.NoError(t, l.SetStatus(third.ID, models.StatusSent))

	t.Run("case-insensitive customer match", func(t *testing.T) {
		got := l.Search("ACME", models.StatusAll)
		require.Len(t, got, 2)
		assert.Equal(t, first.InvoiceNumber, got[0].InvoiceNumber, "insertion order preserved")
		assert.Equal(t, third.InvoiceNumber, got[1].InvoiceNumber)
	})

	t.Run("invoice number match", func(t *testing.T) {
		got := l.Search("inv-2026-002", models.StatusAll)
		require.Len(t, got, 1)
		assert.Equal(t, "Globex", got[0].CustomerName)
	})

	t.Run("status filter only", func(t *testing.T) {
		got := l.Search("", models.StatusPaid)
		require.Len(t, got, 1)
		assert.Equal(t, second.ID, got[0].ID)
	})

	t.Run("term and status combine", func(t *testing.T) {
		got := l.Search("acme", models.StatusSent)
		require.Len(t, got, 1)
		assert.Equal(t, third.ID, got[0].ID)
	})

	t.Run("all statuses pass", func(t *testing.T) {
		assert.Len(t, l.Search("", models.StatusAll), 3)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, l.Search("initech", models.StatusAll))
	})

	t.Run("pure", func(t *testing.T) {
		a := l.Search("acme", models.StatusAll)
		b := l.Search("acme", models.StatusAll)
		assert.Equal(t, a, b)
		assert.Len(t, l.Invoices(), 3, "search must not modify the ledger")
	})
}

func TestSetStatus(t *testing.T) {
	l := newTestLedger(t)
	inv := saveInvoice(t, l, "Acme Corp")

	require.NoError(t, l.SetStatus(inv.ID, models.StatusOverdue))
	assert.Equal(t, models.StatusOverdue, l.Invoices()[0].Status)

	assert.True(t, errors.Is(l.SetStatus("missing", models.StatusPaid), ErrInvoiceNotFound))
	assert.True(t, errors.Is(l.SetStatus(inv.ID, models.StatusAll), ErrInvalidStatus))
}

func TestFindByNumber(t *testing.T) {
	l := newTestLedger(t)
	saveInvoice(t, l, "Acme Corp")

	inv, err := l.FindByNumber("inv-2026-001")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", inv.CustomerName)

	_, err = l.FindByNumber("INV-2026-999")
	assert.True(t, errors.Is(err, ErrInvoiceNotFound))
}

func TestUpdateSettings(t *testing.T) {
	l := newTestLedger(t)
	id := l.AddItem()
	l.UpdateItemRate(id, "100")

	assert.InDelta(t, 10, l.Tax(), 1e-9)

	s := l.Settings()
	s.TaxRate = 0
	s.Currency = "EUR"
	l.UpdateSettings(s)

	assert.Zero(t, l.Tax())
	assert.Equal(t, "EUR", l.Settings().Currency)
	assert.Equal(t, "Test Co", l.Settings().CompanyName, "untouched fields survive replacement")
}

func TestResetDraft(t *testing.T) {
	l := newTestLedger(t)
	l.UpdateCustomer("Abandoned")
	l.AddItem()

	l.ResetDraft()

	draft := l.Draft()
	assert.Empty(t, draft.CustomerName)
	assert.Empty(t, draft.Items)
	assert.Equal(t, "INV-2026-001", draft.InvoiceNumber, "sequence still reflects saved count")
}
