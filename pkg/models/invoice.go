package models

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle state of an invoice.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"

	// StatusAll is a filter wildcard, never stored on an invoice.
	StatusAll Status = "all"
)

// ParseStatus converts user input into a Status. It accepts the four
// lifecycle states plus "all"; anything else is an error.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusSent:
		return StatusSent, nil
	case StatusPaid:
		return StatusPaid, nil
	case StatusOverdue:
		return StatusOverdue, nil
	case StatusAll:
		return StatusAll, nil
	}
	return "", fmt.Errorf("unknown invoice status: %q", s)
}

// InvoiceItem is a single line on an invoice.
type InvoiceItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// Amount returns the line amount (quantity × rate).
func (it InvoiceItem) Amount() float64 {
	return it.Quantity * it.Rate
}

// Invoice is a customer invoice. Subtotal, tax and total are always derived
// from Items on demand and never stored.
type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	CustomerName  string        `json:"customer_name"`
	IssueDate     time.Time     `json:"issue_date"`
	DueDate       time.Time     `json:"due_date"`
	Items         []InvoiceItem `json:"items"`
	Notes         string        `json:"notes,omitempty"`
	Status        Status        `json:"status"`
}

// Subtotal sums the line amounts of every item, in insertion order.
func (inv Invoice) Subtotal() float64 {
	var total float64
	for _, it := range inv.Items {
		total += it.Amount()
	}
	return total
}

// Tax returns the tax due on the invoice's subtotal at the given
// percentage rate.
func (inv Invoice) Tax(ratePct float64) float64 {
	return inv.Subtotal() * ratePct / 100
}

// Total returns subtotal plus tax at the given percentage rate.
func (inv Invoice) Total(ratePct float64) float64 {
	return inv.Subtotal() + inv.Tax(ratePct)
}

// Clone returns a deep copy of the invoice, including its item slice.
func (inv Invoice) Clone() Invoice {
	out := inv
	out.Items = make([]InvoiceItem, len(inv.Items))
	copy(out.Items, inv.Items)
	return out
}
