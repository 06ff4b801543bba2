// Package export renders invoices into fixed-layout paginated PDF documents.
//
// The renderer reads an invoice and the session settings and never mutates
// either. Missing settings fields render as blanks; the only failure mode is
// an I/O or PDF-generation error when the document is written out.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"github.com/thisnaeem/invoicing-app/internal/logger"
	"github.com/thisnaeem/invoicing-app/pkg/models"
)

const (
	pageMargin  = 15.0
	rowHeight   = 8.0
	breakMargin = 20.0
	dateLayout  = "Jan 2, 2006"
	colDesc     = 90.0
	colQty      = 25.0
	colRate     = 32.5
	colAmount   = 32.5
)

// Exporter renders invoices to PDF.
type Exporter struct {
	log zerolog.Logger
}

// New creates an Exporter.
func New() *Exporter {
	return &Exporter{log: logger.WithComponent("export")}
}

// Filename derives the export filename for an invoice.
func Filename(inv models.Invoice) string {
	return "invoice-" + inv.InvoiceNumber + ".pdf"
}

// FormatMoney renders a monetary value as "<currency code> <amount to two
// decimal places>". A blank currency code leaves just the amount.
func FormatMoney(currency string, amount float64) string {
	return strings.TrimSpace(fmt.Sprintf("%s %.2f", currency, amount))
}

// Render builds the PDF document for one invoice: title, company block,
// invoice metadata, customer, the item table with subtotal/tax/total footer,
// and a notes section when notes are present. The item table flows onto
// additional pages when it outgrows one, repeating the column header.
func (e *Exporter) Render(inv models.Invoice, settings models.Settings) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, breakMargin)
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Company block from settings; blank fields render as blanks.
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(110, 6, settings.CompanyName, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Invoice #: "+inv.InvoiceNumber, "", 1, "R", false, 0, "")

	pdf.CellFormat(110, 5, settings.CompanyAddress, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Issue Date: "+formatDate(inv), "", 1, "R", false, 0, "")

	pdf.CellFormat(110, 5, settings.CompanyEmail, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Due Date: "+formatDueDate(inv), "", 1, "R", false, 0, "")

	pdf.CellFormat(110, 5, settings.CompanyPhone, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Customer
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 5, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, inv.CustomerName, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	e.renderTable(pdf, inv, settings)

	if strings.TrimSpace(inv.Notes) != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 5, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, inv.Notes, "", "L", false)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, pdf.Error())
	}
	return pdf, nil
}

// renderTable draws the item table and its totals footer, starting a new
// page (with a repeated header row) whenever the next row would not fit on
// the current one.
func (e *Exporter) renderTable(pdf *gofpdf.Fpdf, inv models.Invoice, settings models.Settings) {
	drawHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(colDesc, rowHeight, "Description", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colQty, rowHeight, "Qty", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colRate, rowHeight, "Rate", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colAmount, rowHeight, "Amount", "1", 1, "R", true, 0, "")
		pdf.SetFont("Arial", "", 10)
	}

	ensureRoom := func() {
		_, pageH := pdf.GetPageSize()
		if pdf.GetY()+rowHeight > pageH-breakMargin {
			pdf.AddPage()
			drawHeader()
		}
	}

	drawHeader()
	for _, it := range inv.Items {
		ensureRoom()
		pdf.CellFormat(colDesc, rowHeight, it.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, rowHeight, trimQuantity(it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colRate, rowHeight, FormatMoney(settings.Currency, it.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colAmount, rowHeight, FormatMoney(settings.Currency, it.Amount()), "1", 1, "R", false, 0, "")
	}

	footer := func(label, value string, bold bool) {
		ensureRoom()
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(colDesc+colQty, rowHeight, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(colRate, rowHeight, label, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colAmount, rowHeight, value, "1", 1, "R", false, 0, "")
	}

	subtotal := inv.Subtotal()
	tax := inv.Tax(settings.TaxRate)
	total := inv.Total(settings.TaxRate)

	footer("Subtotal", FormatMoney(settings.Currency, subtotal), false)
	footer(fmt.Sprintf("Tax (%s%%)", trimQuantity(settings.TaxRate)), FormatMoney(settings.Currency, tax), false)
	footer("Total", FormatMoney(settings.Currency, total), true)
}

// Write renders the invoice and streams the PDF to w.
func (e *Exporter) Write(inv models.Invoice, settings models.Settings, w io.Writer) error {
	pdf, err := e.Render(inv, settings)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write invoice %s: %w", inv.InvoiceNumber, err)
	}
	return nil
}

// WriteFile renders the invoice into dir using the derived filename and
// returns the path written.
func (e *Exporter) WriteFile(inv models.Invoice, settings models.Settings, dir string) (string, error) {
	pdf, err := e.Render(inv, settings)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(inv))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	info, statErr := os.Stat(path)
	size := int64(0)
	if statErr == nil {
		size = info.Size()
	}
	e.log.Info().
		Str("invoice_number", inv.InvoiceNumber).
		Str("path", path).
		Int64("size", size).
		Int("pages", pdf.PageCount()).
		Msg("Invoice exported")
	return path, nil
}

func formatDate(inv models.Invoice) string {
	if inv.IssueDate.IsZero() {
		return ""
	}
	return inv.IssueDate.Format(dateLayout)
}

func formatDueDate(inv models.Invoice) string {
	if inv.DueDate.IsZero() {
		return ""
	}
	return inv.DueDate.Format(dateLayout)
}

// trimQuantity renders a float without trailing zeros (2 → "2", 1.5 → "1.5").
func trimQuantity(f float64) string {
	s := fmt.Sprintf("%.3f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
