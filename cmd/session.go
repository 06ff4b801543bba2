package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thisnaeem/invoicing-app/internal/config"
	"github.com/thisnaeem/invoicing-app/internal/export"
	"github.com/thisnaeem/invoicing-app/internal/ledger"
	"github.com/thisnaeem/invoicing-app/internal/logger"
	"github.com/thisnaeem/invoicing-app/pkg/models"
)

const sessionDateLayout = "2006-01-02"

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start an interactive invoice session",
	Long: `Start an interactive invoice session. The session holds one draft
invoice and the list of invoices saved during the session; everything is
kept in memory and discarded on exit, except PDFs exported with the
'export' command.

Initial settings (currency, tax rate, company details) are read from the
environment and can be changed with 'set' during the session:
  INVOICE_CURRENCY, INVOICE_TAX_RATE, COMPANY_NAME, COMPANY_ADDRESS,
  COMPANY_EMAIL, COMPANY_PHONE`,
	Example: `  # Start a session, exporting PDFs to the current directory
  invoicing session

  # Export PDFs into ./out instead
  invoicing session --out ./out`,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)

	sessionCmd.Flags().String("out", ".", "Directory for exported PDF documents")
}

// session wires one ledger, one exporter and the interactive shell together.
type session struct {
	ledger   *ledger.Ledger
	exporter *export.Exporter
	outDir   string
	out      io.Writer
}

func runSession(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("session")

	outDir, _ := cmd.Flags().GetString("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	s := &session{
		ledger:   ledger.New(cfg.GetSettings()),
		exporter: export.New(),
		outDir:   outDir,
		out:      cmd.OutOrStdout(),
	}

	log.Info().
		Str("out_dir", outDir).
		Str("currency", cfg.Currency).
		Float64("tax_rate", cfg.TaxRate).
		Msg("Session started")

	fmt.Fprintln(s.out, "Invoice session started. Type 'help' for commands, 'quit' to exit.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		s.dispatch(line)
	}

	log.Info().Msg("Session ended")
	return scanner.Err()
}

func (s *session) dispatch(line string) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help":
		s.printHelp()
	case "customer":
		s.ledger.UpdateCustomer(rest)
	case "notes":
		s.ledger.UpdateNotes(rest)
	case "date":
		s.setDate(rest, s.ledger.UpdateIssueDate)
	case "due":
		s.setDate(rest, s.ledger.UpdateDueDate)
	case "add":
		s.ledger.AddItem()
		fmt.Fprintf(s.out, "Added item %d\n", len(s.ledger.Draft().Items))
	case "item":
		s.updateItem(rest)
	case "remove":
		s.removeItem(rest)
	case "items", "draft":
		s.printDraft()
	case "save":
		notice, _ := s.ledger.SaveDraft()
		fmt.Fprintln(s.out, notice.Message)
	case "list":
		s.printInvoices(s.ledger.Search("", models.StatusAll))
	case "search":
		s.printInvoices(s.ledger.Search(rest, models.StatusAll))
	case "filter":
		s.filter(rest)
	case "status":
		s.setStatus(rest)
	case "settings":
		s.printSettings()
	case "set":
		s.updateSetting(rest)
	case "export":
		s.export(rest)
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", cmd)
	}
}

func (s *session) printHelp() {
	fmt.Fprint(s.out, `Draft commands:
  customer <name>              set the customer name
  date <YYYY-MM-DD>            set the issue date
  due <YYYY-MM-DD>             set the due date
  notes <text>                 set the notes
  add                          add an empty line item
  item <n> desc <text>         set item n's description
  item <n> qty <value>         set item n's quantity
  item <n> rate <value>        set item n's rate
  remove <n>                   remove item n
  draft                        show the draft with totals
  save                         save the draft and start a new one

Saved invoices:
  list                         list saved invoices
  search <term>                search by customer name or invoice number
  filter <status> [term]       filter by status (draft|sent|paid|overdue|all)
  status <number> <status>     set a saved invoice's status
  export <number>              export a saved invoice as PDF

Settings:
  settings                     show current settings
  set currency|taxrate|name|address|email|phone <value>

quit                           end the session (state is discarded)
`)
}

func (s *session) setDate(raw string, apply func(time.Time)) {
	t, err := time.Parse(sessionDateLayout, raw)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid date %q, expected YYYY-MM-DD\n", raw)
		return
	}
	apply(t)
}

// itemID resolves a 1-based positional index to the item's ID.
func (s *session) itemID(raw string) (string, bool) {
	n, err := strconv.Atoi(raw)
	items := s.ledger.Draft().Items
	if err != nil || n < 1 || n > len(items) {
		fmt.Fprintf(s.out, "No item %q; the draft has %d item(s)\n", raw, len(items))
		return "", false
	}
	return items[n-1].ID, true
}

func (s *session) updateItem(rest string) {
	parts := strings.SplitN(rest, " ", 3)
	if len(parts) < 3 {
		fmt.Fprintln(s.out, "Usage: item <n> desc|qty|rate <value>")
		return
	}
	id, ok := s.itemID(parts[0])
	if !ok {
		return
	}
	switch parts[1] {
	case "desc":
		s.ledger.UpdateItemDescription(id, parts[2])
	case "qty":
		s.ledger.UpdateItemQuantity(id, parts[2])
	case "rate":
		s.ledger.UpdateItemRate(id, parts[2])
	default:
		fmt.Fprintln(s.out, "Usage: item <n> desc|qty|rate <value>")
	}
}

func (s *session) removeItem(rest string) {
	if id, ok := s.itemID(rest); ok {
		s.ledger.RemoveItem(id)
	}
}

func (s *session) printDraft() {
	draft := s.ledger.Draft()
	settings := s.ledger.Settings()

	fmt.Fprintf(s.out, "%s  (draft)\n", draft.InvoiceNumber)
	fmt.Fprintf(s.out, "Customer: %s\n", draft.CustomerName)
	fmt.Fprintf(s.out, "Issued %s, due %s\n",
		draft.IssueDate.Format(sessionDateLayout), draft.DueDate.Format(sessionDateLayout))
	for i, it := range draft.Items {
		fmt.Fprintf(s.out, "  %d. %-30s %10g x %s = %s\n",
			i+1, it.Description, it.Quantity,
			export.FormatMoney(settings.Currency, it.Rate),
			export.FormatMoney(settings.Currency, it.Amount()))
	}
	fmt.Fprintf(s.out, "Subtotal: %s\n", export.FormatMoney(settings.Currency, s.ledger.Subtotal()))
	fmt.Fprintf(s.out, "Tax (%g%%): %s\n", settings.TaxRate, export.FormatMoney(settings.Currency, s.ledger.Tax()))
	fmt.Fprintf(s.out, "Total: %s\n", export.FormatMoney(settings.Currency, s.ledger.Total()))
	if draft.Notes != "" {
		fmt.Fprintf(s.out, "Notes: %s\n", draft.Notes)
	}
}

func (s *session) printInvoices(invoices []models.Invoice) {
	if len(invoices) == 0 {
		fmt.Fprintln(s.out, "No invoices.")
		return
	}
	settings := s.ledger.Settings()
	for _, inv := range invoices {
		fmt.Fprintf(s.out, "%s  %-20s %-8s %s\n",
			inv.InvoiceNumber, inv.CustomerName, inv.Status,
			export.FormatMoney(settings.Currency, inv.Total(settings.TaxRate)))
	}
}

func (s *session) filter(rest string) {
	term := ""
	statusRaw := rest
	if before, after, found := strings.Cut(rest, " "); found {
		statusRaw, term = before, strings.TrimSpace(after)
	}
	status, err := models.ParseStatus(statusRaw)
	if err != nil {
		fmt.Fprintln(s.out, "Usage: filter draft|sent|paid|overdue|all [search term]")
		return
	}
	s.printInvoices(s.ledger.Search(term, status))
}

func (s *session) setStatus(rest string) {
	parts := strings.Fields(rest)
	if len(parts) != 2 {
		fmt.Fprintln(s.out, "Usage: status <invoice-number> draft|sent|paid|overdue")
		return
	}
	inv, err := s.ledger.FindByNumber(parts[0])
	if err != nil {
		fmt.Fprintf(s.out, "No saved invoice %q\n", parts[0])
		return
	}
	status, err := models.ParseStatus(parts[1])
	if err != nil || status == models.StatusAll {
		fmt.Fprintln(s.out, "Usage: status <invoice-number> draft|sent|paid|overdue")
		return
	}
	if err := s.ledger.SetStatus(inv.ID, status); err != nil {
		fmt.Fprintf(s.out, "Could not update status: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s is now %s\n", inv.InvoiceNumber, status)
}

func (s *session) printSettings() {
	settings := s.ledger.Settings()
	fmt.Fprintf(s.out, "Currency:  %s\n", settings.Currency)
	fmt.Fprintf(s.out, "Tax rate:  %g%%\n", settings.TaxRate)
	fmt.Fprintf(s.out, "Company:   %s\n", settings.CompanyName)
	fmt.Fprintf(s.out, "Address:   %s\n", settings.CompanyAddress)
	fmt.Fprintf(s.out, "Email:     %s\n", settings.CompanyEmail)
	fmt.Fprintf(s.out, "Phone:     %s\n", settings.CompanyPhone)
}

// updateSetting replaces the whole settings record with one field changed.
func (s *session) updateSetting(rest string) {
	field, value, found := strings.Cut(rest, " ")
	if !found {
		fmt.Fprintln(s.out, "Usage: set currency|taxrate|name|address|email|phone <value>")
		return
	}
	value = strings.TrimSpace(value)

	settings := s.ledger.Settings()
	switch field {
	case "currency":
		settings.Currency = strings.ToUpper(value)
	case "taxrate":
		settings.TaxRate = ledger.CoerceNumber(value)
	case "name":
		settings.CompanyName = value
	case "address":
		settings.CompanyAddress = value
	case "email":
		settings.CompanyEmail = value
	case "phone":
		settings.CompanyPhone = value
	default:
		fmt.Fprintln(s.out, "Usage: set currency|taxrate|name|address|email|phone <value>")
		return
	}
	s.ledger.UpdateSettings(settings)
}

func (s *session) export(rest string) {
	inv, err := s.ledger.FindByNumber(rest)
	if err != nil {
		fmt.Fprintf(s.out, "No saved invoice %q\n", rest)
		return
	}
	path, err := s.exporter.WriteFile(inv, s.ledger.Settings(), s.outDir)
	if err != nil {
		fmt.Fprintf(s.out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Exported %s\n", path)
}
