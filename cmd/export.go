package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/thisnaeem/invoicing-app/internal/config"
	"github.com/thisnaeem/invoicing-app/internal/export"
	"github.com/thisnaeem/invoicing-app/internal/logger"
	"github.com/thisnaeem/invoicing-app/pkg/models"
)

var exportCmd = &cobra.Command{
	Use:   "export [invoice-file]",
	Short: "Render an invoice described by a JSON file as a PDF document",
	Long: `Render a single invoice from a JSON description into a fixed-layout
paginated PDF, without starting a session. Company details and the tax rate
are taken from the environment (COMPANY_NAME, INVOICE_TAX_RATE, ...); missing
values render as blanks.

The JSON file describes one invoice:

  {
    "invoice_number": "INV-2026-001",
    "customer_name": "Acme Corp",
    "issue_date": "2026-08-30",
    "due_date": "2026-09-29",
    "notes": "Payment due within 30 days",
    "items": [
      {"description": "Consulting", "quantity": 10, "rate": 150}
    ]
  }`,
	Example: `  # Render next to the input file as invoice-INV-2026-001.pdf
  invoicing export invoice.json

  # Render to an explicit path
  invoicing export invoice.json -o /tmp/acme.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "Output PDF path (default: invoice-<number>.pdf beside the input)")
}

// exportInput is the JSON shape accepted by the export command. Dates are
// plain YYYY-MM-DD strings; item IDs are generated when absent.
type exportInput struct {
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name"`
	IssueDate     string `json:"issue_date"`
	DueDate       string `json:"due_date"`
	Notes         string `json:"notes"`
	Items         []struct {
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		Rate        float64 `json:"rate"`
	} `json:"items"`
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	outputPath, _ := cmd.Flags().GetString("output")
	inputPath := args[0]

	log.Info().
		Str("file", inputPath).
		Str("output", outputPath).
		Msg("Starting invoice export")

	if err := validateInvoiceFile(inputPath); err != nil {
		log.Error().Err(err).Str("file", inputPath).Msg("Invoice file validation failed")
		return err
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read invoice file: %w", err)
	}

	var input exportInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("failed to parse invoice JSON: %w", err)
	}

	inv, err := input.toInvoice()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	settings := cfg.GetSettings()

	exporter := export.New()
	start := time.Now()

	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(inputPath), export.Filename(inv))
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close output file")
		}
	}()

	if err := exporter.Write(inv, settings, out); err != nil {
		return err
	}

	log.Info().
		Str("invoice_number", inv.InvoiceNumber).
		Str("output", outputPath).
		Int("items", len(inv.Items)).
		Dur("duration", time.Since(start)).
		Msg("Invoice export completed")

	fmt.Printf("Exported %s\n", outputPath)
	return nil
}

func (in exportInput) toInvoice() (models.Invoice, error) {
	inv := models.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: in.InvoiceNumber,
		CustomerName:  in.CustomerName,
		Notes:         in.Notes,
		Status:        models.StatusDraft,
	}

	if in.InvoiceNumber == "" {
		return models.Invoice{}, fmt.Errorf("invoice_number is required")
	}

	var err error
	if in.IssueDate != "" {
		if inv.IssueDate, err = time.Parse("2006-01-02", in.IssueDate); err != nil {
			return models.Invoice{}, fmt.Errorf("invalid issue_date %q: %w", in.IssueDate, err)
		}
	}
	if in.DueDate != "" {
		if inv.DueDate, err = time.Parse("2006-01-02", in.DueDate); err != nil {
			return models.Invoice{}, fmt.Errorf("invalid due_date %q: %w", in.DueDate, err)
		}
	}

	for _, it := range in.Items {
		inv.Items = append(inv.Items, models.InvoiceItem{
			ID:          uuid.NewString(),
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		})
	}
	return inv, nil
}

// validateInvoiceFile checks that the input exists, is a regular file and is
// not empty.
func validateInvoiceFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("invoice file not found: %s", path)
		}
		return fmt.Errorf("error accessing invoice file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path is not a regular file: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("invoice file is empty: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".json") {
		log := logger.WithComponent("export")
		log.Warn().
			Str("file", path).
			Msg("File does not have .json extension")
	}
	return nil
}
