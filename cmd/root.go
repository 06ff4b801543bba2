package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thisnaeem/invoicing-app/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicing",
	Short: "Invoicing - create, manage and export invoices from your terminal",
	Long: `Invoicing is a single-session invoice tool: compose invoices with line
items, compute totals and tax, search and filter saved invoices, and export
them as paginated PDF documents.

All invoice state lives in memory for the lifetime of a session; only
exported PDFs are written to disk.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Invoicing CLI executed")

		fmt.Println("Welcome to Invoicing!")
		fmt.Println("Run 'invoicing session' to start an invoice session, or --help for all commands.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
