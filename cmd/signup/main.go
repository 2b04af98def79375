// Signup is the terminal client for the waitlist service.
//
// It renders the signup form in the terminal and submits entries to a
// running waitlist API.
//
// Usage:
//
//	signup [flags]
//
// See 'signup --help' for available flags.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nimbuslabs/waitlist-service/internal/client"
	"github.com/nimbuslabs/waitlist-service/internal/i18n"
	"github.com/nimbuslabs/waitlist-service/internal/tui"
	"github.com/nimbuslabs/waitlist-service/pkg/constants"
)

var (
	apiURL string
	locale string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "signup",
	Short: "Join the waitlist from your terminal",
	Long: `An interactive terminal form for joining the waitlist.

Fill in your details and submit; the entry is sent to the waitlist API
configured with --api.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runForm()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&apiURL, "api", "http://localhost:8080", "base URL of the waitlist API")
	rootCmd.Flags().StringVar(&locale, "locale", constants.DefaultLocale, "locale for form labels and messages")
}

func runForm() error {
	catalog, err := i18n.Load(constants.DefaultLocale)
	if err != nil {
		return fmt.Errorf("loading locale catalogs: %w", err)
	}

	apiClient := client.New(apiURL, locale)
	model := tui.NewFormModel(apiClient, catalog.ForLocale(locale))

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running signup form: %w", err)
	}

	return nil
}
