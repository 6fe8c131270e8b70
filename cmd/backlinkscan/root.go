package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for backlinkscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backlinkscan",
		Short: "Verify that backlink pages link to your sites",
		Long: `backlinkscan fetches a list of backlink pages concurrently and reports,
for each page, whether it links to one of your target URLs.

Every page is classified as GOOD (a target is linked), BAD (no target is
linked), BLOCKED (an anti-bot wall answered instead of the page) or ERROR
(the page could not be fetched). For GOOD pages the anchor text and the
Dofollow/Nofollow type of each link are reported.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
