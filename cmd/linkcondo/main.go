// Command linkcondo runs the condominium portal API and its maintenance
// tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "linkcondo",
		Short:   "LinkCondo - boletos and amenity bookings portal for condominium residents",
		Version: Version,
		// Running the binary without a subcommand serves the API.
		RunE: runServe,
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(encryptTokenCmd)
	rootCmd.AddCommand(emailPreviewCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
