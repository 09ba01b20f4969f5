// Package commands implements the radctl CLI commands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// outputFormat controls the output format of decoded pairs printed by
	// the decode command (table or json).
	outputFormat string

	// dictionaryPath is the path to the YAML attribute dictionary used to
	// resolve attribute names and kinds.
	dictionaryPath string

	// sharedSecret is the RADIUS shared secret used to de-obfuscate
	// encrypted attributes (User-Password, Tunnel-Password, etc.).
	sharedSecret string
)

// rootCmd is the top-level cobra command for radctl.
var rootCmd = &cobra.Command{
	Use:   "radctl",
	Short: "Decode and inspect RADIUS attributes offline",
	Long:  "radctl decodes RADIUS attribute streams using a YAML dictionary, without needing a running daemon.",
	// Silence cobra's built-in usage/error printing so we control it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table",
		"output format: table, json")
	rootCmd.PersistentFlags().StringVar(&dictionaryPath, "dictionary", "/etc/raddecoded/dictionary.yaml",
		"path to the YAML attribute dictionary")
	rootCmd.PersistentFlags().StringVar(&sharedSecret, "secret", "",
		"shared secret for decrypting User-Password/Tunnel-Password attributes")

	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(dictionaryCmd())
	rootCmd.AddCommand(versionCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
