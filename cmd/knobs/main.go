package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/knobs-dev/knobs/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦╔═┌┐┌┌─┐┌┐ ┌─┐
  ╠╩╗││││ │├┴┐└─┐
  ╩ ╩┘└┘└─┘└─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "knobs",
		Short: "Server-side form widgets with a live browser preview",
		Long: `Knobs is a library of HTML form widgets driven from Go.

Widgets live on the server as typed views over an element tree;
the browser renders them and streams input back over a WebSocket.
The CLI wraps the demo gallery:

  • knobs serve  - run the live preview server
  • knobs build  - render a static snapshot into dist/
  • knobs deploy - push the snapshot to an S3 bucket`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(
		serveCmd(),
		buildCmd(),
		deployCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the knobs ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
