package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the omnibridge application
var rootCmd = &cobra.Command{
	Use:   "omnibridge",
	Short: "MCP automation bridge for OmniFocus",
	Long: `omnibridge exposes the OmniFocus task database to AI assistants via the
Model Context Protocol (MCP).

Requests are translated into OmniJS automation scripts, executed through
the macOS osascript host, and the results are decoded into structured
JSON. Queries, filtering, perspective evaluation, task and project
mutations and batch operations are available as MCP tools.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "omnibridge version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
