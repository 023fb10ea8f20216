// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Entry point for all documind CLI operations
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flags shared by all subcommands
var (
	verbose bool
	quiet   bool
	format  string
)

const banner = `
██████╗  ██████╗  ██████╗██╗   ██╗███╗   ███╗██╗███╗   ██╗██████╗
██╔══██╗██╔═══██╗██╔════╝██║   ██║████╗ ████║██║████╗  ██║██╔══██╗
██║  ██║██║   ██║██║     ██║   ██║██╔████╔██║██║██╔██╗ ██║██║  ██║
██║  ██║██║   ██║██║     ██║   ██║██║╚██╔╝██║██║██║╚██╗██║██║  ██║
██████╔╝╚██████╔╝╚██████╗╚██████╔╝██║ ╚═╝ ██║██║██║ ╚████║██████╔╝
╚═════╝  ╚═════╝  ╚═════╝ ╚═════╝ ╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝╚═════╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "documind",
		Short: "Chat with your documents from the command line",
		Long: banner + `
Documind ingests text, markdown, and PDF documents, indexes them with
embeddings, and answers questions grounded in their content.

Upload documents with 'documind upload', then ask questions with
'documind chat'. Run 'documind mcp' to expose the same capabilities
to LLM agents over the Model Context Protocol.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&format, "format", "auto", "Output format (auto, text, json)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(
		NewChatCmd(),
		NewUploadCmd(),
		NewDocsCmd(),
		NewSessionsCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
