// ABOUTME: CLI command to ask questions answered from uploaded documents
// ABOUTME: Supports one-shot questions and continuing an existing session
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/documind/documind/internal/core"
)

var chatSession string

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask a question about your documents",
		Long: `Ask a question answered from the uploaded document collection.

Each question runs one retrieval-augmented turn: the most relevant
document chunks are found by embedding similarity and handed to the
model as context. Without --session a new session is created, titled
after the question.

Examples:
  documind chat "What does the contract say about termination?"
  documind chat --session sess_abc123 "And the notice period?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringVarP(&chatSession, "session", "s", "", "Continue an existing session")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))

	cfg, store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, err := newOpenAIClient(cfg)
	if err != nil {
		return err
	}

	user, err := cliUser(store)
	if err != nil {
		return err
	}

	retriever := core.NewRetriever(cfg.MaxContextChunks, cfg.SimilarityThreshold)
	engine := core.NewChatEngine(store, client, client, retriever, cfg.HistoryWindow)

	result, err := engine.Send(cmd.Context(), user, chatSession, question)
	if err != nil {
		return err
	}

	if format == "json" {
		return printJSON(cmd.OutOrStdout(), result)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Reply)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSession: %s  Confidence: %.0f%%\n", result.SessionID, result.Confidence*100)
		if len(result.SourceDocuments) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Sources: %s\n", strings.Join(result.SourceDocuments, ", "))
		}
	}
	return nil
}
