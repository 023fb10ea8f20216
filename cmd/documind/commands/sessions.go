// ABOUTME: CLI commands to manage chat sessions
// ABOUTME: Lists sessions, shows message history, and soft-deletes sessions
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/documind/documind/internal/core"
	"github.com/documind/documind/internal/models"
	"github.com/documind/documind/internal/storage/sqlite"
)

// NewSessionsCmd creates the sessions command group
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage chat sessions",
		Long: `List chat sessions, view their message history, and delete them.

Examples:
  documind sessions list
  documind sessions history sess_abc123
  documind sessions delete sess_abc123`,
	}

	cmd.AddCommand(
		newSessionsListCmd(),
		newSessionsHistoryCmd(),
		newSessionsDeleteCmd(),
	)

	return cmd
}

// sessionEngine builds a ChatEngine for session management. No model
// calls happen here, so the gateways stay nil.
func sessionEngine(store *sqlite.Storage, historyWindow int) *core.ChatEngine {
	return core.NewChatEngine(store, nil, nil, nil, historyWindow)
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active chat sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := cliUser(store)
			if err != nil {
				return err
			}

			infos, err := sessionEngine(store, cfg.HistoryWindow).ListSessions(user)
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(cmd.OutOrStdout(), infos)
			}

			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet. Start one with 'documind chat'.")
				return nil
			}

			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-40s  %d messages  %s\n",
					info.ID, truncate(info.Title, 40), info.MessageCount, formatTime(info.LastMessageAt))
			}
			return nil
		},
	}
}

func newSessionsHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <session-id>",
		Short: "Show the message history of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := cliUser(store)
			if err != nil {
				return err
			}

			messages, err := sessionEngine(store, cfg.HistoryWindow).History(user, args[0])
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(cmd.OutOrStdout(), messages)
			}

			out := cmd.OutOrStdout()
			for _, msg := range messages {
				label := "You"
				if msg.Role == models.RoleAssistant {
					label = "Documind"
				}
				fmt.Fprintf(out, "[%s] %s:\n%s\n\n", msg.Timestamp.Format("2006-01-02 15:04"), label, msg.Content)
				if verbose && msg.Role == models.RoleAssistant && len(msg.SourceDocuments) > 0 {
					fmt.Fprintf(out, "  Confidence: %.0f%%  Sources: %s\n\n",
						msg.Confidence*100, strings.Join(msg.SourceDocuments, ", "))
				}
			}
			return nil
		},
	}
}

func newSessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a chat session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := cliUser(store)
			if err != nil {
				return err
			}

			if err := sessionEngine(store, cfg.HistoryWindow).DeleteSession(user, args[0]); err != nil {
				return err
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted session %s\n", args[0])
			}
			return nil
		},
	}
}
