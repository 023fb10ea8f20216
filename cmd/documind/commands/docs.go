// ABOUTME: CLI commands to manage uploaded documents
// ABOUTME: Lists, inspects, reprocesses, and soft-deletes documents
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/documind/documind/internal/core"
)

// NewDocsCmd creates the docs command group
func NewDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage uploaded documents",
		Long: `List, inspect, reprocess, and delete uploaded documents.

Examples:
  documind docs list
  documind docs show doc_abc123
  documind docs reprocess doc_abc123
  documind docs delete doc_abc123`,
	}

	cmd.AddCommand(
		newDocsListCmd(),
		newDocsShowCmd(),
		newDocsReprocessCmd(),
		newDocsDeleteCmd(),
	)

	return cmd
}

func newDocsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			infos, err := store.Documents().ListInfos()
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(cmd.OutOrStdout(), infos)
			}

			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No documents uploaded yet. Use 'documind upload <file>' to add one.")
				return nil
			}

			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s  %-22s  %d/%d chunks embedded  %s\n",
					info.ID, truncate(info.OriginalFilename, 30), info.Status,
					info.EmbeddedCount, info.ChunkCount, formatTime(info.UploadedAt))
			}
			return nil
		},
	}
}

func newDocsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <document-id>",
		Short: "Show details of one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			doc, err := store.Documents().GetByID(args[0])
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(cmd.OutOrStdout(), doc)
			}

			total, embedded, err := store.Chunks().CountByDocument(doc.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", doc.ID)
			fmt.Fprintf(out, "File:     %s (%s, %d bytes)\n", doc.OriginalFilename, doc.FileType, doc.FileSize)
			fmt.Fprintf(out, "Status:   %s\n", doc.Status)
			fmt.Fprintf(out, "Chunks:   %d (%d embedded)\n", total, embedded)
			fmt.Fprintf(out, "Uploaded: %s\n", formatTime(doc.UploadedAt))
			if doc.Summary != "" {
				fmt.Fprintf(out, "\nSummary:\n%s\n", doc.Summary)
			}
			if verbose && doc.ExtractedContent != "" {
				fmt.Fprintf(out, "\nExtracted content (first 500 chars):\n%s\n", truncate(doc.ExtractedContent, 500))
			}
			return nil
		},
	}
}

func newDocsReprocessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reprocess <document-id>",
		Short: "Rebuild chunks and embeddings for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			chunker := core.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
			ingestor := core.NewIngestor(store, client, client, chunker, cfg.UploadDir)

			if err := ingestor.Reprocess(cmd.Context(), args[0], user); err != nil {
				return err
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Reprocessed %s\n", args[0])
			}
			return nil
		},
	}
}

func newDocsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document from the index",
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

			chunker := core.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
			ingestor := core.NewIngestor(store, nil, nil, chunker, cfg.UploadDir)

			if err := ingestor.Delete(args[0], user); err != nil {
				return err
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
			}
			return nil
		},
	}
}
