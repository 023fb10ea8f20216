// ABOUTME: CLI command to upload and process a document
// ABOUTME: Extracts text, chunks it, and computes embeddings synchronously
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/documind/documind/internal/core"
)

// NewUploadCmd creates the upload command
func NewUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document and index it for chat",
		Long: `Upload a document, extract its text, and index it for retrieval.

Supported file types: txt, md, pdf. The file is copied into the upload
directory and processed immediately; once processed its content is
available to 'documind chat'.

Examples:
  documind upload report.pdf
  documind upload notes.md`,
		Args: cobra.ExactArgs(1),
		RunE: runUpload,
	}

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
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

	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Uploading %s...\n", args[0])
	}

	doc, err := ingestor.Upload(cmd.Context(), args[0], user)
	if err != nil {
		return err
	}

	total, embedded, err := store.Chunks().CountByDocument(doc.ID)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Uploaded %s (%s)\n", doc.OriginalFilename, doc.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "  Status: %s, %d/%d chunks embedded\n", doc.Status, embedded, total)
	}
	return nil
}
