package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lisa/cmd/api/httpclient"
	"lisa/cmd/internal/rag"
	"lisa/config"
)

func newBuildCmd(flags *indexFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Rebuild the index from the documents directory",
		Long: `Reads every .txt, .md, .json, .html and .htm file in the documents directory,
splits it into chunks, embeds them with Gemini and replaces the stored index.
Requires GEMINI_API_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options()
			cfg := config.GetConfig().Retrieval

			httpClient := httpclient.New(httpclient.Config{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second})
			embedder, err := rag.NewGeminiEmbedder(cmd.Context(), os.Getenv("GEMINI_API_KEY"), opts.EmbeddingModel, httpClient)
			if err != nil {
				return err
			}

			start := time.Now()
			manifest, err := rag.RebuildIndex(cmd.Context(), embedder, opts)
			if err != nil {
				return fmt.Errorf("rebuild index: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "indexed %d documents into %d chunks in %s\n",
				len(manifest.Documents), manifest.ChunkCount, time.Since(start).Round(time.Millisecond))
			fmt.Fprintf(out, "model: %s\n", embedder.Model())
			fmt.Fprintf(out, "storage: %s\n", opts.StorageDir)
			return nil
		},
	}
}
