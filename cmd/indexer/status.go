package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"lisa/cmd/internal/rag"
)

func newStatusCmd(flags *indexFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the stored index was built from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options()
			manifest, err := rag.InspectIndex(opts.StorageDir)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), opts, manifest)
			return nil
		},
	}
}

func printStatus(w io.Writer, opts rag.Options, m *rag.Manifest) {
	fmt.Fprintf(w, "storage:   %s\n", opts.StorageDir)
	if m == nil {
		fmt.Fprintln(w, "index:     not built")
		return
	}
	fmt.Fprintf(w, "model:     %s\n", m.EmbeddingModel)
	if m.EmbeddingModel != opts.EmbeddingModel {
		fmt.Fprintf(w, "warning:   configured model is %s, the API will rebuild on start\n", opts.EmbeddingModel)
	}
	fmt.Fprintf(w, "built at:  %s\n", m.BuiltAt.Format(time.RFC3339))
	fmt.Fprintf(w, "chunks:    %d\n", m.ChunkCount)
	fmt.Fprintf(w, "documents: %d\n", len(m.Documents))
	for _, d := range m.Documents {
		fmt.Fprintf(w, "  - %s\n", d)
	}
}
