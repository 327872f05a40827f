package main

import (
	"github.com/spf13/cobra"

	"lisa/cmd/internal/logger"
	"lisa/cmd/internal/rag"
	"lisa/config"
)

type indexFlags struct {
	documentsDir string
	storageDir   string
}

// newRootCmd 는 API 서버와 같은 config.yaml 을 읽는 인덱스 관리 CLI 를 만든다.
func newRootCmd() *cobra.Command {
	flags := &indexFlags{}

	root := &cobra.Command{
		Use:   "indexer",
		Short: "Manage the LISA document index",
		Long: `indexer builds and inspects the persisted document index used by the LISA chat API.

The API server loads the index once at startup, so restart it after
rebuilding the index.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitApp()
			cfg := config.GetConfig()
			logger.Init(cfg.Logging.Level, cfg.Logging.File)
		},
	}

	root.PersistentFlags().StringVar(&flags.documentsDir, "docs", "", "documents directory (default: retrieval.documents_dir)")
	root.PersistentFlags().StringVar(&flags.storageDir, "storage", "", "index storage directory (default: retrieval.storage_dir)")

	root.AddCommand(newBuildCmd(flags), newStatusCmd(flags))
	return root
}

func (f *indexFlags) options() rag.Options {
	cfg := config.GetConfig().Retrieval
	opts := rag.Options{
		DocumentsDir:   config.ResolvePath(cfg.DocumentsDir),
		StorageDir:     config.ResolvePath(cfg.StorageDir),
		EmbeddingModel: cfg.EmbeddingModel,
		TopK:           cfg.TopK,
		ChunkSize:      cfg.ChunkSize,
		ChunkOverlap:   cfg.ChunkOverlap,
		EmbedBatchSize: cfg.EmbedBatchSize,
	}
	if f.documentsDir != "" {
		opts.DocumentsDir = f.documentsDir
	}
	if f.storageDir != "" {
		opts.StorageDir = f.storageDir
	}
	return opts
}
