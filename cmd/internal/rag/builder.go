package rag

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentEmbedBatches = 4

// EmbedChunks 는 청크를 batchSize 씩 묶어 병렬로 임베딩하고 chunks 에 채워 넣는다.
func EmbedChunks(ctx context.Context, embedder Embedder, chunks []Chunk, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 16
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEmbedBatches)

	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, c := range batch {
				texts[i] = c.Content
			}
			vectors, err := embedder.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed chunks %s..%s: %w", batch[0].ID, batch[len(batch)-1].ID, err)
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
			}
			for i := range batch {
				batch[i].Embedding = vectors[i]
			}
			return nil
		})
	}
	return g.Wait()
}

// BuildIndex 는 문서를 청크로 나누고 임베딩해 저장소에 기록한다.
func BuildIndex(ctx context.Context, store *Store, embedder Embedder, docs []Document, opts Options) ([]Chunk, error) {
	chunks := ChunkDocuments(docs, opts.ChunkSize, opts.ChunkOverlap)
	if len(chunks) == 0 {
		return nil, nil
	}
	if err := EmbedChunks(ctx, embedder, chunks, opts.EmbedBatchSize); err != nil {
		return nil, err
	}

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	manifest := Manifest{
		EmbeddingModel: opts.EmbeddingModel,
		Documents:      names,
		ChunkCount:     len(chunks),
		BuiltAt:        time.Now(),
	}
	if err := store.Replace(chunks, manifest); err != nil {
		return nil, err
	}
	return chunks, nil
}

// RebuildIndex 는 저장된 인덱스를 무시하고 documents 디렉토리로부터 새로 만든다.
// API 서버가 초기화 중이면 같은 storage 디렉토리를 열 수 없다.
func RebuildIndex(ctx context.Context, embedder Embedder, opts Options) (*Manifest, error) {
	if embedder == nil {
		return nil, ErrNoEmbedder
	}
	files, err := ListDocumentFiles(opts.DocumentsDir)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoDocuments
	}
	docs, err := LoadDocuments(ctx, opts.DocumentsDir, files)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(opts.StorageDir)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	chunks, err := BuildIndex(ctx, store, embedder, docs, opts)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrNoDocuments
	}
	return store.Manifest()
}

// InspectIndex 는 storage 디렉토리에 저장된 인덱스의 Manifest 를 읽는다. 없으면 (nil, nil).
func InspectIndex(storageDir string) (*Manifest, error) {
	store, err := OpenStore(storageDir)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Manifest()
}
