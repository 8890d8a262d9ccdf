package ingest

import (
	"context"
	"fmt"
	"time"

	"cataloguechat/internal/config"
	"cataloguechat/internal/domain/commonModels"
	"cataloguechat/internal/metrics"
	"cataloguechat/internal/rag/embedding"
	"cataloguechat/internal/rag/vectorDB"
	"cataloguechat/pkg/logging"
)

// Batcher accumulates (text, metadata, id) triples and flushes them as one
// embedding call plus one upsert once the capacity is hit. The three slices
// move in lockstep; a chunk's position is the same in all of them.
//
// Flush is at-most-once per batch: an embedding or upsert error propagates
// with the pending state cleared of nothing, and the caller decides whether
// the run survives. There is no internal retry.
type Batcher struct {
	texts []string
	metas []commonModels.ChunkMeta
	ids   []string

	limit      int
	collection string
	embedder   embedding.Embedder
	store      vectorDB.DataProcessor
	logger     *logging.Logger
}

func NewBatcher(embedder embedding.Embedder, store vectorDB.DataProcessor, collection string, limit int) *Batcher {
	if limit <= 0 {
		limit = config.BatchSize
	}
	return &Batcher{
		limit:      limit,
		collection: collection,
		embedder:   embedder,
		store:      store,
		logger:     logging.NewLogger("Chunk Batcher"),
	}
}

// Add queues one chunk. Hitting capacity triggers a flush, whose error is
// returned here.
func (b *Batcher) Add(ctx context.Context, text string, meta commonModels.ChunkMeta, id string) error {
	b.texts = append(b.texts, text)
	b.metas = append(b.metas, meta)
	b.ids = append(b.ids, id)

	if len(b.texts) >= b.limit {
		return b.Flush(ctx)
	}
	return nil
}

// Flush embeds and upserts everything pending, then clears. Callers must
// invoke it once more at end-of-stream or the trailing partial batch is lost.
func (b *Batcher) Flush(ctx context.Context) error {
	if len(b.texts) == 0 {
		return nil
	}
	b.logger.Info("Embedding and upserting batch", "chunks", len(b.texts))

	start := time.Now()
	vectors, err := b.embedder.BatchEmbedding(ctx, b.texts)
	metrics.CaptureExecutionMetrics("embedding_batch", time.Since(start))
	if err != nil {
		return fmt.Errorf("embedding batch failed: %w", err)
	}

	start = time.Now()
	err = b.store.UpsertBatch(ctx, b.collection, b.ids, b.texts, vectors, b.metas)
	metrics.CaptureExecutionMetrics("vector_upsert", time.Since(start))
	if err != nil {
		return fmt.Errorf("batch upsert failed: %w", err)
	}

	metrics.IncrementBatchFlushes()
	b.texts, b.metas, b.ids = nil, nil, nil
	return nil
}

// Pending reports how many chunks are queued but not yet flushed.
func (b *Batcher) Pending() int {
	return len(b.texts)
}
