package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"cataloguechat/internal/config"
	"cataloguechat/internal/domain/commonModels"
	"cataloguechat/internal/harvest"
	"cataloguechat/internal/metrics"
	"cataloguechat/internal/parse"
	"cataloguechat/pkg/logging"
)

// RecordSource is what the pipeline pulls records from; harvest.Cursor
// satisfies it, tests feed fakes.
type RecordSource interface {
	Next(ctx context.Context) (*harvest.Record, error)
}

// FulltextOptions mirrors the per-source fulltext block of sources.yaml.
type FulltextOptions struct {
	Enabled        bool
	AllowedDomains []string
	MaxMB          int
}

type textSource struct {
	label string
	text  string
}

// Pipeline drives one ingestion run: per record it builds the metadata
// summary, optionally fetches and parses full-text files, chunks everything
// and feeds the batcher. Per-record trouble is logged and skipped; only
// batch (embed/upsert) failures end the run, since a half-flushed batch is
// not recoverable in-process. Re-running is the recovery path: chunk ids
// are deterministic, so upserts are idempotent.
type Pipeline struct {
	batcher      *Batcher
	client       *http.Client
	fulltext     FulltextOptions
	chunkSize    int
	chunkOverlap int
	rawDir       string
	logger       *logging.Logger
}

func NewPipeline(batcher *Batcher, client *http.Client, fulltext FulltextOptions, rawDir string) *Pipeline {
	return &Pipeline{
		batcher:      batcher,
		client:       client,
		fulltext:     fulltext,
		chunkSize:    config.ChunkSize,
		chunkOverlap: config.ChunkOverlap,
		rawDir:       rawDir,
		logger:       logging.NewLogger("Ingestion"),
	}
}

// Run consumes the record source to exhaustion, returning the total number
// of chunks queued for embedding (including any drained by the final flush).
func (p *Pipeline) Run(ctx context.Context, src RecordSource) (int, error) {
	total := 0
	idx := 0
	for {
		rec, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("harvest stream failed: %w", err)
		}
		idx++

		n, err := p.ingestRecord(ctx, rec, idx)
		if err != nil {
			return total + n, err
		}
		total += n
	}

	if err := p.batcher.Flush(ctx); err != nil {
		return total, err
	}
	p.logger.Info("Ingestion run complete", "total_chunks", total)
	return total, nil
}

func (p *Pipeline) ingestRecord(ctx context.Context, rec *harvest.Record, idx int) (int, error) {
	if rec.ID == "" {
		p.logger.Warn("Record skipped: no usable id", "index", idx, "oai_identifier", rec.OAIIdentifier)
		return 0, nil
	}

	title := rec.Title
	if title == "" {
		title = "Untitled"
	}
	p.logger.Info("Ingesting record", "index", idx, "id", rec.ID, "title", title, "url", rec.URL)

	var texts []textSource
	if summary := metadataSummary(rec, title); summary != "" {
		texts = append(texts, textSource{label: "metadata", text: summary})
	}

	if p.fulltext.Enabled && rec.URL != "" && domainAllowed(rec.URL, p.fulltext.AllowedDomains) {
		for _, fp := range p.fetchRecordFiles(ctx, rec) {
			text, err := parse.ExtractFile(fp)
			if err != nil {
				p.logger.Error("Error parsing file", "file", fp, "error", err)
				continue
			}
			if len(strings.TrimSpace(text)) <= config.MinTextLength {
				p.logger.Debug("Extracted text too short, discarding", "file", fp)
				continue
			}
			texts = append(texts, textSource{label: filepath.Base(fp), text: text})
		}
	}

	count := 0
	for _, ts := range texts {
		for i, chunk := range SplitText(ts.text, p.chunkSize, p.chunkOverlap) {
			// persisted id format, stable across runs for idempotent re-ingest
			docID := fmt.Sprintf("%s:%s:%d", rec.ID, ts.label, i)
			meta := commonModels.ChunkMeta{
				RecordID: rec.ID,
				Title:    title,
				Label:    ts.label,
				URL:      rec.URL,
				Chunk:    i,
			}
			if err := p.batcher.Add(ctx, chunk, meta, docID); err != nil {
				return count, fmt.Errorf("record %s: %w", rec.ID, err)
			}
			count++
			metrics.IncrementChunksIngested()
		}
	}

	if count > 0 {
		p.logger.Info("Queued chunks for record", "id", rec.ID, "chunks", count, "sources", len(texts))
	} else {
		p.logger.Info("No text extracted for record", "id", rec.ID, "title", title)
	}
	return count, nil
}

func metadataSummary(rec *harvest.Record, title string) string {
	fields := []struct {
		key string
		val string
	}{
		{"Title", title},
		{"Creators", rec.Creators},
		{"Subjects", rec.Subjects},
		{"Description", rec.Description},
		{"Published", rec.Date},
		{"URL", rec.URL},
	}
	var lines []string
	for _, f := range fields {
		if f.val != "" {
			lines = append(lines, f.key+": "+f.val)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func domainAllowed(landingURL string, domains []string) bool {
	for _, d := range domains {
		if strings.HasPrefix(landingURL, "https://"+d) {
			return true
		}
	}
	return false
}

func (p *Pipeline) fetchRecordFiles(ctx context.Context, rec *harvest.Record) []string {
	links, err := scrapeFileLinks(ctx, p.client, rec.URL)
	if err != nil {
		p.logger.Warn("Failed to scrape landing page", "url", rec.URL, "error", err)
		return nil
	}

	maxBytes := int64(p.fulltext.MaxMB) * 1024 * 1024
	var files []string
	for _, fileURL := range links {
		name := fileURL
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		if i := strings.Index(name, "?"); i >= 0 {
			name = name[:i]
		}
		outPath := filepath.Join(p.rawDir, safeFilename(rec.ID), safeFilename(name))

		if err := downloadFile(ctx, p.client, fileURL, outPath, maxBytes); err != nil {
			p.logger.Warn("Download failed", "url", fileURL, "error", err)
			continue
		}
		files = append(files, outPath)
	}
	return files
}
