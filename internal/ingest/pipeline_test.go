package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"cataloguechat/internal/harvest"
)

type fakeSource struct {
	records []*harvest.Record
	err     error
	pos     int
}

func (f *fakeSource) Next(ctx context.Context) (*harvest.Record, error) {
	if f.pos < len(f.records) {
		rec := f.records[f.pos]
		f.pos++
		return rec, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return nil, io.EOF
}

func TestPipeline_MetadataOnlyRun(t *testing.T) {
	e := &mockEmbedder{}
	s := &mockStore{}
	b := NewBatcher(e, s, "test", 100)
	p := NewPipeline(b, nil, FulltextOptions{}, t.TempDir())

	src := &fakeSource{records: []*harvest.Record{
		{ID: "10.5281/zenodo.1", Title: "First Record", Creators: "Ada Lovelace", URL: "https://zenodo.org/records/1"},
		{OAIIdentifier: "oai:no-id:2"}, // no usable id, skipped
		{ID: "10.5281/zenodo.3", Description: "Only a description"},
	}}

	total, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("total chunks got %d, want 2", total)
	}

	// partial batch must land via the final flush
	if s.upsertCalls != 1 {
		t.Fatalf("upsert calls got %d, want 1", s.upsertCalls)
	}
	ids := s.gotIDs[0]
	if ids[0] != "10.5281/zenodo.1:metadata:0" {
		t.Errorf("chunk id got %q", ids[0])
	}
	if ids[1] != "10.5281/zenodo.3:metadata:0" {
		t.Errorf("chunk id got %q", ids[1])
	}

	summary := s.gotTexts[0][0]
	for _, want := range []string{"Title: First Record", "Creators: Ada Lovelace", "URL: https://zenodo.org/records/1"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "Subjects:") {
		t.Errorf("empty fields must be omitted from the summary:\n%s", summary)
	}

	meta := s.gotMetas[0][1]
	if meta.Title != "Untitled" {
		t.Errorf("missing title should default to Untitled, got %q", meta.Title)
	}
	if meta.Label != "metadata" || meta.Chunk != 0 {
		t.Errorf("unexpected meta %+v", meta)
	}
}

// recordServer plays a landing page with two file links: an HTML paper with
// enough visible text to keep and a text file too short to survive the
// minimum-length filter.
func recordServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	article := strings.Repeat("Harvested catalogue records describe datasets, software and articles held by the repository. ", 4)

	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/records/7/files/paper.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><h1>A Paper</h1><p>%s</p></body></html>", article)
	})
	mux.HandleFunc("/records/7/files/tiny.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "just a stub readme")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
<a href="https://%s/records/7/files/paper.html">paper</a>
<a href="https://%s/records/7/files/tiny.txt">readme</a>
</body></html>`, r.Host, r.Host)
	})

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestPipeline_FulltextRun(t *testing.T) {
	srv, _ := recordServer(t)

	e := &mockEmbedder{}
	s := &mockStore{}
	b := NewBatcher(e, s, "test", 100)
	p := NewPipeline(b, srv.Client(), FulltextOptions{
		Enabled:        true,
		AllowedDomains: []string{"127.0.0.1"},
		MaxMB:          1,
	}, t.TempDir())

	src := &fakeSource{records: []*harvest.Record{
		{ID: "10.1/full", Title: "Full Record", URL: srv.URL + "/"},
	}}
	total, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("total chunks got %d, want metadata plus the paper", total)
	}

	ids := s.gotIDs[0]
	if ids[0] != "10.1/full:metadata:0" {
		t.Errorf("chunk id got %q", ids[0])
	}
	// file chunks are labelled by filename
	if ids[1] != "10.1/full:paper.html:0" {
		t.Errorf("chunk id got %q", ids[1])
	}
	for _, id := range ids {
		if strings.Contains(id, "tiny.txt") {
			t.Errorf("short file must be discarded, got id %q", id)
		}
	}

	if !strings.Contains(s.gotTexts[0][1], "Harvested catalogue records") {
		t.Errorf("paper chunk missing the article body:\n%s", s.gotTexts[0][1])
	}
	meta := s.gotMetas[0][1]
	if meta.Label != "paper.html" || meta.RecordID != "10.1/full" {
		t.Errorf("unexpected meta %+v", meta)
	}
}

func TestPipeline_FulltextSkipsDisallowedDomain(t *testing.T) {
	srv, hits := recordServer(t)

	e := &mockEmbedder{}
	s := &mockStore{}
	b := NewBatcher(e, s, "test", 100)
	p := NewPipeline(b, srv.Client(), FulltextOptions{
		Enabled:        true,
		AllowedDomains: []string{"zenodo.org"},
		MaxMB:          1,
	}, t.TempDir())

	src := &fakeSource{records: []*harvest.Record{
		{ID: "10.1/off", Title: "Off Allow-List", URL: srv.URL + "/"},
	}}
	total, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("total chunks got %d, want the metadata chunk only", total)
	}
	if hits.Load() != 0 {
		t.Errorf("landing page must not be fetched for a disallowed domain, got %d requests", hits.Load())
	}
}

func TestPipeline_StreamErrorFatal(t *testing.T) {
	b := NewBatcher(&mockEmbedder{}, &mockStore{}, "test", 100)
	p := NewPipeline(b, nil, FulltextOptions{}, t.TempDir())

	src := &fakeSource{
		records: []*harvest.Record{{ID: "10.1/a", Title: "A"}},
		err:     errors.New("endpoint down"),
	}
	_, err := p.Run(context.Background(), src)
	if err == nil || !strings.Contains(err.Error(), "harvest stream failed") {
		t.Fatalf("want harvest stream failure, got %v", err)
	}
}

func TestPipeline_BatchFailureFatal(t *testing.T) {
	e := &mockEmbedder{
		OnBatchEmbedding: func(ctx context.Context, chunks []string) ([][]float32, error) {
			return nil, errors.New("quota exhausted")
		},
	}
	b := NewBatcher(e, &mockStore{}, "test", 1)
	p := NewPipeline(b, nil, FulltextOptions{}, t.TempDir())

	src := &fakeSource{records: []*harvest.Record{
		{ID: "10.1/a", Title: "A"},
		{ID: "10.1/b", Title: "B"},
	}}
	_, err := p.Run(context.Background(), src)
	if err == nil {
		t.Fatal("embedding failure must end the run")
	}
	if src.pos > 1 {
		t.Errorf("run continued past the failed record, consumed %d", src.pos)
	}
}
