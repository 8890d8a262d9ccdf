package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"cataloguechat/internal/config"
)

var ErrTooLarge = errors.New("download exceeded size cap")

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Zenodo-style landing pages link files as /records/<id>/files/<name>.
// Only links on the landing page's own host count; the allow-list already
// gated which hosts we visit at all.
func fileLinkPattern(host string) *regexp.Regexp {
	return regexp.MustCompile(`https?://` + regexp.QuoteMeta(host) + `/records/\d+/files/[^"\s<>]+`)
}

func safeFilename(s string) string {
	s = strings.Trim(unsafeChars.ReplaceAllString(s, "_"), "_")
	if len(s) > 180 {
		s = s[:180]
	}
	if s == "" {
		return "item"
	}
	return s
}

// scrapeFileLinks pulls downloadable file URLs off a record's landing page,
// best effort. Links get download=1 forced so we receive the file rather
// than a preview page.
func scrapeFileLinks(ctx context.Context, client *http.Client, landingURL string) ([]string, error) {
	base, err := url.Parse(landingURL)
	if err != nil {
		return nil, fmt.Errorf("parse landing url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, landingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build landing page request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch landing page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read landing page: %w", err)
	}

	seen := map[string]bool{}
	for _, link := range fileLinkPattern(base.Host).FindAllString(string(body), -1) {
		seen[link] = true
	}
	links := make([]string, 0, len(seen))
	for u := range seen {
		links = append(links, u)
	}
	sort.Strings(links)

	for i, u := range links {
		if !strings.Contains(u, "download=1") {
			sep := "?"
			if strings.Contains(u, "?") {
				sep = "&"
			}
			links[i] = u + sep + "download=1"
		}
	}
	return links, nil
}

// downloadFile streams a remote file to disk in bounded reads, aborting as
// soon as the cumulative size passes maxBytes. The partial file is removed
// on any failure so a later parse pass never sees a truncated artifact.
func downloadFile(ctx context.Context, client *http.Client, fileURL, outPath string, maxBytes int64) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create download file: %w", err)
	}

	var total int64
	for {
		n, err := io.CopyN(f, resp.Body, config.DownloadReadChunk)
		total += n
		if total > maxBytes {
			f.Close()
			os.Remove(outPath)
			return ErrTooLarge
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			f.Close()
			os.Remove(outPath)
			return fmt.Errorf("download read failed: %w", err)
		}
	}
	return f.Close()
}
