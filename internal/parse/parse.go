package parse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type DocKind int

const (
	KindPDF DocKind = iota
	KindHTML
	KindPlain
)

// KindForPath maps a filename to the extractor that will handle it. Anything
// that isn't PDF or HTML goes through the best-effort plain-text path.
func KindForPath(path string) DocKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return KindPDF
	case ".html", ".htm":
		return KindHTML
	default:
		return KindPlain
	}
}

// ExtractFile pulls plain text out of a downloaded file by extension.
func ExtractFile(path string) (string, error) {
	switch KindForPath(path) {
	case KindPDF:
		return ExtractPDF(path)
	case KindHTML:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read html file: %w", err)
		}
		return ExtractHTML(string(data)), nil
	default:
		return extractPlain(path)
	}
}
