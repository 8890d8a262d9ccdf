package parse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"cataloguechat/pkg/logging"
)

var pdfLogger = logging.NewLogger("PDF Extraction")

// ExtractPDF reads every page of a PDF into one newline-joined string.
// Individual pages that fail or hang are skipped, not fatal.
func ExtractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var parts []string
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			pdfLogger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n"), nil
}

// protectExtract runs GetPlainText in a goroutine with a hard timeout.
// Some malformed PDFs make the extractor spin forever on a single page.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("page extraction timeout")
	}
}
