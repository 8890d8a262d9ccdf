package rag

import (
	"fmt"
	"strings"

	"cataloguechat/internal/domain/commonModels"
)

// FormatContext renders search hits as numbered source blocks for the LLM
// prompt. The header carries enough provenance for inline [n] citations to
// be traced back: title, source label, chunk index and landing url.
func FormatContext(hits []commonModels.SearchHit) string {
	blocks := make([]string, 0, len(hits))
	for i, hit := range hits {
		title := hit.Meta.Title
		if title == "" {
			title = "Untitled"
		}
		header := fmt.Sprintf("[%d] %s", i+1, title)
		if hit.Meta.Label != "" {
			header += " · " + hit.Meta.Label
		}
		header += fmt.Sprintf(" · chunk %d", hit.Meta.Chunk)
		if hit.Meta.URL != "" {
			header += " · " + hit.Meta.URL
		}
		blocks = append(blocks, header+"\n"+strings.TrimSpace(hit.Text))
	}
	return strings.Join(blocks, "\n\n")
}
