package parse

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
)

// ExtractHTML strips markup down to the visible text: script/style/noscript
// bodies are removed entirely, every remaining tag becomes a line break, and
// blank lines are dropped so downstream chunking sees dense prose.
func ExtractHTML(raw string) string {
	text := scriptTag.ReplaceAllString(raw, "")
	text = styleTag.ReplaceAllString(text, "")
	text = noscriptTag.ReplaceAllString(text, "")
	text = htmlComments.ReplaceAllString(text, "")
	text = allTags.ReplaceAllString(text, "\n")
	text = html.UnescapeString(text)

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return strings.Join(lines, "\n")
}
