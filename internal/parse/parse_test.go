package parse

import (
	"strings"
	"testing"
)

func TestKindForPath(t *testing.T) {
	cases := map[string]DocKind{
		"paper.pdf":     KindPDF,
		"PAPER.PDF":     KindPDF,
		"index.html":    KindHTML,
		"page.htm":      KindHTML,
		"data.csv":      KindPlain,
		"notes.txt":     KindPlain,
		"no_extension":  KindPlain,
		"archive.tar":   KindPlain,
		"slides.HTML":   KindHTML,
		"weird.pdf.txt": KindPlain,
	}
	for path, want := range cases {
		if got := KindForPath(path); got != want {
			t.Errorf("KindForPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestExtractHTML(t *testing.T) {
	raw := `<html>
<head>
  <title>Record 42</title>
  <style>body { color: red; }</style>
  <script type="text/javascript">var x = "<b>not text</b>";</script>
</head>
<body>
  <!-- navigation -->
  <h1>Dataset &amp; Methods</h1>
  <noscript>Enable JS</noscript>
  <p>First   paragraph.</p>

  <p>Second paragraph.</p>
</body>
</html>`

	text := ExtractHTML(raw)

	for _, want := range []string{"Record 42", "Dataset & Methods", "First   paragraph.", "Second paragraph."} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
	for _, banned := range []string{"color: red", "var x", "Enable JS", "navigation", "<"} {
		if strings.Contains(text, banned) {
			t.Errorf("found %q in extracted text:\n%s", banned, text)
		}
	}
	if strings.Contains(text, "\n\n") {
		t.Errorf("blank lines must be collapsed:\n%q", text)
	}
}

func TestExtractHTML_ScriptSpanningLines(t *testing.T) {
	raw := "<p>keep</p><script>\nline1();\nline2();\n</script><p>also keep</p>"
	text := ExtractHTML(raw)
	if strings.Contains(text, "line1") {
		t.Errorf("multi-line script leaked: %q", text)
	}
	if !strings.Contains(text, "keep") || !strings.Contains(text, "also keep") {
		t.Errorf("surrounding text lost: %q", text)
	}
}
