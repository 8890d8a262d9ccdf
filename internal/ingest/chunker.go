package ingest

import "strings"

// Separators ordered from "best" to "worst" for semantic meaning: paragraph
// break, line break, sentence end, word boundary. A raw character split is
// the final fallback when none of these keep a piece within budget.
var separators = []string{"\n\n", "\n", ". ", " "}

// SplitText splits text into chunks of at most size bytes, seeding each new
// chunk with the trailing overlap of the previous one so adjacent chunks
// share a boundary region. The overlap is approximate: it is dropped at a
// boundary where keeping it would push the chunk past the size limit. The
// size limit itself is strict.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return splitWithSeps(text, size, overlap, separators)
}

func splitWithSeps(text string, size, overlap int, seps []string) []string {
	if len(text) <= size {
		return []string{text}
	}

	sepIdx := -1
	for i, s := range seps {
		if strings.Contains(text, s) {
			sepIdx = i
			break
		}
	}
	if sepIdx == -1 {
		return hardSplit(text, size, overlap)
	}
	sep := seps[sepIdx]

	var chunks []string
	var cur strings.Builder

	// parts keep their trailing separator, so punctuation at a chunk
	// boundary is not lost
	for _, part := range strings.SplitAfter(text, sep) {
		if part == "" {
			continue
		}
		if len(part) > size {
			// a single part over budget: emit what we have and split the
			// part with the finer separators, then keep accumulating onto
			// its final piece
			if cur.Len() > 0 {
				chunks = append(chunks, cur.String())
			}
			sub := splitWithSeps(part, size, overlap, seps[sepIdx+1:])
			chunks = append(chunks, sub[:len(sub)-1]...)
			cur.Reset()
			cur.WriteString(sub[len(sub)-1])
			continue
		}

		if cur.Len()+len(part) > size {
			prev := cur.String()
			chunks = append(chunks, prev)
			cur.Reset()
			if overlap > 0 {
				tail := prev
				if len(tail) > overlap {
					tail = tail[len(tail)-overlap:]
				}
				if len(tail)+len(part) <= size {
					cur.WriteString(tail)
				}
			}
		}
		cur.WriteString(part)
	}

	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

func hardSplit(text string, size, overlap int) []string {
	step := size - overlap
	if step <= 0 {
		step = size
	}

	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
