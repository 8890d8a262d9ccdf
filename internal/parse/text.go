package parse

import (
	"fmt"

	"github.com/lu4p/cat"
)

// extractPlain handles everything that isn't PDF or HTML. cat reads odt,
// docx, rtf and plaintext; anything else comes back as-is or errors out.
func extractPlain(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return text, nil
}
