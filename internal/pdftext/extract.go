package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor turns a PDF payload into plain text, reading at most
// maxPages pages. Declared as a func type so handlers can be tested
// without real PDF fixtures.
type Extractor func(data []byte, maxPages int) (string, error)

// Extract returns the concatenated text of the first maxPages pages.
func Extract(data []byte, maxPages int) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := reader.NumPage()
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}

	var parts []string
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
