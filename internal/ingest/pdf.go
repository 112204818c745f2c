package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFText pulls the text of every page, joined with newlines. Any
// unreadable page fails the whole document; partial text is never returned
// silently.
func extractPDFText(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", ErrUnreadable
	}
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			return "", fmt.Errorf("%w: page %d", ErrUnreadable, i)
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrUnreadable, i, err)
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), nil
}
