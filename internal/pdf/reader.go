// Package pdf extracts page text from PDF files. It is a collaborator of
// the extraction engine; the engine itself never touches files.
package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// Reader extracts text from PDF documents via mupdf.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a PDF reader.
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// ExtractText returns the concatenated text of all pages.
func (r *Reader) ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("PDF file not found: %s", path)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	pageCount := doc.NumPage()
	r.logger.Debug("Processing PDF", zap.String("path", path), zap.Int("total_pages", pageCount))

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			r.logger.Warn("Failed to extract page text",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	r.logger.Info("Extracted PDF text",
		zap.String("path", path),
		zap.Int("pages", pageCount),
		zap.Int("chars", sb.Len()))
	return sb.String(), nil
}
