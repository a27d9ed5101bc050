// Package pdftext reads the text layer of uploaded PDFs with docconv.
package pdftext

import (
	"bytes"
	"context"
	"fmt"

	"code.sajari.com/docconv"
	"github.com/sirupsen/logrus"

	"github.com/markdave123-py/docscan/internal/core/recognizer"
)

const contentType = "application/pdf"

type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

// Lines returns the non-empty text lines of a PDF in reading order. A PDF
// without a text layer yields recognizer.ErrNoText.
func (e *Extractor) Lines(ctx context.Context, data []byte) ([]string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), contentType, false)
	if err != nil {
		return nil, fmt.Errorf("docconv: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := recognizer.SplitLines(res.Body)
	if len(lines) == 0 {
		logrus.WithField("bytes", len(data)).Info("pdftext: no text layer found")
		return nil, recognizer.ErrNoText
	}
	return lines, nil
}
