// Package tesseract implements recognizer.Engine with the Tesseract OCR
// library through gosseract. Tesseract must be installed on the host.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/markdave123-py/docscan/internal/core/recognizer"
)

// Engine creates one gosseract client per pass; clients are not safe for
// concurrent use.
type Engine struct {
	clientFactory  func() *gosseract.Client
	tessdataPrefix string
}

// New returns an Engine. tessdataPrefix may be empty to use the system
// default.
func New(tessdataPrefix string) *Engine {
	return &Engine{clientFactory: gosseract.NewClient, tessdataPrefix: tessdataPrefix}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs one pass. With a confidence floor the text is read line by
// line from the bounding boxes so low-confidence lines can be dropped.
func (e *Engine) Recognize(ctx context.Context, pass recognizer.Pass, s recognizer.Settings) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := e.clientFactory()
	defer c.Close()

	if e.tessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if len(s.Languages) > 0 {
		if err := c.SetLanguage(s.Languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetPageSegMode(pageSegMode(pass.Preset)); err != nil {
		return nil, fmt.Errorf("set page seg mode: %w", err)
	}
	if err := c.SetImageFromBytes(pass.Image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	if s.MinConfidence > 0 {
		boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
		if err != nil {
			return nil, fmt.Errorf("bounding boxes: %w", err)
		}
		var lines []string
		for _, b := range boxes {
			if b.Confidence < s.MinConfidence {
				continue
			}
			if w := strings.TrimSpace(b.Word); w != "" {
				lines = append(lines, w)
			}
		}
		return lines, nil
	}

	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}
	return recognizer.SplitLines(text), nil
}

func pageSegMode(p recognizer.Preset) gosseract.PageSegMode {
	switch p {
	case recognizer.PresetLine:
		return gosseract.PSM_SINGLE_BLOCK
	case recognizer.PresetWord:
		return gosseract.PSM_SPARSE_TEXT
	}
	return gosseract.PSM_AUTO
}

var _ recognizer.Engine = (*Engine)(nil)
