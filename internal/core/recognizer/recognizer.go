// Package recognizer turns a decoded image into OCR text lines. It prepares
// the image, runs one engine over several segmentation presets concurrently
// and merges the results in a fixed order.
package recognizer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/docscan/internal/core/imageproc"
)

// ErrNoText is returned when no preset produced a usable line.
var ErrNoText = errors.New("no text recognized")

// Preset is a page segmentation strategy.
type Preset string

const (
	PresetFullPage Preset = "full-page"
	PresetLine     Preset = "line"
	PresetWord     Preset = "word"
	// PresetContrast runs full-page segmentation over the binarized image.
	PresetContrast Preset = "contrast"
)

// DefaultPresets is the merge order used when none is given.
var DefaultPresets = []Preset{PresetFullPage, PresetLine, PresetWord, PresetContrast}

// Pass is one engine invocation.
type Pass struct {
	Preset Preset
	Image  []byte // PNG
}

// Settings are forwarded to the engine untouched.
type Settings struct {
	Languages     []string // Tesseract codes, e.g. "por"
	MinConfidence float64  // 0-100, lines below are dropped
}

// Engine recognizes text in one encoded image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, pass Pass, s Settings) ([]string, error)
}

// Options are the per-request knobs.
type Options struct {
	Language      string // por, eng, spa or auto
	Enhanced      bool   // fall back to the other presets when the first reads little
	MinConfidence float64
}

// Recognizer runs an Engine over a set of presets.
type Recognizer struct {
	engine  Engine
	presets []Preset
}

// New returns a Recognizer. With no presets DefaultPresets is used.
func New(engine Engine, presets ...Preset) *Recognizer {
	if len(presets) == 0 {
		presets = DefaultPresets
	}
	return &Recognizer{engine: engine, presets: presets}
}

// Engine reports the name of the underlying engine.
func (r *Recognizer) Engine() string { return r.engine.Name() }

// minBaseLines is how many lines the first preset must read before the
// remaining presets are skipped.
const minBaseLines = 3

// Recognize preprocesses img, runs the presets and returns the merged lines.
// The first preset is the ordered base. In enhanced mode the other presets
// run, concurrently, only when the base failed or read fewer than
// minBaseLines lines; their new lines follow the base. A failing preset is
// logged and skipped; the call only fails when every preset that ran failed
// or nothing was read.
func (r *Recognizer) Recognize(ctx context.Context, img image.Image, opts Options) ([]string, error) {
	langs, ok := Languages(opts.Language)
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", opts.Language)
	}
	settings := Settings{Languages: langs, MinConfidence: opts.MinConfidence}
	images := &passImages{src: img}

	results, errs, err := r.run(ctx, images, r.presets[:1], settings)
	if err != nil {
		return nil, err
	}
	if rest := r.presets[1:]; opts.Enhanced && len(rest) > 0 && len(Merge(results...)) < minBaseLines {
		more, moreErrs, err := r.run(ctx, images, rest, settings)
		if err != nil {
			return nil, err
		}
		results = append(results, more...)
		errs = append(errs, moreErrs...)
	}

	if failed := countErrors(errs); failed == len(errs) {
		return nil, fmt.Errorf("recognize: all presets failed: %w", errors.Join(errs...))
	}

	merged := Merge(results...)
	if len(merged) == 0 {
		return nil, ErrNoText
	}
	return merged, nil
}

// run executes presets concurrently. Per-preset failures are returned in
// errs at the preset's index; err is set only for preparation failures and
// cancellation.
func (r *Recognizer) run(ctx context.Context, images *passImages, presets []Preset, settings Settings) (results [][]string, errs []error, err error) {
	passes, err := images.passes(presets)
	if err != nil {
		return nil, nil, err
	}

	results = make([][]string, len(passes))
	errs = make([]error, len(passes))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range passes {
		i, p := i, p
		g.Go(func() error {
			lines, err := r.engine.Recognize(gctx, p, settings)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = err
				logrus.WithFields(logrus.Fields{
					"engine": r.engine.Name(),
					"preset": p.Preset,
				}).WithError(err).Warn("recognizer: preset failed")
				return nil
			}
			results[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("recognize: %w", err)
	}
	return results, errs, nil
}

// passImages encodes the preprocessed and binarized variants of src at most
// once each.
type passImages struct {
	src            image.Image
	base, contrast []byte
}

func (c *passImages) passes(presets []Preset) ([]Pass, error) {
	passes := make([]Pass, 0, len(presets))
	for _, p := range presets {
		var err error
		if p == PresetContrast {
			if c.contrast == nil {
				c.contrast, err = imageproc.EncodePNG(imageproc.Enhance(c.src))
			}
			passes = append(passes, Pass{Preset: p, Image: c.contrast})
		} else {
			if c.base == nil {
				c.base, err = imageproc.EncodePNG(imageproc.Preprocess(c.src))
			}
			passes = append(passes, Pass{Preset: p, Image: c.base})
		}
		if err != nil {
			return nil, fmt.Errorf("prepare %s: %w", p, err)
		}
	}
	return passes, nil
}

func countErrors(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}

// Merge concatenates preset results in order, trimming lines and dropping
// empty lines and duplicates. Duplicates are compared ignoring case and inner
// spacing; the first spelling wins.
func Merge(results ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, lines := range results {
		for _, l := range lines {
			l = strings.TrimSpace(l)
			if l == "" {
				continue
			}
			key := strings.ToUpper(strings.Join(strings.Fields(l), " "))
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, l)
		}
	}
	return out
}

// SplitLines breaks engine output into trimmed, non-empty lines.
func SplitLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

var languages = map[string][]string{
	"por":  {"por"},
	"eng":  {"eng"},
	"spa":  {"spa"},
	"auto": {"por", "eng", "spa"},
}

// Languages maps a request language to Tesseract codes. The empty string
// means Portuguese.
func Languages(code string) ([]string, bool) {
	if code == "" {
		code = "por"
	}
	l, ok := languages[strings.ToLower(code)]
	return l, ok
}
