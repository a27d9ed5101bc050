// Package gemini implements recognizer.Engine on top of the Gemini vision
// models. It is an alternative to Tesseract for hosts without the native
// library.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/markdave123-py/docscan/internal/core/recognizer"
)

const defaultModel = "gemini-1.5-flash"

const transcribePrompt = `Transcribe every line of text visible in this image of a document, ` +
	`top to bottom, exactly as printed. Output one line of text per line, ` +
	`with no commentary, labels or markdown.`

var languageNames = map[string]string{
	"por": "Portuguese",
	"eng": "English",
	"spa": "Spanish",
}

type Engine struct {
	client    *genai.Client
	modelName string
}

func New(ctx context.Context, apiKey, modelName string) (*Engine, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if modelName == "" {
		modelName = defaultModel
	}
	return &Engine{client: cl, modelName: modelName}, nil
}

func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func (e *Engine) Name() string { return "gemini" }

// Recognize sends the pass image with a transcription prompt. Gemini does
// not report per-line confidence, so Settings.MinConfidence is ignored.
func (e *Engine) Recognize(ctx context.Context, pass recognizer.Pass, s recognizer.Settings) ([]string, error) {
	m := e.client.GenerativeModel(e.modelName)
	m.SetTemperature(0)

	resp, err := m.GenerateContent(ctx, genai.ImageData("png", pass.Image), genai.Text(prompt(s.Languages)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, nil
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return recognizer.SplitLines(stripFences(b.String())), nil
}

func prompt(langs []string) string {
	var names []string
	for _, l := range langs {
		if n, ok := languageNames[l]; ok {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return transcribePrompt
	}
	return transcribePrompt + " The text is in " + strings.Join(names, " or ") + "."
}

// stripFences removes a surrounding markdown code block if the model added
// one anyway.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

var _ recognizer.Engine = (*Engine)(nil)
