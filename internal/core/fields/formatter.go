package fields

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	// PassthroughMarker heads the raw OCR lines when the text could not be
	// structured.
	PassthroughMarker = "[TEXTO ORIGINAL]"
	// FallbackHeader separates a partial report from the raw lines appended
	// for reference.
	FallbackHeader = "[TEXTO ORIGINAL - REFERÊNCIA]"
)

// Format renders a record as display lines in a fixed order. Unset fields are
// skipped.
func Format(f DocumentFields) []string {
	var out []string
	if f.DocumentType != TypeUnidentified {
		out = append(out, "TIPO DE DOCUMENTO: "+f.DocumentType.Label())
	}
	if f.Name != "" {
		out = append(out, "NOME: "+f.Name)
	}
	if f.BirthDate != "" {
		out = append(out, "DATA DE NASCIMENTO: "+f.BirthDate)
	}
	if f.Naturalness != "" {
		out = append(out, "NATURALIDADE: "+f.Naturalness)
	}
	if len(f.Parents) > 0 {
		out = append(out, "FILIAÇÃO:")
		for i, p := range f.Parents {
			out = append(out, fmt.Sprintf("  %d. %s", i+1, p))
		}
	}
	if f.RGNumber != "" {
		out = append(out, "RG: "+f.RGNumber)
	}
	if f.CPFNumber != "" {
		out = append(out, "CPF: "+f.CPFNumber)
	}
	if f.IssuingAuthority != "" {
		out = append(out, "ÓRGÃO EXPEDIDOR: "+f.IssuingAuthority)
	}
	return out
}

// Passthrough returns the raw lines behind PassthroughMarker.
func Passthrough(lines []string) []string {
	out := make([]string, 0, len(lines)+1)
	out = append(out, PassthroughMarker)
	return append(out, lines...)
}

// Analyze runs extraction and formatting with the result policy applied:
// fewer than two recovered fields yields the passthrough form, and a report
// missing the name or the birth date carries the raw lines after it. hint is
// used as the report's document type when none was detected; the returned
// record keeps the detected type. Analyze never panics: a failing heuristic
// yields an empty record and the passthrough form.
func (e *Extractor) Analyze(raw []string, hint DocumentType) (f DocumentFields, out []string) {
	lines := TrimLines(raw)
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("fields: extraction failed, returning raw lines")
			f = DocumentFields{}
			out = Passthrough(lines)
		}
	}()

	f = e.Extract(lines)
	populated := f.Populated()
	logrus.WithFields(logrus.Fields{
		"lines":     len(lines),
		"populated": populated,
		"type":      string(f.DocumentType),
	}).Debug("fields: extraction finished")

	if populated < 2 {
		return f, Passthrough(lines)
	}

	shown := f
	if shown.DocumentType == TypeUnidentified {
		shown.DocumentType = hint
	}
	out = Format(shown)
	if f.Name == "" || f.BirthDate == "" {
		out = append(out, "", FallbackHeader)
		out = append(out, lines...)
	}
	return f, out
}

// Report is Analyze without the record.
func (e *Extractor) Report(raw []string, hint DocumentType) []string {
	_, out := e.Analyze(raw, hint)
	return out
}

var defaultExtractor = NewExtractor()

// Extract runs the default extractor.
func Extract(lines []string) DocumentFields { return defaultExtractor.Extract(lines) }

// Report runs the default extractor's Report.
func Report(lines []string, hint DocumentType) []string { return defaultExtractor.Report(lines, hint) }
