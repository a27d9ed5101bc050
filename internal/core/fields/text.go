package fields

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// line keeps the three views of an OCR line the extractor matches against.
type line struct {
	raw    string
	upper  string
	folded string // upper case, diacritics removed
}

func newLines(raw []string) []line {
	out := make([]line, 0, len(raw))
	for _, r := range raw {
		up := strings.ToUpper(r)
		out = append(out, line{raw: r, upper: up, folded: fold(up)})
	}
	return out
}

// CleanLines trims every line, collapses inner whitespace and drops empty
// lines. Order is preserved.
func CleanLines(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s := collapseSpaces(r); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TrimLines trims the ends of every line and drops empty lines. Inner
// spacing is kept as read.
func TrimLines(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s := strings.TrimSpace(r); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// fold strips diacritics so OCR output without accents matches accented
// keywords.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// particles stay lower case inside Portuguese proper names.
var particles = map[string]bool{
	"da": true, "de": true, "do": true, "das": true, "dos": true, "e": true, "di": true, "du": true,
}

// titleName title-cases a personal name: "MARIA DA SILVA" -> "Maria da Silva".
func titleName(s string) string {
	caser := cases.Title(language.BrazilianPortuguese)
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if i > 0 && particles[w] {
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// titlePlace title-cases a place, keeping two-letter state codes upper case:
// "SAO PAULO - SP" -> "Sao Paulo - SP".
func titlePlace(s string) string {
	caser := cases.Title(language.BrazilianPortuguese)
	words := strings.Fields(s)
	for i, w := range words {
		up := strings.ToUpper(w)
		switch {
		case ufs[up]:
			words[i] = up
		case i > 0 && particles[strings.ToLower(w)]:
			words[i] = strings.ToLower(w)
		default:
			words[i] = caser.String(strings.ToLower(w))
		}
	}
	return strings.Join(words, " ")
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ufs lists the Brazilian federative units.
var ufs = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true, "DF": true,
	"ES": true, "GO": true, "MA": true, "MT": true, "MS": true, "MG": true, "PA": true,
	"PB": true, "PR": true, "PE": true, "PI": true, "RJ": true, "RN": true, "RS": true,
	"RO": true, "RR": true, "SC": true, "SP": true, "SE": true, "TO": true,
}
