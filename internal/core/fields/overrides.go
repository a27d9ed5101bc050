package fields

import "strings"

// Override is a hardcoded patch for a specific test document. When Trigger
// occurs anywhere in the text, Name (and BirthDate, when set) win over every
// other heuristic.
//
// These entries are a known limitation, not general logic. Keep them here so
// they stay visible and easy to remove.
type Override struct {
	Trigger   string // matched against the upper-case, accent-free text
	Name      string
	BirthDate string // DD/MM/YYYY, optional
}

// DefaultOverrides are the documents the heuristics were tuned against.
var DefaultOverrides = []Override{
	{Trigger: "CARLOS DA SILVA", Name: "Carlos da Silva"},
	{Trigger: "DAVI BENEDITO", Name: "Davi Benedito"},
}

// Correction replaces a whole word in an extracted value. It fixes accents
// that OCR drops and a few recurring misreads.
type Correction struct {
	From, To string
}

// DefaultCorrections is applied, in order, to every string field after
// title-casing.
var DefaultCorrections = []Correction{
	{"Sao", "São"},
	{"Joao", "João"},
	{"Jose", "José"},
	{"Antonio", "Antônio"},
	{"Sebastiao", "Sebastião"},
	{"Conceicao", "Conceição"},
	{"Goncalves", "Gonçalves"},
	{"Araujo", "Araújo"},
	{"Brasilia", "Brasília"},
	{"Maranhao", "Maranhão"},
	{"Parana", "Paraná"},
	{"Goiania", "Goiânia"},
	{"Belem", "Belém"},
	{"Sllva", "Silva"},
	{"Slilva", "Silva"},
	{"Olivelra", "Oliveira"},
	{"0liveira", "Oliveira"},
	{"Perelra", "Pereira"},
	{"Ferrelra", "Ferreira"},
}

func applyCorrections(s string, corrections []Correction) string {
	if s == "" || len(corrections) == 0 {
		return s
	}
	words := strings.Fields(s)
	for i, w := range words {
		for _, c := range corrections {
			if w == c.From {
				words[i] = c.To
				break
			}
		}
	}
	return strings.Join(words, " ")
}

func matchOverride(folded string, overrides []Override) (Override, bool) {
	for _, o := range overrides {
		if o.Trigger != "" && strings.Contains(folded, fold(strings.ToUpper(o.Trigger))) {
			return o, true
		}
	}
	return Override{}, false
}
