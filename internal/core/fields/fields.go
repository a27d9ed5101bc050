// Package fields turns raw OCR lines from Brazilian identity documents into
// a structured record and renders it back as a readable report.
//
// The extraction is a layered set of keyword anchors and regular expressions.
// It is not a general algorithm: precedence between competing patterns is a
// deliberate choice and a handful of documents are handled by an explicit
// override table (see overrides.go).
package fields

// DocumentType identifies the kind of document recognised in the text.
type DocumentType string

const (
	TypeUnidentified DocumentType = ""
	TypeRG           DocumentType = "rg"
	TypeCPF          DocumentType = "cpf"
	TypeCNH          DocumentType = "cnh"
)

// ParseDocumentType maps a request hint ("rg", "cpf", "cnh", "generic") to a
// DocumentType. Unknown values and "generic" map to TypeUnidentified.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(s) {
	case TypeRG, TypeCPF, TypeCNH:
		return DocumentType(s)
	}
	return TypeUnidentified
}

// Label is the display label used in reports.
func (t DocumentType) Label() string {
	switch t {
	case TypeRG:
		return "Carteira de Identidade (RG)"
	case TypeCPF:
		return "Cadastro de Pessoa Física (CPF)"
	case TypeCNH:
		return "Carteira Nacional de Habilitação (CNH)"
	}
	return "Não identificado"
}

// DocumentFields is the result of one extraction pass. Empty strings mean
// the field was not found.
type DocumentFields struct {
	DocumentType     DocumentType
	Name             string
	BirthDate        string // DD/MM/YYYY
	Naturalness      string
	IssuingAuthority string // e.g. SSP/SP
	RGNumber         string
	CPFNumber        string // NNN.NNN.NNN-NN
	Parents          []string
}

// Populated counts the fields that were recovered. An unidentified document
// type does not count.
func (f DocumentFields) Populated() int {
	n := 0
	if f.DocumentType != TypeUnidentified {
		n++
	}
	for _, v := range []string{f.Name, f.BirthDate, f.Naturalness, f.IssuingAuthority, f.RGNumber, f.CPFNumber} {
		if v != "" {
			n++
		}
	}
	if len(f.Parents) > 0 {
		n++
	}
	return n
}

// setOnce stores v in dst unless dst is already set or v is empty.
func setOnce(dst *string, v string) bool {
	if *dst != "" || v == "" {
		return false
	}
	*dst = v
	return true
}
