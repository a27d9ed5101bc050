package fields

import "regexp"

// letters is the upper-case Latin-1 letter class used for names.
const letters = `A-ZÀ-ÖØ-Ý`

var (
	// Uppercase run on the line right before FILIAÇÃO (or on the same line).
	reNameBeforeFiliation = regexp.MustCompile(`([` + letters + `]+(?:[ \t]+[` + letters + `]+)+)[ \t]*\n?[ \t]*FILIA[ÇC][ÃA]O`)

	// NOME: <run> up to a terminator keyword or the end of the line.
	reNameLabel = regexp.MustCompile(`NOME[ \t]*[:.\-][ \t]*([` + letters + `][` + letters + ` \t]*?)[ \t]*(?:[ \t](?:FILIA|DATA|NASC|NATURAL|DOC\b|REGISTRO|RG\b|CPF\b|ÓRG|ORG[AÃ]O|EXPED|ASSINAT)|\n|$)`)

	// A whole line made of two or more uppercase words.
	reUpperWords = regexp.MustCompile(`^[` + letters + `]{2,}(?: [` + letters + `]+)+$`)

	// Day/month/year variants, tried in this order. Only digits may border a
	// date: the start is guarded here and the end by dateSubmatches.
	reDateVariants = []*regexp.Regexp{
		regexp.MustCompile(`(?:^|\D)(\d{2})/(\d{2})/(\d{4})`),
		regexp.MustCompile(`(?:^|\D)(\d{2})\.(\d{2})\.(\d{4})`),
		regexp.MustCompile(`(?:^|\D)(\d{2})-(\d{2})-(\d{4})`),
		regexp.MustCompile(`(?:^|\D)(\d{2}) ?[/.\-] ?(\d{2}) ?[/.\-] ?(\d{4})`),
		regexp.MustCompile(`(?:^|\D)(\d{2}) (\d{2}) (\d{4})`),
		regexp.MustCompile(`(?:^|\D)(\d{2})(\d{2})(\d{4})`),
	}

	// 15 DE MARÇO DE 1985, 15/MAR/1985, 15 MAR 1985.
	reDateMonthName = regexp.MustCompile(`(?:^|\D)(\d{1,2})[ \t/.\-]*(?:DE[ \t]+)?(JAN|FEV|MAR|ABR|MAI|JUN|JUL|AGO|SET|OUT|NOV|DEZ)[A-ZÇ]*\.?[ \t/.\-]*(?:DE[ \t]+)?(\d{4})`)

	// Year-first fallback: 1990-02-01.
	reDateYearFirst = regexp.MustCompile(`(?:^|\D)(\d{4})[/.\-](\d{2})[/.\-](\d{2})`)

	// CPF with loose separators and with strict punctuation.
	reCPFLoose  = regexp.MustCompile(`\b(\d{3})[. ]?(\d{3})[. ]?(\d{3})[ ]*[-./]?[ ]*(\d{2})\b`)
	reCPFStrict = regexp.MustCompile(`\b(\d{3})\.(\d{3})\.(\d{3})-(\d{2})\b`)

	// RG numbers vary by state; this accepts 7 to 10 digits with optional
	// dots and a check digit that may be X.
	reRGLoose  = regexp.MustCompile(`\b(\d{1,3}(?:\.?\d{3}){2}(?:[ ]*-[ ]*[\dX])?)\b`)
	reRGStrict = regexp.MustCompile(`\b(\d{1,2}\.\d{3}\.\d{3}-[\dX])\b`)

	// Issuing body followed by a state code: SSP/SP, DETRAN-RJ.
	reAuthority = regexp.MustCompile(`\b(SSPDS|SSPDF|SSP|SDS|SESP|SEJUSP|SJS|SJTC|DETRAN|IFP|IIRGD|PCMG|PC|IGP|DGPC|SPTC|POLITEC|DIC|ITEP|SEDS|SJDC|SSDC|CGPI)[ \t]*[/\-]?[ \t]*([A-Z]{2})\b`)

	reCPFWord  = regexp.MustCompile(`\bCPF\b`)
	reRGAnchor = regexp.MustCompile(`\bRG\b|REGISTRO GERAL|IDENTIDADE N`)

	reNonNameChars  = regexp.MustCompile(`[^` + letters + ` ]`)
	reNonPlaceChars = regexp.MustCompile(`[^` + letters + ` /\-]`)
)

var monthNumbers = map[string]string{
	"JAN": "01", "FEV": "02", "MAR": "03", "ABR": "04", "MAI": "05", "JUN": "06",
	"JUL": "07", "AGO": "08", "SET": "09", "OUT": "10", "NOV": "11", "DEZ": "12",
}

// nonNameWords are words that never occur in a person's name on these
// documents. Compared against folded (accent-free) text.
var nonNameWords = map[string]bool{
	"REPUBLICA": true, "FEDERATIVA": true, "BRASIL": true, "CARTEIRA": true, "IDENTIDADE": true,
	"ESTADO": true, "SECRETARIA": true, "SEGURANCA": true, "PUBLICA": true, "INSTITUTO": true,
	"IDENTIFICACAO": true, "NOME": true, "FILIACAO": true, "DATA": true, "NASCIMENTO": true,
	"NATURALIDADE": true, "REGISTRO": true, "GERAL": true, "ASSINATURA": true, "TITULAR": true,
	"DIRETOR": true, "DIRETORA": true, "VALIDA": true, "TODO": true, "TERRITORIO": true,
	"NACIONAL": true, "LEI": true, "CPF": true, "RG": true, "DOC": true, "ORIGEM": true,
	"EXPEDICAO": true, "MINISTERIO": true, "FAZENDA": true, "RECEITA": true, "FEDERAL": true,
	"CADASTRO": true, "PESSOA": true, "FISICA": true, "POLEGAR": true, "DIREITO": true,
	"ORGAO": true, "EMISSOR": true, "EXPEDIDOR": true, "HABILITACAO": true, "CERTIDAO": true,
	"COMARCA": true, "CARTORIO": true, "INSCRICAO": true, "SITUACAO": true, "CADASTRAL": true,
	"VIA": true, "POLICIA": true, "CIVIL": true, "DEPARTAMENTO": true, "TRANSITO": true,
	"VALIDADE": true, "CASAMENTO": true, "OBSERVACAO": true, "OBSERVACOES": true, "NUMERO": true,
	"CONTRIBUINTE": true, "DOCUMENTO": true, "MAE": true, "PAI": true,
}

// fieldKeywords mark lines that belong to another field. Used to keep the
// filiation window and next-line heuristics from swallowing labels.
var fieldKeywords = []string{
	"NOME", "DATA", "NASC", "NATURAL", "REGISTRO", "CPF", "EXPED", "ORGAO", "EMISSOR",
	"ASSINAT", "DOC", "ORIGEM", "VALID", "POLEGAR", "SECRETARIA", "ESTADO", "REPUBLICA",
	"CARTEIRA", "IDENTIDADE", "FILIA", "INSTITUTO", "MINISTERIO",
}

// dateSkipKeywords mark lines whose dates are rarely the birth date.
var dateSkipKeywords = []string{"EXPEDI", "EMISS", "VALID", "INSCRI"}
