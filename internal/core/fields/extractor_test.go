package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rgCard = []string{
	"REPUBLICA FEDERATIVA DO BRASIL",
	"ESTADO DE SAO PAULO",
	"SECRETARIA DA SEGURANCA PUBLICA",
	"CARTEIRA DE IDENTIDADE",
	"REGISTRO GERAL 12.345.678-9 DATA DE EXPEDICAO 10/05/2015",
	"NOME",
	"JOAO PEREIRA DOS SANTOS",
	"FILIACAO",
	"JOSE PEREIRA DOS SANTOS",
	"MARIA APARECIDA DOS SANTOS",
	"NATURALIDADE DATA DE NASCIMENTO",
	"SAO PAULO-SP 21/03/1980",
	"DOC ORIGEM SAO PAULO-SP CAMPINAS",
	"CPF 123.456.789-09",
	"SSP SP",
}

func TestExtract_FullRGCard(t *testing.T) {
	f := NewExtractor().Extract(rgCard)

	assert.Equal(t, TypeRG, f.DocumentType)
	assert.Equal(t, "João Pereira dos Santos", f.Name)
	assert.Equal(t, "21/03/1980", f.BirthDate)
	assert.Equal(t, "São Paulo - SP", f.Naturalness)
	assert.Equal(t, []string{"José Pereira dos Santos", "Maria Aparecida dos Santos"}, f.Parents)
	assert.Equal(t, "12.345.678-9", f.RGNumber)
	assert.Equal(t, "123.456.789-09", f.CPFNumber)
	assert.Equal(t, "SSP/SP", f.IssuingAuthority)
	assert.Equal(t, 8, f.Populated())
}

func TestExtract_CPFCard(t *testing.T) {
	lines := []string{
		"RECEITA FEDERAL",
		"CADASTRO DE PESSOA FÍSICA",
		"NUMERO DE INSCRICAO",
		"123.456.789-09",
		"NOME",
		"ANA CLARA MENDES",
		"NASCIMENTO",
		"05/11/1992",
	}
	f := NewExtractor().Extract(lines)

	assert.Equal(t, TypeCPF, f.DocumentType)
	assert.Equal(t, "Ana Clara Mendes", f.Name)
	assert.Equal(t, "05/11/1992", f.BirthDate)
	assert.Equal(t, "123.456.789-09", f.CPFNumber)
	assert.Empty(t, f.RGNumber)
	assert.Empty(t, f.IssuingAuthority)
}

func TestExtract_DocumentType(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  DocumentType
	}{
		{"carteira identidade lower case", []string{"carteira de identidade"}, TypeRG},
		{"carteira identidade split lines", []string{"Carteira", "de", "Identidade"}, TypeRG},
		{"republica with accent", []string{"REPÚBLICA FEDERATIVA DO BRASIL"}, TypeRG},
		{"republica without accent", []string{"Republica Federativa do Brasil"}, TypeRG},
		{"cpf keyword", []string{"CPF 000.000.000-00"}, TypeCPF},
		{"pessoa fisica", []string{"Cadastro de Pessoa Fisica"}, TypeCPF},
		{"rg wins over cpf", []string{"CARTEIRA DE IDENTIDADE", "CPF"}, TypeRG},
		{"nothing", []string{"XYZ ABC"}, TypeUnidentified},
		{"cpf inside a word", []string{"XCPFX"}, TypeUnidentified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.lines).DocumentType)
		})
	}
}

func TestExtract_BirthDateForms(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"NASCIMENTO 15/08/1975", "15/08/1975"},
		{"15.08.1975", "15/08/1975"},
		{"15-08-1975", "15/08/1975"},
		{"15 / 08 / 1975", "15/08/1975"},
		{"15 08 1975", "15/08/1975"},
		{"15081975", "15/08/1975"},
		{"15 DE AGOSTO DE 1985", "15/08/1985"},
		{"3 MAR 1990", "03/03/1990"},
		{"1975-08-15", "15/08/1975"},
		{"NASCIMENTO01/02/1990", "01/02/1990"},
		{"DATA NASC:01/02/1990SSP", "01/02/1990"},
		{"NASC 01021990X", "01/02/1990"},
		{"NASC3 MAR 1990", "03/03/1990"},
		{"NASC1975-08-15", "15/08/1975"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract([]string{tt.line}).BirthDate)
		})
	}
}

func TestExtract_BirthDatePrefersNascimentoLine(t *testing.T) {
	lines := []string{
		"DATA DE EXPEDICAO 10/05/2015",
		"DATA DE NASCIMENTO",
		"01/02/1990",
	}
	assert.Equal(t, "01/02/1990", Extract(lines).BirthDate)
}

func TestExtract_BirthDateAfterNascimentoOnSharedLine(t *testing.T) {
	lines := []string{"DATA DE EXPEDICAO 10/05/2015 NASCIMENTO 01/02/1990"}
	assert.Equal(t, "01/02/1990", Extract(lines).BirthDate)

	lines = []string{"01/02/1990 NASCIMENTO"}
	assert.Equal(t, "01/02/1990", Extract(lines).BirthDate, "falls back to the whole line")
}

func TestExtract_BirthDateSkipsIssueDateWhenAnotherExists(t *testing.T) {
	lines := []string{
		"EXPEDICAO 10/05/2015",
		"JOSE 01/02/1990",
	}
	assert.Equal(t, "01/02/1990", Extract(lines).BirthDate)
}

func TestExtract_BirthDateRejectsImpossibleDates(t *testing.T) {
	assert.Empty(t, Extract([]string{"99/99/1990"}).BirthDate)
	assert.Empty(t, Extract([]string{"12345678901"}).BirthDate)
	assert.Empty(t, Extract([]string{"NASC 010219901"}).BirthDate)
}

func TestExtract_NameStrategies(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "before filiacao",
			lines: []string{"PAULO ROBERTO LIMA", "FILIAÇÃO", "ROBERTO LIMA"},
			want:  "Paulo Roberto Lima",
		},
		{
			name:  "nome label with terminator",
			lines: []string{"NOME: ANA DE SOUZA DATA NASC 01/01/2000"},
			want:  "Ana de Souza",
		},
		{
			name:  "nome label at end of line",
			lines: []string{"Nome: Maria das Dores"},
			want:  "Maria das Dores",
		},
		{
			name:  "generic scan skips keyword lines",
			lines: []string{"SECRETARIA DA SEGURANCA PUBLICA", "BEATRIZ NUNES"},
			want:  "Beatriz Nunes",
		},
		{
			name:  "nome label without separator",
			lines: []string{"CARTEIRA DE IDENTIDADE", "NOME MARIA SOUZA", "NASCIMENTO 01/02/1990"},
			want:  "Maria Souza",
		},
		{
			name:  "line after nome",
			lines: []string{"NOME DO TITULAR", "Luiz Gama."},
			want:  "Luiz Gama",
		},
		{
			name:  "override table",
			lines: []string{"NOME: CARLOS DA SILVA SAURO"},
			want:  "Carlos da Silva",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.lines).Name)
		})
	}
}

func TestExtract_CustomOverrideWithDate(t *testing.T) {
	e := NewExtractor(WithOverrides([]Override{
		{Trigger: "Fulano Teste", Name: "Fulano Teste", BirthDate: "09/09/1999"},
	}))
	f := e.Extract([]string{"fulano teste", "NASCIMENTO 01/01/2001"})

	assert.Equal(t, "Fulano Teste", f.Name)
	assert.Equal(t, "09/09/1999", f.BirthDate)
}

func TestExtract_Naturalness(t *testing.T) {
	assert.Equal(t, "Rio de Janeiro - RJ", Extract([]string{"NATURALIDADE: RIO DE JANEIRO - RJ"}).Naturalness)
	assert.Equal(t, "Belo Horizonte / MG", Extract([]string{"Naturalidade", "BELO HORIZONTE/MG"}).Naturalness)
	assert.Empty(t, Extract([]string{"NATURALIDADE", "DATA DE NASCIMENTO"}).Naturalness)
}

func TestExtract_FiliationWindow(t *testing.T) {
	lines := []string{
		"FILIAÇÃO: PEDRO ALVES",
		"E JULIA ALVES",
		"DATA DE NASCIMENTO",
		"01/01/2001",
		"ASSINATURA DO TITULAR",
		"LONGE DEMAIS",
	}
	f := Extract(lines)
	assert.Equal(t, []string{"Pedro Alves", "Julia Alves"}, f.Parents)
}

func TestExtract_AuthorityAndRG(t *testing.T) {
	f := Extract([]string{"RG: 1.234.567 ORGAO EXPEDIDOR SSP-MG"})
	assert.Equal(t, "1.234.567", f.RGNumber)
	assert.Equal(t, "SSP/MG", f.IssuingAuthority)

	f = Extract([]string{"ORGAO EMISSOR", "DETRAN RJ"})
	assert.Equal(t, "DETRAN/RJ", f.IssuingAuthority)

	f = Extract([]string{"SSP XX"})
	assert.Empty(t, f.IssuingAuthority, "unknown state codes are rejected")
}

func TestExtract_RGIgnoresCPF(t *testing.T) {
	f := Extract([]string{"RG CPF 123.456.789-09"})
	assert.Empty(t, f.RGNumber)
	assert.Equal(t, "123.456.789-09", f.CPFNumber)
}

func TestExtract_CPFLooseOnAnchoredLine(t *testing.T) {
	f := Extract([]string{"CPF", "123 456 789 09"})
	assert.Equal(t, "123.456.789-09", f.CPFNumber)
}

func TestExtract_EmptyInput(t *testing.T) {
	f := Extract(nil)
	require.Equal(t, 0, f.Populated())
	f = Extract([]string{"   ", ""})
	require.Equal(t, 0, f.Populated())
}

func TestTitleName(t *testing.T) {
	assert.Equal(t, "Maria das Dores e Silva", titleName("MARIA DAS DORES E SILVA"))
	assert.Equal(t, "Ângela Conceição", titleName("ÂNGELA CONCEIÇÃO"))
}

func TestApplyCorrections(t *testing.T) {
	got := applyCorrections("Joao Sllva", DefaultCorrections)
	assert.Equal(t, "João Silva", got)
}
