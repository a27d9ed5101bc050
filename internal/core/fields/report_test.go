package fields

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_StructuredIdentityCard(t *testing.T) {
	got := Report([]string{"CARTEIRA DE IDENTIDADE", "NOME: MARIA SOUZA", "DATA DE NASCIMENTO", "01/02/1990"}, TypeUnidentified)

	assert.Equal(t, []string{
		"TIPO DE DOCUMENTO: Carteira de Identidade (RG)",
		"NOME: Maria Souza",
		"DATA DE NASCIMENTO: 01/02/1990",
	}, got)
}

func TestReport_PassthroughWhenTooFewFields(t *testing.T) {
	got := Report([]string{"XYZ ABC"}, TypeUnidentified)
	assert.Equal(t, []string{PassthroughMarker, "XYZ ABC"}, got)

	got = Report([]string{"XYZ ABC"}, TypeRG)
	assert.Equal(t, []string{PassthroughMarker, "XYZ ABC"}, got, "a hint alone does not make a report")
}

func TestReport_EmptyInput(t *testing.T) {
	assert.Equal(t, []string{PassthroughMarker}, Report(nil, TypeUnidentified))
}

func TestReport_HintFillsUnknownType(t *testing.T) {
	got := Report([]string{"NOME: JOAO PEDRO", "NASCIMENTO 01/01/1980"}, TypeCNH)

	assert.Equal(t, []string{
		"TIPO DE DOCUMENTO: Carteira Nacional de Habilitação (CNH)",
		"NOME: João Pedro",
		"DATA DE NASCIMENTO: 01/01/1980",
	}, got)
}

func TestReport_HintDoesNotOverrideDetectedType(t *testing.T) {
	got := Report([]string{"CARTEIRA DE IDENTIDADE", "NOME: MARIA SOUZA", "NASCIMENTO 01/02/1990"}, TypeCPF)
	require.NotEmpty(t, got)
	assert.Equal(t, "TIPO DE DOCUMENTO: Carteira de Identidade (RG)", got[0])
}

func TestReport_AppendsRawLinesWhenNameOrDateMissing(t *testing.T) {
	raw := []string{"CARTEIRA DE IDENTIDADE", "RG 12.345.678-9"}
	got := Report(raw, TypeUnidentified)

	assert.Equal(t, []string{
		"TIPO DE DOCUMENTO: Carteira de Identidade (RG)",
		"RG: 12.345.678-9",
		"",
		FallbackHeader,
		"CARTEIRA DE IDENTIDADE",
		"RG 12.345.678-9",
	}, got)
}

func TestReport_CleansWhitespace(t *testing.T) {
	got := Report([]string{"  NOME:   MARIA   SOUZA ", "", "   ", "NASCIMENTO 01/02/1990"}, TypeUnidentified)

	assert.Equal(t, []string{
		"NOME: Maria Souza",
		"DATA DE NASCIMENTO: 01/02/1990",
	}, got)
}

func TestReport_PassthroughKeepsInnerSpacing(t *testing.T) {
	got := Report([]string{"  XYZ   ABC  ", "", "A  B"}, TypeUnidentified)
	assert.Equal(t, []string{PassthroughMarker, "XYZ   ABC", "A  B"}, got)
}

func TestAnalyze_ReturnsDetectedRecord(t *testing.T) {
	f, out := NewExtractor().Analyze([]string{"NOME: JOAO PEDRO", "NASCIMENTO 01/01/1980"}, TypeCNH)

	assert.Equal(t, TypeUnidentified, f.DocumentType, "the hint only labels the report")
	assert.Equal(t, "João Pedro", f.Name)
	require.NotEmpty(t, out)
	assert.Equal(t, "TIPO DE DOCUMENTO: Carteira Nacional de Habilitação (CNH)", out[0])
}

func TestAnalyze_PanicYieldsPassthrough(t *testing.T) {
	e := NewExtractor(WithFixup(func(*DocumentFields) { panic("index out of range") }))

	var (
		f   DocumentFields
		out []string
	)
	require.NotPanics(t, func() {
		f, out = e.Analyze(rgCard, TypeRG)
	})
	assert.Equal(t, 0, f.Populated())
	assert.Equal(t, append([]string{PassthroughMarker}, rgCard...), out)
	assert.Equal(t, out, e.Report(rgCard, TypeRG))
}

func TestExtract_FixupsRunLast(t *testing.T) {
	e := NewExtractor(WithFixup(func(f *DocumentFields) { f.IssuingAuthority = "SSP/" + f.IssuingAuthority[len(f.IssuingAuthority)-2:] }))
	f := e.Extract([]string{"ORGAO EMISSOR DETRAN-RJ"})
	assert.Equal(t, "SSP/RJ", f.IssuingAuthority)
}

func TestReport_FullCardLayout(t *testing.T) {
	want := []string{
		"TIPO DE DOCUMENTO: Carteira de Identidade (RG)",
		"NOME: João Pereira dos Santos",
		"DATA DE NASCIMENTO: 21/03/1980",
		"NATURALIDADE: São Paulo - SP",
		"FILIAÇÃO:",
		"  1. José Pereira dos Santos",
		"  2. Maria Aparecida dos Santos",
		"RG: 12.345.678-9",
		"CPF: 123.456.789-09",
		"ÓRGÃO EXPEDIDOR: SSP/SP",
	}
	assert.Equal(t, want, Report(rgCard, TypeUnidentified))
}

func TestReport_Deterministic(t *testing.T) {
	first := Report(rgCard, TypeUnidentified)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Report(rgCard, TypeUnidentified)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, first, r)
	}
}

func TestReport_BirthDateIsAlwaysDDMMYYYY(t *testing.T) {
	inputs := []string{"01021990", "01.02.1990", "01-02-1990", "01 02 1990", "1 FEV 1990", "1990/02/01"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got := Report([]string{"NOME: MARIA SOUZA", "NASCIMENTO " + in}, TypeUnidentified)
			assert.Contains(t, got, "DATA DE NASCIMENTO: 01/02/1990")
		})
	}
}

func TestFormat_SkipsEmptyFields(t *testing.T) {
	got := Format(DocumentFields{CPFNumber: "123.456.789-09"})
	assert.Equal(t, []string{"CPF: 123.456.789-09"}, got)
}

func TestParseDocumentType(t *testing.T) {
	assert.Equal(t, TypeRG, ParseDocumentType("rg"))
	assert.Equal(t, TypeCNH, ParseDocumentType("cnh"))
	assert.Equal(t, TypeUnidentified, ParseDocumentType("generic"))
	assert.Equal(t, TypeUnidentified, ParseDocumentType("passport"))
	assert.Equal(t, "Não identificado", TypeUnidentified.Label())
}
