package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/multimarks-api/internal/domain"
	"github.com/vfg2006/multimarks-api/internal/engine/catalog"
)

func unmatchedRow(code, name, cycle string) domain.MatchResult {
	return domain.MatchResult{
		Row: domain.RawRow{
			Sector:      "100",
			Cycle:       cycle,
			ProductCode: code,
			ProductName: name,
			Type:        domain.RowTypeSale,
			Quantity:    "1",
			Value:       "10,00",
		},
		Key:     domain.NormalizedKey(code),
		Outcome: domain.OutcomeUnmatched,
		Reason:  domain.MatchNotFound,
	}
}

func TestReportAgrupamentoEOrdenacao(t *testing.T) {
	idx := catalog.BuildIndex("v1", nil)

	unresolved := []domain.MatchResult{
		unmatchedRow("88888", "Produto A", "202601"),
		unmatchedRow("77777", "Produto B", "202601"),
		unmatchedRow("88888", "Produto A", "202602"),
		unmatchedRow("66666", "Produto C", "202601"),
		unmatchedRow("77777", "Produto B", "202601"),
	}

	entries := Report(unresolved, nil, idx, Config{})

	require.Len(t, entries, 3)
	// Ocorrências decrescentes; chave ascendente no empate.
	assert.Equal(t, domain.NormalizedKey("77777"), entries[0].Key)
	assert.Equal(t, 2, entries[0].Occurrences)
	assert.Equal(t, domain.NormalizedKey("88888"), entries[1].Key)
	assert.Equal(t, 2, entries[1].Occurrences)
	assert.Equal(t, domain.NormalizedKey("66666"), entries[2].Key)
	assert.Equal(t, 1, entries[2].Occurrences)

	assert.Equal(t, []string{"202601", "202602"}, entries[1].Cycles)
	assert.Equal(t, "Produto A", entries[1].ProductName)
	assert.Equal(t, int64(2), entries[1].TotalItems)
}

func TestReportClassificacao(t *testing.T) {
	idx := catalog.BuildIndex("v1", []domain.ProductRecord{
		{SKU: "12345", Name: "Produto conhecido", Brand: "Eudora"},
	})

	// "12346" está a uma edição de "12345": possível erro de digitação.
	typo := []domain.MatchResult{unmatchedRow("12346", "Produto", "202601")}

	// "99999" longe de tudo e recorrente: possível produto novo.
	var novo []domain.MatchResult
	for i := 0; i < 3; i++ {
		novo = append(novo, unmatchedRow("99999", "Lançamento", "202601"))
	}

	// "55555" longe de tudo e raro: desconhecido.
	raro := []domain.MatchResult{unmatchedRow("55555", "Avulso", "202601")}

	entries := Report(append(append(typo, novo...), raro...), nil, idx, Config{NewProductMinOccurrences: 3, TypoMaxDistance: 1})

	byKey := make(map[domain.NormalizedKey]domain.AuditEntry)
	for _, e := range entries {
		byKey[e.Key] = e
	}

	assert.Equal(t, domain.CategoryTypo, byKey["12346"].Category)
	assert.Equal(t, "12345", byKey["12346"].Suggestion)
	assert.Equal(t, domain.CategoryNewProduct, byKey["99999"].Category)
	assert.Equal(t, domain.CategoryUnknown, byKey["55555"].Category)
}

func TestReportAmbiguosEMalformadas(t *testing.T) {
	idx := catalog.BuildIndex("v1", nil)

	ambiguous := domain.MatchResult{
		Row:     domain.RawRow{ProductCode: "11111", ProductName: "Creme", Cycle: "202601", Type: domain.RowTypeSale, Quantity: "1", Value: "5,00"},
		Key:     "11111",
		Outcome: domain.OutcomeAmbiguous,
		Candidates: []domain.ProductRecord{
			{SKU: "11111", Brand: "B1"},
			{SKU: "11111", Brand: "B2"},
		},
	}

	malformed := []domain.MalformedRow{
		{Row: domain.RawRow{ProductCode: "22222", Quantity: "abc", Cycle: "202601"}, Reason: "quantidade não numérica"},
	}

	entries := Report([]domain.MatchResult{ambiguous}, malformed, idx, Config{})

	require.Len(t, entries, 2)

	byCategory := make(map[domain.AuditCategory]domain.AuditEntry)
	for _, e := range entries {
		byCategory[e.Category] = e
	}

	amb, ok := byCategory[domain.CategoryAmbiguous]
	require.True(t, ok)
	assert.Equal(t, domain.NormalizedKey("11111"), amb.Key)

	mal, ok := byCategory[domain.CategoryMalformed]
	require.True(t, ok)
	assert.Equal(t, "quantidade não numérica", mal.Suggestion)
	// Linha malformada não soma itens: quantidade inválida.
	assert.Zero(t, mal.TotalItems)
}

func TestReportMalformadasAgrupamPorChaveNormalizada(t *testing.T) {
	idx := catalog.BuildIndex("v1", nil)

	// O mesmo código com variações de grafia da planilha pertence a
	// um único grupo, chaveado pela forma normalizada.
	malformed := []domain.MalformedRow{
		{Row: domain.RawRow{ProductCode: " 123 ", Quantity: "abc", Cycle: "202601"}, Reason: "quantidade não numérica"},
		{Row: domain.RawRow{ProductCode: "123", Quantity: "xyz", Cycle: "202601"}, Reason: "quantidade não numérica"},
		{Row: domain.RawRow{ProductCode: "123.0", Value: "dez", Cycle: "202602"}, Reason: "valor não numérico"},
	}

	entries := Report(nil, malformed, idx, Config{})

	require.Len(t, entries, 1)
	assert.Equal(t, domain.NormalizedKey("123"), entries[0].Key)
	assert.Equal(t, 3, entries[0].Occurrences)
	assert.Equal(t, []string{" 123 ", "123", "123.0"}, entries[0].OriginalCodes)

	// Código sem nenhum dígito cai na chave sentinela, não na string
	// crua.
	semDigito := []domain.MalformedRow{
		{Row: domain.RawRow{ProductCode: "???", Quantity: "1"}, Reason: "código inválido"},
	}
	entries = Report(nil, semDigito, idx, Config{})
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EmptyKey, entries[0].Key)
}

func TestReportVazio(t *testing.T) {
	entries := Report(nil, nil, catalog.BuildIndex("v1", nil), Config{})
	assert.Empty(t, entries)
}
