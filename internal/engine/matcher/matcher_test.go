package matcher

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/multimarks-api/internal/domain"
	"github.com/vfg2006/multimarks-api/internal/engine/catalog"
)

func saleRow(code, name string) domain.RawRow {
	return domain.RawRow{
		Sector:       "100",
		ResellerCode: "R001",
		Cycle:        "202601",
		ProductCode:  code,
		ProductName:  name,
		Type:         domain.RowTypeSale,
		Quantity:     "1",
		Value:        "10,00",
	}
}

func TestMatchEstrategiasDeZero(t *testing.T) {
	idx := catalog.BuildIndex("v1", []domain.ProductRecord{
		{SKU: "00123", Name: "Colonia Lily", Brand: "oBoticário"},
		{SKU: "1234", Name: "Batom Make B", Brand: "Eudora"},
	})

	tests := []struct {
		name    string
		code    string
		outcome domain.MatchOutcome
		reason  domain.MatchReason
		brand   string
	}{
		{name: "match exato", code: "00123", outcome: domain.OutcomeMatched, reason: domain.MatchExact, brand: "oBoticário"},
		{name: "match sem zero", code: "01234", outcome: domain.OutcomeMatched, reason: domain.MatchLeadingZeroTrimmed, brand: "Eudora"},
		{name: "match exato quatro dígitos", code: "1234", outcome: domain.OutcomeMatched, reason: domain.MatchExact, brand: "Eudora"},
		{name: "não encontrado", code: "77777", outcome: domain.OutcomeUnmatched, reason: domain.MatchNotFound},
		{name: "código vazio", code: "", outcome: domain.OutcomeUnmatched, reason: domain.MatchNotFound},
		{name: "código sem dígitos", code: "ABC", outcome: domain.OutcomeUnmatched, reason: domain.MatchNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Match(saleRow(tt.code, "qualquer"), idx, Config{})
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.reason, result.Reason)
			if tt.outcome == domain.OutcomeMatched {
				require.NotNil(t, result.Product)
				assert.Equal(t, tt.brand, result.Product.Brand)
				assert.Nil(t, result.Candidates)
			}
		})
	}
}

func TestMatchComZeroAcrescentado(t *testing.T) {
	idx := catalog.BuildIndex("v1", []domain.ProductRecord{
		{SKU: "01234", Name: "Produto B", Brand: "Eudora"},
	})

	result := Match(saleRow("1234", "Produto B"), idx, Config{})

	assert.Equal(t, domain.OutcomeMatched, result.Outcome)
	assert.Equal(t, domain.MatchLeadingZeroAdded, result.Reason)
}

// Cenário da planilha real: catálogo tem "00123"; duas linhas da
// mesma revendedora chegam como "123" e "00123". Ambas precisam
// resolver para o mesmo produto.
func TestMatchVariantesDeZeroMesmoProduto(t *testing.T) {
	idx := catalog.BuildIndex("v1", []domain.ProductRecord{
		{SKU: "00123", Name: "Colonia Lily", Brand: "oBoticário"},
	})

	direto := Match(saleRow("00123", "Colonia Lily"), idx, Config{})
	semZeros := Match(saleRow("123", "Colonia Lily"), idx, Config{})

	require.Equal(t, domain.OutcomeMatched, direto.Outcome)
	require.Equal(t, domain.OutcomeMatched, semZeros.Outcome)
	assert.Equal(t, direto.Product.SKU, semZeros.Product.SKU)
}

func TestMatchDesempatePorMarca(t *testing.T) {
	idx := catalog.BuildIndex("v1", []domain.ProductRecord{
		{SKU: "11111", Name: "Creme Hidratante", Brand: "B1"},
		{SKU: "11111", Name: "Creme Nutritivo", Brand: "B2"},
	})

	// O nome da linha cita a marca B2: desempata para B2.
	matched := Match(saleRow("11111", "Creme B2 Nutritivo"), idx, Config{})
	require.Equal(t, domain.OutcomeMatched, matched.Outcome)
	assert.Equal(t, "B2", matched.Product.Brand)

	// Nome que não cita marca nem se aproxima de nenhum candidato:
	// ambíguo, com o conjunto de candidatos preservado para auditoria.
	ambiguous := Match(saleRow("11111", "Texto irreconhecível"), idx, Config{})
	assert.Equal(t, domain.OutcomeAmbiguous, ambiguous.Outcome)
	assert.Len(t, ambiguous.Candidates, 2)
	assert.Nil(t, ambiguous.Product)
}

func TestMatchDesempatePorNome(t *testing.T) {
	idx := catalog.BuildIndex("v1", []domain.ProductRecord{
		{SKU: "22222", Name: "Shampoo Siage Reparacao", Brand: "Eudora"},
		{SKU: "22222", Name: "Esmalte Vermelho Intenso", Brand: "Eudora"},
	})

	result := Match(saleRow("22222", "SHAMPOO SIAGE REPARACAO"), idx, Config{})

	require.Equal(t, domain.OutcomeMatched, result.Outcome)
	assert.Equal(t, "Shampoo Siage Reparacao", result.Product.Name)
}

// Embaralhar a ordem das linhas nunca muda o resultado individual de
// cada uma.
func TestMatchDeterministicoSobPermutacao(t *testing.T) {
	idx := catalog.BuildIndex("v1", []domain.ProductRecord{
		{SKU: "00123", Name: "Colonia Lily", Brand: "oBoticário"},
		{SKU: "11111", Name: "Creme Hidratante", Brand: "B1"},
		{SKU: "11111", Name: "Creme Nutritivo", Brand: "B2"},
		{SKU: "1234", Name: "Batom Make B", Brand: "Eudora"},
	})

	rows := []domain.RawRow{
		saleRow("00123", "Colonia Lily"),
		saleRow("123", "Colonia Lily"),
		saleRow("11111", "Creme B2 Nutritivo"),
		saleRow("11111", "Sem pista de marca"),
		saleRow("99999", "Produto fantasma"),
		saleRow("01234", "Batom Make B"),
	}

	baseline := make(map[string]domain.MatchResult, len(rows))
	for _, row := range rows {
		baseline[row.ProductCode+"|"+row.ProductName] = Match(row, idx, Config{})
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]domain.RawRow(nil), rows...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		for _, row := range shuffled {
			got := Match(row, idx, Config{})
			want := baseline[row.ProductCode+"|"+row.ProductName]
			assert.Equal(t, want.Outcome, got.Outcome)
			assert.Equal(t, want.Reason, got.Reason)
			assert.Equal(t, want.Product, got.Product)
			assert.Equal(t, want.Candidates, got.Candidates)
		}
	}
}

func TestMatchIndiceVazio(t *testing.T) {
	idx := catalog.BuildIndex("", nil)

	result := Match(saleRow("00123", "Colonia Lily"), idx, Config{})

	assert.Equal(t, domain.OutcomeUnmatched, result.Outcome)
}
