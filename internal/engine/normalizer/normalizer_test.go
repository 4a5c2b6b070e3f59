package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vfg2006/multimarks-api/internal/domain"
)

func TestNormalizeSKU(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected domain.NormalizedKey
	}{
		{name: "preserva zeros à esquerda", raw: "01234", expected: "01234"},
		{name: "remove caracteres não numéricos", raw: "SKU-001", expected: "001"},
		{name: "remove espaços internos", raw: "01 234", expected: "01234"},
		{name: "remove espaços nas bordas", raw: "  01234  ", expected: "01234"},
		{name: "descarta sufixo de float do Excel", raw: "1234.0", expected: "1234"},
		{name: "letras misturadas", raw: "ABC123", expected: "123"},
		{name: "vazio vira chave reservada", raw: "", expected: domain.EmptyKey},
		{name: "só espaços vira chave reservada", raw: "   ", expected: domain.EmptyKey},
		{name: "só letras vira chave reservada", raw: "ABC", expected: domain.EmptyKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(KindSKU, tt.raw))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		raw      string
		expected domain.NormalizedKey
	}{
		{name: "caixa alta e acentos", kind: KindBrand, raw: "oBoticário", expected: "OBOTICARIO"},
		{name: "espaços colapsados", kind: KindSector, raw: "  Setor   Norte ", expected: "SETOR NORTE"},
		{name: "pontuação descartada", kind: KindBrand, raw: "Quem Disse, Berenice?", expected: "QUEM DISSE BERENICE"},
		{name: "vazio vira chave reservada", kind: KindSector, raw: " ", expected: domain.EmptyKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.kind, tt.raw))
		})
	}
}

// Normalizar a própria chave tem de devolver a mesma chave, para
// qualquer tipo de campo.
func TestNormalizeIdempotente(t *testing.T) {
	inputs := []string{"01234", "SKU-001", "oBoticário", "Setor   Sul", "", "Quem Disse, Berenice?"}

	for _, raw := range inputs {
		for _, kind := range []Kind{KindSKU, KindBrand, KindSector} {
			once := Normalize(kind, raw)
			twice := Normalize(kind, string(once))
			assert.Equal(t, once, twice, "kind=%d raw=%q", kind, raw)
		}
	}
}

func TestCanonicalBrand(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{raw: "EUD", expected: "Eudora"},
		{raw: "eudora", expected: "Eudora"},
		{raw: "OBOTICARIO", expected: "oBoticário"},
		{raw: "O Boticário", expected: "oBoticário"},
		{raw: "QDB", expected: "Quem Disse Berenice"},
		{raw: "O.U.I.", expected: "O.U.I"},
		{raw: "au migos", expected: "AuAmigos"},
		{raw: "", expected: domain.BrandUnknown},
		{raw: "Marca Inexistente", expected: "Marca Inexistente"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalBrand(tt.raw))
		})
	}
}
