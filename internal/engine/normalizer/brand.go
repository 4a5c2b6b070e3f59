package normalizer

import (
	"strings"

	"github.com/vfg2006/multimarks-api/internal/domain"
)

// KnownBrands são as marcas do grupo reconhecidas pelas métricas.
// Compras de marcas fora desta lista não contam para o multimarcas.
var KnownBrands = []string{"oBoticário", "Eudora", "Quem Disse Berenice", "O.U.I", "AuAmigos"}

// brandAliases corrige as grafias recorrentes das planilhas para o
// nome canônico da marca. A chave é a forma normalizada (sem acento,
// caixa alta) do texto como ele aparece na origem.
var brandAliases = map[domain.NormalizedKey]string{
	"OBOTICARIO":  "oBoticário",
	"O BOTICARIO": "oBoticário",
	"BOTICARIO":   "oBoticário",
	"BOT":         "oBoticário",

	"EUD":    "Eudora",
	"EUDORA": "Eudora",

	"QDB":                 "Quem Disse Berenice",
	"QUEM DISSE BERENICE": "Quem Disse Berenice",

	"OUI":   "O.U.I",
	"O U I": "O.U.I",

	"AUMIGOS":   "AuAmigos",
	"AU MIGOS":  "AuAmigos",
	"AU AMIGOS": "AuAmigos",
}

// CanonicalBrand resolve o texto cru de marca para o nome canônico.
// Texto vazio ou irreconhecível vira domain.BrandUnknown ou o próprio
// texto aparado, respectivamente.
func CanonicalBrand(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.BrandUnknown
	}

	if canonical, ok := brandAliases[Normalize(KindBrand, trimmed)]; ok {
		return canonical
	}

	return trimmed
}

// IsKnownBrand indica se a marca pertence ao grupo.
func IsKnownBrand(brand string) bool {
	for _, b := range KnownBrands {
		if b == brand {
			return true
		}
	}
	return false
}
