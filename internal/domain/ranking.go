package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultRankingLimit é o tamanho do ranking quando nenhum limite é
// informado.
const DefaultRankingLimit = 20

// RankingEntry é uma posição do ranking de revendedoras por valor
// total comprado.
type RankingEntry struct {
	Position     int             `json:"posicao"`
	Key          CustomerKey     `json:"cliente"`
	ResellerName string          `json:"nome_revendedora"`
	TotalItems   int64           `json:"itens_total"`
	TotalValue   decimal.Decimal `json:"valor_total"`
	BrandCount   int             `json:"qtde_marcas"`
	Brands       []string        `json:"marcas"`
	ActiveCycles int             `json:"ciclos_ativos"`
	Multibrand   bool            `json:"multimarcas"`
}

// BuildRanking ordena as revendedoras por valor total decrescente e
// devolve as primeiras limit posições. Empates resolvem por chave
// ascendente, para um ranking estável entre execuções.
func BuildRanking(customers []*CustomerMetrics, limit int) []RankingEntry {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	ordered := make([]*CustomerMetrics, len(customers))
	copy(ordered, customers)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.TotalValue.Equal(b.TotalValue) {
			return a.TotalValue.GreaterThan(b.TotalValue)
		}
		if a.Key.ResellerCode != b.Key.ResellerCode {
			return a.Key.ResellerCode < b.Key.ResellerCode
		}
		return a.Key.Sector < b.Key.Sector
	})

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	entries := make([]RankingEntry, 0, len(ordered))
	for i, m := range ordered {
		entries = append(entries, RankingEntry{
			Position:     i + 1,
			Key:          m.Key,
			ResellerName: m.ResellerName,
			TotalItems:   m.TotalItems,
			TotalValue:   m.TotalValue,
			BrandCount:   len(m.Brands),
			Brands:       m.Brands,
			ActiveCycles: len(m.Cycles),
			Multibrand:   m.Multibrand,
		})
	}
	return entries
}
