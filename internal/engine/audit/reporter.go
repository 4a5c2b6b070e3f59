// Package audit produz o relatório de revisão humana: SKUs não
// conciliados ou ambíguos e linhas rejeitadas, agrupados por chave
// normalizada e classificados por causa provável.
package audit

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/vfg2006/multimarks-api/internal/domain"
	"github.com/vfg2006/multimarks-api/internal/engine/catalog"
	"github.com/vfg2006/multimarks-api/internal/engine/normalizer"
)

// Config parametriza a heurística de classificação.
type Config struct {
	// NewProductMinOccurrences é o mínimo de ocorrências de um SKU
	// desconhecido para sugerirmos produto novo.
	NewProductMinOccurrences int
	// TypoMaxDistance é a distância de edição máxima até uma chave
	// conhecida para sugerirmos erro de digitação.
	TypoMaxDistance int
}

func (c Config) newProductMin() int {
	if c.NewProductMinOccurrences <= 0 {
		return 3
	}
	return c.NewProductMinOccurrences
}

func (c Config) typoDistance() int {
	if c.TypoMaxDistance <= 0 {
		return 1
	}
	return c.TypoMaxDistance
}

// Report agrupa linhas não resolvidas e malformadas em entradas de
// auditoria ordenadas por ocorrências decrescentes, com chave
// ascendente como desempate.
func Report(unresolved []domain.MatchResult, malformed []domain.MalformedRow, idx *catalog.Index, cfg Config) []domain.AuditEntry {
	groups := make(map[groupKey]*accumulator)

	for _, match := range unresolved {
		category := domain.CategoryUnknown
		if match.Outcome == domain.OutcomeAmbiguous {
			category = domain.CategoryAmbiguous
		}
		accumulate(groups, match.Key, category, match.Row)
	}

	for _, m := range malformed {
		// A chave do grupo é sempre a normalizada; o código cru da
		// planilha fica registrado em OriginalCodes.
		key := normalizer.Normalize(normalizer.KindSKU, m.Row.ProductCode)
		acc := accumulate(groups, key, domain.CategoryMalformed, m.Row)
		if acc.suggestion == "" {
			acc.suggestion = m.Reason
		}
	}

	entries := make([]domain.AuditEntry, 0, len(groups))
	for gk, acc := range groups {
		entry := acc.entry(gk)
		if gk.category == domain.CategoryUnknown {
			classify(&entry, idx, cfg)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Occurrences != entries[j].Occurrences {
			return entries[i].Occurrences > entries[j].Occurrences
		}
		if entries[i].Key != entries[j].Key {
			return entries[i].Key < entries[j].Key
		}
		return entries[i].Category < entries[j].Category
	})

	return entries
}

// classify refina a categoria de um SKU não encontrado: perto de uma
// chave conhecida vira possível erro de digitação; recorrente o
// bastante vira possível produto novo; o resto fica desconhecido.
func classify(entry *domain.AuditEntry, idx *catalog.Index, cfg Config) {
	if nearest, ok := nearestKey(string(entry.Key), idx.Keys(), cfg.typoDistance()); ok {
		entry.Category = domain.CategoryTypo
		entry.Suggestion = nearest
		return
	}

	if entry.Occurrences >= cfg.newProductMin() {
		entry.Category = domain.CategoryNewProduct
	}
}

// nearestKey devolve a menor chave conhecida dentro da distância de
// edição máxima. Empates resolvem para a chave lexicograficamente
// menor, já que Keys() vem ordenado.
func nearestKey(key string, known []string, maxDistance int) (string, bool) {
	bestDistance := maxDistance + 1
	best := ""

	for _, candidate := range known {
		// Poda barata: a distância nunca é menor que a diferença de
		// tamanho.
		if diff := len(candidate) - len(key); diff > bestDistance-1 || -diff > bestDistance-1 {
			continue
		}
		d := levenshtein.DistanceForStrings([]rune(key), []rune(candidate), levenshtein.DefaultOptions)
		if d < bestDistance {
			bestDistance = d
			best = candidate
		}
	}

	return best, best != ""
}

type groupKey struct {
	key      domain.NormalizedKey
	category domain.AuditCategory
}

type accumulator struct {
	rows       []domain.RawRow
	codes      map[string]struct{}
	cycles     map[string]struct{}
	sectors    map[string]struct{}
	names      map[string]int
	items      int64
	value      decimal.Decimal
	suggestion string
}

func accumulate(groups map[groupKey]*accumulator, key domain.NormalizedKey, category domain.AuditCategory, row domain.RawRow) *accumulator {
	gk := groupKey{key: key, category: category}
	acc := groups[gk]
	if acc == nil {
		acc = &accumulator{
			codes:   make(map[string]struct{}),
			cycles:  make(map[string]struct{}),
			sectors: make(map[string]struct{}),
			names:   make(map[string]int),
			value:   decimal.Zero,
		}
		groups[gk] = acc
	}

	acc.rows = append(acc.rows, row)
	if row.ProductCode != "" {
		acc.codes[row.ProductCode] = struct{}{}
	}
	if row.Cycle != "" {
		acc.cycles[row.Cycle] = struct{}{}
	}
	if row.Sector != "" {
		acc.sectors[row.Sector] = struct{}{}
	}
	if row.ProductName != "" {
		acc.names[row.ProductName]++
	}

	// Totais em melhor esforço: linhas malformadas podem não ter
	// quantidade ou valor coagíveis.
	if qty, err := domain.ParseQuantity(row.Quantity); err == nil {
		acc.items += qty
	}
	if value, err := domain.ParseValue(row.Value); err == nil {
		acc.value = acc.value.Add(value)
	}

	return acc
}

func (acc *accumulator) entry(gk groupKey) domain.AuditEntry {
	return domain.AuditEntry{
		Key:           gk.key,
		Category:      gk.category,
		Occurrences:   len(acc.rows),
		OriginalCodes: sortedSet(acc.codes),
		ProductName:   mostFrequentName(acc.names),
		Cycles:        sortedSet(acc.cycles),
		Sectors:       sortedSet(acc.sectors),
		TotalItems:    acc.items,
		TotalValue:    acc.value,
		Suggestion:    acc.suggestion,
		Rows:          acc.rows,
	}
}

func mostFrequentName(names map[string]int) string {
	best, bestCount := "", 0
	for name, count := range names {
		if count > bestCount || (count == bestCount && name < best) {
			best, bestCount = name, count
		}
	}
	return best
}

func sortedSet(set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
