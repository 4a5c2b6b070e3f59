// Package matcher resolve o código de produto de cada linha contra o
// índice de catálogo. Função pura sobre a linha e o snapshot do
// índice: sem efeito colateral, resultado independente da ordem das
// linhas.
package matcher

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/vfg2006/multimarks-api/internal/domain"
	"github.com/vfg2006/multimarks-api/internal/engine/catalog"
	"github.com/vfg2006/multimarks-api/internal/engine/normalizer"
)

// DefaultNameSimilarity é o limiar padrão do desempate por nome.
// Valor inferido do domínio; calibrar contra catálogo real antes de
// mudar em produção.
const DefaultNameSimilarity = 0.85

// Config parametriza o desempate de matches ambíguos.
type Config struct {
	// NameSimilarity é a similaridade mínima (0..1) entre o nome da
	// linha e o nome do candidato para o desempate valer.
	NameSimilarity float64
}

func (c Config) similarity() float64 {
	if c.NameSimilarity <= 0 {
		return DefaultNameSimilarity
	}
	return c.NameSimilarity
}

// Match concilia uma linha contra o índice. Zero candidatos resulta
// em Unmatched; um candidato, Matched; vários, desempate por
// marca/nome. Sem vencedor único a linha vai para auditoria como
// ambígua, nunca escolhemos em silêncio.
func Match(row domain.RawRow, idx *catalog.Index, cfg Config) domain.MatchResult {
	result := domain.MatchResult{
		Row:     row,
		Key:     normalizer.Normalize(normalizer.KindSKU, row.ProductCode),
		Outcome: domain.OutcomeUnmatched,
		Reason:  domain.MatchNotFound,
	}

	if result.Key.IsEmpty() {
		return result
	}

	candidates, reason := lookupWithZeroStrategies(result.Key, idx)
	if len(candidates) == 0 {
		return result
	}

	result.Reason = reason

	if len(candidates) == 1 {
		result.Outcome = domain.OutcomeMatched
		result.Product = &candidates[0]
		return result
	}

	survivors := tieBreak(row, candidates, cfg)
	if len(survivors) == 1 {
		result.Outcome = domain.OutcomeMatched
		result.Product = &survivors[0]
		return result
	}

	result.Outcome = domain.OutcomeAmbiguous
	if len(survivors) > 1 {
		result.Candidates = survivors
	} else {
		result.Candidates = candidates
	}
	return result
}

// lookupWithZeroStrategies aplica as estratégias de busca na ordem da
// base histórica: match exato, zero à esquerda acrescentado (códigos
// de 4 dígitos), zero à esquerda removido (5+ dígitos iniciados em 0).
func lookupWithZeroStrategies(key domain.NormalizedKey, idx *catalog.Index) ([]domain.ProductRecord, domain.MatchReason) {
	if records := idx.Lookup(key); len(records) > 0 {
		return records, domain.MatchExact
	}

	if len(key) == 4 {
		if records := idx.Lookup("0" + key); len(records) > 0 {
			return records, domain.MatchLeadingZeroAdded
		}
	}

	if len(key) >= 5 && strings.HasPrefix(string(key), "0") {
		trimmed := strings.TrimLeft(string(key), "0")
		if trimmed == "" {
			trimmed = "0"
		}
		if records := idx.Lookup(domain.NormalizedKey(trimmed)); len(records) > 0 {
			return records, domain.MatchLeadingZeroTrimmed
		}
	}

	return nil, domain.MatchNotFound
}

// tieBreak compara o texto de marca/nome da linha com cada candidato
// e devolve os candidatos de maior pontuação, desde que acima do
// limiar. Total e independente da ordem de enumeração: o conjunto de
// candidatos é pré-ordenado pelo índice e a pontuação é por candidato.
func tieBreak(row domain.RawRow, candidates []domain.ProductRecord, cfg Config) []domain.ProductRecord {
	rowNameKey := normalizer.Normalize(normalizer.KindBrand, row.ProductName)
	if rowNameKey.IsEmpty() {
		return nil
	}

	best := 0.0
	scores := make([]float64, len(candidates))
	for i, candidate := range candidates {
		scores[i] = candidateScore(rowNameKey, candidate)
		if scores[i] > best {
			best = scores[i]
		}
	}

	if best < cfg.similarity() {
		return nil
	}

	var survivors []domain.ProductRecord
	for i, candidate := range candidates {
		if scores[i] == best {
			survivors = append(survivors, candidate)
		}
	}
	return survivors
}

// candidateScore pontua um candidato: marca presente no texto da
// linha conta como acerto pleno; caso contrário vale a similaridade
// de Levenshtein entre os nomes normalizados.
func candidateScore(rowNameKey domain.NormalizedKey, candidate domain.ProductRecord) float64 {
	brandKey := normalizer.Normalize(normalizer.KindBrand, candidate.Brand)
	if !brandKey.IsEmpty() && strings.Contains(string(rowNameKey), string(brandKey)) {
		return 1.0
	}

	nameKey := normalizer.Normalize(normalizer.KindBrand, candidate.Name)
	if nameKey.IsEmpty() {
		return 0
	}

	return levenshtein.RatioForStrings([]rune(rowNameKey), []rune(nameKey), levenshtein.DefaultOptions)
}
