// Package normalizer canoniza os campos de texto livre da planilha
// (SKU, marca, setor) em chaves comparáveis. Todas as funções são
// puras e determinísticas: a mesma entrada sempre produz a mesma
// chave, independente da ordem das chamadas.
package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vfg2006/multimarks-api/internal/domain"
)

// Kind indica qual regra de canonização aplicar.
type Kind int

const (
	KindSKU Kind = iota
	KindBrand
	KindSector
)

// Normalize produz a chave canônica de lookup para o texto cru.
// Entrada vazia ou só de espaços vira domain.EmptyKey, nunca a
// string vazia.
func Normalize(kind Kind, raw string) domain.NormalizedKey {
	if raw == string(domain.EmptyKey) {
		return domain.EmptyKey
	}

	switch kind {
	case KindSKU:
		return normalizeSKU(raw)
	default:
		return normalizeText(raw)
	}
}

// normalizeSKU mantém apenas os dígitos do código, preservando zeros
// à esquerda. O sufixo ".0" que o Excel acrescenta ao ler códigos
// como float é descartado antes da extração.
func normalizeSKU(raw string) domain.NormalizedKey {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".0")

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return domain.EmptyKey
	}

	return domain.NormalizedKey(b.String())
}

// normalizeText canoniza marca e setor: trim, espaços internos
// colapsados, acentos removidos, pontuação descartada, caixa alta.
func normalizeText(raw string) domain.NormalizedKey {
	s := stripAccents(strings.TrimSpace(raw))

	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToUpper(r))
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	key := strings.TrimSpace(b.String())
	if key == "" {
		return domain.EmptyKey
	}

	return domain.NormalizedKey(key)
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}
