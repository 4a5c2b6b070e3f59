package domain

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ParseQuantity coage a quantidade de itens da planilha. Aceita o
// sufixo ".0" que o Excel produz ao ler inteiros como float.
func ParseQuantity(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("quantidade vazia")
	}

	d, err := decimal.NewFromString(normalizeDecimalSeparators(s))
	if err != nil {
		return 0, errors.Wrapf(err, "quantidade inválida %q", raw)
	}

	if !d.Equal(d.Truncate(0)) {
		return 0, errors.Errorf("quantidade fracionária %q", raw)
	}

	return d.IntPart(), nil
}

// ParseValue coage o valor monetário da planilha para decimal.
// Tolera prefixo de moeda e separadores no formato brasileiro
// ("R$ 1.234,56") além do formato com ponto decimal.
func ParseValue(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("valor vazio")
	}

	d, err := decimal.NewFromString(normalizeDecimalSeparators(s))
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "valor inválido %q", raw)
	}

	return d, nil
}

// normalizeDecimalSeparators converte "1.234,56" e "12,34" para a
// forma com ponto decimal que o parser entende. Quando os dois
// separadores aparecem, o último é o decimal: cobre tanto o formato
// brasileiro ("1.234,56") quanto o americano ("1,234.56").
func normalizeDecimalSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	return s
}
