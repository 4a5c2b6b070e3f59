// Package ledger materializa o conjunto limpo de transações de um
// upload. O Ledger fica completo antes de qualquer agregação: nada de
// agregação parcial em streaming, para que as métricas reflitam um
// snapshot consistente do upload inteiro.
package ledger

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/vfg2006/multimarks-api/internal/domain"
	"github.com/vfg2006/multimarks-api/internal/engine/catalog"
	"github.com/vfg2006/multimarks-api/internal/engine/matcher"
)

// ErrProcessingTooLarge indica que o upload excede o orçamento de
// linhas configurado. Nenhum Ledger parcial é devolvido nesse caso.
var ErrProcessingTooLarge = errors.New("upload excede o limite de linhas configurado")

// BuildResult carrega o Ledger e tudo que ficou de fora dele, intacto,
// para a auditoria.
type BuildResult struct {
	Ledger     domain.Ledger
	Unresolved []domain.MatchResult // vendas não encontradas ou ambíguas
	Malformed  []domain.MalformedRow
	Stats      domain.ProcessingStats
}

// Build valida, concilia e dobra as linhas de um upload no Ledger.
// Linhas malformadas e não conciliadas não interrompem o
// processamento; só o estouro do orçamento de linhas é fatal.
func Build(rows []domain.RawRow, idx *catalog.Index, cfg matcher.Config, maxRows int) (*BuildResult, error) {
	if maxRows > 0 && len(rows) > maxRows {
		return nil, errors.Wrapf(ErrProcessingTooLarge, "%d linhas recebidas, limite %d", len(rows), maxRows)
	}

	result := &BuildResult{}
	result.Stats.TotalRows = len(rows)

	for _, row := range rows {
		if !row.IsSale() {
			continue
		}
		result.Stats.SaleRows++

		tx, malformedReason := coerceRow(row)
		if malformedReason != "" {
			result.Stats.Malformed++
			result.Malformed = append(result.Malformed, domain.MalformedRow{Row: row, Reason: malformedReason})
			continue
		}

		match := matcher.Match(row, idx, cfg)
		switch match.Outcome {
		case domain.OutcomeMatched:
			result.Stats.Matched++
			switch match.Reason {
			case domain.MatchExact:
				result.Stats.MatchExact++
			case domain.MatchLeadingZeroAdded:
				result.Stats.MatchWithZero++
			case domain.MatchLeadingZeroTrimmed:
				result.Stats.MatchWithoutZero++
			}

			tx.Key = match.Key
			tx.Reason = match.Reason
			tx.Product = *match.Product
			result.Ledger.Transactions = append(result.Ledger.Transactions, tx)

		case domain.OutcomeAmbiguous:
			result.Stats.Ambiguous++
			result.Unresolved = append(result.Unresolved, match)

		default:
			result.Stats.Unmatched++
			result.Unresolved = append(result.Unresolved, match)
		}
	}

	if result.Stats.SaleRows > 0 {
		resolved := result.Stats.SaleRows - result.Stats.Unmatched - result.Stats.Ambiguous - result.Stats.Malformed
		result.Stats.MatchRate = float64(resolved) / float64(result.Stats.SaleRows)
	}

	return result, nil
}

// coerceRow valida os campos obrigatórios e coage quantidade e valor.
// Devolve o motivo da rejeição quando a linha é malformada.
func coerceRow(row domain.RawRow) (domain.Transaction, string) {
	var tx domain.Transaction

	if strings.TrimSpace(row.Cycle) == "" {
		return tx, "ciclo de faturamento ausente"
	}
	if strings.TrimSpace(row.ResellerCode) == "" && strings.TrimSpace(row.ResellerName) == "" {
		return tx, "identificação da revendedora ausente"
	}
	if strings.TrimSpace(row.ProductCode) == "" {
		return tx, "código de produto ausente"
	}

	quantity, err := domain.ParseQuantity(row.Quantity)
	if err != nil {
		return tx, "quantidade não numérica"
	}

	value, err := domain.ParseValue(row.Value)
	if err != nil {
		return tx, "valor não numérico"
	}

	tx.Customer = domain.NewCustomerKey(row)
	tx.ResellerName = strings.TrimSpace(row.ResellerName)
	tx.Cycle = strings.TrimSpace(row.Cycle)
	tx.Sector = strings.TrimSpace(row.Sector)
	tx.Quantity = quantity
	tx.Value = value
	return tx, ""
}
