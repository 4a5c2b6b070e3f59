package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/vfg2006/multimarks-api/infrastructure/database/postgres"
	"github.com/vfg2006/multimarks-api/internal/domain"
)

const (
	auditEntriesTable = "audit_entries ae"
)

type AuditRepository interface {
	Replace(ctx context.Context, uploadID string, entries []domain.AuditEntry) error
	List(ctx context.Context, uploadID string) ([]domain.AuditEntry, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type auditRepository struct {
	conn *postgres.Connection
}

func NewAuditRepository(conn *postgres.Connection) AuditRepository {
	return &auditRepository{
		conn: conn,
	}
}

// Replace substitui o relatório de auditoria de um upload em uma
// única transação. Reprocessar o mesmo upload nunca acumula entradas
// duplicadas.
func (r *auditRepository) Replace(ctx context.Context, uploadID string, entries []domain.AuditEntry) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		deleteQuery, deleteArgs, err := squirrel.
			Delete("audit_entries").
			Where(squirrel.Eq{"upload_id": uploadID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
			return fmt.Errorf("erro ao remover entradas anteriores: %w", err)
		}

		for position, entry := range entries {
			insertQuery, insertArgs, err := squirrel.StatementBuilder.
				Insert("audit_entries").
				Columns(
					"upload_id", "position", "normalized_key", "category",
					"occurrences", "original_codes", "product_name", "cycles",
					"sectors", "total_items", "total_value", "suggestion",
				).
				Values(
					uploadID,
					position,
					string(entry.Key),
					string(entry.Category),
					entry.Occurrences,
					pq.Array(entry.OriginalCodes),
					entry.ProductName,
					pq.Array(entry.Cycles),
					pq.Array(entry.Sectors),
					entry.TotalItems,
					entry.TotalValue.String(),
					entry.Suggestion,
				).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
				if pqErr, ok := err.(*pq.Error); ok {
					return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
				}
				return fmt.Errorf("erro ao gravar entrada de auditoria: %w", err)
			}
		}

		return nil
	})
}

// List devolve as entradas de auditoria de um upload na ordem do
// relatório original.
func (r *auditRepository) List(ctx context.Context, uploadID string) ([]domain.AuditEntry, error) {
	query, args, err := squirrel.
		Select(
			"ae.normalized_key, ae.category, ae.occurrences, ae.original_codes",
			"ae.product_name, ae.cycles, ae.sectors, ae.total_items",
			"ae.total_value, ae.suggestion",
		).
		From(auditEntriesTable).
		Where(squirrel.Eq{"ae.upload_id": uploadID}).
		OrderBy("ae.position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0)
	for rows.Next() {
		var entry domain.AuditEntry
		var key, category, totalValue string
		err := rows.Scan(
			&key,
			&category,
			&entry.Occurrences,
			pq.Array(&entry.OriginalCodes),
			&entry.ProductName,
			pq.Array(&entry.Cycles),
			pq.Array(&entry.Sectors),
			&entry.TotalItems,
			&totalValue,
			&entry.Suggestion,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear entrada de auditoria: %w", err)
		}

		entry.Key = domain.NormalizedKey(key)
		entry.Category = domain.AuditCategory(category)
		entry.TotalValue, err = decimal.NewFromString(totalValue)
		if err != nil {
			return nil, fmt.Errorf("erro ao converter total_value: %w", err)
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entries, nil
}

func (r *auditRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query, args, err := squirrel.
		Delete("audit_entries").
		Where(squirrel.Lt{"created_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}
