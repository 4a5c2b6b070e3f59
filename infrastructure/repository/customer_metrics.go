package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/vfg2006/multimarks-api/infrastructure/database/postgres"
	"github.com/vfg2006/multimarks-api/internal/domain"
	"github.com/vfg2006/multimarks-api/pkg/utils"
)

const (
	customerMetricsTable = "customer_metrics cm"
)

type CustomerMetricsRepository interface {
	SaveOrUpdate(ctx context.Context, uploadID string, metrics *domain.CustomerMetrics) error
	GetAll(ctx context.Context) ([]*domain.CustomerMetrics, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type customerMetricsRepository struct {
	conn *postgres.Connection
}

func NewCustomerMetricsRepository(conn *postgres.Connection) CustomerMetricsRepository {
	return &customerMetricsRepository{
		conn: conn,
	}
}

// SaveOrUpdate grava as métricas de uma revendedora. Reprocessar a
// mesma revendedora substitui as métricas anteriores.
func (r *customerMetricsRepository) SaveOrUpdate(ctx context.Context, uploadID string, metrics *domain.CustomerMetrics) error {
	query := squirrel.StatementBuilder.
		Insert("customer_metrics").
		Columns(
			"reseller_code", "sector", "reseller_name", "cycles", "brands",
			"total_value", "total_items", "transactions", "premium_count",
			"active", "multibrand", "iaf", "upload_id",
		).
		Values(
			metrics.Key.ResellerCode,
			metrics.Key.Sector,
			metrics.ResellerName,
			pq.Array(metrics.Cycles),
			pq.Array(metrics.Brands),
			metrics.TotalValue.String(),
			metrics.TotalItems,
			metrics.Transactions,
			metrics.PremiumCount,
			metrics.Active,
			metrics.Multibrand,
			utils.RoundWithTwoDecimalPlace(metrics.IAF()),
			uploadID,
		).
		Suffix(`
			ON CONFLICT (reseller_code, sector) DO UPDATE SET
				reseller_name = EXCLUDED.reseller_name,
				cycles = EXCLUDED.cycles,
				brands = EXCLUDED.brands,
				total_value = EXCLUDED.total_value,
				total_items = EXCLUDED.total_items,
				transactions = EXCLUDED.transactions,
				premium_count = EXCLUDED.premium_count,
				active = EXCLUDED.active,
				multibrand = EXCLUDED.multibrand,
				iaf = EXCLUDED.iaf,
				upload_id = EXCLUDED.upload_id,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(ctx, sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *customerMetricsRepository) GetAll(ctx context.Context) ([]*domain.CustomerMetrics, error) {
	query, args, err := squirrel.
		Select(
			"cm.reseller_code, cm.sector, cm.reseller_name, cm.cycles, cm.brands",
			"cm.total_value, cm.total_items, cm.transactions, cm.premium_count",
			"cm.active, cm.multibrand",
		).
		From(customerMetricsTable).
		OrderBy("cm.reseller_code ASC", "cm.sector ASC").
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

	metrics := make([]*domain.CustomerMetrics, 0)
	for rows.Next() {
		m := &domain.CustomerMetrics{}
		var totalValue string
		err := rows.Scan(
			&m.Key.ResellerCode,
			&m.Key.Sector,
			&m.ResellerName,
			pq.Array(&m.Cycles),
			pq.Array(&m.Brands),
			&totalValue,
			&m.TotalItems,
			&m.Transactions,
			&m.PremiumCount,
			&m.Active,
			&m.Multibrand,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear métricas: %w", err)
		}

		m.TotalValue, err = decimal.NewFromString(totalValue)
		if err != nil {
			return nil, fmt.Errorf("erro ao converter total_value: %w", err)
		}

		metrics = append(metrics, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return metrics, nil
}

func (r *customerMetricsRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query, args, err := squirrel.
		Delete("customer_metrics").
		Where(squirrel.Lt{"updated_at": cutoff}).
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
