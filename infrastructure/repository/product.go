package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/vfg2006/multimarks-api/infrastructure/database/postgres"
	"github.com/vfg2006/multimarks-api/internal/domain"
)

const (
	productsTable        = "catalog_products p"
	catalogVersionsTable = "catalog_versions cv"
)

// CatalogSnapshot é um catálogo versionado como persistido.
type CatalogSnapshot struct {
	Version    string
	ImportedAt time.Time
	Products   []domain.ProductRecord
}

type ProductRepository interface {
	ReplaceCatalog(ctx context.Context, version string, products []domain.ProductRecord) error
	GetLatest(ctx context.Context) (*CatalogSnapshot, error)
}

type productRepository struct {
	conn *postgres.Connection
}

func NewProductRepository(conn *postgres.Connection) ProductRepository {
	return &productRepository{
		conn: conn,
	}
}

// ReplaceCatalog grava uma nova versão completa do catálogo em uma
// única transação. Versões anteriores permanecem para auditoria.
func (r *productRepository) ReplaceCatalog(ctx context.Context, version string, products []domain.ProductRecord) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		versionQuery, versionArgs, err := squirrel.StatementBuilder.
			Insert("catalog_versions").
			Columns("version", "product_count", "imported_at").
			Values(version, len(products), time.Now().UTC()).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, versionQuery, versionArgs...); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
			}
			return fmt.Errorf("erro ao gravar versão do catálogo: %w", err)
		}

		for _, product := range products {
			productQuery, productArgs, err := squirrel.StatementBuilder.
				Insert("catalog_products").
				Columns("catalog_version", "sku", "name", "brand", "category", "premium_type").
				Values(version, product.SKU, product.Name, product.Brand, product.Category, product.PremiumType).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, productQuery, productArgs...); err != nil {
				return fmt.Errorf("erro ao gravar produto %s: %w", product.SKU, err)
			}
		}

		return nil
	})
}

// GetLatest carrega a versão mais recente do catálogo, ou nil quando
// nenhum catálogo foi importado ainda.
func (r *productRepository) GetLatest(ctx context.Context) (*CatalogSnapshot, error) {
	versionQuery, versionArgs, err := squirrel.
		Select("cv.version, cv.imported_at").
		From(catalogVersionsTable).
		OrderBy("cv.imported_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	snapshot := &CatalogSnapshot{}
	err = r.conn.QueryRow(ctx, versionQuery, versionArgs...).Scan(&snapshot.Version, &snapshot.ImportedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar versão do catálogo: %w", err)
	}

	productsQuery, productsArgs, err := squirrel.
		Select("p.sku, p.name, p.brand, p.category, p.premium_type").
		From(productsTable).
		Where(squirrel.Eq{"p.catalog_version": snapshot.Version}).
		OrderBy("p.sku ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, productsQuery, productsArgs...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var product domain.ProductRecord
		if err := rows.Scan(&product.SKU, &product.Name, &product.Brand, &product.Category, &product.PremiumType); err != nil {
			return nil, fmt.Errorf("erro ao escanear produto: %w", err)
		}
		snapshot.Products = append(snapshot.Products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshot, nil
}
