package domain

import "github.com/shopspring/decimal"

// CycleRollup consolida um ciclo de faturamento.
type CycleRollup struct {
	Cycle               string          `json:"ciclo"`
	ActiveCustomers     int             `json:"clientes_ativos"`
	MultibrandCustomers int             `json:"clientes_multimarcas"`
	TotalItems          int64           `json:"itens_total"`
	TotalValue          decimal.Decimal `json:"valor_total"`
}

// SectorRollup consolida um setor.
type SectorRollup struct {
	Sector              string          `json:"setor"`
	ActiveCustomers     int             `json:"clientes_ativos"`
	MultibrandCustomers int             `json:"clientes_multimarcas"`
	TotalItems          int64           `json:"itens_total"`
	TotalValue          decimal.Decimal `json:"valor_total"`
}

// BrandRollup consolida uma marca.
type BrandRollup struct {
	Brand      string          `json:"marca"`
	Sales      int             `json:"qtde_vendas"`
	TotalItems int64           `json:"itens_total"`
	TotalValue decimal.Decimal `json:"valor_total"`
}

// CategoryRollup consolida uma categoria de produto. As fatias
// percentuais são relativas ao total conciliado do upload.
type CategoryRollup struct {
	Category       string          `json:"categoria"`
	Sales          int             `json:"qtde_vendas"`
	TotalItems     int64           `json:"itens_total"`
	TotalValue     decimal.Decimal `json:"valor_total"`
	UniqueProducts int             `json:"produtos_unicos"`
	ValueShare     float64         `json:"percent_valor"`
	ItemsShare     float64         `json:"percent_itens"`
}

// Rollups reúne os consolidados de um upload, já ordenados de forma
// determinística (ciclo/setor ascendente, marca/categoria por valor
// decrescente).
type Rollups struct {
	Cycles     []CycleRollup    `json:"ciclos"`
	Sectors    []SectorRollup   `json:"setores"`
	Brands     []BrandRollup    `json:"marcas"`
	Categories []CategoryRollup `json:"categorias"`
}
