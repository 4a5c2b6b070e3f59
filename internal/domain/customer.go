package domain

import "github.com/shopspring/decimal"

// CustomerMetrics agrega as compras de uma revendedora dentro de um
// upload. Recalculado por inteiro a cada processamento; nunca sofre
// atualização incremental.
type CustomerMetrics struct {
	Key          CustomerKey     `json:"cliente"`
	ResellerName string          `json:"nome_revendedora"`
	Cycles       []string        `json:"ciclos"`
	Brands       []string        `json:"marcas_compradas"`
	TotalValue   decimal.Decimal `json:"valor_total"`
	TotalItems   int64           `json:"itens_total"`
	Transactions int             `json:"qtde_vendas"`
	PremiumCount int             `json:"qtde_vendas_iaf"`
	Active       bool            `json:"ativo"`
	Multibrand   bool            `json:"multimarcas"`
}

// IAF retorna a penetração de produtos de incentivo nas compras da
// revendedora, sempre em [0,1]. Zero transações retorna 0 em vez de
// divisão por zero. Percentuais são derivados na apresentação.
func (m *CustomerMetrics) IAF() float64 {
	if m.Transactions == 0 {
		return 0
	}
	return float64(m.PremiumCount) / float64(m.Transactions)
}
