package domain

import "strings"

// Valores especiais da coluna Tipo da planilha de vendas
const (
	RowTypeSale = "Venda"
)

// RawRow representa uma linha da planilha de vendas como chega do
// ingestor, ainda não validada. Quantidade e valor chegam como texto
// cru e só são coagidos na montagem do Ledger.
type RawRow struct {
	Sector       string `json:"setor"`
	ResellerName string `json:"nome_revendedora"`
	ResellerCode string `json:"codigo_revendedora"`
	Cycle        string `json:"ciclo_faturamento"`
	ProductCode  string `json:"codigo_produto"`
	ProductName  string `json:"nome_produto"`
	Type         string `json:"tipo"`
	Quantity     string `json:"quantidade_itens"`
	Value        string `json:"valor_praticado"`
	Management   string `json:"gerencia,omitempty"`
}

// IsSale indica se a linha representa uma venda efetiva. Linhas de
// outros tipos (brindes, trocas) ficam fora do Ledger e das métricas.
func (r RawRow) IsSale() bool {
	return strings.TrimSpace(r.Type) == RowTypeSale
}
