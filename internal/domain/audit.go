package domain

import "github.com/shopspring/decimal"

// AuditCategory sugere a causa provável de um SKU não resolvido.
type AuditCategory string

const (
	CategoryNewProduct AuditCategory = "POSSIVEL_PRODUTO_NOVO"
	CategoryTypo       AuditCategory = "POSSIVEL_ERRO_DIGITACAO"
	CategoryAmbiguous  AuditCategory = "MATCH_AMBIGUO"
	CategoryMalformed  AuditCategory = "LINHA_INVALIDA"
	CategoryUnknown    AuditCategory = "DESCONHECIDO"
)

// MalformedRow é uma linha rejeitada antes da conciliação (campo
// obrigatório ausente, quantidade ou valor não numérico).
type MalformedRow struct {
	Row    RawRow
	Reason string
}

// AuditEntry agrupa, por chave normalizada, as linhas de um upload
// que não puderam ser conciliadas com confiança. É a entrada de
// revisão humana: nunca fazemos escolha silenciosa de candidato.
type AuditEntry struct {
	Key           NormalizedKey   `json:"sku_normalizado"`
	Category      AuditCategory   `json:"categoria"`
	Occurrences   int             `json:"ocorrencias"`
	OriginalCodes []string        `json:"codigos_originais"`
	ProductName   string          `json:"nome_produto"`
	Cycles        []string        `json:"ciclos"`
	Sectors       []string        `json:"setores"`
	TotalItems    int64           `json:"itens_total"`
	TotalValue    decimal.Decimal `json:"valor_total"`
	Suggestion    string          `json:"sugestao,omitempty"`
	Rows          []RawRow        `json:"-"`
}
