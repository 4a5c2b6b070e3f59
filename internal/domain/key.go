package domain

import (
	"fmt"
	"strings"
)

// NormalizedKey é a forma canônica de um SKU, marca ou setor, usada
// apenas para lookup. Nunca deve ser exibida ao usuário.
type NormalizedKey string

// EmptyKey é a chave reservada para entradas vazias ou só de
// espaços. Nunca usamos a string vazia, que poderia casar com
// registros sem código no catálogo.
const EmptyKey NormalizedKey = "__VAZIO__"

func (k NormalizedKey) IsEmpty() bool {
	return k == EmptyKey || k == ""
}

// CustomerKey identifica uma revendedora de forma estável entre
// ciclos: código da revendedora + setor. Quando a planilha vem sem
// código, caímos no par nome_setor, como a base histórica faz.
type CustomerKey struct {
	ResellerCode string `json:"codigo_revendedora"`
	Sector       string `json:"setor"`
}

// NewCustomerKey monta a identidade da revendedora a partir da linha.
func NewCustomerKey(row RawRow) CustomerKey {
	code := strings.TrimSpace(row.ResellerCode)
	if code == "" {
		code = fmt.Sprintf("%s_%s", strings.TrimSpace(row.ResellerName), strings.TrimSpace(row.Sector))
	}

	return CustomerKey{
		ResellerCode: code,
		Sector:       strings.TrimSpace(row.Sector),
	}
}

func (k CustomerKey) String() string {
	return fmt.Sprintf("%s|%s", k.ResellerCode, k.Sector)
}
