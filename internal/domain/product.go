package domain

// Tipos de produto que pontuam no IAF
const (
	PremiumTypeHair   = "Cabelos"
	PremiumTypeMakeup = "Make"
)

// BrandUnknown é o valor exibido quando a marca do produto não pôde
// ser resolvida contra o catálogo.
const BrandUnknown = "DESCONHECIDA"

// ProductRecord é uma entrada canônica do catálogo de produtos.
// Imutável depois de carregada; pertence ao índice de catálogo pela
// vida daquela versão do catálogo.
type ProductRecord struct {
	SKU         string `json:"sku"`
	Name        string `json:"nome"`
	Brand       string `json:"marca"`
	Category    string `json:"categoria"`
	PremiumType string `json:"tipo_iaf,omitempty"`
}

// IsPremium indica se o produto pertence à lista de incentivo (IAF).
func (p ProductRecord) IsPremium() bool {
	return p.PremiumType != ""
}
