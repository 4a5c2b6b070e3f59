// Package catalog mantém o índice em memória do catálogo de
// produtos. O índice é imutável depois de construído e seguro para
// qualquer número de leitores concorrentes; reimportação constrói um
// índice novo e troca o ponteiro de forma atômica.
package catalog

import (
	"sort"

	"github.com/vfg2006/multimarks-api/internal/domain"
	"github.com/vfg2006/multimarks-api/internal/engine/normalizer"
)

// Index mapeia chaves normalizadas de SKU para os registros
// canônicos daquela versão do catálogo. Duplicatas legítimas (mesmo
// SKU em variantes regionais ou marcas distintas) são preservadas.
type Index struct {
	version string
	byKey   map[domain.NormalizedKey][]domain.ProductRecord
	keys    []string
}

// BuildIndex constrói o índice de uma versão do catálogo. Produtos
// sem nenhum dígito no SKU são ignorados: não há chave confiável para
// conciliá-los.
func BuildIndex(version string, products []domain.ProductRecord) *Index {
	byKey := make(map[domain.NormalizedKey][]domain.ProductRecord, len(products))

	for _, p := range products {
		key := normalizer.Normalize(normalizer.KindSKU, p.SKU)
		if key.IsEmpty() {
			continue
		}
		byKey[key] = append(byKey[key], p)
	}

	keys := make([]string, 0, len(byKey))
	for key, records := range byKey {
		keys = append(keys, string(key))

		// Ordem estável dentro do bucket, para que o desempate do
		// matcher independa da ordem de carga do catálogo.
		sort.Slice(records, func(i, j int) bool {
			if records[i].Brand != records[j].Brand {
				return records[i].Brand < records[j].Brand
			}
			if records[i].SKU != records[j].SKU {
				return records[i].SKU < records[j].SKU
			}
			return records[i].Name < records[j].Name
		})
	}
	sort.Strings(keys)

	return &Index{version: version, byKey: byKey, keys: keys}
}

// Lookup devolve zero ou mais registros para a chave. O slice
// retornado pertence ao índice e não deve ser modificado.
func (i *Index) Lookup(key domain.NormalizedKey) []domain.ProductRecord {
	if i == nil || key.IsEmpty() {
		return nil
	}
	return i.byKey[key]
}

// Keys devolve todas as chaves conhecidas em ordem ascendente. Usado
// pela auditoria para sugerir SKUs próximos.
func (i *Index) Keys() []string {
	if i == nil {
		return nil
	}
	return i.keys
}

func (i *Index) Version() string {
	if i == nil {
		return ""
	}
	return i.version
}

func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.byKey)
}

func (i *Index) IsEmpty() bool {
	return i.Len() == 0
}
