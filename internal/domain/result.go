package domain

import "time"

// ProcessingStats resume a qualidade da conciliação de um upload.
type ProcessingStats struct {
	TotalRows          int     `json:"total_linhas"`
	SaleRows           int     `json:"total_vendas"`
	Matched            int     `json:"encontrados"`
	MatchExact         int     `json:"match_exato"`
	MatchWithZero      int     `json:"match_com_zero"`
	MatchWithoutZero   int     `json:"match_sem_zero"`
	Ambiguous          int     `json:"ambiguos"`
	Unmatched          int     `json:"nao_encontrados"`
	Malformed          int     `json:"linhas_invalidas"`
	MatchRate          float64 `json:"taxa_match"`
	DistinctCustomers  int     `json:"clientes_ativos"`
	DistinctMultibrand int     `json:"clientes_multimarcas"`
}

// ProcessingResult é a saída imutável do processamento de um upload,
// consumida pela camada de apresentação. Persiste até o próximo
// upload do ciclo substituí-la.
type ProcessingResult struct {
	UploadID       string                           `json:"upload_id"`
	CatalogVersion string                           `json:"versao_catalogo"`
	ProcessedAt    time.Time                        `json:"processado_em"`
	Customers      map[CustomerKey]*CustomerMetrics `json:"-"`
	Rollups        Rollups                          `json:"consolidados"`
	AuditEntries   []AuditEntry                     `json:"auditoria"`
	Stats          ProcessingStats                  `json:"estatisticas"`
	Warnings       []string                         `json:"avisos,omitempty"`
}

// CustomerList devolve as métricas por cliente em ordem estável de
// chave, para serialização e snapshots determinísticos.
func (r *ProcessingResult) CustomerList() []*CustomerMetrics {
	list := make([]*CustomerMetrics, 0, len(r.Customers))
	for _, m := range r.Customers {
		list = append(list, m)
	}

	sortCustomerMetrics(list)
	return list
}
