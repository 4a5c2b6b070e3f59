// Package processing orquestra o pipeline de um upload: conciliação
// contra o catálogo vigente, agregação de métricas e relatório de
// auditoria. O resultado fica disponível para consulta até expirar ou
// até o próximo upload do ciclo substituí-lo.
package processing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vfg2006/multimarks-api/infrastructure/repository"
	"github.com/vfg2006/multimarks-api/internal/config"
	"github.com/vfg2006/multimarks-api/internal/domain"
	"github.com/vfg2006/multimarks-api/internal/engine/audit"
	"github.com/vfg2006/multimarks-api/internal/engine/catalog"
	"github.com/vfg2006/multimarks-api/internal/engine/ledger"
	"github.com/vfg2006/multimarks-api/internal/engine/matcher"
	"github.com/vfg2006/multimarks-api/internal/engine/metrics"
	"github.com/vfg2006/multimarks-api/pkg/log"
	"github.com/vfg2006/multimarks-api/pkg/utils"
)

// ErrEmptyUpload indica um upload sem nenhuma linha.
var ErrEmptyUpload = errors.New("upload sem linhas")

// CatalogStatus resume o catálogo vigente.
type CatalogStatus struct {
	Version  string `json:"versao"`
	Products int    `json:"produtos"`
	Empty    bool   `json:"vazio"`
}

// Processor é a interface consumida pela camada de apresentação.
type Processor interface {
	ImportCatalog(ctx context.Context, version string, products []domain.ProductRecord) (*CatalogStatus, error)
	LoadCatalog(ctx context.Context) error
	CatalogStatus() CatalogStatus
	ProcessUpload(ctx context.Context, rows []domain.RawRow) (*domain.ProcessingResult, error)
	Result(uploadID string) (*domain.ProcessingResult, bool)
	ExpireResultsBefore(cutoff time.Time) int
}

// Service implementa a interface Processor
type Service struct {
	cfg          *config.Config
	catalogStore *catalog.Store

	productRepo    repository.ProductRepository
	metricsRepo    repository.CustomerMetricsRepository
	auditRepo      repository.AuditRepository
	usePersistence bool

	mu      sync.RWMutex
	results map[string]*domain.ProcessingResult
}

// NewService cria uma nova instância do serviço de processamento
func NewService(cfg *config.Config, catalogStore *catalog.Store) *Service {
	return &Service{
		cfg:          cfg,
		catalogStore: catalogStore,
		results:      make(map[string]*domain.ProcessingResult),
	}
}

// WithPersistence habilita a gravação de catálogo, métricas e
// auditoria no banco
func (s *Service) WithPersistence(
	productRepo repository.ProductRepository,
	metricsRepo repository.CustomerMetricsRepository,
	auditRepo repository.AuditRepository,
) *Service {
	s.productRepo = productRepo
	s.metricsRepo = metricsRepo
	s.auditRepo = auditRepo
	s.usePersistence = productRepo != nil && metricsRepo != nil && auditRepo != nil
	return s
}

// ImportCatalog constrói um índice novo a partir da lista de produtos
// e o promove atomicamente. Uploads em andamento continuam no índice
// antigo; os próximos enxergam o novo.
func (s *Service) ImportCatalog(ctx context.Context, version string, products []domain.ProductRecord) (*CatalogStatus, error) {
	logger := log.ForContext(ctx)

	if version == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return nil, errors.Wrap(err, "erro ao gerar versão do catálogo")
		}
		version = id
	}

	idx := catalog.BuildIndex(version, products)
	s.catalogStore.Swap(idx)

	logger.WithFields(log.Fields{
		"catalog_version": version,
		"products":        idx.Len(),
	}).Info("Catálogo importado e promovido")

	if idx.IsEmpty() {
		logger.Warn("Catálogo importado sem produtos válidos; uploads degradarão para zero conciliações")
	}

	if s.usePersistence {
		if err := s.productRepo.ReplaceCatalog(ctx, version, products); err != nil {
			logger.WithError(err).Error("Erro ao persistir catálogo")
			return nil, err
		}
	}

	status := s.CatalogStatus()
	return &status, nil
}

// LoadCatalog carrega a versão mais recente do catálogo persistido,
// tipicamente na subida do serviço.
func (s *Service) LoadCatalog(ctx context.Context) error {
	logger := log.ForContext(ctx)

	if !s.usePersistence {
		logger.Info("Persistência desabilitada; serviço sobe com catálogo vazio")
		return nil
	}

	snapshot, err := s.productRepo.GetLatest(ctx)
	if err != nil {
		return errors.Wrap(err, "erro ao carregar catálogo persistido")
	}

	if snapshot == nil {
		logger.Warn("Nenhum catálogo importado ainda; serviço sobe com catálogo vazio")
		return nil
	}

	s.catalogStore.Swap(catalog.BuildIndex(snapshot.Version, snapshot.Products))

	logger.WithFields(log.Fields{
		"catalog_version": snapshot.Version,
		"products":        len(snapshot.Products),
	}).Info("Catálogo carregado do banco")

	return nil
}

// CatalogStatus resume o catálogo vigente.
func (s *Service) CatalogStatus() CatalogStatus {
	idx := s.catalogStore.Current()
	return CatalogStatus{
		Version:  idx.Version(),
		Products: idx.Len(),
		Empty:    idx.IsEmpty(),
	}
}

// ProcessUpload executa o pipeline completo de um upload: Ledger,
// métricas e auditoria. Só o estouro do orçamento de linhas é fatal;
// todo o resto degrada para avisos e entradas de auditoria.
func (s *Service) ProcessUpload(ctx context.Context, rows []domain.RawRow) (*domain.ProcessingResult, error) {
	logger := log.ForContext(ctx)

	if len(rows) == 0 {
		return nil, ErrEmptyUpload
	}

	idx := s.catalogStore.Current()

	var warnings []string
	if idx.IsEmpty() {
		warnings = append(warnings, "catálogo vazio: nenhuma venda será conciliada")
	}

	built, err := ledger.Build(rows, idx, matcher.Config{NameSimilarity: s.cfg.Engine.NameSimilarity}, s.cfg.Engine.MaxUploadRows)
	if err != nil {
		logger.WithError(err).WithField("rows", len(rows)).Error("Upload rejeitado")
		return nil, err
	}

	aggregated := metrics.AggregateParallel(built.Ledger, s.cfg.Engine.AggregationShards)

	entries := audit.Report(built.Unresolved, built.Malformed, idx, audit.Config{
		NewProductMinOccurrences: s.cfg.Engine.NewProductMinOccurrences,
		TypoMaxDistance:          s.cfg.Engine.TypoMaxDistance,
	})

	stats := built.Stats
	for _, m := range aggregated.Customers {
		if m.Active {
			stats.DistinctCustomers++
		}
		if m.Multibrand {
			stats.DistinctMultibrand++
		}
	}

	if alert := unmatchedAlert(stats, s.cfg.Engine.UnmatchedAlertRate); alert != "" {
		warnings = append(warnings, alert)
	}

	logger.Debug("Estatísticas do upload: ", utils.PrettyJson(stats))

	uploadID, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar identificador do upload")
	}

	result := &domain.ProcessingResult{
		UploadID:       uploadID,
		CatalogVersion: idx.Version(),
		ProcessedAt:    time.Now().UTC(),
		Customers:      aggregated.Customers,
		Rollups:        aggregated.Rollups,
		AuditEntries:   entries,
		Stats:          stats,
		Warnings:       warnings,
	}

	if s.usePersistence {
		if err := s.persist(ctx, result); err != nil {
			logger.WithError(err).Error("Erro ao persistir resultado do processamento")
			result.Warnings = append(result.Warnings, "resultado processado mas não persistido")
		}
	}

	s.mu.Lock()
	s.results[uploadID] = result
	s.mu.Unlock()

	logger.WithFields(log.Fields{
		"upload_id":       uploadID,
		"catalog_version": result.CatalogVersion,
		"total_rows":      stats.TotalRows,
		"match_rate":      stats.MatchRate,
		"audit_entries":   len(entries),
	}).Info("Upload processado")

	return result, nil
}

// Result devolve o resultado de um upload processado, se ainda
// estiver retido.
func (s *Service) Result(uploadID string) (*domain.ProcessingResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[uploadID]
	return result, ok
}

// ExpireResultsBefore descarta resultados processados antes do corte
// e devolve quantos foram removidos.
func (s *Service) ExpireResultsBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, result := range s.results {
		if result.ProcessedAt.Before(cutoff) {
			delete(s.results, id)
			removed++
		}
	}
	return removed
}

func (s *Service) persist(ctx context.Context, result *domain.ProcessingResult) error {
	for _, m := range result.CustomerList() {
		if err := s.metricsRepo.SaveOrUpdate(ctx, result.UploadID, m); err != nil {
			return err
		}
	}

	return s.auditRepo.Replace(ctx, result.UploadID, result.AuditEntries)
}

// unmatchedAlert devolve um aviso quando a fração de vendas não
// conciliadas passa do limiar configurado.
func unmatchedAlert(stats domain.ProcessingStats, threshold float64) string {
	if stats.SaleRows == 0 || threshold <= 0 {
		return ""
	}

	rate := float64(stats.Unmatched+stats.Ambiguous) / float64(stats.SaleRows)
	if rate > threshold {
		return fmt.Sprintf("%.1f%% das vendas não conciliadas, acima do limiar de %.1f%%", rate*100, threshold*100)
	}
	return ""
}
