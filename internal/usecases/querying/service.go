// Package querying expõe o lado de leitura do motor: métricas por
// revendedora, consolidados e relatório de auditoria.
package querying

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vfg2006/multimarks-api/infrastructure/repository"
	"github.com/vfg2006/multimarks-api/internal/domain"
)

// ErrResultNotFound indica que o upload não foi processado ou que o
// resultado já expirou.
var ErrResultNotFound = errors.New("resultado de processamento não encontrado")

// ResultSource fornece resultados de processamento retidos em memória.
type ResultSource interface {
	Result(uploadID string) (*domain.ProcessingResult, bool)
}

// Querier é a interface consumida pela camada de apresentação.
type Querier interface {
	CustomerMetrics(ctx context.Context) ([]*domain.CustomerMetrics, error)
	Rollups(ctx context.Context, uploadID string) (*domain.Rollups, error)
	Ranking(ctx context.Context, uploadID string, limit int) ([]domain.RankingEntry, error)
	AuditEntries(ctx context.Context, uploadID string) ([]domain.AuditEntry, error)
}

// Service implementa a interface Querier
type Service struct {
	results     ResultSource
	metricsRepo repository.CustomerMetricsRepository
	auditRepo   repository.AuditRepository
}

// NewService cria uma nova instância do serviço de consulta. Os
// repositórios são opcionais; sem eles só resultados em memória são
// consultáveis.
func NewService(
	results ResultSource,
	metricsRepo repository.CustomerMetricsRepository,
	auditRepo repository.AuditRepository,
) *Service {
	return &Service{
		results:     results,
		metricsRepo: metricsRepo,
		auditRepo:   auditRepo,
	}
}

// CustomerMetrics lista as métricas persistidas de todas as
// revendedoras, em ordem estável de chave.
func (s *Service) CustomerMetrics(ctx context.Context) ([]*domain.CustomerMetrics, error) {
	if s.metricsRepo == nil {
		return nil, errors.New("persistência de métricas desabilitada")
	}

	return s.metricsRepo.GetAll(ctx)
}

// Rollups devolve os consolidados por ciclo, setor e marca de um
// upload processado.
func (s *Service) Rollups(_ context.Context, uploadID string) (*domain.Rollups, error) {
	result, ok := s.results.Result(uploadID)
	if !ok {
		return nil, errors.Wrapf(ErrResultNotFound, "upload %s", uploadID)
	}

	return &result.Rollups, nil
}

// Ranking devolve as revendedoras que mais compraram, em ordem de
// valor total. Com upload_id o ranking sai do resultado retido em
// memória; sem ele, da última métrica persistida de cada revendedora.
func (s *Service) Ranking(ctx context.Context, uploadID string, limit int) ([]domain.RankingEntry, error) {
	if uploadID != "" {
		result, ok := s.results.Result(uploadID)
		if !ok {
			return nil, errors.Wrapf(ErrResultNotFound, "upload %s", uploadID)
		}
		return domain.BuildRanking(result.CustomerList(), limit), nil
	}

	if s.metricsRepo == nil {
		return nil, errors.New("persistência de métricas desabilitada")
	}

	customers, err := s.metricsRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildRanking(customers, limit), nil
}

// AuditEntries devolve o relatório de auditoria de um upload. Cai
// para o banco quando o resultado já saiu da memória.
func (s *Service) AuditEntries(ctx context.Context, uploadID string) ([]domain.AuditEntry, error) {
	if result, ok := s.results.Result(uploadID); ok {
		return result.AuditEntries, nil
	}

	if s.auditRepo == nil {
		return nil, errors.Wrapf(ErrResultNotFound, "upload %s", uploadID)
	}

	entries, err := s.auditRepo.List(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.Wrapf(ErrResultNotFound, "upload %s", uploadID)
	}

	return entries, nil
}
