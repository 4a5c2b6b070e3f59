// Package scheduler contém os serviços de agendamento de manutenção
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/multimarks-api/infrastructure/repository"
	"github.com/vfg2006/multimarks-api/internal/config"
)

// ResultExpirer descarta resultados de processamento retidos em
// memória antes do corte.
type ResultExpirer interface {
	ExpireResultsBefore(cutoff time.Time) int
}

type ResultsCleanupConfig struct {
	CronSchedule   string
	Enabled        bool
	ResultTTLHours int
	RetentionDays  int
}

type ResultsCleanupService struct {
	scheduler *gocron.Scheduler
	expirer   ResultExpirer

	metricsRepo repository.CustomerMetricsRepository
	auditRepo   repository.AuditRepository

	config ResultsCleanupConfig

	cleanupRunning         bool
	cleanupMutex           sync.Mutex
	lastCleanupStartedAt   time.Time
	lastCleanupCompletedAt time.Time
}

func NewResultsCleanupService(
	expirer ResultExpirer,
	metricsRepo repository.CustomerMetricsRepository,
	auditRepo repository.AuditRepository,
	cfg *config.Config,
) *ResultsCleanupService {
	cleanupConfig := ResultsCleanupConfig{
		CronSchedule:   cfg.ResultsCleanup.CronSchedule, // Default: 3h da manhã todos os dias
		Enabled:        cfg.ResultsCleanup.Enabled,
		ResultTTLHours: cfg.ResultsCleanup.ResultTTLHours,
		RetentionDays:  cfg.ResultsCleanup.RetentionDays,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":    cleanupConfig.CronSchedule,
		"result_ttl_hours": cleanupConfig.ResultTTLHours,
		"retention_days":   cleanupConfig.RetentionDays,
	}).Info("Configuração do agendador de limpeza de resultados carregada")

	return &ResultsCleanupService{
		scheduler:   scheduler,
		expirer:     expirer,
		metricsRepo: metricsRepo,
		auditRepo:   auditRepo,
		config:      cleanupConfig,
	}
}

func (s *ResultsCleanupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de limpeza de resultados desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de limpeza de resultados")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.Cleanup(ctx); err != nil {
			logrus.WithError(err).Error("Erro na limpeza de resultados")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza de resultados: %w", err)
	}

	// Executar o cron em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do cron quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de limpeza de resultados")
		s.scheduler.Stop()
	}()

	return nil
}

// Cleanup expira resultados em memória e poda métricas e auditoria
// persistidas além da janela de retenção.
func (s *ResultsCleanupService) Cleanup(ctx context.Context) error {
	s.cleanupMutex.Lock()
	defer s.cleanupMutex.Unlock()

	if s.cleanupRunning {
		logrus.Warn("Limpeza de resultados já está em execução")
		return nil
	}

	s.cleanupRunning = true
	s.lastCleanupStartedAt = time.Now()
	defer func() {
		s.cleanupRunning = false
		s.lastCleanupCompletedAt = time.Now()
	}()

	logrus.Info("Iniciando limpeza de resultados")

	cutoff := time.Now().Add(-time.Duration(s.config.ResultTTLHours) * time.Hour)
	expired := s.expirer.ExpireResultsBefore(cutoff)

	logrus.WithFields(logrus.Fields{
		"expired": expired,
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("Resultados em memória expirados")

	if s.config.RetentionDays <= 0 {
		logrus.Info("Retenção ilimitada configurada; nada a podar no banco")
		return nil
	}

	if s.metricsRepo != nil {
		removed, err := s.metricsRepo.DeleteOlderThan(ctx, s.config.RetentionDays)
		if err != nil {
			logrus.WithError(err).Error("Erro ao podar métricas persistidas")
			return err
		}
		logrus.WithField("removed", removed).Info("Métricas persistidas podadas")
	}

	if s.auditRepo != nil {
		removed, err := s.auditRepo.DeleteOlderThan(ctx, s.config.RetentionDays)
		if err != nil {
			logrus.WithError(err).Error("Erro ao podar entradas de auditoria persistidas")
			return err
		}
		logrus.WithField("removed", removed).Info("Entradas de auditoria podadas")
	}

	logrus.Info("Limpeza de resultados concluída")

	return nil
}

// TriggerManualCleanup inicia manualmente uma limpeza de resultados
func (s *ResultsCleanupService) TriggerManualCleanup(ctx context.Context) {
	s.cleanupMutex.Lock()
	if s.cleanupRunning {
		s.cleanupMutex.Unlock()
		logrus.Info("Limpeza de resultados já em andamento, ignorando solicitação manual")
		return
	}
	s.cleanupMutex.Unlock()

	logrus.Info("Iniciando limpeza manual de resultados")
	go s.Cleanup(ctx)
}

// GetStatus retorna o status atual do agendador
func (s *ResultsCleanupService) GetStatus() map[string]any {
	return map[string]any{
		"cleanup_enabled":           s.config.Enabled,
		"cleanup_cron":              s.config.CronSchedule,
		"result_ttl_hours":          s.config.ResultTTLHours,
		"retention_days":            s.config.RetentionDays,
		"last_cleanup_started_at":   s.lastCleanupStartedAt,
		"last_cleanup_completed_at": s.lastCleanupCompletedAt,
	}
}
