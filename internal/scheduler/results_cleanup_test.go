package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/multimarks-api/infrastructure/repository/mocks"
	"github.com/vfg2006/multimarks-api/internal/config"
)

type fakeExpirer struct {
	cutoff  time.Time
	expired int
}

func (f *fakeExpirer) ExpireResultsBefore(cutoff time.Time) int {
	f.cutoff = cutoff
	return f.expired
}

func cleanupConfig() *config.Config {
	return &config.Config{
		ResultsCleanup: config.ResultsCleanup{
			CronSchedule:   "0 3 * * *",
			Enabled:        true,
			ResultTTLHours: 24,
			RetentionDays:  90,
		},
	}
}

func TestCleanup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	metricsRepo := mocks.NewMockCustomerMetricsRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)

	expirer := &fakeExpirer{expired: 3}
	service := NewResultsCleanupService(expirer, metricsRepo, auditRepo, cleanupConfig())

	metricsRepo.EXPECT().DeleteOlderThan(gomock.Any(), 90).Return(int64(5), nil)
	auditRepo.EXPECT().DeleteOlderThan(gomock.Any(), 90).Return(int64(2), nil)

	require.NoError(t, service.Cleanup(context.Background()))

	// O corte respeita o TTL de 24 horas.
	wantCutoff := time.Now().Add(-24 * time.Hour)
	assert.WithinDuration(t, wantCutoff, expirer.cutoff, time.Minute)
}

func TestCleanupSemRetencao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	metricsRepo := mocks.NewMockCustomerMetricsRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)

	cfg := cleanupConfig()
	cfg.ResultsCleanup.RetentionDays = 0

	service := NewResultsCleanupService(&fakeExpirer{}, metricsRepo, auditRepo, cfg)

	// Retenção ilimitada: o banco não é tocado.
	require.NoError(t, service.Cleanup(context.Background()))
}

func TestStartDesabilitado(t *testing.T) {
	cfg := cleanupConfig()
	cfg.ResultsCleanup.Enabled = false

	service := NewResultsCleanupService(&fakeExpirer{}, nil, nil, cfg)

	require.NoError(t, service.Start(context.Background()))
}

func TestGetStatus(t *testing.T) {
	service := NewResultsCleanupService(&fakeExpirer{}, nil, nil, cleanupConfig())

	status := service.GetStatus()
	assert.Equal(t, true, status["cleanup_enabled"])
	assert.Equal(t, "0 3 * * *", status["cleanup_cron"])
	assert.Equal(t, 24, status["result_ttl_hours"])
	assert.Equal(t, 90, status["retention_days"])
}
