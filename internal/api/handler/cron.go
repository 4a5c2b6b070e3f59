package handler

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/multimarks-api/internal/scheduler"
	"github.com/vfg2006/multimarks-api/pkg/apiErrors"
)

// RunCleanup executa manualmente a limpeza de resultados
func RunCleanup(service *scheduler.ResultsCleanupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCleanup")

		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de limpeza de resultados não disponível", nil)
			return
		}

		// A limpeza roda em goroutine própria; o contexto da requisição
		// seria cancelado cedo demais.
		service.TriggerManualCleanup(context.Background())

		response := map[string]any{
			"message": "Limpeza de resultados iniciada com sucesso",
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(service *scheduler.ResultsCleanupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := map[string]any{
			"results-cleanup": service.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
