package handler

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vfg2006/multimarks-api/internal/usecases/querying"
	"github.com/vfg2006/multimarks-api/pkg/apiErrors"
	"github.com/vfg2006/multimarks-api/pkg/log"
)

func GetCustomerMetrics(service querying.Querier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		metrics, err := service.CustomerMetrics(r.Context())
		if err != nil {
			logger.WithError(err).Error("metrics: falha ao listar métricas de revendedoras")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "falha ao listar métricas", nil)
			return
		}

		logger.WithField("customers", len(metrics)).Info("metrics: métricas listadas")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(metrics); err != nil {
			logger.WithError(err).Error("metrics: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func GetResellerRanking(service querying.Querier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		uploadID := r.URL.Query().Get("upload_id")

		limit := 0
		if raw := r.URL.Query().Get("limite"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				logger.WithField("limite", raw).Warn("metrics: parâmetro limite inválido")
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "parâmetro limite deve ser um inteiro positivo", nil)
				return
			}
			limit = parsed
		}

		ranking, err := service.Ranking(r.Context(), uploadID, limit)
		if err != nil {
			if errors.Is(err, querying.ErrResultNotFound) {
				logger.WithField("upload_id", uploadID).Warn("metrics: resultado não encontrado")
				apiErrors.WriteError(w, apiErrors.ErrResultNotFound, "resultado de processamento não encontrado", nil)
				return
			}

			logger.WithError(err).Error("metrics: falha ao montar ranking")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "falha ao montar ranking", nil)
			return
		}

		logger.WithField("positions", len(ranking)).Info("metrics: ranking montado")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ranking); err != nil {
			logger.WithError(err).Error("metrics: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func GetRollups(service querying.Querier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		uploadID := r.URL.Query().Get("upload_id")
		if uploadID == "" {
			logger.Warn("metrics: parâmetro upload_id ausente")
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "parâmetro upload_id é obrigatório", nil)
			return
		}

		rollups, err := service.Rollups(r.Context(), uploadID)
		if err != nil {
			if errors.Is(err, querying.ErrResultNotFound) {
				logger.WithField("upload_id", uploadID).Warn("metrics: resultado não encontrado")
				apiErrors.WriteError(w, apiErrors.ErrResultNotFound, "resultado de processamento não encontrado", nil)
				return
			}

			logger.WithError(err).Error("metrics: falha ao buscar consolidados")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "falha ao buscar consolidados", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rollups); err != nil {
			logger.WithError(err).Error("metrics: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
