package handler

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/vfg2006/multimarks-api/internal/usecases/querying"
	"github.com/vfg2006/multimarks-api/pkg/apiErrors"
	"github.com/vfg2006/multimarks-api/pkg/log"
)

func GetAuditReport(service querying.Querier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		uploadID := r.URL.Query().Get("upload_id")
		if uploadID == "" {
			logger.Warn("audit: parâmetro upload_id ausente")
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "parâmetro upload_id é obrigatório", nil)
			return
		}

		entries, err := service.AuditEntries(r.Context(), uploadID)
		if err != nil {
			if errors.Is(err, querying.ErrResultNotFound) {
				logger.WithField("upload_id", uploadID).Warn("audit: relatório não encontrado")
				apiErrors.WriteError(w, apiErrors.ErrResultNotFound, "relatório de auditoria não encontrado", nil)
				return
			}

			logger.WithError(err).Error("audit: falha ao buscar relatório")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "falha ao buscar relatório de auditoria", nil)
			return
		}

		logger.WithFields(log.Fields{
			"upload_id": uploadID,
			"entries":   len(entries),
		}).Info("audit: relatório consultado")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			logger.WithError(err).Error("audit: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
