package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/vfg2006/multimarks-api/internal/domain"
	"github.com/vfg2006/multimarks-api/internal/engine/ledger"
	"github.com/vfg2006/multimarks-api/internal/usecases/processing"
	"github.com/vfg2006/multimarks-api/pkg/apiErrors"
	"github.com/vfg2006/multimarks-api/pkg/log"
)

// processUploadRequest é o corpo aceito pelo processamento de upload.
type processUploadRequest struct {
	Rows []domain.RawRow `json:"linhas"`
}

// uploadResultResponse inclui a lista de clientes em ordem estável,
// que o resultado não serializa diretamente.
type uploadResultResponse struct {
	*domain.ProcessingResult
	Customers []*domain.CustomerMetrics `json:"clientes"`
}

func ProcessUpload(service processing.Processor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req processUploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WithError(err).Warn("uploads: corpo de requisição inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "corpo de requisição inválido", nil)
			return
		}

		result, err := service.ProcessUpload(r.Context(), req.Rows)
		if err != nil {
			switch {
			case errors.Is(err, processing.ErrEmptyUpload):
				logger.Warn("uploads: upload sem linhas")
				apiErrors.WriteError(w, apiErrors.ErrEmptyUpload, "upload sem linhas", nil)
			case errors.Is(err, ledger.ErrProcessingTooLarge):
				logger.WithError(err).Warn("uploads: upload excede o limite de linhas")
				apiErrors.WriteError(w, apiErrors.ErrUploadTooLarge, err.Error(), nil)
			default:
				logger.WithError(err).Error("uploads: falha ao processar upload")
				apiErrors.WriteError(w, apiErrors.ErrProcessingFailure, "falha ao processar upload", nil)
			}
			return
		}

		logger.WithFields(log.Fields{
			"upload_id":  result.UploadID,
			"total_rows": result.Stats.TotalRows,
			"match_rate": result.Stats.MatchRate,
		}).Info("uploads: upload processado")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(uploadResultResponse{
			ProcessingResult: result,
			Customers:        result.CustomerList(),
		}); err != nil {
			logger.WithError(err).Error("uploads: falha ao serializar resposta")
		}
	})
}

func GetUploadResult(service processing.Processor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		result, ok := service.Result(id)
		if !ok {
			logger.WithField("upload_id", id).Warn("uploads: resultado não encontrado")
			apiErrors.WriteError(w, apiErrors.ErrResultNotFound, "resultado de processamento não encontrado", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(uploadResultResponse{
			ProcessingResult: result,
			Customers:        result.CustomerList(),
		}); err != nil {
			logger.WithError(err).Error("uploads: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
