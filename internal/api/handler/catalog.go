package handler

import (
	"net/http"

	"github.com/vfg2006/multimarks-api/internal/domain"
	"github.com/vfg2006/multimarks-api/internal/usecases/processing"
	"github.com/vfg2006/multimarks-api/pkg/apiErrors"
	"github.com/vfg2006/multimarks-api/pkg/log"
)

// importCatalogRequest é o corpo aceito pelo import de catálogo.
type importCatalogRequest struct {
	Version  string                 `json:"versao"`
	Products []domain.ProductRecord `json:"produtos"`
}

func ImportCatalog(service processing.Processor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req importCatalogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WithError(err).Warn("catalog: corpo de requisição inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "corpo de requisição inválido", nil)
			return
		}

		if len(req.Products) == 0 {
			logger.Warn("catalog: import sem produtos")
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "lista de produtos ausente ou vazia", nil)
			return
		}

		status, err := service.ImportCatalog(r.Context(), req.Version, req.Products)
		if err != nil {
			logger.WithError(err).Error("catalog: falha ao importar catálogo")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "falha ao importar catálogo", nil)
			return
		}

		logger.WithFields(log.Fields{
			"catalog_version": status.Version,
			"products":        status.Products,
		}).Info("catalog: catálogo importado")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			logger.WithError(err).Error("catalog: falha ao serializar resposta")
		}
	})
}

func GetCatalogStatus(service processing.Processor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		status := service.CatalogStatus()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			logger.WithError(err).Error("catalog: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
