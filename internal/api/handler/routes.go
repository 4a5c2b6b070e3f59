package handler

import (
	"net/http"

	"github.com/vfg2006/multimarks-api/internal/api/handler/router"
	"github.com/vfg2006/multimarks-api/internal/scheduler"
	"github.com/vfg2006/multimarks-api/internal/usecases/processing"
	"github.com/vfg2006/multimarks-api/internal/usecases/querying"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Catalog(service processing.Processor) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/catalog",
			Method:  http.MethodGet,
			Handler: GetCatalogStatus(service),
		},
		{
			Path:    "/v1/catalog/import",
			Method:  http.MethodPost,
			Handler: ImportCatalog(service),
		},
	}
}

func Uploads(service processing.Processor) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/uploads",
			Method:  http.MethodPost,
			Handler: ProcessUpload(service),
		},
		{
			Path:    "/v1/uploads/:id",
			Method:  http.MethodGet,
			Handler: GetUploadResult(service),
		},
	}
}

func Metrics(service querying.Querier) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/metrics/customers",
			Method:  http.MethodGet,
			Handler: GetCustomerMetrics(service),
		},
		{
			Path:    "/v1/metrics/rollups",
			Method:  http.MethodGet,
			Handler: GetRollups(service),
		},
		{
			Path:    "/v1/metrics/ranking",
			Method:  http.MethodGet,
			Handler: GetResellerRanking(service),
		},
	}
}

func Audit(service querying.Querier) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/audit",
			Method:  http.MethodGet,
			Handler: GetAuditReport(service),
		},
	}
}

func Maintenance(cleanupService *scheduler.ResultsCleanupService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/cleanup/run",
			Method:  http.MethodPost,
			Handler: RunCleanup(cleanupService),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(cleanupService),
		},
	}
}
