package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Flarenzy/netreconciler/internal/auth"
	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type API struct {
	Logger        *slog.Logger
	health        HealthChecker
	service       domain.NetworkService
	authenticator auth.Authenticator
	metrics       http.Handler
}

// NewAPI builds the HTTP API. A nil authenticator disables authentication.
func NewAPI(logger *slog.Logger, health HealthChecker, service domain.NetworkService, authenticator auth.Authenticator) *API {
	return &API{
		Logger:        logger,
		health:        health,
		service:       service,
		authenticator: authenticator,
	}
}

// WithMetrics serves the collectors of gatherer on /metrics.
func (a *API) WithMetrics(gatherer prometheus.Gatherer) *API {
	a.metrics = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return a
}

func (a *API) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/readyz", a.handleReadyz)
	if a.metrics != nil {
		mux.Handle("GET /metrics", a.metrics)
	}
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	mux.HandleFunc("GET /api/v1/networks", a.handleListNetworks)
	mux.HandleFunc("POST /api/v1/networks", a.handleCreateNetwork)
	mux.HandleFunc("GET /api/v1/subnets", a.handleListSubnets)
	mux.HandleFunc("POST /api/v1/subnets", a.handleCreateSubnet)
	mux.HandleFunc("GET /api/v1/subnets/{id}", a.handleGetSubnetByID)
	mux.HandleFunc("DELETE /api/v1/subnets/{id}", a.handleDeleteSubnetByID)
	mux.HandleFunc("GET /api/v1/subnets/{id}/ports", a.handleListPorts)
	mux.HandleFunc("DELETE /api/v1/subnets/{id}/ports/{portID}", a.handleDeletePort)
	mux.HandleFunc("POST /api/v1/nodes", a.handleCreateNode)
	mux.HandleFunc("GET /api/v1/nodes/{id}/default-network", a.handleGetDefaultNetwork)

	return a.authMiddleware(mux)
}
