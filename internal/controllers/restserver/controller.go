// Package restserver exposes the route-feasibility engine over HTTP.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/treklab/coasttrek/internal/log"
	"github.com/treklab/coasttrek/internal/planner"
	"github.com/treklab/coasttrek/pkg/config"
	"go.uber.org/zap"
)

// RoutePlanner is the engine surface the REST server exposes.
type RoutePlanner interface {
	Search(ctx context.Context, params planner.SearchParams) ([]planner.Row, error)
	Plot(ctx context.Context, params planner.PlotParams) (*planner.PlotResult, error)
}

// Controller represents the REST server controller
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	serverConfig   config.ServerData
	Server         http.Server
	planner        RoutePlanner
	logger         *zap.SugaredLogger
	handlers       *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider,
	sc config.ServerData, pl RoutePlanner, logger *zap.SugaredLogger) (*Controller, error) {

	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		serverConfig:   sc,
		planner:        pl,
		logger:         logger,
	}

	// If a listen address was not provided, listen on all interfaces
	if sc.ListenAddr == "" {
		logger.Info("server.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		sc.ListenAddr = "0.0.0.0"
	}

	// Set default HTTP port if not specified
	if sc.HTTPPort == 0 {
		logger.Info("server.http_port not provided; defaulting to 8080")
		sc.HTTPPort = 8080
	}

	ctrl.handlers = NewHandlers(ctrl)

	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", sc.ListenAddr, sc.HTTPPort)
	ctrl.Server.Handler = router

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() http.Handler {
	router := mux.NewRouter()

	router.Use(c.requestLogMiddleware)

	router.HandleFunc("/routes", c.handlers.GetRoutes)
	router.HandleFunc("/tideplot", c.handlers.GetTidePlot)
	router.HandleFunc("/health", c.handlers.GetHealth)

	// The web client is served from a different origin in development.
	if len(c.serverConfig.CORSOrigins) > 0 {
		return handlers.CORS(
			handlers.AllowedOrigins(c.serverConfig.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(router)
	}
	return router
}
