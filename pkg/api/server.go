package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/huntboard/pkg/api/handlers"
	"github.com/cbodonnell/huntboard/pkg/api/middleware"
	"github.com/cbodonnell/huntboard/pkg/hunt"
	"github.com/cbodonnell/huntboard/pkg/log"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port    int
	TLS     *TLSConfig
	Service *hunt.Service
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	router := mux.NewRouter()
	router.Use(middleware.NewRequestLogger())

	router.HandleFunc("/health", handlers.HandleHealth()).Methods(http.MethodGet)
	router.HandleFunc("/games", handlers.HandleListGames(opts.Service)).Methods(http.MethodGet)
	router.HandleFunc("/games", handlers.HandleCreateGame(opts.Service)).Methods(http.MethodPost)
	router.HandleFunc("/games/{gameID}", handlers.HandleGetGameData(opts.Service)).Methods(http.MethodGet)
	router.HandleFunc("/games/{gameID}/total", handlers.HandleGetTotalPoints(opts.Service)).Methods(http.MethodGet)
	router.HandleFunc("/games/{gameID}/items/{itemID}/toggle", handlers.HandleToggleItem(opts.Service)).Methods(http.MethodPost)
	router.HandleFunc("/catalog", handlers.HandleReloadCatalog(opts.Service)).Methods(http.MethodPut)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
