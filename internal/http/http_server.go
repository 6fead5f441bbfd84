package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/results-api.net/internal/config"
	"gitlab.com/results-api.net/internal/core/ports/primary"
	auth2 "gitlab.com/results-api.net/internal/core/services/auth"
	"gitlab.com/results-api.net/internal/core/services/result"
	"gitlab.com/results-api.net/internal/handlers"
	"gitlab.com/results-api.net/internal/handlers/auth"
	"gitlab.com/results-api.net/internal/handlers/response"
	"gitlab.com/results-api.net/internal/handlers/results"
)

type ServiceProvider struct {
	resultService result.IResultService

	ggAuth    auth2.IAuthService
	localAuth auth2.IAuthService

	jwtProvider primary.JWTService
	ggConfig    *config.GGAuthConfig
}

func NewServiceProvider(
	resultService result.IResultService,
	ggAuth auth2.IAuthService,
	localAuth auth2.IAuthService,
	jwtProvider primary.JWTService,
	ggConfig *config.GGAuthConfig,
) *ServiceProvider {
	return &ServiceProvider{
		resultService: resultService,
		ggAuth:        ggAuth,
		localAuth:     localAuth,
		jwtProvider:   jwtProvider,
		ggConfig:      ggConfig,
	}
}

type Server struct {
	router          *mux.Router
	handler         http.Handler
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	if s.ServiceProvider.resultService == nil || s.ServiceProvider.jwtProvider == nil {
		return errors.New("http server: result service and jwt provider are required")
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.WriteMessage(w, req, http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.WriteMessage(w, req, http.StatusMethodNotAllowed)
	})

	middleware := handlers.New(s.ServiceProvider.jwtProvider, s.logger)
	results.
		NewHandler(s.ServiceProvider.resultService, middleware, s.logger).
		RegisterRoutes(r)

	if s.ServiceProvider.ggConfig != nil && s.ServiceProvider.localAuth != nil && s.ServiceProvider.ggAuth != nil {
		auth.NewHandler(s.ServiceProvider.ggConfig, s.logger).RegisterRoutes(r, &auth.ServiceDependencies{
			GGAuthService:    s.ServiceProvider.ggAuth,
			LocalAuthService: s.ServiceProvider.localAuth,
		})
	}

	s.router = r
	s.handler = handlers.RequestLogger(s.logger)(r)
	return nil
}

// Handler is the router wrapped in request logging. Init must run first.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens in the background. Errors other than a clean shutdown are sent on
// the returned channel.
func (s *Server) Start(ctx context.Context) <-chan error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.logger.Info("Server listening", "service", s.ServiceName, "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			errCh <- err
		}
	}()
	return errCh
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
