package main

import (
	"time"

	"github.com/JaimeStill/triage/internal/config"
	"github.com/JaimeStill/triage/internal/infrastructure"
	"github.com/JaimeStill/triage/pkg/module"
)

// Server owns the infrastructure, the mounted modules, and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	router  *module.Router
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info("server initialized",
		"addr", cfg.Server.Addr(),
		"base_path", cfg.API.BasePath,
		"provider", cfg.Agent.Provider,
		"storage", cfg.Storage.Provider,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		router:  router,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start registers infrastructure hooks and begins serving. Requests are
// accepted while knowledge indexes load; /readyz reports when they are done.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go s.awaitStartup()
	return nil
}

func (s *Server) awaitStartup() {
	err := s.infra.Lifecycle.WaitForStartup()

	for _, r := range s.infra.Lifecycle.Results() {
		if r.OK() {
			s.infra.Logger.Info("subsystem ready", "name", r.Name, "elapsed", r.Elapsed)
		} else {
			s.infra.Logger.Warn("subsystem degraded", "name", r.Name, "elapsed", r.Elapsed, "error", r.Err)
		}
	}

	categories := make([]string, 0)
	for _, c := range s.infra.Knowledge.Categories() {
		categories = append(categories, c.Category)
	}

	if err != nil {
		s.infra.Logger.Warn("started with degraded subsystems", "degraded", s.infra.Lifecycle.Degraded(), "indexed", categories)
		return
	}
	s.infra.Logger.Info("all subsystems ready", "indexed", categories)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
