package server

import (
	"context"
	"log"
	"log/slog"
	"sync"

	"mingle/app/api"
	"mingle/app/middleware"
	"mingle/job"
	"mingle/store"
	"mingle/types"

	"github.com/gofiber/fiber/v2"
)

const staticPrefix = "/files"

func newConfig(cfg types.ServerConfig) fiber.Config {
	return fiber.Config{
		ErrorHandler: api.ErrorHandler,
		BodyLimit:    cfg.UploadLimit,
	}
}

type Server struct {
	cfg    types.ServerConfig
	logger *slog.Logger

	mu    sync.Mutex
	app   *fiber.App
	store store.DBStorer
}

func NewServer(cfg types.ServerConfig) *Server {
	return &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.app != nil {
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error("error to shut down server", "error", err.Error())
		}
	}
	if s.store != nil {
		s.store.Close()
	}
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()
	storer, storeName, err := openStore(ctx, s.cfg.PostgresDSN)
	if err != nil {
		log.Fatal("error to open job store ", err)
		return
	}

	app := NewApp(s.cfg, job.NewRunner(storer), storeName)

	s.mu.Lock()
	s.app, s.store = app, storer
	s.mu.Unlock()

	s.logger.Info("server starting", "addr", s.cfg.ListenAddr, "store", storeName, "output", s.cfg.OutputDir)
	if err := app.Listen(s.cfg.ListenAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
		return
	}
}

// openStore connects to Postgres when a DSN is configured and falls back to
// an in-memory job store otherwise.
func openStore(ctx context.Context, dsn string) (store.DBStorer, string, error) {
	if dsn == "" {
		return store.NewMemoryStore(), "memory", nil
	}

	pool, err := store.NewPostgresStore(ctx, dsn)
	if err != nil {
		return nil, "", err
	}
	if err := pool.Init(ctx); err != nil {
		pool.Close()
		return nil, "", err
	}
	return pool, "postgres", nil
}

// NewApp wires the routes of the HTTP API.
func NewApp(cfg types.ServerConfig, runner *job.Runner, storeName string) *fiber.App {
	var (
		app           = fiber.New(newConfig(cfg))
		checkHandler  = api.NewCheckHandler(storeName)
		layoutHandler = api.NewLayoutHandler(runner, cfg.OutputDir, staticPrefix)
		mergeHandler  = api.NewMergeHandler(runner, cfg.OutputDir, staticPrefix)
		jobHandler    = api.NewJobHandler(runner)
		check         = app.Group("/check")
		apiv1         = app.Group("/api/v1")
	)

	app.Use(middleware.PlugStatic(staticPrefix))
	app.Static(staticPrefix, cfg.OutputDir)

	check.Get("/healthy", checkHandler.HandleHealthy)

	apiv1.Post("/layout", layoutHandler.HandleLayout)
	apiv1.Post("/merge", mergeHandler.HandleMerge)
	apiv1.Post("/ranges/validate", mergeHandler.HandleValidateRanges)
	apiv1.Post("/pages/count", mergeHandler.HandlePageCount)
	apiv1.Get("/jobs", jobHandler.HandleGetJobs)
	apiv1.Get("/jobs/:id", jobHandler.HandleGetJob)

	return app
}
