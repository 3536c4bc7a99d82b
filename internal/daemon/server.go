package daemon

import (
	"context"
	"errors"
	"net/http"
	"syscall"
	"time"

	"github.com/samber/oops"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/controllers/store"
	"github.com/shopmesh/shopmesh/internal/db"
	"github.com/shopmesh/shopmesh/internal/log"
	"github.com/shopmesh/shopmesh/internal/repo/sql"
)

const (
	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 10 * time.Second
	WriteTimeout      = 10 * time.Second
	IdleTimeout       = 120 * time.Second
	ServerLogDomain   = "server daemon"
)

type StoreServer struct {
	cfg        *config.Config
	controller *store.APIController
	server     *http.Server
}

type Server interface {
	Start(ctx context.Context) error
	Close(ctx context.Context) error
}

func NewStoreServer(
	ctx context.Context,
	cfg *config.Config,
) (*StoreServer, error) {
	dbCon, err := db.StartDB(ctx, cfg)
	if err != nil {
		return nil, oops.In(ServerLogDomain).Wrapf(err, "starting db")
	}

	repo := sql.NewRepository(dbCon)

	controller, err := store.NewAPIController(repo, cfg)
	if err != nil {
		return nil, oops.In(ServerLogDomain).Wrapf(err, "creating api controller")
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(controller, cfg),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	return &StoreServer{
		cfg:        cfg,
		controller: controller,
		server:     httpServer,
	}, nil
}

func (s *StoreServer) Start(ctx context.Context) error {
	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server encountered an error", err)

			_ = syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
		}
	}()

	return nil
}

func (s *StoreServer) Close(ctx context.Context) error {
	shutdownCtx, shutdownRelease := context.WithTimeout(ctx, s.cfg.HTTP.ShutdownTimeout)
	defer shutdownRelease()

	err := s.server.Shutdown(shutdownCtx)
	if err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed shutting down HTTP server")
	}

	log.Info(ctx, "Completed graceful shutdown of HTTP server")

	return nil
}
