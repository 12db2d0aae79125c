package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/quarrymc/server/internal/server/config"
	"github.com/quarrymc/server/internal/server/conn"
	"github.com/quarrymc/server/internal/server/world"
	"github.com/quarrymc/server/internal/server/world/anvil"
)

// Server is the main Minecraft server that accepts TCP connections.
type Server struct {
	cfg   *config.Config
	log   *slog.Logger
	world *world.Manager
}

// New creates a new Server with the given config and logger. The bootstrap
// chunk comes from the configured region file when one is set, otherwise a
// synthesized flat chunk.
func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	chunk, err := bootstrapChunk(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:   cfg,
		log:   log,
		world: world.NewManager(log, chunk),
	}, nil
}

func bootstrapChunk(cfg *config.Config, log *slog.Logger) (*world.Chunk, error) {
	if cfg.RegionFile == "" {
		return world.FlatChunk(world.ChunkPos{}), nil
	}

	region, err := anvil.OpenRegion(cfg.RegionFile)
	if err != nil {
		return nil, fmt.Errorf("open region: %w", err)
	}
	defer region.Close()

	chunk, err := anvil.LoadChunk(region, 0, 0, log)
	if err != nil {
		if errors.Is(err, anvil.ErrNoChunk) {
			log.Warn("region has no chunk (0,0), using flat chunk", "file", cfg.RegionFile)
			return world.FlatChunk(world.ChunkPos{}), nil
		}
		return nil, fmt.Errorf("load chunk (0,0): %w", err)
	}

	log.Info("bootstrap chunk loaded", "file", cfg.RegionFile, "status", chunk.Status)
	return chunk, nil
}

// Start begins listening for connections and blocks until the context is
// cancelled. The world tick loop runs on its own goroutine for the same
// lifetime.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	lc := net.ListenConfig{}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer listener.Close()

	s.log.Info("server started",
		"port", s.cfg.Port,
		"onlineMode", s.cfg.OnlineMode,
		"motd", s.cfg.MOTD,
	)

	go s.world.Run(ctx)

	// Close listener when context is cancelled.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		c, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("server shutting down")
				return nil
			}
			s.log.Error("accept connection", "error", err)
			continue
		}

		connection := conn.NewConnection(ctx, c, s.cfg, s.log, s.world)
		go connection.Handle()
	}
}
