package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/quarrymc/server/internal/server"
	"github.com/quarrymc/server/internal/server/config"
)

func main() {
	app := &cli.App{
		Name:  "quarrymc",
		Usage: "a 1.18.2-protocol Minecraft server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yml", Usage: "YAML config file"},
			&cli.IntFlag{Name: "port", Value: 25565, Usage: "server port"},
			&cli.BoolFlag{Name: "online-mode", Usage: "assign random UUIDs instead of offline ones"},
			&cli.StringFlag{Name: "motd", Value: "A quarrymc server", Usage: "server description"},
			&cli.IntFlag{Name: "max-players", Value: 20, Usage: "maximum players shown in server list"},
			&cli.IntFlag{Name: "view-distance", Value: 8, Usage: "view distance in chunks"},
			&cli.StringFlag{Name: "region-file", Usage: "Anvil region file to bootstrap chunk (0,0) from"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg := config.DefaultConfig()
	cfg.Port = c.Int("port")
	cfg.OnlineMode = c.Bool("online-mode")
	cfg.MOTD = c.String("motd")
	cfg.MaxPlayers = c.Int("max-players")
	cfg.ViewDistance = c.Int("view-distance")
	cfg.RegionFile = c.String("region-file")

	fromFile := config.DefaultConfig()
	if err := config.LoadFile(c.String("config"), fromFile); err != nil {
		return err
	}
	explicit := map[string]bool{}
	for _, name := range c.FlagNames() {
		if c.IsSet(name) {
			explicit[name] = true
		}
	}
	config.Merge(cfg, fromFile, explicit)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := server.New(cfg, log)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}
