package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/nstehr/rampart/agent"
	"github.com/nstehr/rampart/config"
	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/rules"
	"github.com/nstehr/rampart/status"
	"github.com/nstehr/rampart/store"
	"github.com/nstehr/rampart/turnlog"
)

const banner = `
██████╗  █████╗ ███╗   ███╗██████╗  █████╗ ██████╗ ████████╗
██╔══██╗██╔══██╗████╗ ████║██╔══██╗██╔══██╗██╔══██╗╚══██╔══╝
██████╔╝███████║██╔████╔██║██████╔╝███████║██████╔╝   ██║
██╔══██╗██╔══██║██║╚██╔╝██║██╔═══╝ ██╔══██║██╔══██╗   ██║
██║  ██║██║  ██║██║ ╚═╝ ██║██║     ██║  ██║██║  ██║   ██║
╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝

Ring-Perimeter Grid Bot`

// server holds what every connection shares.
type server struct {
	cfg      config.Config
	registry *agent.Registry
	recorder agent.Recorder
	turnLog  agent.TurnLogger
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	slog.Info("starting rampart",
		"transport", cfg.Transport,
		"profile", cfg.Strategy.Name,
		"custom_rules", len(cfg.Rules) > 0,
	)

	// Fail fast on a bad rule set rather than on the first connection.
	if _, err := newEngine(cfg); err != nil {
		slog.Error("invalid rules", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &server{cfg: cfg, registry: agent.NewRegistry()}

	var matches status.MatchReader
	if cfg.StorePath != "" {
		db, err := store.Open(cfg.StorePath)
		if err != nil {
			slog.Error("failed to open store", "path", cfg.StorePath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		srv.recorder = db
		matches = db
		slog.Info("match store opened", "path", cfg.StorePath)
	}
	if cfg.TurnLogDir != "" {
		tl := turnlog.NewWriter(cfg.TurnLogDir)
		defer tl.Close()
		srv.turnLog = tl
		slog.Info("turn log enabled", "dir", cfg.TurnLogDir)
	}

	if cfg.StatusAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		router := status.SetupRouter(srv.registry, matches)
		go func() {
			if err := status.Serve(ctx, cfg.StatusAddr, router); err != nil {
				slog.Error("status server failed", "addr", cfg.StatusAddr, "error", err)
			}
		}()
	}

	switch cfg.Transport {
	case config.TransportWebSocket:
		err = srv.runWebSocket(ctx)
	default:
		err = srv.runUnix(ctx)
	}
	if err != nil {
		slog.Error("transport failed", "error", err)
		os.Exit(1)
	}
	slog.Info("shutting down")
}

func (s *server) runUnix(ctx context.Context) error {
	socketPath := s.cfg.SocketPath

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("clean up socket %s: %w", socketPath, err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer os.Remove(socketPath)

	slog.Info("listening on domain socket", "path", socketPath)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				slog.Error("failed to accept connection", "error", err)
				continue
			}
		}
		slog.Info("new connection accepted")
		go s.handleConn(ipc.NewSocketConnection(conn))
	}
}

// runWebSocket dials the engine once and serves that connection until it
// closes or ctx is cancelled.
func (s *server) runWebSocket(ctx context.Context) error {
	c, err := ipc.DialWebSocket(ctx, s.cfg.EngineURL)
	if err != nil {
		return err
	}
	slog.Info("connected to engine", "url", s.cfg.EngineURL)

	done := make(chan struct{})
	go func() {
		s.handleConn(c)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		c.Close()
		<-done
	}
	return nil
}

// handleConn gives each connection its own engine, since rule compilation
// sorts the rule slice in place.
func (s *server) handleConn(c *ipc.Connection) {
	engine, err := newEngine(s.cfg)
	if err != nil {
		slog.Error("failed to build rule engine", "error", err)
		c.Close()
		return
	}

	a := agent.New(c, engine, agent.Options{
		Profile:  s.cfg.Strategy,
		Catalog:  s.cfg.EffectiveCatalog(),
		Recorder: s.recorder,
		TurnLog:  s.turnLog,
	})
	s.registry.Add(a)
	defer s.registry.Remove(a)

	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeTurn, a.HandleTurn)
	c.RegisterHandler(ipc.TypeGameOver, a.HandleGameOver)
	c.ReadLoop()
}

func newEngine(cfg config.Config) (*rules.Engine, error) {
	rs, err := cfg.CompileRules()
	if err != nil {
		return nil, err
	}
	return rules.NewEngine(rs)
}
