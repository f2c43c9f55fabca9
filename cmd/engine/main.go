package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/justinabrahms/chessrules/internal/chess"
	"github.com/justinabrahms/chessrules/internal/config"
	"github.com/justinabrahms/chessrules/internal/protocol"
	"github.com/justinabrahms/chessrules/internal/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	var (
		showHelp   bool
		configPath string
		startFEN   string
		spectator  bool
	)
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.StringVar(&configPath, "config", "", "Path to a config file")
	flag.StringVar(&startFEN, "fen", "", "Start from this FEN instead of the standard position")
	flag.BoolVar(&spectator, "spectator", false, "Serve the read-only spectator feed")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// stdout carries the protocol, so logs go to stderr.
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load config
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setupLogging(cfg.Development)

	if startFEN != "" {
		cfg.Engine.StartFEN = startFEN
	}
	if spectator {
		cfg.Spectator.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	engine, err := newEngine(cfg.Engine.StartFEN)
	if err != nil {
		log.Fatal().Err(err).Str("fen", cfg.Engine.StartFEN).Msg("Failed to create engine")
	}
	log.Info().Str("fen", engine.FEN()).Msg("Engine ready")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		observer protocol.Observer
		srv      *http.Server
	)
	if cfg.Spectator.Enabled {
		hub := web.NewHub()
		go hub.Run(ctx)
		service := web.NewService(hub)
		observer = service

		srv = &http.Server{
			Addr:         cfg.SpectatorAddr(),
			Handler:      service.Router(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("Starting spectator feed")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("Spectator feed stopped")
			}
		}()
	}

	session := protocol.NewSession(engine, os.Stdout, observer)
	done := make(chan error, 1)
	go func() {
		done <- session.Run(os.Stdin)
	}()

	// Wait for the command stream to end or an interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Msg("Command loop failed")
		}
		// The session has returned, so the engine is ours again.
		if record, err := engine.SAN(); err == nil {
			log.Info().Int("ply", engine.Ply()).Str("moves", strings.Join(record, " ")).Str("status", string(engine.Status())).Msg("Game finished")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Interrupted, shutting down")
	}
	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Spectator feed forced to shutdown")
		}
	}
}

func newEngine(fen string) (*chess.Engine, error) {
	if fen == "" {
		return chess.NewEngine(), nil
	}
	return chess.NewEngineFromFEN(fen)
}

func setupLogging(dev config.DevelopmentConfig) {
	level, err := zerolog.ParseLevel(dev.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("level", dev.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if dev.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func showHelpMessage() {
	fmt.Println(`Chess Rules Engine

DESCRIPTION:
    Plays one game of chess over standard input and output. Every command is
    answered with a board snapshot.

USAGE:
    engine [OPTIONS]

OPTIONS:
    -h, --help         Show this help message
    -config PATH       Read configuration from PATH
    -fen FEN           Start from FEN instead of the standard position
    -spectator         Serve the read-only spectator feed

COMMANDS:
    MOVE <from><to>[q|r|b|n]   Play a move, e.g. MOVE e2e4 or MOVE e7e8q
    UNDO                       Take back the last move
    REDO                       Replay the last undone move
    QUIT                       Exit

SNAPSHOT:
    BOARD
    r n b q k b n r
    ... (8 rows, rank 8 first)
    TURN WHITE|BLACK
    STATUS active|check|checkmate|stalemate|draw (...)

    Rejected moves print "ERROR InvalidMove" or "ERROR IllegalMove" before
    the snapshot.

CONFIGURATION:
    config.yaml in the current directory or ./config, or CHESSRULES_*
    environment variables (e.g. CHESSRULES_DEVELOPMENT_LOG_LEVEL=debug).

    Example config.yaml:
        engine:
          start_fen: ""
        spectator:
          enabled: false
          host: localhost
          port: 8090
        development:
          debug: false
          log_level: info

SPECTATOR ENDPOINTS:
    GET /api/health    Health check
    GET /api/state     Latest snapshot as JSON
    GET /ws            WebSocket stream of snapshots`)
}
