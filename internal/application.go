package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-window/internal/config"
	"github.com/rocketscienceinc/tictactoe-window/internal/presentation"
	"github.com/rocketscienceinc/tictactoe-window/internal/tictactoe"
)

// RunApp - runs the game window on stdin and stdout.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return Run(ctx, logger, conf, os.Stdin, os.Stdout)
}

// Run builds a controller and a window for one session and blocks until the window closes.
func Run(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	policy, err := conf.GetDrawPolicy()
	if err != nil {
		return fmt.Errorf("could not build game controller: %w", err)
	}

	sessionLogger := logger.With("session", uuid.NewString())
	log := sessionLogger.With("component", "app")

	gameController := tictactoe.NewGameController(sessionLogger, policy)
	window := presentation.NewWindow(sessionLogger, gameController, NewOutput(out, conf.Color),
		presentation.WithClearScreen(conf.ClearScreen),
	)

	log.Info("Starting game window", "draw_policy", string(policy))

	if err = window.Run(ctx, in); err != nil {
		return fmt.Errorf("game window error: %w", err)
	}

	log.Info("Game window closed")

	return nil
}

// NewOutput picks the terminal colour profile for a config.Color mode.
func NewOutput(out io.Writer, mode string) *termenv.Output {
	switch strings.ToLower(mode) {
	case config.ColorNever:
		return termenv.NewOutput(out, termenv.WithProfile(termenv.Ascii))
	case config.ColorAlways:
		return termenv.NewOutput(out, termenv.WithProfile(termenv.ANSI256))
	default:
		return termenv.NewOutput(out)
	}
}
