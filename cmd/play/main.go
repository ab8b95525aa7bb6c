package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/console"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/logging"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

// main - plays one terminal game against the engine. Settings come from ENGINE_* and LOG_LEVEL variables.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "play: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run plays until quit or end of input. Logs go to errOut, out belongs to the board.
func run(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	conf, err := config.LoadEnv()
	if err != nil {
		return err
	}

	logger := logging.New(errOut, conf.LogLevel)

	pruning, err := tictactoe.ParsePruning(conf.Engine.Pruning)
	if err != nil {
		return err
	}

	engine, err := tictactoe.NewEngine(conf.Engine.Depth, pruning)
	if err != nil {
		return err
	}

	renderer := console.NewRenderer(termenv.NewOutput(out))
	game := console.NewGame(logger, engine, renderer, conf.Engine.OpponentFirst)

	logger.Debug("terminal game started", "depth", engine.Depth(), "pruning", engine.Pruning())

	if err = game.Run(ctx, in); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
