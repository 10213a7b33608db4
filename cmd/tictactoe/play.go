package main

import (
	"log/slog"
	"os"
	"os/signal"

	"ctchen222/tictactoe/internal/cli"
	"ctchen222/tictactoe/internal/logger"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a hot-seat game in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		// the board owns stdout
		slog.SetDefault(logger.New(cmd.ErrOrStderr(), slog.LevelWarn))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return cli.NewHotSeat(cmd.OutOrStdout()).Run(ctx, cmd.InOrStdin())
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
