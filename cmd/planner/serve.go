package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"planner/internal/repository"
	"planner/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference gateway backed by SQLite",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := repository.NewDB(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := repository.Close(db); err != nil {
				log.Printf("close db: %v", err)
			}
		}()

		return server.New(db).ListenAndServe(ctx, cfg.ListenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
