package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"planner/internal/bot"
	"planner/internal/service"
)

const jobTimeout = 30 * time.Second

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot with periodic agenda reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := cfg.RequireTelegram(); err != nil {
			return err
		}

		planner := newPlanner(nil)
		if err := planner.Refresh(ctx); err != nil {
			log.Printf("initial refresh: %v", err)
		}

		telegramBot, err := bot.New(cfg.TelegramToken, planner, service.NewAgendaService(planner))
		if err != nil {
			return err
		}

		scheduler := service.NewSchedulerService(time.Local)
		if _, err := scheduler.ScheduleRollover(planner, jobTimeout); err != nil {
			return err
		}
		if cfg.ReportInterval > 0 {
			if _, err := scheduler.ScheduleInterval(cfg.ReportInterval, func() {
				jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
				defer cancel()
				if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("report: %v", err)
				}
			}); err != nil {
				return err
			}
		}
		scheduler.Start()
		defer scheduler.Stop()

		log.Println("Planner bot started.")
		if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		log.Println("Shutdown complete.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
