package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"planner/internal/period"
	"planner/internal/service"
)

var monthOffset int

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show tasks due today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAgenda(cmd, func(a *service.AgendaService, now time.Time) string { return a.Today(now) })
	},
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show this week's tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAgenda(cmd, func(a *service.AgendaService, now time.Time) string { return a.Week(now) })
	},
}

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Show a month's tasks, goals and notes",
	Long:  `Show the current month, or another one with --offset (-1 is last month).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadAgenda(cmd.Context())
		if err != nil {
			return err
		}
		p.SetReferencePeriod(p.Reference().Advance(monthOffset))
		fmt.Fprintln(cmd.OutOrStdout(), service.NewAgendaService(p).Month(time.Now()))
		return nil
	},
}

var dayCmd = &cobra.Command{
	Use:   "day YYYY-MM-DD",
	Short: "Show tasks on a calendar date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := period.ParseDateInput(args[0], time.Local)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		p, err := loadAgenda(cmd.Context())
		if err != nil {
			return err
		}
		p.SelectDate(day)
		fmt.Fprintln(cmd.OutOrStdout(), service.NewAgendaService(p).Selected(time.Now()))
		return nil
	},
}

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show the daily agenda",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAgenda(cmd, func(a *service.AgendaService, now time.Time) string { return a.Summary(now) })
	},
}

func printAgenda(cmd *cobra.Command, render func(*service.AgendaService, time.Time) string) error {
	p, err := loadAgenda(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), render(service.NewAgendaService(p), time.Now()))
	return nil
}

func init() {
	monthCmd.Flags().IntVar(&monthOffset, "offset", 0, "months to page from the current one")
	rootCmd.AddCommand(todayCmd, weekCmd, monthCmd, dayCmd, agendaCmd)
}
