package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"planner/internal/config"
	"planner/internal/gateway"
	"planner/internal/service"
)

var (
	cfg        config.Config
	gatewayURL string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Daily, weekly and monthly planner over a REST gateway",
	Long: `Planner shows tasks, weekly and monthly tasks, goals and notes stored on a
planner gateway, grouped into today, this week, this month or a chosen date.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if gatewayURL != "" {
			loaded.GatewayURL = gatewayURL
		}
		cfg = loaded
		if !verbose {
			log.SetOutput(discardInfo{out: os.Stderr})
		}
		return nil
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&gatewayURL, "gateway", "", "gateway base URL (overrides PLANNER_GATEWAY_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every gateway call")
}

func newPlanner(confirm service.Confirmer) *service.Planner {
	return service.NewPlanner(service.PlannerConfig{
		BaseURL:    cfg.GatewayURL,
		HTTPClient: gateway.NewHTTPClient(cfg.InsecureTLS),
		Confirmer:  confirm,
	})
}

// loadPlanner builds a planner and fetches only the named collections.
func loadPlanner(ctx context.Context, confirm service.Confirmer, kinds ...string) (*service.Planner, error) {
	p := newPlanner(confirm)
	if err := p.RefreshKinds(ctx, kinds...); err != nil {
		return nil, fmt.Errorf("load planner: %w", err)
	}
	return p, nil
}

// loadAgenda fetches every collection for display. A collection that cannot
// be fetched is reported and shown empty; the command fails only when none
// could be fetched.
func loadAgenda(ctx context.Context) (*service.Planner, error) {
	p := newPlanner(nil)
	failed := 0
	for _, kind := range service.KindNames {
		if err := p.RefreshKinds(ctx, kind); err != nil {
			failed++
			log.Printf("load %s: %v", kind, err)
		}
	}
	if failed == len(service.KindNames) {
		return nil, errors.New("load planner: gateway unreachable")
	}
	return p, nil
}
