package main

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/notorious-go/turnstile/internal/demo"
	"github.com/notorious-go/turnstile/internal/log"
)

var descriptions = map[string]string{
	"barbershop":      "One barber, a bounded waiting room, customers served in arrival order",
	"barrier":         "Members meet at a reusable barrier round after round",
	"mutex":           "Workers share a counter under a starvation-free mutex",
	"philosophers":    "Diners share forks at a round table (footman, tanenbaum, ordered)",
	"readers-writers": "Readers share a room that writers use alone (no-starve, reader-priority, writer-priority)",
	"sushi":           "Customers fill a bar and wait for the whole party to leave (hand-off, pass-the-baton)",
}

func newRootCommand(cfg *demo.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           processName,
		Short:         "Stress synchronization protocols built from semaphores",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(*cobra.Command, []string) {
			log.SetLevel(logrus.StandardLogger(), cfg.LogLevel)
		},
	}
	addFlags(root.PersistentFlags(), cfg)
	for _, name := range demo.Names() {
		root.AddCommand(newWorkloadCommand(name, cfg))
	}
	root.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run every workload in turn, each with its default strategy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := *cfg
			c.Strategy = ""
			for _, name := range demo.Names() {
				if err := demo.Run(cmd.Context(), name, &c); err != nil {
					return err
				}
			}
			return nil
		},
	})
	return root
}

func newWorkloadCommand(name string, cfg *demo.Config) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: descriptions[name],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return demo.Run(cmd.Context(), name, cfg)
		},
	}
}

// addFlags binds cfg to flags whose defaults are the values already loaded
// from the environment.
func addFlags(flags *pflag.FlagSet, cfg *demo.Config) {
	flags.IntVarP(&cfg.Members, "members", "n", cfg.Members,
		"Number of goroutines taking part")
	flags.IntVarP(&cfg.Rounds, "rounds", "r", cfg.Rounds,
		"Number of times each member goes through the protocol")
	flags.IntVarP(&cfg.Capacity, "capacity", "c", cfg.Capacity,
		"Seats at the sushi bar, or waiting chairs in the barbershop")
	flags.IntVar(&cfg.Crowd, "crowd", cfg.Crowd,
		"Customers out at the same time; negative means all of them")
	flags.DurationVar(&cfg.Duration, "duration", cfg.Duration,
		"How long a workload may run before it is reported as stuck")
	flags.StringVarP(&cfg.Strategy, "strategy", "s", cfg.Strategy,
		"Protocol variant; empty picks the workload's default")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel,
		"Log level: "+strings.Join([]string{"error", "warning", "info", "debug", "trace"}, ", "))
}
