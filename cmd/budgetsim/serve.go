package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/budgetsim/internal/common"
	"github.com/Veraticus/budgetsim/internal/config"
	"github.com/Veraticus/budgetsim/internal/server"
	"github.com/Veraticus/budgetsim/internal/simulation"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator as a JSON HTTP API",
		Long: `Serve POST /simulate, GET /download/{filename} and GET /healthz.

The rule-based advisor is always available. The llm advisor is enabled when
an LLM provider is configured, and becomes the default with --advisor llm.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from server.addr, :8080)")
	cmd.Flags().String("export-dir", "", "Directory for exported CSV files (default from export.dir)")
	cmd.Flags().String("advisor", config.AdvisorRules, "Default recommendation advisor (rules, llm)")
	cmd.Flags().Bool("no-llm", false, "Do not enable the llm advisor")

	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("export.dir", cmd.Flags().Lookup("export-dir"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return common.NewUserError("invalid configuration", err)
	}

	advisor := advisorFlag(cmd, settings)
	noLLM, _ := cmd.Flags().GetBool("no-llm")

	opts := []server.Option{
		server.WithLogger(slog.Default()),
		server.WithDefaultAdvisor(advisor),
	}
	if !noLLM {
		strategy, err := newStrategy(settings, config.AdvisorLLM)
		if err != nil {
			if advisor == config.AdvisorLLM {
				return err
			}
			slog.Warn("llm advisor disabled", "error", err)
		} else {
			opts = append(opts, server.WithStrategy(config.AdvisorLLM, strategy))
		}
	}

	engine := simulation.NewEngine(simulation.WithLogger(slog.Default()))
	srv := server.New(engine, settings.ExportDir, opts...)
	return srv.ListenAndServe(cmd.Context(), settings.Addr)
}
