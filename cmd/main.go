// Command medbench renders the state-of-the-art progression of healthcare AI
// benchmarks and can serve it over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/okian/medbench/internal/config"
)

// rootFlags override configuration after it is loaded.
type rootFlags struct {
	configFile  string
	dataDir     string
	outputDir   string
	preferCache bool
}

func main() {
	// Metrics live on a custom registry; keep the default one empty.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "medbench",
		Short:        "Chart the state of the art on healthcare AI benchmarks",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "YAML config file (overrides "+config.EnvFile+")")
	cmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "directory holding the benchmark CSV files")
	cmd.PersistentFlags().StringVar(&flags.outputDir, "output-dir", "", "directory for rendered charts")
	cmd.PersistentFlags().BoolVar(&flags.preferCache, "prefer-cache", false, "use the cached MAST metrics file without fetching")

	render := newRenderCmd(flags)
	cmd.RunE = render.RunE
	cmd.AddCommand(render, newServeCmd(flags))
	return cmd
}

// loadConfig loads configuration and applies flag overrides.
func loadConfig(ctx context.Context, flags *rootFlags) (*config.Config, error) {
	if flags.configFile != "" {
		if err := os.Setenv(config.EnvFile, flags.configFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.outputDir != "" {
		cfg.OutputDir = flags.outputDir
	}
	if flags.preferCache {
		cfg.PreferCache = true
	}
	return cfg, nil
}
