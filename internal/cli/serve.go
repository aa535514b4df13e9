package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/boostly-network/boostly/internal/daemon"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "Bind address (overrides config)")
	serveCmd.Flags().Int("port", 0, "Listen port (overrides config)")
	serveCmd.Flags().Bool("no-bots", false, "Disable the bot simulator")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Boostly daemon",
	Long: `Start the Boostly daemon: opens the store under ~/.boostly (or
BOOSTLY_HOME), seeds demo data on first run, starts the bot simulator,
and serves the REST API until interrupted.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	home, err := daemon.Home()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(home, 0700); err != nil {
		return fmt.Errorf("create home directory: %w", err)
	}

	cfg, err := daemon.LoadConfig(home)
	if err != nil {
		return err
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.API.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.API.Port = port
	}
	if noBots, _ := cmd.Flags().GetBool("no-bots"); noBots {
		cfg.Bots.Enabled = false
	}

	d, err := daemon.New(home, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Boostly daemon starting on http://%s\n", cfg.ListenAddr())
	return d.Run(ctx)
}
