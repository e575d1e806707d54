package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/client"
	"github.com/ppiankov/factcheck/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive fact-checking in the terminal",
	Long: `Tui opens an interactive screen: type or paste text, press ctrl+s to
check it against the API, ctrl+l to clear, esc to quit.

Diagnostics go to client.log_file (--log-file) since the screen owns the
terminal; without one they are discarded.

Example:
  factcheck tui
  factcheck tui --endpoint http://factcheck.internal:5000 --log-file /tmp/factcheck.log`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().String("log-file", "", "write diagnostics to this file")
	_ = viper.BindPFlag("client.log_file", tuiCmd.Flags().Lookup("log-file"))
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if cfg.Client.LogFile != "" {
		if logger, err = newLogger(cfg, cfg.Client.LogFile); err != nil {
			return err
		}
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.FromConfig(cfg.Client)
	logger.Info("tui started", zap.String("endpoint", c.Endpoint()))

	return tui.Run(ctx, c, tui.WithLogger(logger))
}
