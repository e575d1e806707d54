package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factcheck/internal/client"
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the fact-check API is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		c := client.FromConfig(cfg.Client)
		status, err := c.Health(ctx)
		if err != nil {
			return fmt.Errorf("%s unreachable: %w", c.Endpoint(), err)
		}

		ts := time.Unix(0, int64(status.Timestamp*float64(time.Second)))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is %s (server time %s)\n",
			c.Endpoint(), status.Status, ts.UTC().Format(time.RFC3339))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
