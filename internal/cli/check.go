package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factcheck/internal/client"
	"github.com/ppiankov/factcheck/internal/controller"
	"github.com/ppiankov/factcheck/internal/view"
)

const maxInputBytes = 1 << 20

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text|-]",
	Short: "Fact-check text through the API and print the verdicts",
	Long: `Check sends text to a running fact-check API (see 'factcheck serve')
and prints one entry per extracted claim: verdict, confidence, analysis
and sources.

Text is taken from the arguments, or from stdin when the only argument
is "-" or no argument is given.

Example:
  factcheck check "The Great Wall of China is visible from space."
  cat article.txt | factcheck check --format markdown
  factcheck check --endpoint https://factcheck.example.com --format json -`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("format", "f", "text", "output format (text, markdown, json, html)")
	checkCmd.Flags().Duration("timeout", 2*time.Minute, "request timeout")

	_ = viper.BindPFlag("output.format", checkCmd.Flags().Lookup("format"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := view.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, "")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	c := client.FromConfig(cfg.Client)
	if cfg.Output.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Endpoint: %s\n", c.Endpoint())
	}

	display := &streamDisplay{
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		renderer: view.NewRenderer(terminalStyles(cmd.OutOrStdout(), format)),
		format:   format,
		progress: cfg.Output.Verbose,
	}

	ctrl := controller.New(c, display, controller.WithLogger(logger))
	if err := ctrl.Submit(ctx, text); err != nil {
		if errors.Is(err, controller.ErrEmptyInput) {
			return fmt.Errorf("no text to check")
		}
		return fmt.Errorf("fact-check failed: %w", err)
	}
	return display.err
}

// readInput joins the arguments, or reads stdin for "-" or no arguments
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(io.LimitReader(stdin, maxInputBytes))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
