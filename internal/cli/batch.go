package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factcheck/internal/client"
	"github.com/ppiankov/factcheck/internal/controller"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/view"
	"github.com/ppiankov/factcheck/internal/worker"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Fact-check many texts from a file in parallel",
	Long: `Batch reads texts from a file (one per line; blank lines and lines
starting with # are skipped, duplicates are checked once), sends them to the
API with a configurable number of workers, and writes one report per text.

Example:
  factcheck batch statements.txt
  factcheck batch statements.txt --concurrency 4 --output-dir ./reports --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", 2, "number of concurrent requests")
	batchCmd.Flags().String("output-dir", "./factcheck-reports", "output directory for reports")
	batchCmd.Flags().String("report-format", "json", "report format (text, markdown, json, html)")
	batchCmd.Flags().Duration("timeout", 10*time.Minute, "total timeout for batch processing")
}

// textJob checks one line of the batch file
type textJob struct {
	index  int
	text   string
	client controller.Checker
}

func (j *textJob) Execute(ctx context.Context) worker.Result {
	resp, err := j.client.Check(ctx, j.text)
	return &textResult{index: j.index, text: j.text, resp: resp, err: err}
}

// textResult is the outcome of a textJob
type textResult struct {
	index int
	text  string
	resp  *model.FactCheckResponse
	err   error
}

func (r *textResult) GetIndex() int   { return r.index }
func (r *textResult) GetError() error { return r.err }

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	formatName, _ := cmd.Flags().GetString("report-format")
	batchTimeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := view.ParseFormat(formatName)
	if err != nil {
		return err
	}

	texts, err := readTextsFromFile(file)
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	c := client.FromConfig(cfg.Client)

	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  factcheck batch\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Input file:   %s (%d texts)\n", file, len(texts))
	fmt.Fprintf(errOut, "  Endpoint:     %s\n", c.Endpoint())
	fmt.Fprintf(errOut, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(errOut, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(errOut, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	results := checkTexts(ctx, c, texts, concurrency)

	renderer := view.NewRenderer(view.PlainStyles())
	failures := 0
	for _, r := range results {
		if r.err != nil {
			failures++
			fmt.Fprintf(errOut, "✗ #%d %s: %v\n", r.index+1, preview(r.text), r.err)
			continue
		}

		res := view.Build(r.resp)
		path := filepath.Join(outputDir, fmt.Sprintf("text-%03d%s", r.index+1, reportExt(format)))
		if err := writeReport(renderer, path, format, res); err != nil {
			failures++
			fmt.Fprintf(errOut, "✗ #%d: %v\n", r.index+1, err)
			continue
		}
		fmt.Fprintf(errOut, "✓ #%d %s (%d claims)\n", r.index+1, preview(r.text), len(res.Entries))
	}

	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Total:     %d texts\n", len(results))
	fmt.Fprintf(errOut, "  Success:   %d\n", len(results)-failures)
	fmt.Fprintf(errOut, "  Failures:  %d\n", failures)
	fmt.Fprintf(errOut, "\n")

	if failures > 0 {
		return fmt.Errorf("%d of %d texts failed", failures, len(results))
	}
	return nil
}

// checkTexts runs one request per text and returns results in input order
func checkTexts(ctx context.Context, c controller.Checker, texts []string, concurrency int) []*textResult {
	pool := worker.NewPool(ctx, concurrency)
	pool.Start()

	for i, text := range texts {
		if !pool.Submit(&textJob{index: i, text: text, client: c}) {
			break
		}
	}

	raw := pool.Wait()
	results := make([]*textResult, 0, len(texts))
	for _, r := range raw {
		results = append(results, r.(*textResult))
	}
	// Jobs never queued or dropped on cancellation still get a row
	if len(results) < len(texts) {
		done := make(map[int]bool, len(results))
		for _, r := range results {
			done[r.index] = true
		}
		for i, text := range texts {
			if !done[i] {
				results = append(results, &textResult{index: i, text: text, err: fmt.Errorf("not checked: %w", ctx.Err())})
			}
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})
	return results
}

func writeReport(renderer *view.Renderer, path string, format view.Format, res view.Results) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close report: %w", closeErr)
		}
	}()

	if err := renderer.Render(f, format, res); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func reportExt(format view.Format) string {
	switch format {
	case view.FormatJSON:
		return ".json"
	case view.FormatMarkdown:
		return ".md"
	case view.FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

func preview(text string) string {
	const n = 48
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n-3]) + "..."
}

// readTextsFromFile reads one text per line, skipping blanks, comments and duplicates
func readTextsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var texts []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			texts = append(texts, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return texts, nil
}
