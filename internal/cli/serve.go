package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/checker"
	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/server"
	"github.com/ppiankov/factcheck/internal/worker"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fact-check API",
	Long: `Serve starts the HTTP API used by 'factcheck check', 'factcheck tui'
and the browser front end:

  GET  /            banner and endpoint list
  GET  /health      {"status":"healthy","timestamp":...}
  POST /fact-check  {"text":"..."} -> claims and verdicts

Claims are extracted and checked with an OpenAI-compatible chat API.
Perplexity Sonar is the default; set PERPLEXITY_API_KEY (or OPENAI_API_KEY
with --llm-provider openai).

Example:
  factcheck serve
  factcheck serve --addr :8080 --workers 8 --cache-type redis
  FACTCHECK_CACHE_REDIS_URL=redis://localhost:6379/0 factcheck serve --cache-type redis`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":5000", "listen address")
	serveCmd.Flags().String("llm-provider", "perplexity", "LLM provider (perplexity, openai, ollama)")
	serveCmd.Flags().String("llm-model", "", "LLM model name (default: provider preset)")
	serveCmd.Flags().Int("workers", 4, "claims checked concurrently per request")
	serveCmd.Flags().String("cache-type", "memory", "verdict cache (memory, disk, layered, redis)")
	serveCmd.Flags().Bool("no-cache", false, "disable the verdict cache")
	serveCmd.Flags().String("http-proxy", "", "HTTP proxy for LLM calls")
	serveCmd.Flags().String("https-proxy", "", "HTTPS proxy for LLM calls")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("llm.provider", serveCmd.Flags().Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.model", serveCmd.Flags().Lookup("llm-model"))
	_ = viper.BindPFlag("concurrency.workers", serveCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("cache.type", serveCmd.Flags().Lookup("cache-type"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	logger, err := newLogger(cfg, "")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	llmCfg := llm.ConfigFromModel(cfg.LLM)
	llmCfg.HTTPProxy, _ = cmd.Flags().GetString("http-proxy")
	llmCfg.HTTPSProxy, _ = cmd.Flags().GetString("https-proxy")
	if cmd.Flags().Changed("llm-provider") && !cmd.Flags().Changed("llm-model") {
		// Use the new provider's preset model rather than the configured one
		llmCfg.Model = ""
	}

	ch, closeCache, err := buildChecker(cfg, llmCfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !ch.Provider().IsAvailable(ctx) {
		logger.Warn("LLM provider not configured", zap.String("provider", ch.Provider().Name()))
	}

	if !cfg.Output.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	fmt.Fprintf(os.Stderr, "✓ factcheck API on %s (provider: %s, workers: %d, cache: %s)\n",
		cfg.Server.Addr, ch.Provider().Name(), cfg.Concurrency.Workers, cacheLabel(cfg.Cache))

	return server.New(ch, cfg.Server, logger).ListenAndServe(ctx)
}

// buildChecker wires provider, limiter and cache into a checker.
// The returned func releases the cache.
func buildChecker(cfg *model.Config, llmCfg llm.Config, logger *zap.Logger) (*checker.Checker, func(), error) {
	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		if env := llm.KeyEnv(llmCfg.Provider); env != "" {
			return nil, nil, fmt.Errorf("create LLM provider: %w (set %s)", err, env)
		}
		return nil, nil, fmt.Errorf("create LLM provider: %w", err)
	}

	verdicts, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("create cache: %w", err)
	}
	closeCache := func() {
		if rc, ok := verdicts.(*cache.RedisCache); ok {
			_ = rc.Close()
		}
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	ch := checker.New(provider,
		checker.WithCache(verdicts, cfg.Cache.TTL),
		checker.WithLimiter(limiter),
		checker.WithWorkers(cfg.Concurrency.Workers),
		checker.WithModelName(llmCfg.Model),
		checker.WithLogger(logger.Named("checker")),
	)
	return ch, closeCache, nil
}

func cacheLabel(c model.CacheConfig) string {
	if !c.Enabled {
		return "off"
	}
	return c.Type
}
