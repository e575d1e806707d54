// Package checker runs the server side of a fact-check: claim extraction
// followed by one verdict per claim.
package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/worker"
)

// Checker extracts claims from text and checks them concurrently
type Checker struct {
	provider  llm.Provider
	modelName string
	cache     cache.Cache
	cacheTTL  time.Duration
	limiter   *worker.Limiter
	workers   int
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Checker
type Option func(*Checker)

// WithCache stores verdicts in c; a nil cache disables caching
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(ch *Checker) {
		ch.cache = c
		ch.cacheTTL = ttl
	}
}

// WithLimiter throttles provider calls
func WithLimiter(l *worker.Limiter) Option {
	return func(ch *Checker) {
		ch.limiter = l
	}
}

// WithWorkers sets how many claims are checked at once
func WithWorkers(n int) Option {
	return func(ch *Checker) {
		ch.workers = n
	}
}

// WithModelName scopes cache keys to a model
func WithModelName(name string) Option {
	return func(ch *Checker) {
		ch.modelName = name
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(l *zap.Logger) Option {
	return func(ch *Checker) {
		ch.logger = l
	}
}

// New creates a Checker backed by provider
func New(provider llm.Provider, opts ...Option) *Checker {
	c := &Checker{
		provider: provider,
		workers:  1,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.limiter == nil {
		c.limiter = worker.NewLimiter(0, 1)
	}
	return c
}

// Provider returns the underlying provider
func (c *Checker) Provider() llm.Provider {
	return c.provider
}

// Check extracts the claims in text and returns one result per claim, in
// extraction order. A failure on a single claim becomes an ERROR verdict
// for that claim; only extraction failures and cancellation fail the call.
func (c *Checker) Check(ctx context.Context, text string) (*model.FactCheckResponse, error) {
	if err := c.limiter.Wait(ctx, c.provider.Name()); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	extracted, err := c.provider.ExtractClaims(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}

	var claims []string
	for _, claim := range extracted {
		if strings.TrimSpace(claim) != "" {
			claims = append(claims, claim)
		}
	}
	c.logger.Debug("claims extracted", zap.Int("count", len(claims)))

	results, err := c.checkAll(ctx, claims)
	if err != nil {
		return nil, err
	}

	return &model.FactCheckResponse{
		OriginalText:     text,
		ClaimsFound:      len(results),
		FactCheckResults: results,
		Timestamp:        float64(c.now().UnixNano()) / float64(time.Second),
	}, nil
}

func (c *Checker) checkAll(ctx context.Context, claims []string) ([]model.ClaimResult, error) {
	results := make([]model.ClaimResult, 0, len(claims))
	if len(claims) == 0 {
		return results, nil
	}

	workers := c.workers
	if workers > len(claims) {
		workers = len(claims)
	}

	pool := worker.NewPool(ctx, workers)
	pool.Start()

	for i, claim := range claims {
		if !pool.Submit(&claimJob{index: i, claim: claim, checker: c}) {
			pool.Shutdown()
			return nil, fmt.Errorf("check claims: %w", ctx.Err())
		}
	}

	outcomes := pool.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check claims: %w", err)
	}

	for _, o := range outcomes {
		outcome := o.(*claimOutcome)
		if outcome.err != nil {
			c.logger.Warn("claim check failed",
				zap.Int("index", outcome.index),
				zap.String("claim", outcome.result.Claim),
				zap.Error(outcome.err))
		}
		results = append(results, outcome.result)
	}
	return results, nil
}

// CheckClaim returns the verdict for one claim, consulting the cache first
func (c *Checker) CheckClaim(ctx context.Context, claim string) (model.VerdictDetail, error) {
	key := cache.VerdictKey(c.provider.Name(), c.modelName, claim)

	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			var cached model.VerdictDetail
			if err := json.Unmarshal(data, &cached); err == nil {
				c.logger.Debug("verdict cache hit", zap.String("claim", claim))
				return cached, nil
			}
		}
	}

	if err := c.limiter.Wait(ctx, c.provider.Name()); err != nil {
		return errorVerdict(err), err
	}

	verdict, err := c.provider.CheckClaim(ctx, claim)
	if err != nil {
		return errorVerdict(err), err
	}

	if c.cache != nil {
		if data, err := json.Marshal(verdict); err == nil {
			if err := c.cache.Set(key, data, c.cacheTTL); err != nil {
				c.logger.Warn("verdict cache write failed", zap.Error(err))
			}
		}
	}

	return *verdict, nil
}

func errorVerdict(err error) model.VerdictDetail {
	return model.VerdictDetail{
		Verdict:     model.VerdictError,
		Confidence:  0,
		Explanation: "Error: " + err.Error(),
		Sources:     []string{},
	}
}
