package checker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/worker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

// fakeProvider answers from fixed tables
type fakeProvider struct {
	claims     []string
	extractErr error
	verdicts   map[string]model.VerdictDetail
	claimErrs  map[string]error
	delay      time.Duration

	mu      sync.Mutex
	checked []string

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) ExtractClaims(ctx context.Context, text string) ([]string, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.claims, nil
}

func (f *fakeProvider) CheckClaim(ctx context.Context, claim string) (*model.VerdictDetail, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxInFlight.Load()
		if n <= peak || f.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.checked = append(f.checked, claim)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := f.claimErrs[claim]; err != nil {
		return nil, err
	}
	v := f.verdicts[claim]
	return &v, nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.checked)
}

func TestChecker_Check(t *testing.T) {
	provider := &fakeProvider{
		claims: []string{"The sky is green.", "", "Water boils at 100C at sea level."},
		verdicts: map[string]model.VerdictDetail{
			"The sky is green.": {
				Verdict: "FALSE", Confidence: 95,
				Explanation: "The sky appears blue.", Sources: []string{"NASA"},
			},
			"Water boils at 100C at sea level.": {
				Verdict: "TRUE", Confidence: 99,
				Explanation: "Standard pressure.", Sources: []string{},
			},
		},
	}

	c := New(provider, WithWorkers(2))
	c.now = func() time.Time { return time.Unix(1700000000, 500000000) }

	resp, err := c.Check(context.Background(), "The sky is green. Water boils at 100C.")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}

	want := &model.FactCheckResponse{
		OriginalText: "The sky is green. Water boils at 100C.",
		ClaimsFound:  2,
		FactCheckResults: []model.ClaimResult{
			{Claim: "The sky is green.", Result: provider.verdicts["The sky is green."]},
			{Claim: "Water boils at 100C at sea level.", Result: provider.verdicts["Water boils at 100C at sea level."]},
		},
		Timestamp: 1700000000.5,
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("Check() mismatch (-want +got):\n%s", diff)
	}
}

func TestChecker_NoClaims(t *testing.T) {
	c := New(&fakeProvider{})

	resp, err := c.Check(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if resp.ClaimsFound != 0 {
		t.Errorf("expected 0 claims, got %d", resp.ClaimsFound)
	}
	if resp.FactCheckResults == nil {
		t.Error("expected an empty, non-nil result list")
	}
}

func TestChecker_ExtractError(t *testing.T) {
	c := New(&fakeProvider{extractErr: errors.New("upstream down")})

	_, err := c.Check(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "extract claims: upstream down") {
		t.Errorf("expected wrapped extraction error, got %v", err)
	}
}

func TestChecker_ClaimErrorBecomesErrorVerdict(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	provider := &fakeProvider{
		claims:    []string{"a", "b"},
		verdicts:  map[string]model.VerdictDetail{"a": {Verdict: "TRUE", Confidence: 90}},
		claimErrs: map[string]error{"b": errors.New("timeout")},
	}

	c := New(provider, WithWorkers(2), WithLogger(zap.New(core)))
	resp, err := c.Check(context.Background(), "text")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}

	got := resp.FactCheckResults[1].Result
	want := model.VerdictDetail{
		Verdict:     model.VerdictError,
		Confidence:  0,
		Explanation: "Error: timeout",
		Sources:     []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("error verdict mismatch (-want +got):\n%s", diff)
	}
	if resp.FactCheckResults[0].Result.Verdict != "TRUE" {
		t.Errorf("first claim should be unaffected, got %q", resp.FactCheckResults[0].Result.Verdict)
	}
	if logs.FilterMessage("claim check failed").Len() != 1 {
		t.Errorf("expected one warning, got %v", logs.All())
	}
}

func TestChecker_PreservesOrderUnderConcurrency(t *testing.T) {
	claims := make([]string, 12)
	for i := range claims {
		claims[i] = strings.Repeat("x", i+1)
	}
	provider := &fakeProvider{claims: claims, delay: 10 * time.Millisecond}

	c := New(provider, WithWorkers(4))
	resp, err := c.Check(context.Background(), "text")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}

	for i, r := range resp.FactCheckResults {
		if r.Claim != claims[i] {
			t.Errorf("result %d: expected %q, got %q", i, claims[i], r.Claim)
		}
	}
	if peak := provider.maxInFlight.Load(); peak > 4 {
		t.Errorf("expected at most 4 concurrent checks, got %d", peak)
	}
}

func TestChecker_CacheHit(t *testing.T) {
	provider := &fakeProvider{
		claims:   []string{"The Earth orbits the Sun."},
		verdicts: map[string]model.VerdictDetail{"The Earth orbits the Sun.": {Verdict: "TRUE", Confidence: 100}},
	}
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	c := New(provider, WithCache(mem, time.Minute), WithModelName("m"))

	for i := 0; i < 2; i++ {
		resp, err := c.Check(context.Background(), "text")
		if err != nil {
			t.Fatalf("Check() error: %v", err)
		}
		if resp.FactCheckResults[0].Result.Verdict != "TRUE" {
			t.Errorf("run %d: unexpected verdict %q", i, resp.FactCheckResults[0].Result.Verdict)
		}
	}

	if provider.calls() != 1 {
		t.Errorf("expected provider to be called once, got %d", provider.calls())
	}
	if mem.Len() != 1 {
		t.Errorf("expected one cached verdict, got %d", mem.Len())
	}
}

func TestChecker_ErrorsAreNotCached(t *testing.T) {
	provider := &fakeProvider{
		claims:    []string{"a"},
		claimErrs: map[string]error{"a": errors.New("boom")},
	}
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	c := New(provider, WithCache(mem, time.Minute))

	_, _ = c.Check(context.Background(), "text")
	_, _ = c.Check(context.Background(), "text")

	if provider.calls() != 2 {
		t.Errorf("expected both runs to reach the provider, got %d", provider.calls())
	}
}

func TestChecker_Cancelled(t *testing.T) {
	provider := &fakeProvider{claims: []string{"a", "b", "c"}, delay: time.Second}
	c := New(provider, WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Check(ctx, "text")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("check did not stop promptly after cancellation")
	}
}

func TestChecker_RateLimited(t *testing.T) {
	provider := &fakeProvider{claims: []string{"a", "b"}}
	limiter := worker.NewLimiter(1, 1)
	c := New(provider, WithLimiter(limiter))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Extraction takes the only token; claims would have to wait a full second.
	resp, err := c.Check(ctx, "text")
	if provider.calls() != 0 {
		t.Errorf("expected no claim checks within the deadline, got %d", provider.calls())
	}
	if err != nil {
		return
	}
	for _, r := range resp.FactCheckResults {
		if r.Result.Verdict != model.VerdictError {
			t.Errorf("claim %q: expected ERROR verdict, got %q", r.Claim, r.Result.Verdict)
		}
	}
}
