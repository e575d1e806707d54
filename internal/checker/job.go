package checker

import (
	"context"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/worker"
)

// claimJob checks a single extracted claim
type claimJob struct {
	index   int
	claim   string
	checker *Checker
}

// Execute runs the claim check
func (j *claimJob) Execute(ctx context.Context) worker.Result {
	verdict, err := j.checker.CheckClaim(ctx, j.claim)
	return &claimOutcome{
		index:  j.index,
		result: model.ClaimResult{Claim: j.claim, Result: verdict},
		err:    err,
	}
}

// claimOutcome carries the verdict and the provider error, if any
type claimOutcome struct {
	index  int
	result model.ClaimResult
	err    error
}

func (o *claimOutcome) GetIndex() int   { return o.index }
func (o *claimOutcome) GetError() error { return o.err }
