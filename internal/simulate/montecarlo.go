package simulate

import (
	"context"

	"go.uber.org/zap"
)

// TrialSummary aggregates repeated simulated days.
type TrialSummary struct {
	Trials      int   `json:"trials"`
	Undelivered Stats `json:"undelivered"`
	FillerShare Stats `json:"filler_share"`
	Rejected    Stats `json:"rejected"`
}

// RunMonteCarlo repeats RunDay with seeds p.Seed, p.Seed+1, ...
func RunMonteCarlo(ctx context.Context, s Setup, p Params, trials int) (TrialSummary, error) {
	if trials <= 0 {
		return TrialSummary{}, nil
	}
	quiet := s
	quiet.Logger = zap.NewNop()

	undelivered := make([]float64, trials)
	fillerShare := make([]float64, trials)
	rejected := make([]float64, trials)
	for i := 0; i < trials; i++ {
		tp := p
		tp.Seed = p.Seed + uint64(i)
		r, err := RunDay(ctx, quiet, tp)
		if err != nil {
			return TrialSummary{}, err
		}
		undelivered[i] = float64(r.Undelivered)
		fillerShare[i] = r.FillerShare()
		rejected[i] = float64(r.Rejected)
	}
	return TrialSummary{
		Trials:      trials,
		Undelivered: calcStats(undelivered),
		FillerShare: calcStats(fillerShare),
		Rejected:    calcStats(rejected),
	}, nil
}
