package capgain

import (
	"runtime"
	"sync"
)

// Report contains the results of a FIFO capital gains calculation: one
// detail table per asset (in order of first appearance in the ledger), the
// cross-asset margin table, and the year summary.
type Report struct {
	Assets  []*AssetResult
	Margins []MatchedLot
	Years   *YearSummary
}

// Calculate partitions the ledger by asset and matches every asset to
// completion, sequentially.
func Calculate(l *Ledger) (*Report, error) {
	pairs := buildAssetQueues(l)
	results := make([]*AssetResult, len(pairs))
	for i, pair := range pairs {
		res, err := matchAsset(pair)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}
	return assemble(results), nil
}

// CalculateConcurrent matches assets on independent workers. Assets share
// no mutable state after partitioning, so each worker accumulates into the
// private aggregates of its AssetResult; margins and year buckets are
// merged in asset order at the join point, making the output identical to
// Calculate.
func CalculateConcurrent(l *Ledger, workers int) (*Report, error) {
	pairs := buildAssetQueues(l)
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	results := make([]*AssetResult, len(pairs))
	errs := make([]error, len(pairs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = matchAsset(pairs[i])
			}
		}()
	}
	for i := range pairs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return assemble(results), nil
}

func assemble(results []*AssetResult) *Report {
	report := &Report{Years: NewYearSummary()}
	for _, res := range results {
		report.Assets = append(report.Assets, res)
		report.Margins = append(report.Margins, res.Margins...)
		report.Years.Merge(res.years)
	}
	return report
}
