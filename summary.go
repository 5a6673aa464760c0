package capgain

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// TotalsLabel is the label of the synthetic grand-total bucket. Under the
// lexicographic sort of Rows it lands after every numeric year label.
const TotalsLabel = "Totals"

// YearBucket accumulates classified gains and losses for one calendar year
// (or for the synthetic totals bucket).
type YearBucket struct {
	Year          string
	ShortTermGain Money
	ShortTermLoss Money
	LongTermGain  Money
	LongTermLoss  Money
	Net           Money
}

func (b *YearBucket) add(bucket GainBucket, gainLoss Money) {
	switch bucket {
	case ShortTermGain:
		b.ShortTermGain = b.ShortTermGain.Add(gainLoss)
	case ShortTermLoss:
		b.ShortTermLoss = b.ShortTermLoss.Add(gainLoss)
	case LongTermGain:
		b.LongTermGain = b.LongTermGain.Add(gainLoss)
	case LongTermLoss:
		b.LongTermLoss = b.LongTermLoss.Add(gainLoss)
	}
	b.Net = b.Net.Add(gainLoss)
}

func (b *YearBucket) merge(o *YearBucket) {
	b.ShortTermGain = b.ShortTermGain.Add(o.ShortTermGain)
	b.ShortTermLoss = b.ShortTermLoss.Add(o.ShortTermLoss)
	b.LongTermGain = b.LongTermGain.Add(o.LongTermGain)
	b.LongTermLoss = b.LongTermLoss.Add(o.LongTermLoss)
	b.Net = b.Net.Add(o.Net)
}

// YearSummary accumulates classified gains/losses into per-calendar-year
// buckets, keyed by the sale's year, plus an always-present totals bucket
// updated in parallel with every per-year update.
type YearSummary struct {
	years  map[string]*YearBucket
	totals *YearBucket
}

// NewYearSummary creates an empty summary with its totals bucket.
func NewYearSummary() *YearSummary {
	return &YearSummary{
		years:  make(map[string]*YearBucket),
		totals: &YearBucket{Year: TotalsLabel},
	}
}

// Add accumulates one classified gain/loss under the sale's calendar year
// and the totals bucket.
func (s *YearSummary) Add(saleDate time.Time, bucket GainBucket, gainLoss Money) {
	label := strconv.Itoa(saleDate.Year())
	yb, ok := s.years[label]
	if !ok {
		yb = &YearBucket{Year: label}
		s.years[label] = yb
	}
	yb.add(bucket, gainLoss)
	s.totals.add(bucket, gainLoss)
}

// Merge folds another summary into this one. Accumulation is commutative
// and associative, so partial summaries built per asset merge in any order.
func (s *YearSummary) Merge(o *YearSummary) {
	for label, ob := range o.years {
		yb, ok := s.years[label]
		if !ok {
			yb = &YearBucket{Year: label}
			s.years[label] = yb
		}
		yb.merge(ob)
	}
	s.totals.merge(o.totals)
}

// Bucket returns the bucket for a year label (or TotalsLabel).
func (s *YearSummary) Bucket(label string) (YearBucket, bool) {
	if label == TotalsLabel {
		return *s.totals, true
	}
	yb, ok := s.years[label]
	if !ok {
		return YearBucket{}, false
	}
	return *yb, true
}

// Rows returns all buckets, the totals bucket included, sorted
// lexicographically by label.
func (s *YearSummary) Rows() []YearBucket {
	rows := make([]YearBucket, 0, len(s.years)+1)
	for _, yb := range s.years {
		rows = append(rows, *yb)
	}
	rows = append(rows, *s.totals)
	slices.SortFunc(rows, func(a, b YearBucket) int {
		return strings.Compare(a.Year, b.Year)
	})
	return rows
}
